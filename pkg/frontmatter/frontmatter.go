package frontmatter

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/quill/internal/errors"
)

// Kind identifies the syntax of a frontmatter block.
type Kind int

const (
	// KindNone means the file has no frontmatter.
	KindNone Kind = iota
	// KindYAML is a block delimited by "---".
	KindYAML
	// KindTOML is a block delimited by "+++".
	KindTOML
)

func (k Kind) String() string {
	switch k {
	case KindYAML:
		return "yaml"
	case KindTOML:
		return "toml"
	default:
		return "none"
	}
}

func (k Kind) delimiter() string {
	if k == KindTOML {
		return "+++"
	}
	return "---"
}

// Result is a parsed content file.
type Result struct {
	// Data is the decoded frontmatter. It is never nil.
	Data map[string]any
	// Content is the text following the closing delimiter.
	Content string
	// Raw is the file text from the opening delimiter through the closing
	// delimiter, so line numbers in Raw are file line numbers.
	Raw string
	// Kind is the syntax of the block.
	Kind Kind
}

// Location is a position in a source file.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// SyntaxError reports a frontmatter block that could not be decoded.
type SyntaxError struct {
	// ID is the path of the file that failed.
	ID      string   `json:"id"`
	Loc     Location `json:"loc"`
	Message string   `json:"message"`
	Err     error    `json:"-"`
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Loc.File, e.Loc.Line, e.Loc.Column, e.Message)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Is matches the frontmatter syntax kind and the invalid-input category.
func (e *SyntaxError) Is(target error) bool {
	return target == errors.ErrFrontmatterSyntax || target == errors.ErrInvalidInput
}

// block is the result of splitting a file on its delimiters.
type block struct {
	kind   Kind
	matter string
	raw    string
	body   string
}

// Parse splits fileContents into frontmatter and body and decodes the
// frontmatter. filePath is used only for error locations.
func Parse(fileContents, filePath string) (*Result, error) {
	b, err := split(fileContents, filePath)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Data:    map[string]any{},
		Content: b.body,
		Raw:     b.raw,
		Kind:    b.kind,
	}

	switch b.kind {
	case KindYAML:
		if err := decodeYAML(b.matter, res.Data); err != nil {
			return nil, yamlSyntaxError(filePath, err)
		}
	case KindTOML:
		if err := toml.Unmarshal([]byte(b.matter), &res.Data); err != nil {
			return nil, tomlSyntaxError(filePath, err)
		}
	}

	return res, nil
}

// Raw returns the frontmatter text of fileContents including delimiters, or
// the empty string when there is none.
func Raw(fileContents string) string {
	b, err := split(fileContents, "")
	if err != nil {
		return ""
	}
	return b.raw
}

func split(src, filePath string) (block, error) {
	firstEnd := strings.IndexByte(src, '\n')
	if firstEnd < 0 {
		return block{body: src}, nil
	}

	var kind Kind
	switch strings.TrimRight(src[:firstEnd], "\r") {
	case "---":
		kind = KindYAML
	case "+++":
		kind = KindTOML
	default:
		return block{body: src}, nil
	}

	delim := kind.delimiter()
	start := firstEnd + 1
	for pos := start; pos <= len(src); {
		end := strings.IndexByte(src[pos:], '\n')
		lineEnd := len(src)
		if end >= 0 {
			lineEnd = pos + end
		}

		if strings.TrimRight(src[pos:lineEnd], " \t\r") == delim {
			body := ""
			if lineEnd < len(src) {
				body = src[lineEnd+1:]
			}
			return block{
				kind:   kind,
				matter: src[start:pos],
				raw:    strings.TrimRight(src[:lineEnd], "\r"),
				body:   body,
			}, nil
		}

		if end < 0 {
			break
		}
		pos = lineEnd + 1
	}

	return block{}, &SyntaxError{
		ID:      filePath,
		Loc:     Location{File: filePath, Line: 1},
		Message: fmt.Sprintf("frontmatter is missing its closing %q delimiter", delim),
		Err:     errors.ErrFrontmatterSyntax,
	}
}

func decodeYAML(matter string, into map[string]any) error {
	if strings.TrimSpace(matter) == "" {
		return nil
	}
	dec := yaml.NewDecoder(strings.NewReader(matter))
	var decoded map[string]any
	if err := dec.Decode(&decoded); err != nil {
		return err
	}
	for k, v := range decoded {
		into[k] = v
	}
	return nil
}

var yamlLine = regexp.MustCompile(`^line (\d+):\s*`)

// yamlSyntaxError maps a yaml.v3 error onto the file. yaml.v3 reports
// 1-based lines within the block, so the opening delimiter adds one.
func yamlSyntaxError(filePath string, err error) *SyntaxError {
	msg := err.Error()
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		msg = typeErr.Errors[0]
	}

	msg = strings.TrimPrefix(msg, "yaml: ")
	line := 0
	if m := yamlLine.FindStringSubmatch(msg); m != nil {
		line, _ = strconv.Atoi(m[1])
		msg = msg[len(m[0]):]
	}

	return &SyntaxError{
		ID:      filePath,
		Loc:     Location{File: filePath, Line: line + 1},
		Message: msg,
		Err:     err,
	}
}

func tomlSyntaxError(filePath string, err error) *SyntaxError {
	serr := &SyntaxError{
		ID:      filePath,
		Loc:     Location{File: filePath, Line: 1},
		Message: strings.TrimPrefix(err.Error(), "toml: "),
		Err:     err,
	}

	var decErr *toml.DecodeError
	if errors.As(err, &decErr) {
		row, col := decErr.Position()
		serr.Loc.Line = row + 1
		serr.Loc.Column = col
	}
	return serr
}

// Format renders data and body as a document with a frontmatter block of
// the given kind. KindNone renders the body alone.
func Format(kind Kind, data map[string]any, body string) ([]byte, error) {
	var buf bytes.Buffer

	switch kind {
	case KindNone:
		buf.WriteString(body)
		return buf.Bytes(), nil
	case KindYAML:
		buf.WriteString("---\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return nil, errors.Wrap(err, "encoding YAML frontmatter")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "encoding YAML frontmatter")
		}
		buf.WriteString("---\n")
	case KindTOML:
		buf.WriteString("+++\n")
		out, err := toml.Marshal(data)
		if err != nil {
			return nil, errors.Wrap(err, "encoding TOML frontmatter")
		}
		buf.Write(out)
		buf.WriteString("+++\n")
	default:
		return nil, errors.Newf("unknown frontmatter kind %d", kind)
	}

	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}
