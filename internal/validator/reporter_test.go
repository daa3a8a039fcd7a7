package validator

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestReporter_Report(t *testing.T) {
	result := &Result{Collections: 2, Entries: 5}
	result.Add(Issue{
		Severity:   SeverityError,
		Collection: "blog",
		Entry:      "first.md",
		File:       "src/content/blog/first.md",
		Line:       2,
		Field:      "title",
		Message:    `"title" is required.`,
		Context:    map[string]string{"more": "1 more issue"},
	})
	result.AddWarning("desc", "missing", "some val")

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		reporter := NewReporter(&buf, FormatText)
		if err := reporter.Report(result); err != nil {
			t.Fatalf("Report() error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"Validation failed",
			"1 error(s)",
			"1 warning(s)",
			"(5 entries in 2 collection(s))",
			"blog/first.md src/content/blog/first.md:2",
			`title: "title" is required.`,
			"(more=1 more issue)",
			"desc: missing",
			"[some val]",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		reporter := NewReporter(&buf, FormatJSON)
		if err := reporter.Report(result); err != nil {
			t.Fatalf("Report() error: %v", err)
		}

		var decoded Result
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("failed to decode JSON output: %v", err)
		}

		if len(decoded.Issues) != 2 {
			t.Errorf("decoded issues count = %d, want 2", len(decoded.Issues))
		}
		if decoded.Issues[0].Line != 2 || decoded.Issues[0].Collection != "blog" {
			t.Errorf("first issue = %+v", decoded.Issues[0])
		}
		if decoded.Entries != 5 {
			t.Errorf("entries = %d, want 5", decoded.Entries)
		}
	})

	t.Run("warnings only", func(t *testing.T) {
		var buf bytes.Buffer
		r := &Result{}
		r.AddWarning("", "collection is not defined", nil)
		if err := NewReporter(&buf, FormatText).Report(r); err != nil {
			t.Fatalf("Report() error: %v", err)
		}
		if !strings.Contains(buf.String(), "Validation passed with warnings") {
			t.Errorf("output = %q", buf.String())
		}
	})

	t.Run("empty result text", func(t *testing.T) {
		var buf bytes.Buffer
		reporter := NewReporter(&buf, FormatText)
		if err := reporter.Report(&Result{}); err != nil {
			t.Fatalf("Report() error: %v", err)
		}
		if !strings.Contains(buf.String(), "Validation passed") {
			t.Error("output missing success message")
		}
	})

	t.Run("empty result json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewReporter(&buf, FormatJSON).Report(&Result{}); err != nil {
			t.Fatalf("Report() error: %v", err)
		}
		if !strings.Contains(buf.String(), `"issues": []`) {
			t.Errorf("output = %q", buf.String())
		}
	})

	t.Run("nil result", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewReporter(&buf, FormatText).Report(nil); err != nil {
			t.Fatalf("Report() error: %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("unexpected output %q", buf.String())
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = (%q, %v)", tt.in, got, err)
		}
	}
}
