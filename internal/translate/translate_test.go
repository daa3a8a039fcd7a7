package translate

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

const configYAML = `# comment
collections:
  blog:
    schema:
      title: { type: string, max: 120 }
      tags: string[]?
`

func TestYAMLToTOML(t *testing.T) {
	out, err := YAMLToTOML([]byte(configYAML))
	if err != nil {
		t.Fatalf("YAMLToTOML() error = %v", err)
	}

	var got map[string]any
	if err := toml.Unmarshal(out, &got); err != nil {
		t.Fatalf("output is not TOML: %v\n%s", err, out)
	}
	schema := got["collections"].(map[string]any)["blog"].(map[string]any)["schema"].(map[string]any)
	if schema["tags"] != "string[]?" {
		t.Errorf("tags = %v", schema["tags"])
	}
	title := schema["title"].(map[string]any)
	if title["type"] != "string" || title["max"] != int64(120) {
		t.Errorf("title = %v", title)
	}
	if strings.Contains(string(out), "comment") {
		t.Errorf("comments should be dropped:\n%s", out)
	}
}

func TestYAMLToJSON(t *testing.T) {
	out, err := YAMLToJSON([]byte(configYAML))
	if err != nil {
		t.Fatalf("YAMLToJSON() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if _, ok := got["collections"].(map[string]any)["blog"]; !ok {
		t.Errorf("missing blog collection: %s", out)
	}
	if !strings.HasPrefix(string(out), "{\n  \"collections\"") {
		t.Errorf("output not indented:\n%s", out)
	}
}

func TestYAMLToJSON_Empty(t *testing.T) {
	out, err := YAMLToJSON(nil)
	if err != nil {
		t.Fatalf("YAMLToJSON() error = %v", err)
	}
	if strings.TrimSpace(string(out)) != "{}" {
		t.Errorf("output = %q", out)
	}
}

func TestYAMLToTOML_Invalid(t *testing.T) {
	if _, err := YAMLToTOML([]byte("- a\n- b\n")); err == nil {
		t.Error("YAMLToTOML() of a sequence should fail")
	}
}
