// Package translate converts YAML documents to the other data formats a
// content config can be written in.
package translate

import (
	"bytes"
	"encoding/json"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/quill/internal/errors"
)

// YAMLToTOML converts YAML data to TOML data. Comments are dropped.
func YAMLToTOML(yamlData []byte) ([]byte, error) {
	data, err := decodeYAML(yamlData)
	if err != nil {
		return nil, err
	}
	out, err := toml.Marshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling toml")
	}
	return out, nil
}

// YAMLToJSON converts YAML data to indented JSON. Comments are dropped.
func YAMLToJSON(yamlData []byte) ([]byte, error) {
	data, err := decodeYAML(yamlData)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return nil, errors.Wrap(err, "marshaling json")
	}
	return buf.Bytes(), nil
}

// decodeYAML decodes a YAML mapping. Only string keys are accepted since
// neither TOML nor JSON can represent others.
func decodeYAML(yamlData []byte) (map[string]any, error) {
	var data map[string]any
	if err := yaml.Unmarshal(yamlData, &data); err != nil {
		return nil, errors.Wrap(err, "unmarshaling yaml")
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}
