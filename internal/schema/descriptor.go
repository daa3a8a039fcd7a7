package schema

import (
	"sort"
	"strings"

	"github.com/thoreinstein/quill/internal/errors"
)

// FromDescriptor compiles a declarative descriptor into a Validator.
//
// A descriptor is either a type string or a map with a "type" key:
//
//	"string"            required string
//	"number?"           optional number
//	"string[]"          array of strings
//	{type: enum, values: [draft, published]}
//	{type: object, fields: {name: string, url: "string?"}}
//
// Map descriptors accept optional, nullable, default, min, max, int, items
// (array), fields and strict (object), values (record and enum) and value
// (literal). Date descriptors coerce strings since YAML decodes dates as
// strings.
func FromDescriptor(d any) (Validator, error) {
	return compile(d, "")
}

// ObjectFromDescriptor compiles a map of field name to descriptor into an
// object validator.
func ObjectFromDescriptor(fields map[string]any) (*ObjectSchema, error) {
	return compileFields(fields, "")
}

func compile(d any, at string) (Validator, error) {
	switch desc := d.(type) {
	case string:
		return compileString(desc, at)
	case Validator:
		return desc, nil
	}

	m, ok := toMap(d)
	if !ok {
		return nil, descriptorError(at, "descriptor must be a type name or a map, got %s", TypeOf(d))
	}
	return compileMap(m, at)
}

func compileString(desc, at string) (Validator, error) {
	name := strings.TrimSpace(desc)
	opt := strings.HasSuffix(name, "?")
	name = strings.TrimSuffix(name, "?")

	depth := 0
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSuffix(name, "[]")
		depth++
	}

	v, err := primitive(name, at)
	if err != nil {
		return nil, err
	}
	for range depth {
		v = Array(v)
	}
	if opt {
		v = Optional(v)
	}
	return v, nil
}

func primitive(name, at string) (Validator, error) {
	switch name {
	case TypeString:
		return String(), nil
	case TypeNumber:
		return Number(), nil
	case TypeInteger:
		return Integer(), nil
	case TypeBoolean:
		return Boolean(), nil
	case TypeDate:
		return CoerceDate(), nil
	case "any":
		return Any(), nil
	case TypeFunction:
		return Func(), nil
	}
	return nil, descriptorError(at, "unknown type %q", name)
}

func compileMap(m map[string]any, at string) (Validator, error) {
	typeName, ok := m["type"].(string)
	if !ok {
		return nil, descriptorError(at, "descriptor map needs a string \"type\"")
	}

	var (
		v   Validator
		err error
	)
	switch typeName {
	case "array":
		items, ok := m["items"]
		if !ok {
			return nil, descriptorError(at, "array descriptor needs \"items\"")
		}
		var itemV Validator
		itemV, err = compile(items, join(at, "items"))
		if err == nil {
			v = Array(itemV)
		}
	case "object":
		fields, ok := toMap(m["fields"])
		if !ok {
			return nil, descriptorError(at, "object descriptor needs a \"fields\" map")
		}
		var obj *ObjectSchema
		obj, err = compileFields(fields, at)
		if err == nil {
			if strict, _ := m["strict"].(bool); strict {
				obj = obj.Strict()
			}
			v = obj
		}
	case "record":
		values, ok := m["values"]
		if !ok {
			return nil, descriptorError(at, "record descriptor needs \"values\"")
		}
		var valV Validator
		valV, err = compile(values, join(at, "values"))
		if err == nil {
			v = Record(valV)
		}
	case "enum":
		v, err = compileEnum(m["values"], at)
	case "literal":
		value, ok := m["value"]
		if !ok {
			return nil, descriptorError(at, "literal descriptor needs \"value\"")
		}
		v = Literal(value)
	default:
		v, err = compileString(typeName, at)
	}
	if err != nil {
		return nil, err
	}

	if isInt, _ := m["int"].(bool); isInt {
		n, ok := v.(*NumberSchema)
		if !ok {
			return nil, descriptorError(at, "int applies only to numbers")
		}
		v = n.Int()
	}
	if raw, ok := m["min"]; ok {
		if v, err = applyBound(v, raw, at, "min", WithMin); err != nil {
			return nil, err
		}
	}
	if raw, ok := m["max"]; ok {
		if v, err = applyBound(v, raw, at, "max", WithMax); err != nil {
			return nil, err
		}
	}
	if nullable, _ := m["nullable"].(bool); nullable {
		v = Nullable(v)
	}
	if def, ok := m["default"]; ok {
		v = Default(v, def)
	}
	if optional, _ := m["optional"].(bool); optional {
		v = Optional(v)
	}
	return v, nil
}

func applyBound(v Validator, raw any, at, name string, apply func(Validator, float64) (Validator, error)) (Validator, error) {
	n, ok := toFloat(raw)
	if !ok {
		return nil, descriptorError(at, "%s must be a number", name)
	}
	out, err := apply(v, n)
	if err != nil {
		return nil, descriptorError(at, "%s", err.Error())
	}
	return out, nil
}

func compileEnum(raw any, at string) (Validator, error) {
	list, ok := toSlice(raw)
	if !ok || len(list) == 0 {
		return nil, descriptorError(at, "enum descriptor needs a non-empty \"values\" list")
	}
	values := make([]string, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, descriptorError(at, "enum values must be strings")
		}
		values[i] = s
	}
	return Enum(values...), nil
}

func compileFields(fields map[string]any, at string) (*ObjectSchema, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]Validator, len(fields))
	for _, k := range keys {
		v, err := compile(fields[k], join(at, k))
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return Object(out), nil
}

func join(at, seg string) string {
	if at == "" {
		return seg
	}
	return at + "." + seg
}

func descriptorError(at, format string, args ...any) error {
	err := errors.Newf(format, args...)
	if at == "" {
		return err
	}
	return errors.Wrapf(err, "schema field %q", at)
}
