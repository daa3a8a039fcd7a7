package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Code classifies an Issue.
type Code string

const (
	CodeInvalidType      Code = "invalid_type"
	CodeTooSmall         Code = "too_small"
	CodeTooBig           Code = "too_big"
	CodeInvalidEnumValue Code = "invalid_enum_value"
	CodeInvalidLiteral   Code = "invalid_literal"
	CodeInvalidDate      Code = "invalid_date"
	CodeUnrecognizedKeys Code = "unrecognized_keys"
	CodeCustom           Code = "custom"
)

// Issue is a single validation failure.
type Issue struct {
	Code    Code   `json:"code"`
	Path    Path   `json:"path"`
	Message string `json:"message"`

	// Expected and Received are set for invalid_type.
	Expected string `json:"expected,omitempty"`
	Received string `json:"received,omitempty"`

	// Origin, Limit and Inclusive are set for too_small and too_big. Origin
	// is the measured type: string, number or array.
	Origin    string  `json:"origin,omitempty"`
	Limit     float64 `json:"limit,omitempty"`
	Inclusive bool    `json:"inclusive,omitempty"`

	// Options lists the accepted values of an enum or literal.
	Options []any `json:"options,omitempty"`
	// Keys lists unknown keys of a strict object.
	Keys []string `json:"keys,omitempty"`
	// Value is the offending input for enum, literal and date issues.
	Value any `json:"-"`
}

// ErrorMap produces the message for an issue. def is the message that
// would be used without the map.
type ErrorMap func(issue Issue, def string) string

// DefaultMessage returns the built-in message for an issue.
func DefaultMessage(issue Issue) string {
	if issue.Message != "" {
		return issue.Message
	}

	switch issue.Code {
	case CodeInvalidType:
		if issue.Received == TypeUndefined {
			return "Required"
		}
		return fmt.Sprintf("Expected %s, received %s", issue.Expected, issue.Received)
	case CodeTooSmall:
		return sizeMessage(issue, "at least", "greater than or equal to")
	case CodeTooBig:
		return sizeMessage(issue, "at most", "less than or equal to")
	case CodeInvalidEnumValue:
		return fmt.Sprintf("Invalid enum value. Expected %s, received %s",
			joinOptions(issue.Options), quote(issue.Value))
	case CodeInvalidLiteral:
		if len(issue.Options) > 0 {
			return "Invalid literal value, expected " + jsonString(issue.Options[0])
		}
		return "Invalid literal value"
	case CodeInvalidDate:
		return "Invalid date"
	case CodeUnrecognizedKeys:
		keys := make([]string, len(issue.Keys))
		for i, k := range issue.Keys {
			keys[i] = "'" + k + "'"
		}
		return "Unrecognized key(s) in object: " + strings.Join(keys, ", ")
	default:
		return "Invalid input"
	}
}

func sizeMessage(issue Issue, bound, numBound string) string {
	n := formatNumber(issue.Limit)
	switch issue.Origin {
	case TypeString:
		return fmt.Sprintf("String must contain %s %s character(s)", bound, n)
	case TypeArray:
		return fmt.Sprintf("Array must contain %s %s element(s)", bound, n)
	default:
		return fmt.Sprintf("Number must be %s %s", numBound, n)
	}
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

func joinOptions(opts []any) string {
	parts := make([]string, len(opts))
	for i, o := range opts {
		parts[i] = quote(o)
	}
	return strings.Join(parts, " | ")
}

func quote(v any) string {
	if s, ok := v.(string); ok {
		return "'" + s + "'"
	}
	return fmt.Sprint(v)
}

func jsonString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
