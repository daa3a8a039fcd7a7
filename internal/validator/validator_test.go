package validator

import (
	"encoding/json"
	"testing"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		s    Severity
		want string
	}{
		{SeverityError, "error"},
		{SeverityWarning, "warning"},
		{SeverityInfo, "info"},
		{Severity(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.s.String(); got != tt.want {
				t.Errorf("Severity.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeverity_JSON(t *testing.T) {
	b, err := json.Marshal(Issue{Severity: SeverityWarning, Message: "m"})
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"severity":"warning","message":"m"}`; string(b) != want {
		t.Errorf("json = %s, want %s", b, want)
	}

	var got Issue
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got.Severity != SeverityWarning {
		t.Errorf("severity = %v, want warning", got.Severity)
	}

	if err := json.Unmarshal([]byte(`{"severity":"fatal"}`), &got); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestIssue_Location(t *testing.T) {
	tests := []struct {
		name string
		i    Issue
		want string
	}{
		{"no file", Issue{Line: 3}, ""},
		{"file only", Issue{File: "a.md"}, "a.md"},
		{"line", Issue{File: "a.md", Line: 3}, "a.md:3"},
		{"line and column", Issue{File: "a.md", Line: 3, Column: 7}, "a.md:3:7"},
		{"column without line", Issue{File: "a.md", Column: 7}, "a.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.i.Location(); got != tt.want {
				t.Errorf("Location() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIssue_Error(t *testing.T) {
	tests := []struct {
		name string
		i    Issue
		want string
	}{
		{
			name: "error with field and value",
			i: Issue{
				Severity: SeverityError,
				Field:    "title",
				Message:  "is required",
				Value:    "",
			},
			want: "error: field \"title\": is required (got )",
		},
		{
			name: "warning without field",
			i: Issue{
				Severity: SeverityWarning,
				Message:  "collection is not defined",
			},
			want: "warning: collection is not defined",
		},
		{
			name: "error with location",
			i: Issue{
				Severity: SeverityError,
				File:     "blog/a.md",
				Line:     2,
				Field:    "title",
				Message:  `"title" is required.`,
			},
			want: "error: blog/a.md:2: field \"title\": \"title\" is required.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.i.Error(); got != tt.want {
				t.Errorf("Issue.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResult_Helpers(t *testing.T) {
	r := &Result{}

	if r.HasErrors() {
		t.Error("expected no errors")
	}

	r.AddError("f1", "m1", "v1")
	if !r.HasErrors() {
		t.Error("expected errors")
	}
	if len(r.Errors()) != 1 {
		t.Errorf("Errors() len = %d, want 1", len(r.Errors()))
	}

	r.AddWarning("f2", "m2", nil)
	if !r.HasWarnings() {
		t.Error("expected warnings")
	}
	if len(r.Warnings()) != 1 {
		t.Errorf("Warnings() len = %d, want 1", len(r.Warnings()))
	}

	var nilResult *Result
	if nilResult.HasErrors() || nilResult.HasWarnings() || nilResult.Errors() != nil {
		t.Error("nil result should report nothing")
	}
}
