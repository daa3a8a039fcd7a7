package runtime

import (
	"context"
	"testing"

	"github.com/thoreinstein/quill/internal/errors"
)

type stubRuntime struct{ name string }

func (s stubRuntime) Name() string { return s.name }

func (s stubRuntime) Open(context.Context) (Environment, error) {
	return stubEnv{}, nil
}

type stubEnv struct{}

func (stubEnv) Import(context.Context, string) (map[string]any, error) { return nil, nil }
func (stubEnv) Close() error                                          { return nil }

func TestRegistry_Lookup(t *testing.T) {
	reg := NewRegistry()
	reg.Register(".lua", stubRuntime{name: "lua"})
	reg.Register("yaml", stubRuntime{name: "yaml"})

	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"/site/content.config.lua", "lua", true},
		{"/site/content.config.LUA", "lua", true},
		{"/site/content.config.yaml", "yaml", true},
		{"/site/content.config.ts", "", false},
		{"/site/content.config", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rt, ok := reg.Lookup(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if ok && rt.Name() != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.path, rt.Name(), tt.want)
			}
		})
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	reg := NewRegistry()
	reg.Register(".lua", stubRuntime{name: "first"})
	reg.Register(".lua", stubRuntime{name: "second"})

	rt, _ := reg.Lookup("x.lua")
	if rt.Name() != "second" {
		t.Errorf("Lookup() = %q, want second", rt.Name())
	}
}

func TestRegistry_OpenUnsupported(t *testing.T) {
	_, err := NewRegistry().Open(context.Background(), "content.config.mjs")
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Open() error = %v, want ErrUnsupported", err)
	}
}
