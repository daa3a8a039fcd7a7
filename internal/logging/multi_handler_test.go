package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/thoreinstein/quill/internal/errors"
)

func TestMultiHandler_DispatchesByLevel(t *testing.T) {
	var text, jsonBuf bytes.Buffer
	h := NewMultiHandler(
		NewHandler(&text, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&jsonBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	logger := slog.New(h).With("session", "watch")

	logger.Debug("debounced", "events", 3)
	logger.Warn("config invalid")

	if strings.Contains(text.String(), "debounced") {
		t.Error("text handler should not receive debug records")
	}
	if !strings.Contains(text.String(), "config invalid") {
		t.Errorf("text handler missing warn record: %q", text.String())
	}
	if !strings.Contains(jsonBuf.String(), `"events":3`) || !strings.Contains(jsonBuf.String(), `"session":"watch"`) {
		t.Errorf("json handler missing debug record or attrs: %q", jsonBuf.String())
	}
}

func TestMultiHandler_Enabled(t *testing.T) {
	h := NewMultiHandler(NewHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	if h.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("expected info to be disabled")
	}
	if !h.Enabled(t.Context(), slog.LevelError) {
		t.Error("expected error to be enabled")
	}
}

type failingHandler struct {
	slog.Handler
	err error
}

func (h failingHandler) Handle(context.Context, slog.Record) error { return h.err }

func TestMultiHandler_KeepsGoingAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	errDisk := errors.New("disk full")
	h := NewMultiHandler(
		failingHandler{Handler: slog.NewJSONHandler(&bytes.Buffer{}, nil), err: errDisk},
		slog.NewTextHandler(&buf, nil),
	)

	err := h.Handle(t.Context(), slog.NewRecord(time.Now(), slog.LevelInfo, "synced", 0))
	if !errors.Is(err, errDisk) {
		t.Errorf("Handle() error = %v, want %v", err, errDisk)
	}
	if !strings.Contains(buf.String(), "synced") {
		t.Errorf("second handler missed the record: %q", buf.String())
	}
}
