package jsonlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLogger_EmitsJSONLine(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Error("store_error", map[string]any{"op": "list", "err": errors.New("db down")})

	var got map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got); err != nil {
		t.Fatalf("unmarshal: %v; line=%s", err, buf.String())
	}
	if got["level"] != "ERROR" || got["msg"] != "store_error" {
		t.Fatalf("level=%v msg=%v", got["level"], got["msg"])
	}
	if got["err"] != "db down" {
		t.Fatalf("err=%v", got["err"])
	}
	if _, ok := got["ts"]; !ok {
		t.Fatalf("missing ts")
	}
}

func TestLogger_FiltersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, LevelWarn)

	l.Debug("d", nil)
	l.Info("i", nil)
	l.Warn("w", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"msg":"w"`) {
		t.Fatalf("line=%s", lines[0])
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug": LevelDebug,
		"INFO":  LevelInfo,
		" warn": LevelWarn,
		"Error": LevelError,
		"bogus": LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q)=%s want %s", in, got, want)
		}
	}
}
