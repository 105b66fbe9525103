package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactedAttribute(t *testing.T) {
	var buf bytes.Buffer
	l := New(slog.New(slog.NewTextHandler(&buf, nil)))

	l.With("key_id", "k1").Info(context.Background(), "exported", Redacted("d"))

	out := buf.String()
	assert.Contains(t, out, "key_id=k1")
	assert.Contains(t, out, `d=`+Placeholder())
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Error(context.Background(), "ignored")
	l.With("a", 1).Debug(context.Background(), "ignored")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for name, want := range cases {
		assert.Equal(t, want, ParseLevel(name), name)
	}
}

func TestNewNilUsesDefault(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	New(nil).Warn(context.Background(), "via default")
	assert.True(t, strings.Contains(buf.String(), "via default"))
}
