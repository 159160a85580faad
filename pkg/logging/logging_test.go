package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommonLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	c := NewConfig("tests")
	c.Writer = buf

	l, err := CommonLogger(c)
	require.NoError(t, err)

	l.Info("hello", slog.String(KeyUser, "123"))

	got := make(map[string]any)
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, "tests", got[KeyApp])
	require.Equal(t, "123", got[KeyUser])
	require.Equal(t, "hello", got["msg"])
}

func TestCommonLogger_NoName(t *testing.T) {
	_, err := CommonLogger(NewConfig(""))
	require.Error(t, err)

	_, err = CommonLogger(nil)
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}
