package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLog_CategoryAndFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.DebugLevel)
	t.Cleanup(Disable)

	Debug(CatCatalog, "opening", "url", "http://x/index.txt", "entries", 3)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	require.Equal(t, "catalog", lines[0]["cat"])
	require.Equal(t, "opening", lines[0]["message"])
	require.Equal(t, "http://x/index.txt", lines[0]["url"])
	require.EqualValues(t, 3, lines[0]["entries"])
	require.NotEmpty(t, lines[0]["run"])
}

func TestLog_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.WarnLevel)
	t.Cleanup(Disable)

	Debug(CatUI, "hidden")
	Info(CatUI, "hidden too")
	Warn(CatUI, "shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	require.Equal(t, "shown", lines[0]["message"])
}

func TestLog_ErrorErr(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.InfoLevel)
	t.Cleanup(Disable)

	ErrorErr(CatDecode, "decode failed", errors.New("boom"), "name", "kick.wav")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	require.Equal(t, "boom", lines[0]["error"])
	require.Equal(t, "kick.wav", lines[0]["name"])
}

func TestLog_OddKeyValues(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.InfoLevel)
	t.Cleanup(Disable)

	Info(CatConfig, "odd", "dangling")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	require.Equal(t, "dangling", lines[0]["!BADKEY"])
}

func TestLog_DisabledByDefault(t *testing.T) {
	Disable()
	require.NotPanics(t, func() {
		Info(CatConfig, "nowhere")
		ErrorErr(CatConfig, "nowhere", errors.New("x"))
	})
}

func TestInit_EmptyPathIsNoop(t *testing.T) {
	closeFn, err := Init("", zerolog.InfoLevel)
	require.NoError(t, err)
	require.NoError(t, closeFn())
}

func TestInit_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "wavtouch.log")
	closeFn, err := Init(path, zerolog.DebugLevel)
	require.NoError(t, err)
	t.Cleanup(Disable)

	Info(CatAudio, "hello")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "Logger initialized")
	require.Contains(t, string(data), "hello")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}
