package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestZerologLogger_FieldsAndLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	ctx := context.Background()

	log.With("component", "sync").Info(ctx, "refresh applied", "resource", "users", "seq", 3)
	log.Debug(ctx, "dbg")

	out := buf.String()
	require.Contains(t, out, `"level":"info"`)
	require.Contains(t, out, `"component":"sync"`)
	require.Contains(t, out, `"resource":"users"`)
	require.Contains(t, out, `"seq":3`)
	require.Contains(t, out, `"message":"refresh applied"`)
	require.Contains(t, out, `"level":"debug"`)
}

func TestNew_SelectsBackend(t *testing.T) {
	var buf bytes.Buffer

	l, err := New(FormatJSON, "warn", &buf)
	require.NoError(t, err)
	l.Info(context.Background(), "hidden")
	l.Warn(context.Background(), "shown", "k", "v")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	l, err = New(FormatZerolog, "", &buf)
	require.NoError(t, err)
	l.Info(context.Background(), "zl")
	require.True(t, strings.Contains(buf.String(), `"message":"zl"`))

	_, err = New("xml", "info", &buf)
	require.Error(t, err)
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop()
	l.With("a", 1).Error(context.TODO(), "ignored")
}
