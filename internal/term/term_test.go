package term

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// newPipeFile returns the read end of an os.Pipe as an *os.File, which
// isatty.IsTerminal always reports false for, exercising New's
// non-terminal fallback path without needing a real pty.
func newPipeFile(t *testing.T, content string) *os.File {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	go func() {
		_, _ = io.WriteString(w, content)
		_ = w.Close()
	}()
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestNewFallsBackWhenStdinIsNotATerminal(t *testing.T) {
	in := newPipeFile(t, "(+ 1 2)\n")
	lr, restore, err := New(in, os.Stdout, "> ", "")
	require.NoError(t, err)
	require.NotNil(t, lr)
	require.NotNil(t, lr.fallback, "a piped, non-tty stdin must use the buffered fallback")
	require.Nil(t, lr.t)

	buf := make([]byte, 64)
	n, err := lr.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "(+ 1 2)\n", string(buf[:n]))

	require.NoError(t, restore())
}

func TestNewWithNilInFallsBackToStdin(t *testing.T) {
	lr, restore, err := New(nil, nil, "> ", "")
	require.NoError(t, err)
	require.NotNil(t, lr.fallback)
	require.NoError(t, restore())
}

func TestReadWriterComposesReaderAndWriter(t *testing.T) {
	r := newPipeFile(t, "hello")
	var sb fakeWriter
	rw := readWriter{r, &sb}

	buf := make([]byte, 5)
	n, err := rw.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf[:n]))

	_, err = rw.Write([]byte("world"))
	require.NoError(t, err)
	require.Equal(t, "world", sb.String())
}

func TestSetPromptIsNoOpInFallbackMode(t *testing.T) {
	in := newPipeFile(t, "")
	lr, restore, err := New(in, os.Stdout, "> ", "")
	require.NoError(t, err)
	require.Nil(t, lr.t)

	require.NotPanics(t, func() { lr.SetPrompt("| ") })
	require.NoError(t, restore())
}

type fakeWriter struct{ data []byte }

func (w *fakeWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *fakeWriter) String() string { return string(w.data) }
