// Package term provides the REPL's line-editing glue: raw-mode input
// with history recall when stdin is a real terminal, falling back to
// plain line buffering otherwise (piped input, redirected files).
package term

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// LineReader adapts either a raw terminal (via golang.org/x/term) or a
// plain stream into an io.Reader of newline-terminated text, so it can
// be handed to interp.Options.Stdin unchanged.
type LineReader struct {
	t        *term.Terminal
	fallback *bufio.Reader

	pending     []byte
	history     []string
	historyPath string
}

// New builds a LineReader over in/out. If in is not a terminal, it
// returns a plain buffered fallback and a no-op restore function.
// Otherwise it puts the terminal into raw mode; the caller must invoke
// the returned restore function (which also persists history) before
// the process exits.
func New(in, out *os.File, prompt, historyPath string) (*LineReader, func() error, error) {
	if in == nil || out == nil || !isatty.IsTerminal(in.Fd()) {
		r := io.Reader(os.Stdin)
		if in != nil {
			r = in
		}
		return &LineReader{fallback: bufio.NewReader(r)}, func() error { return nil }, nil
	}

	fd := int(in.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return &LineReader{fallback: bufio.NewReader(in)}, func() error { return nil }, nil
	}

	lr := &LineReader{
		t:           term.NewTerminal(readWriter{in, out}, prompt),
		historyPath: historyPath,
	}
	lr.loadHistory()

	restore := func() error {
		lr.saveHistory()
		return term.Restore(fd, oldState)
	}
	return lr, restore, nil
}

type readWriter struct {
	io.Reader
	io.Writer
}

// SetPrompt changes the prompt golang.org/x/term.Terminal shows before its
// next ReadLine call, letting a REPL switch between a fresh-expression
// prompt and a continuation-line prompt per line rather than per form. A
// no-op in fallback (non-terminal) mode, where nothing is echoed back.
func (lr *LineReader) SetPrompt(prompt string) {
	if lr.t != nil {
		lr.t.SetPrompt(prompt)
	}
}

// Read implements io.Reader by pulling whole lines from the underlying
// terminal (or fallback scanner) and re-appending the newline the
// Reader's tokenizer expects to see between forms.
func (lr *LineReader) Read(p []byte) (int, error) {
	if lr.fallback != nil {
		return lr.fallback.Read(p)
	}
	if len(lr.pending) == 0 {
		line, err := lr.t.ReadLine()
		if err != nil {
			return 0, err
		}
		if strings.TrimSpace(line) != "" {
			lr.history = append(lr.history, line)
			lr.t.SetHistory(lr.history)
		}
		lr.pending = append([]byte(line), '\n')
	}
	n := copy(p, lr.pending)
	lr.pending = lr.pending[n:]
	return n, nil
}

func (lr *LineReader) loadHistory() {
	if lr.historyPath == "" {
		return
	}
	data, err := os.ReadFile(lr.historyPath)
	if err != nil {
		return
	}
	trimmed := strings.TrimRight(string(data), "\n")
	if trimmed == "" {
		return
	}
	lr.history = strings.Split(trimmed, "\n")
	lr.t.SetHistory(lr.history)
}

func (lr *LineReader) saveHistory() {
	if lr.historyPath == "" || len(lr.history) == 0 {
		return
	}
	_ = os.WriteFile(lr.historyPath, []byte(strings.Join(lr.history, "\n")+"\n"), 0o600)
}
