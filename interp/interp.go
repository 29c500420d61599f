package interp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Options configure a new Interpreter. They mirror the construction
// pattern of a host language's embeddable interpreter: explicit I/O
// streams (defaulting to the process's), cmdline args, and a couple of
// diagnostic toggles.
type Options struct {
	// Standard input, output and error streams. They default to
	// os.Stdin, os.Stdout and os.Stderr respectively.
	Stdin          io.Reader
	Stdout, Stderr io.Writer

	// Args are the program's command-line arguments, exposed to Scheme
	// code via the command-line built-in. Defaults to os.Args.
	Args []string

	// Debug sets the diagnostics logger on Stderr to debug level (it never
	// writes to Stdout, which carries only REPL/display output).
	Debug bool

	// DumpK makes the REPL print a github.com/davecgh/go-spew dump of the
	// continuation snapshot to Stderr after each evaluation error it
	// reports. Eval and EvalPath do not print it.
	DumpK bool

	// ConfigPath overrides the default ~/.gscheme.toml location. An
	// empty ConfigPath uses the default location; a missing file is not
	// an error.
	ConfigPath string
}

// config is the optional on-disk configuration file, parsed with
// github.com/BurntSushi/toml. Every field is optional; a missing or
// unparsable file is never fatal; see loadConfig.
type config struct {
	History            string `toml:"history"`
	Debug              bool   `toml:"debug"`
	PromptFresh        string `toml:"prompt_fresh"`
	PromptContinuation string `toml:"prompt_continuation"`
	Banner             bool   `toml:"banner"`
}

// replBanner is printed once at REPL startup when the config's Banner
// field is set.
const replBanner = "gscheme — a reifying, trampolined Scheme interpreter"

// Interpreter holds everything needed to evaluate Scheme source: the
// interned symbol table, the pre-interned special form symbols, the
// global environment, and the shared token stream backing the (read)
// built-in and the REPL loop.
type Interpreter struct {
	symtab *symbolTable
	sf     *specialForms
	global *Env

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	args   []string

	reader *Reader // shared token buffer over stdin, for REPL forms and (read)

	debug   bool
	dumpK   bool
	log     *slog.Logger
	history string

	promptFresh        string
	promptContinuation string
	banner             bool
}

// New returns a new Interpreter with its global environment populated by
// the built-in procedures of builtins.go.
func New(options Options) *Interpreter {
	i := &Interpreter{
		symtab: newSymbolTable(),
	}
	i.sf = newSpecialForms(i.symtab)

	if i.stdin = options.Stdin; i.stdin == nil {
		i.stdin = os.Stdin
	}
	if i.stdout = options.Stdout; i.stdout == nil {
		i.stdout = os.Stdout
	}
	if i.stderr = options.Stderr; i.stderr == nil {
		i.stderr = os.Stderr
	}
	if i.args = options.Args; i.args == nil {
		i.args = os.Args
	}

	i.debug = options.Debug
	i.dumpK = options.DumpK
	i.promptFresh = "> "
	i.promptContinuation = "| "

	cfg, err := loadConfig(options.ConfigPath)
	if err != nil {
		// A malformed config is a warning, never fatal: the interpreter
		// still starts with defaults.
		i.log = newLogger(i.stderr, i.debug)
		i.log.Warn("ignoring unreadable config", "error", err)
	} else {
		if cfg.Debug {
			i.debug = true
		}
		i.history = cfg.History
		if cfg.PromptFresh != "" {
			i.promptFresh = cfg.PromptFresh
		}
		if cfg.PromptContinuation != "" {
			i.promptContinuation = cfg.PromptContinuation
		}
		i.banner = cfg.Banner
		i.log = newLogger(i.stderr, i.debug)
	}

	i.reader = NewReader(i.stdin, i.symtab)
	i.global = newGlobalEnv()
	installBuiltins(i)

	return i
}

// newLogger builds the diagnostics logger. It is only ever written to
// when -debug is set or on genuinely exceptional internal conditions;
// ordinary REPL/display output never goes through it.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{Level: level}))
}

// loadConfig reads an optional TOML config file. An empty path defaults
// to ~/.gscheme.toml; if that file does not exist, loadConfig returns a
// zero config and no error (config is entirely optional).
func loadConfig(path string) (config, error) {
	var cfg config
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, ".gscheme.toml")
	}
	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}

// Eval parses and evaluates every form in src in sequence over the
// global environment, returning the value of the last form.
func (i *Interpreter) Eval(src string) (*Value, error) {
	r := NewReader(strings.NewReader(src), i.symtab)
	var result *Value = VoidVal()
	for {
		form, err := r.ReadExpr()
		if err != nil {
			return nil, err
		}
		if form.IsEof() {
			return result, nil
		}
		result, err = i.evalLoop(form, i.global, newContinuation())
		if err != nil {
			return nil, err
		}
	}
}

// EvalPath reads the file at path and evaluates it as a sequence of
// top-level forms, exactly like Eval.
func (i *Interpreter) EvalPath(path string) (*Value, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return i.Eval(string(b))
}

// EvalWithContext evaluates src in a goroutine and returns early with
// ctx.Err() if ctx is cancelled before evaluation finishes. Cancellation
// is cooperative at the Eval-call granularity, not mid-expression: a
// single pathological form still runs to completion in the background.
func (i *Interpreter) EvalWithContext(ctx context.Context, src string) (*Value, error) {
	type out struct {
		v   *Value
		err error
	}
	done := make(chan out, 1)
	go func() {
		v, err := i.Eval(src)
		done <- out{v, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case o := <-done:
		return o.v, o.err
	}
}

// REPL performs a Read-Eval-Print-Loop over the Interpreter's own stdin,
// printing results to stdout and errors to stderr. It prompts only when
// stdin looks like a terminal, switching between a fresh-expression
// prompt and a continuation-line prompt for multi-line forms, and prints
// Goodbye and returns a nil error at end-of-input (spec.md §6).
func (i *Interpreter) REPL() (*Value, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)
	go func() {
		for range sig {
			cancel()
		}
	}()

	if i.banner {
		fmt.Fprintln(i.stdout, replBanner)
	}

	prompt := i.getPrompt()
	var v *Value = VoidVal()
	var err error

	prompt(v)
	for {
		form, rerr := i.reader.ReadExpr()
		if rerr != nil {
			fmt.Fprintln(i.stderr, rerr)
			i.clearPartialRead()
			prompt(v)
			continue
		}
		if form.IsEof() {
			fmt.Fprintln(i.stdout, "Goodbye")
			return v, nil
		}
		v, err = i.evalLoop(form, i.global, newContinuation())
		if err != nil {
			fmt.Fprintln(i.stderr, err)
			if i.dumpK {
				if se, ok := err.(*SchemeError); ok {
					fmt.Fprintln(i.stderr, se.DumpFrames())
				}
			}
		}
		select {
		case <-ctx.Done():
			return v, ctx.Err()
		default:
		}
		prompt(v)
	}
}

// clearPartialRead resets the reader's paren-nesting count after a read
// error, per spec.md §7's "clears any half-read token buffer" REPL
// policy, so the next prompt shown is the fresh one, not a leftover
// continuation prompt from the malformed form.
func (i *Interpreter) clearPartialRead() { i.reader.resetDepth() }

// SetPromptHook registers fn to be called with the reader's current
// paren-nesting depth every time it changes. Exposed so a driver embedding
// an Interpreter directly can react to continuation state on its own.
func (i *Interpreter) SetPromptHook(fn func(depth int)) { i.reader.SetDepthHook(fn) }

func promptFor(depth int, fresh, continuation string) string {
	if depth > 0 {
		return continuation
	}
	return fresh
}

// doPrompt returns a function that prints the previous result (if any)
// followed by fresh, for input sources that do not manage their own
// prompting (a terminal *os.File used directly, bypassing internal/term).
func doPrompt(out io.Writer, fresh string) func(v *Value) {
	return func(v *Value) {
		if v != nil && !v.IsVoid() {
			fmt.Fprintln(out, stringify(v, true))
		}
		fmt.Fprint(out, fresh)
	}
}

// promptSetter is implemented by input sources that print their own
// prompt before every read, such as *internal/term.LineReader, whose
// underlying golang.org/x/term.Terminal prints a prompt from inside
// ReadLine for every line pulled from the user. For these, the REPL pushes
// the reader's depth straight through instead of printing anything itself.
type promptSetter interface {
	SetPrompt(prompt string)
}

// getPrompt wires up REPL prompting against i.stdin. A promptSetter gets
// depth changes pushed directly to it and handles fresh-vs-continuation
// prompt text on its own terms; a terminal *os.File gets a textual prompt
// printed here, with a depth hook handling continuation lines; anything
// else (piped or redirected input) gets no prompting at all, checked with
// mattn/go-isatty rather than a bare os.FileInfo stat so piped files
// reliably suppress the prompt.
func (i *Interpreter) getPrompt() func(*Value) {
	if ps, ok := i.stdin.(promptSetter); ok {
		i.SetPromptHook(func(depth int) {
			ps.SetPrompt(promptFor(depth, i.promptFresh, i.promptContinuation))
		})
		return func(v *Value) {
			if v != nil && !v.IsVoid() {
				fmt.Fprintln(i.stdout, stringify(v, true))
			}
		}
	}

	f, ok := i.stdin.(*os.File)
	if !ok || (!isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())) {
		return func(*Value) {}
	}
	i.SetPromptHook(func(depth int) {
		if depth > 0 {
			fmt.Fprint(i.stdout, i.promptContinuation)
		}
	})
	return doPrompt(i.stdout, i.promptFresh)
}
