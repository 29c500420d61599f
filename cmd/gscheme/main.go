// Command gscheme is the CLI driver around package interp: load a
// source file, optionally drop into a REPL afterward, or start the
// REPL directly with no arguments.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nukata/gscheme/interp"
	"github.com/nukata/gscheme/internal/term"
)

var (
	debugFlag   bool
	dumpKFlag   bool
	historyFlag string
	loadFlag    []string
)

func main() {
	root := &cobra.Command{
		Use:          "gscheme [source-file [-]]",
		Short:        "a reifying, trampolined Scheme interpreter",
		Args:         cobra.MaximumNArgs(2),
		SilenceUsage: true,
		RunE:         run,
	}
	root.Flags().BoolVar(&debugFlag, "debug", false, "enable internal diagnostics logging")
	root.Flags().BoolVar(&dumpKFlag, "dump-k", false, "dump the live continuation on non-user errors")
	root.Flags().StringVar(&historyFlag, "history", "", "REPL history file (default ~/.gscheme_history)")
	root.Flags().StringArrayVar(&loadFlag, "load", nil, "load a source file before starting (repeatable)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(_ *cobra.Command, args []string) error {
	if len(args) == 2 && args[1] != "-" {
		return fmt.Errorf("gscheme: unexpected second argument %q (expected \"-\")", args[1])
	}
	wantREPL := len(args) == 0 || len(args) == 2

	opts := interp.Options{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Args:   append([]string{"gscheme"}, args...),
		Debug:  debugFlag,
		DumpK:  dumpKFlag,
	}

	var closeLine func() error
	if wantREPL {
		historyPath := historyFlag
		if historyPath == "" {
			if home, err := os.UserHomeDir(); err == nil {
				historyPath = filepath.Join(home, ".gscheme_history")
			}
		}
		lr, restore, err := term.New(os.Stdin, os.Stdout, "> ", historyPath)
		if err != nil {
			return err
		}
		opts.Stdin = lr
		closeLine = restore
	} else {
		opts.Stdin = os.Stdin
	}

	i := interp.New(opts)
	if closeLine != nil {
		defer closeLine()
	}

	for _, path := range loadFlag {
		if _, err := i.EvalPath(path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return err
		}
	}

	if len(args) >= 1 {
		if _, err := i.EvalPath(args[0]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			if !wantREPL {
				return err
			}
		}
	}

	if !wantREPL {
		return nil
	}

	_, err := i.REPL()
	return err
}
