package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/fox/fox/diag"
	"github.com/dhamidi/fox/fox/grammar"
	"github.com/dhamidi/fox/fox/lexer"
	"github.com/dhamidi/fox/fox/source"
	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Inspect the EBNF grammar of Fox",
	}

	cmd.AddCommand(newGrammarCheckCmd())
	cmd.AddCommand(newGrammarPrintCmd())
	cmd.AddCommand(newGrammarRecognizeCmd())
	cmd.AddCommand(newGrammarMatchCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:           "check [file]",
		Short:         "Parse and verify an EBNF grammar file (the Fox grammar by default)",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var g ebnf.Grammar
			var err error
			if len(args) == 1 {
				g, err = grammar.ParseFile(args[0], startProduction)
			} else {
				g, err = grammar.Parse("fox.ebnf", bytes.NewReader(grammar.Source()), startProduction)
			}
			if err != nil {
				printErrors(cmd.ErrOrStderr(), err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d productions\n", len(g))
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", grammar.Start, "start production for verification (if empty, only checks syntax)")

	return cmd
}

func printErrors(w io.Writer, err error) {
	for _, e := range grammar.Errors(err) {
		fmt.Fprintln(w, e)
	}
}

func newGrammarPrintCmd() *cobra.Command {
	var rules bool

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print the Fox grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !rules {
				_, err := cmd.OutOrStdout().Write(grammar.Source())
				return err
			}
			r, err := grammar.Default()
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), r.Rules())
			return err
		},
	}

	cmd.Flags().BoolVar(&rules, "rules", false, "print the desugared rules the recognizer runs on")

	return cmd
}

func newGrammarRecognizeCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:   "recognize <file>",
		Short: "Check a .fox file against the grammar alone, without the parser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			content, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}
			r, err := grammar.Default()
			if err != nil {
				return err
			}

			sm := source.NewManager()
			id := sm.AddFile(filename, content)
			collector := &diag.Collector{}
			tokens := lexer.Lex(id, sm.Content(id), diag.NewEngine(collector))
			if err := printDiagnostics(cmd.ErrOrStderr(), sm, collector.Diagnostics, "line"); err != nil {
				return err
			}

			err = r.Recognize(tokens, startProduction)
			var syntaxErr *grammar.SyntaxError
			if errors.As(err, &syntaxErr) {
				pos := sm.Position(syntaxErr.Token.Range.BeginLoc())
				return fmt.Errorf("%s: %w", pos, err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", filename)
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", grammar.Start, "production the file must match")

	return cmd
}

func newGrammarMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <production> <text>",
		Short: "Match text against a lexical production such as ident or string_lit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammar.Load()
			if err != nil {
				return err
			}
			n, err := grammar.MatchLexical(g, args[0], args[1])
			if err != nil {
				return err
			}
			if n != len(args[1]) {
				return fmt.Errorf("%s matches %q only, not %q", args[0], args[1][:n], args[1])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
			return nil
		},
	}
}
