package main

import (
	"fmt"

	"github.com/dhamidi/fox/fox/diag"
	"github.com/dhamidi/fox/fox/lexer"
	"github.com/dhamidi/fox/fox/source"
	"github.com/dhamidi/fox/format"
	"github.com/spf13/cobra"
)

func newTokensCmd(s *settings) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Lex a .fox file and print its tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			content, err := readFile(filename)
			if err != nil {
				return err
			}

			sm := source.NewManager()
			id := sm.AddFile(filename, content)
			collector := &diag.Collector{}
			engine := diag.NewEngine(collector, s.EngineOptions()...)
			tokens := lexer.Lex(id, sm.Content(id), engine)

			enc, err := format.NewTokenEncoder(outputFormat, cmd.OutOrStdout(), sm)
			if err != nil {
				return err
			}
			if err := enc.Encode(tokens); err != nil {
				return fmt.Errorf("encode tokens: %w", err)
			}

			if err := printDiagnostics(cmd.ErrOrStderr(), sm, collector.Diagnostics, "line"); err != nil {
				return err
			}
			if n := countErrors(collector.Diagnostics); n > 0 {
				return errorsFound(n, filename)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line", "output format (line, json)")

	return cmd
}
