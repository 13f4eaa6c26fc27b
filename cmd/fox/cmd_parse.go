package main

import (
	"fmt"

	"github.com/dhamidi/fox/fox/source"
	"github.com/dhamidi/fox/format"
	"github.com/dhamidi/fox/project"
	"github.com/spf13/cobra"
)

func newParseCmd(s *settings) *cobra.Command {
	var outputFormat string
	var includePositions bool
	var showStats bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .fox file and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			content, err := readFile(filename)
			if err != nil {
				return err
			}

			sm := source.NewManager()
			enc, err := format.NewNodeEncoder(outputFormat, cmd.OutOrStdout(), sm, includePositions)
			if err != nil {
				return err
			}

			r := project.ParseSource(sm, filename, content, s.projectOptions())
			if err := printDiagnostics(cmd.ErrOrStderr(), sm, r.Diagnostics, "line"); err != nil {
				return err
			}
			if r.Err != nil {
				return r.Err
			}

			if r.Unit != nil {
				if err := enc.Encode(r.Unit); err != nil {
					return fmt.Errorf("encode tree: %w", err)
				}
				if outputFormat == "json" {
					fmt.Fprintln(cmd.OutOrStdout())
				}
			}
			if showStats {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d tokens, %s\n", r.Tokens, r.Arena.Stats())
			}

			if n := countErrors(r.Diagnostics); n > 0 {
				return errorsFound(n, filename)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json)")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include line:column ranges in tree output")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print token and arena statistics to stderr")

	return cmd
}
