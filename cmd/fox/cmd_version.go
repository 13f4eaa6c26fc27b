package main

import (
	"fmt"

	"github.com/dhamidi/fox/project"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tool and language versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "fox %s (language %s)\n", version, project.LanguageVersion)
			return nil
		},
	}
}
