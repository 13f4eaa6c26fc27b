package main

import (
	"github.com/dhamidi/fox/fox/workspace"
	"github.com/spf13/cobra"
)

func newLSPCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := workspace.NewLSPServer(version, s.projectOptions())
			return server.RunStdio()
		},
	}
}
