package main

import (
	"fmt"

	"github.com/dhamidi/fox/project"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a Fox project",
		Long: `Create a Fox project.

Writes fox.json with a constraint on the current language version and,
unless the directory already contains .fox files, a main.fox to start
from. The project name defaults to the directory's base name and must be
a Fox identifier.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			p, err := project.Init(dir, name)
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "initialized %s in %s\n", p.Name, p.RootDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "project name (default: directory name)")

	return cmd
}
