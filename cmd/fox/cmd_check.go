package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/dhamidi/fox/fox/diag"
	"github.com/dhamidi/fox/fox/source"
	"github.com/dhamidi/fox/fox/workspace"
	"github.com/dhamidi/fox/project"
	"github.com/spf13/cobra"
)

func newCheckCmd(s *settings) *cobra.Command {
	var watch bool
	var diagFormat string

	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Parse every .fox file of a project and report diagnostics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			proj, err := project.LoadFrom(dir)
			if err != nil {
				return err
			}
			files, err := proj.Files()
			if err != nil {
				return err
			}

			sm := source.NewManager()
			results := project.ParseAll(cmd.Context(), sm, files, s.projectOptions())
			errs, err := reportResults(cmd.ErrOrStderr(), sm, results, diagFormat)
			if err != nil {
				return err
			}
			if diagFormat == "line" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d files, %d errors\n", proj.Name, len(files), errs)
			}

			if !watch {
				if errs > 0 {
					return errorsFound(errs, proj.Name)
				}
				return nil
			}
			return watchProject(cmd, s, dir)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and re-check files as they change")
	cmd.Flags().IntVar(&s.Workers, "workers", s.Workers, "number of files parsed concurrently")
	cmd.Flags().StringVarP(&diagFormat, "format", "f", "line", "diagnostic format (line, json)")

	return cmd
}

// reportResults prints the diagnostics of every file and returns the
// number of errors, counting each unreadable or rejected file once.
func reportResults(w io.Writer, sm *source.Manager, results []*project.FileResult, diagFormat string) (int, error) {
	var all []diag.Diagnostic
	errs := 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s: %s\n", r.Path, r.Err)
			errs++
		}
		all = append(all, r.Diagnostics...)
		errs += countErrors(r.Diagnostics)
	}
	return errs, printDiagnostics(w, sm, all, diagFormat)
}

func watchProject(cmd *cobra.Command, s *settings, dir string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	ws := workspace.New(dir, s.projectOptions())
	if err := ws.ScanAll(ctx); err != nil {
		return err
	}
	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "watching %s\n", dir)

	err := ws.Watch(ctx, func(paths []string) {
		for _, path := range paths {
			doc := ws.GetFile(path)
			if doc == nil {
				fmt.Fprintf(out, "%s: removed\n", path)
				continue
			}
			if doc.Err != nil {
				fmt.Fprintf(out, "%s: %s\n", path, doc.Err)
			}
			printDiagnostics(out, doc.Source, doc.Diagnostics, "line")
			if doc.ErrorCount() == 0 {
				fmt.Fprintf(out, "%s: ok\n", path)
			}
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
