package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/fox/fox/diag"
	"github.com/dhamidi/fox/fox/source"
	"github.com/dhamidi/fox/format"
	"github.com/dhamidi/fox/project"
)

func (s *settings) projectOptions() project.Options {
	return project.Options{
		Workers:       s.Workers,
		MaxTokens:     s.MaxTokens,
		EngineOptions: s.EngineOptions(),
		ParserOptions: s.ParserOptions(),
	}
}

func readFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return content, nil
}

func printDiagnostics(w io.Writer, sm *source.Manager, diags []diag.Diagnostic, name string) error {
	if len(diags) == 0 && name == "line" {
		return nil
	}
	enc, err := format.NewDiagnosticEncoder(name, w, sm)
	if err != nil {
		return err
	}
	if err := enc.Encode(diags); err != nil {
		return fmt.Errorf("encode diagnostics: %w", err)
	}
	return nil
}

func countErrors(diags []diag.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity >= diag.SeverityError {
			n++
		}
	}
	return n
}

// errorsFound is returned by commands that ran to completion but found
// errors, so that the process exits non-zero.
func errorsFound(n int, what string) error {
	if n == 1 {
		return fmt.Errorf("1 error in %s", what)
	}
	return fmt.Errorf("%d errors in %s", n, what)
}
