// Package format renders tokens, syntax trees and diagnostics.
//
// Every encoder follows the same shape: Encode stores its input and
// writes the result of MarshalText to the underlying writer.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/fox/fox/ast"
	"github.com/dhamidi/fox/fox/diag"
	"github.com/dhamidi/fox/fox/lexer"
	"github.com/dhamidi/fox/fox/source"
)

type TokenEncoder interface {
	encoding.TextMarshaler
	Encode(tokens []lexer.Token) error
}

type NodeEncoder interface {
	encoding.TextMarshaler
	Encode(n ast.Node) error
}

type DiagnosticEncoder interface {
	encoding.TextMarshaler
	Encode(diags []diag.Diagnostic) error
}

// NewTokenEncoder returns the token encoder called name: "line" or "json".
func NewTokenEncoder(name string, w io.Writer, sm *source.Manager) (TokenEncoder, error) {
	switch name {
	case "line":
		return NewTokenLineEncoder(w, sm), nil
	case "json":
		return NewTokenJSONEncoder(w, sm), nil
	}
	return nil, fmt.Errorf("unknown token format %q", name)
}

// NewNodeEncoder returns the tree encoder called name: "tree" or "json".
// positions only affects "tree"; JSON always carries spans.
func NewNodeEncoder(name string, w io.Writer, sm *source.Manager, positions bool) (NodeEncoder, error) {
	switch name {
	case "tree":
		enc := NewTreeEncoder(w)
		if positions {
			enc.WithPositions(sm)
		}
		return enc, nil
	case "json":
		return NewASTJSONEncoder(w, sm), nil
	}
	return nil, fmt.Errorf("unknown tree format %q", name)
}

// NewDiagnosticEncoder returns the diagnostic encoder called name:
// "line" or "json".
func NewDiagnosticEncoder(name string, w io.Writer, sm *source.Manager) (DiagnosticEncoder, error) {
	switch name {
	case "line":
		return NewDiagnosticLineEncoder(w, sm), nil
	case "json":
		return NewDiagnosticJSONEncoder(w, sm), nil
	}
	return nil, fmt.Errorf("unknown diagnostic format %q", name)
}

func write(w io.Writer, m encoding.TextMarshaler) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

func spanOf(sm *source.Manager, r source.Range) *jsonSpan {
	if sm == nil || !r.IsValid() {
		return nil
	}
	return &jsonSpan{
		Start: positionOf(sm.Position(r.BeginLoc())),
		End:   positionOf(sm.Position(r.EndLoc())),
	}
}

func positionOf(p source.Position) jsonPosition {
	return jsonPosition{Line: p.Line, Column: p.Column, Offset: p.Offset}
}
