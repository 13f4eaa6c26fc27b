package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/fox/fox/diag"
	"github.com/dhamidi/fox/fox/source"
)

// DiagnosticLineEncoder writes diagnostics the way compilers usually do:
//
//	file:line:col: severity: message [id]
type DiagnosticLineEncoder struct {
	w     io.Writer
	sm    *source.Manager
	diags []diag.Diagnostic
}

func NewDiagnosticLineEncoder(w io.Writer, sm *source.Manager) *DiagnosticLineEncoder {
	return &DiagnosticLineEncoder{w: w, sm: sm}
}

func (e *DiagnosticLineEncoder) Encode(diags []diag.Diagnostic) error {
	e.diags = diags
	return write(e.w, e)
}

func (e *DiagnosticLineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, d := range e.diags {
		sb.WriteString(Diagnostic(e.sm, d))
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}

// Diagnostic renders d on one line. Without a resolvable file the
// location is left out.
func Diagnostic(sm *source.Manager, d diag.Diagnostic) string {
	msg := fmt.Sprintf("%s: %s [%s]", d.Severity, d.Message(), d.ID)
	if sm == nil || !d.Range.IsValid() {
		return msg
	}
	return sm.Position(d.Range.BeginLoc()).String() + ": " + msg
}

type DiagnosticJSONEncoder struct {
	w     io.Writer
	sm    *source.Manager
	diags []diag.Diagnostic
}

func NewDiagnosticJSONEncoder(w io.Writer, sm *source.Manager) *DiagnosticJSONEncoder {
	return &DiagnosticJSONEncoder{w: w, sm: sm}
}

func (e *DiagnosticJSONEncoder) Encode(diags []diag.Diagnostic) error {
	e.diags = diags
	return write(e.w, e)
}

func (e *DiagnosticJSONEncoder) MarshalText() ([]byte, error) {
	data := make([]jsonDiagnostic, len(e.diags))
	for i, d := range e.diags {
		data[i] = jsonDiagnostic{
			ID:       d.ID.String(),
			Severity: d.Severity.String(),
			Message:  d.Message(),
			Span:     spanOf(e.sm, d.Range),
		}
		if e.sm != nil && d.Range.IsValid() {
			data[i].File = e.sm.Name(d.Range.File)
		}
	}
	return json.MarshalIndent(data, "", "  ")
}

type jsonDiagnostic struct {
	ID       string    `json:"id"`
	Severity string    `json:"severity"`
	Message  string    `json:"message"`
	File     string    `json:"file,omitempty"`
	Span     *jsonSpan `json:"span,omitempty"`
}
