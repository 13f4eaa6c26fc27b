package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/fox/fox/lexer"
	"github.com/dhamidi/fox/fox/source"
)

// TokenLineEncoder writes one tab-separated line per token:
// line:column, kind, quoted text and an optional "invalid" marker.
type TokenLineEncoder struct {
	w      io.Writer
	sm     *source.Manager
	tokens []lexer.Token
}

func NewTokenLineEncoder(w io.Writer, sm *source.Manager) *TokenLineEncoder {
	return &TokenLineEncoder{w: w, sm: sm}
}

func (e *TokenLineEncoder) Encode(tokens []lexer.Token) error {
	e.tokens = tokens
	return write(e.w, e)
}

func (e *TokenLineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, tok := range e.tokens {
		fmt.Fprintf(&sb, "%s\t%s\t%q", e.position(tok.Range), tok.Kind, tok.Text)
		if tok.Invalid {
			sb.WriteString("\tinvalid")
		}
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}

func (e *TokenLineEncoder) position(r source.Range) string {
	if e.sm == nil {
		return fmt.Sprintf("%d", r.Begin)
	}
	p := e.sm.Position(r.BeginLoc())
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type TokenJSONEncoder struct {
	w      io.Writer
	sm     *source.Manager
	tokens []lexer.Token
}

func NewTokenJSONEncoder(w io.Writer, sm *source.Manager) *TokenJSONEncoder {
	return &TokenJSONEncoder{w: w, sm: sm}
}

func (e *TokenJSONEncoder) Encode(tokens []lexer.Token) error {
	e.tokens = tokens
	return write(e.w, e)
}

func (e *TokenJSONEncoder) MarshalText() ([]byte, error) {
	data := make([]jsonToken, len(e.tokens))
	for i, tok := range e.tokens {
		data[i] = jsonToken{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Value:   tokenValue(tok),
			Span:    spanOf(e.sm, tok.Range),
			Invalid: tok.Invalid,
		}
	}
	return json.MarshalIndent(data, "", "  ")
}

type jsonToken struct {
	Kind    string    `json:"kind"`
	Text    string    `json:"text"`
	Value   any       `json:"value,omitempty"`
	Span    *jsonSpan `json:"span,omitempty"`
	Invalid bool      `json:"invalid,omitempty"`
}

// tokenValue is the decoded literal payload. Chars become strings.
// Invalid tokens carry none since their value may not be representable.
func tokenValue(tok lexer.Token) any {
	if tok.Invalid || !tok.Kind.IsLiteral() {
		return nil
	}
	if r, ok := tok.Value.(rune); ok {
		return string(r)
	}
	return tok.Value
}
