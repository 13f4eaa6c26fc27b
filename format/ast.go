package format

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/dhamidi/fox/fox/ast"
	"github.com/dhamidi/fox/fox/source"
)

// TreeEncoder writes the indented dump of a node. Positions are included
// when the encoder has a source manager.
type TreeEncoder struct {
	w    io.Writer
	sm   *source.Manager
	node ast.Node
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

// WithPositions makes the dump carry line:column ranges resolved by sm.
func (e *TreeEncoder) WithPositions(sm *source.Manager) *TreeEncoder {
	e.sm = sm
	return e
}

func (e *TreeEncoder) Encode(n ast.Node) error {
	e.node = n
	return write(e.w, e)
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	if err := ast.Dump(&buf, e.node, e.sm); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type ASTJSONEncoder struct {
	w    io.Writer
	sm   *source.Manager
	node ast.Node
}

func NewASTJSONEncoder(w io.Writer, sm *source.Manager) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w, sm: sm}
}

func (e *ASTJSONEncoder) Encode(n ast.Node) error {
	e.node = n
	return write(e.w, e)
}

func (e *ASTJSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.nodeToJSON(e.node), "", "  ")
}

type astJSONNode struct {
	Kind     string         `json:"kind"`
	Family   string         `json:"family"`
	Name     string         `json:"name,omitempty"`
	Detail   string         `json:"detail,omitempty"`
	Span     *jsonSpan      `json:"span,omitempty"`
	Invalid  bool           `json:"invalid,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

func (e *ASTJSONEncoder) nodeToJSON(n ast.Node) *astJSONNode {
	if n == nil {
		return nil
	}
	jn := &astJSONNode{
		Kind:   n.KindName(),
		Family: n.Family().String(),
		Detail: ast.Detail(n),
		Span:   spanOf(e.sm, n.Range()),
	}
	if d := ast.AsDecl(n); d != nil {
		jn.Invalid = d.IsInvalid()
		if named := ast.AsNamedDecl(d); named != nil {
			jn.Name = named.Ident().String()
		}
	}

	children := ast.Children(n)
	if len(children) > 0 {
		jn.Children = make([]*astJSONNode, len(children))
		for i, child := range children {
			jn.Children[i] = e.nodeToJSON(child)
		}
	}
	return jn
}
