package ast

import "fmt"

// DeclContext is the scope owned by a UnitDecl or FuncDecl. Contexts form
// a tree rooted at the unit through their parent links.
type DeclContext struct {
	owner  Decl
	parent *DeclContext
	lookup map[Identifier][]NamedDecl
	decls  []NamedDecl
}

func newDeclContext(owner Decl, parent *DeclContext) *DeclContext {
	return &DeclContext{
		owner:  owner,
		parent: parent,
		lookup: make(map[Identifier][]NamedDecl),
	}
}

// NewDeclContext returns a free-standing context, e.g. one shared by
// several units as their common parent.
func NewDeclContext(parent *DeclContext) *DeclContext {
	return newDeclContext(nil, parent)
}

func (c *DeclContext) Owner() Decl          { return c.owner }
func (c *DeclContext) Parent() *DeclContext { return c.parent }

// Add registers d in c. A declaration belongs to exactly one context.
func (c *DeclContext) Add(d NamedDecl) {
	if d.Parent() != nil {
		panic(fmt.Sprintf("ast: %s %q is already registered", d.KindName(), d.Ident()))
	}
	d.setParent(c)
	c.lookup[d.Ident()] = append(c.lookup[d.Ident()], d)
	c.decls = append(c.decls, d)
}

// Lookup returns the declarations of id made directly in c.
func (c *DeclContext) Lookup(id Identifier) []NamedDecl {
	return c.lookup[id]
}

// LookupAll returns the declarations of id visible from c, innermost
// context first.
func (c *DeclContext) LookupAll(id Identifier) []NamedDecl {
	var out []NamedDecl
	for ctx := c; ctx != nil; ctx = ctx.parent {
		out = append(out, ctx.lookup[id]...)
	}
	return out
}

// Decls returns every declaration registered in c, in registration order.
func (c *DeclContext) Decls() []NamedDecl {
	return c.decls
}

func (c *DeclContext) Len() int {
	return len(c.decls)
}

// IsAncestorOf reports whether c encloses other (or is other).
func (c *DeclContext) IsAncestorOf(other *DeclContext) bool {
	for ctx := other; ctx != nil; ctx = ctx.parent {
		if ctx == c {
			return true
		}
	}
	return false
}
