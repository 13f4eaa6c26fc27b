package ast

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"
)

const (
	chunkSize = 64 << 10
	slabSize  = 256
)

// Arena owns every node, identifier and type of one compilation unit.
// Nothing allocated from it is ever freed individually; Reset drops it all.
// An Arena must not be used from more than one goroutine at a time.
type Arena struct {
	chunks [][]byte
	cur    []byte
	off    int
	bytes  int

	slabs  map[reflect.Type]any
	nodes  int
	idents map[string]*identInfo

	builtins  map[BuiltinKind]*BuiltinType
	errorType *ErrorType
	arrays    map[Type]*ArrayType
	refs      map[Type]*ReferenceType
	funcs     map[string]*FunctionType
}

func NewArena() *Arena {
	a := &Arena{}
	a.init()
	return a
}

func (a *Arena) init() {
	a.slabs = make(map[reflect.Type]any)
	a.idents = make(map[string]*identInfo)
	a.builtins = make(map[BuiltinKind]*BuiltinType)
	for k := BuiltinVoid; k <= BuiltinString; k++ {
		a.builtins[k] = &BuiltinType{kind: k}
	}
	a.errorType = &ErrorType{}
	a.arrays = make(map[Type]*ArrayType)
	a.refs = make(map[Type]*ReferenceType)
	a.funcs = make(map[string]*FunctionType)
}

// Reset releases everything the arena handed out. Nodes, identifiers and
// types obtained before the call must not be used afterwards.
func (a *Arena) Reset() {
	*a = Arena{}
	a.init()
}

// Allocate returns size zeroed bytes aligned to align, which must be a
// power of two. Requests larger than a chunk get a chunk of their own.
func (a *Arena) Allocate(size, align int) []byte {
	if align <= 0 || align&(align-1) != 0 {
		panic(fmt.Sprintf("ast: alignment %d is not a power of two", align))
	}
	if size < 0 {
		panic(fmt.Sprintf("ast: negative allocation size %d", size))
	}

	off := a.alignedOffset(align)
	if a.cur == nil || off+size > len(a.cur) {
		n := chunkSize
		if size+align > n {
			n = size + align
		}
		a.cur = make([]byte, n)
		a.chunks = append(a.chunks, a.cur)
		a.off = 0
		off = a.alignedOffset(align)
	}
	a.off = off + size
	a.bytes += size
	return a.cur[off : off+size : off+size]
}

// alignedOffset is the first offset in the current chunk at or after a.off
// whose address is a multiple of align.
func (a *Arena) alignedOffset(align int) int {
	if a.cur == nil {
		return 0
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.cur)))
	addr := base + uintptr(a.off)
	aligned := (addr + uintptr(align-1)) &^ uintptr(align-1)
	return int(aligned - base)
}

type slab[T any] struct {
	chunk []T
}

func slabFor[T any](a *Arena) *slab[T] {
	key := reflect.TypeOf((*T)(nil)).Elem()
	s, ok := a.slabs[key].(*slab[T])
	if !ok {
		s = &slab[T]{}
		a.slabs[key] = s
	}
	return s
}

// newNode carves a zeroed T out of the arena. The address is stable for
// the lifetime of the arena.
func newNode[T any](a *Arena) *T {
	s := slabFor[T](a)
	if len(s.chunk) == cap(s.chunk) {
		s.chunk = make([]T, 0, slabSize)
	}
	s.chunk = s.chunk[:len(s.chunk)+1]
	a.nodes++
	return &s.chunk[len(s.chunk)-1]
}

// newSlice copies elems into arena-owned storage with a fixed length.
func newSlice[T any](a *Arena, elems []T) []T {
	n := len(elems)
	if n == 0 {
		return nil
	}
	es := slabFor[T](a)
	var out []T
	if n > slabSize/4 {
		out = make([]T, n)
	} else {
		if cap(es.chunk)-len(es.chunk) < n {
			es.chunk = make([]T, 0, slabSize)
		}
		start := len(es.chunk)
		es.chunk = es.chunk[:start+n]
		out = es.chunk[start : start+n : start+n]
	}
	copy(out, elems)
	return out
}

type identInfo struct {
	text string
}

// Identifier is an interned name. Two identifiers from the same arena are
// equal exactly when their text is equal.
type Identifier struct {
	info *identInfo
}

func (id Identifier) String() string {
	if id.info == nil {
		return ""
	}
	return id.info.text
}

func (id Identifier) IsNull() bool {
	return id.info == nil
}

// Intern returns the identifier for text, copying it into the arena the
// first time it is seen.
func (a *Arena) Intern(text string) Identifier {
	if info, ok := a.idents[text]; ok {
		return Identifier{info: info}
	}
	stored := ""
	if len(text) > 0 {
		b := a.Allocate(len(text), 1)
		copy(b, text)
		stored = unsafe.String(&b[0], len(b))
	}
	info := newNode[identInfo](a)
	a.nodes--
	info.text = stored
	a.idents[stored] = info
	return Identifier{info: info}
}

func (a *Arena) VoidType() *BuiltinType   { return a.builtins[BuiltinVoid] }
func (a *Arena) IntType() *BuiltinType    { return a.builtins[BuiltinInt] }
func (a *Arena) FloatType() *BuiltinType  { return a.builtins[BuiltinFloat] }
func (a *Arena) BoolType() *BuiltinType   { return a.builtins[BuiltinBool] }
func (a *Arena) CharType() *BuiltinType   { return a.builtins[BuiltinChar] }
func (a *Arena) StringType() *BuiltinType { return a.builtins[BuiltinString] }
func (a *Arena) ErrorType() *ErrorType    { return a.errorType }

func (a *Arena) Builtin(kind BuiltinKind) *BuiltinType {
	return a.builtins[kind]
}

// ArrayOf returns the unique array type with element type elem.
func (a *Arena) ArrayOf(elem Type) *ArrayType {
	if t, ok := a.arrays[elem]; ok {
		return t
	}
	t := &ArrayType{Elem: elem}
	a.arrays[elem] = t
	return t
}

// ReferenceTo returns the unique reference type wrapping elem.
func (a *Arena) ReferenceTo(elem Type) *ReferenceType {
	if t, ok := a.refs[elem]; ok {
		return t
	}
	t := &ReferenceType{Elem: elem}
	a.refs[elem] = t
	return t
}

// FunctionOf returns the unique function type for params and result.
func (a *Arena) FunctionOf(params []Type, result Type) *FunctionType {
	var key strings.Builder
	for _, p := range params {
		fmt.Fprintf(&key, "%p,", p)
	}
	fmt.Fprintf(&key, "->%p", result)
	if t, ok := a.funcs[key.String()]; ok {
		return t
	}
	t := &FunctionType{Params: append([]Type(nil), params...), Result: result}
	a.funcs[key.String()] = t
	return t
}

// Stats describes how much an arena holds.
type Stats struct {
	Bytes       int
	Chunks      int
	Nodes       int
	Identifiers int
	Types       int
}

func (a *Arena) Stats() Stats {
	return Stats{
		Bytes:       a.bytes,
		Chunks:      len(a.chunks),
		Nodes:       a.nodes,
		Identifiers: len(a.idents),
		Types:       len(a.builtins) + 1 + len(a.arrays) + len(a.refs) + len(a.funcs),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("%d bytes in %d chunks, %d nodes, %d identifiers, %d types",
		s.Bytes, s.Chunks, s.Nodes, s.Identifiers, s.Types)
}
