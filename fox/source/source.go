// Package source tracks the buffers handed to the front end and maps byte
// offsets back to human positions.
package source

import (
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"
)

// FileID identifies a buffer registered in a Manager. The zero value is invalid.
type FileID int32

func (id FileID) IsValid() bool {
	return id > 0
}

// Loc is a byte offset inside a file.
type Loc struct {
	File   FileID
	Offset int
}

func (l Loc) IsValid() bool {
	return l.File.IsValid()
}

// Range is a half-open byte range [Begin, End) inside a single file.
type Range struct {
	File  FileID
	Begin int
	End   int
}

func NewRange(file FileID, begin, end int) Range {
	if begin > end {
		panic(fmt.Sprintf("source: inverted range [%d, %d)", begin, end))
	}
	return Range{File: file, Begin: begin, End: end}
}

// At returns a zero-width range at offset.
func At(file FileID, offset int) Range {
	return Range{File: file, Begin: offset, End: offset}
}

func (r Range) IsValid() bool {
	return r.File.IsValid() && r.Begin <= r.End
}

func (r Range) Len() int {
	return r.End - r.Begin
}

func (r Range) BeginLoc() Loc {
	return Loc{File: r.File, Offset: r.Begin}
}

func (r Range) EndLoc() Loc {
	return Loc{File: r.File, Offset: r.End}
}

// Union returns the smallest range covering both r and other.
// An invalid operand is ignored.
func (r Range) Union(other Range) Range {
	if !other.IsValid() {
		return r
	}
	if !r.IsValid() {
		return other
	}
	out := r
	if other.Begin < out.Begin {
		out.Begin = other.Begin
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

func (r Range) Contains(offset int) bool {
	return offset >= r.Begin && offset < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("%d:[%d,%d)", r.File, r.Begin, r.End)
}

// Position is a resolved location, used only when rendering diagnostics.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// File is a registered buffer.
type File struct {
	ID         FileID
	Name       string
	Content    string
	lineStarts []int
}

// Manager owns every buffer of a compilation session.
type Manager struct {
	mu    sync.RWMutex
	files []*File
}

func NewManager() *Manager {
	return &Manager{}
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// AddFile registers content under name and returns its ID.
// A leading UTF-8 byte order mark is dropped.
func (m *Manager) AddFile(name string, content []byte) FileID {
	if len(content) >= 3 && content[0] == bom[0] && content[1] == bom[1] && content[2] == bom[2] {
		content = content[3:]
	}
	f := &File{
		Name:    name,
		Content: string(content),
	}
	f.lineStarts = computeLineStarts(f.Content)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = append(m.files, f)
	f.ID = FileID(len(m.files))
	return f.ID
}

func computeLineStarts(s string) []int {
	starts := []int{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (m *Manager) File(id FileID) *File {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !id.IsValid() || int(id) > len(m.files) {
		return nil
	}
	return m.files[id-1]
}

func (m *Manager) Name(id FileID) string {
	if f := m.File(id); f != nil {
		return f.Name
	}
	return ""
}

func (m *Manager) Content(id FileID) string {
	if f := m.File(id); f != nil {
		return f.Content
	}
	return ""
}

// Text returns the source text covered by r.
func (m *Manager) Text(r Range) string {
	f := m.File(r.File)
	if f == nil || r.Begin < 0 || r.End > len(f.Content) || r.Begin > r.End {
		return ""
	}
	return f.Content[r.Begin:r.End]
}

// Position resolves loc to a 1-based line and codepoint column.
func (m *Manager) Position(loc Loc) Position {
	f := m.File(loc.File)
	if f == nil {
		return Position{}
	}
	return f.Position(loc.Offset)
}

func (f *File) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	line := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	}) - 1
	start := f.lineStarts[line]
	return Position{
		File:   f.Name,
		Offset: offset,
		Line:   line + 1,
		Column: utf8.RuneCountInString(f.Content[start:offset]) + 1,
	}
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.lineStarts)
}
