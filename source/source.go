// Package source defines source text with line index used for error positions.
package source

import (
	"bytes"
	"sort"

	"github.com/rivo/uniseg"
)

// Source is immutable named text. It is safe for concurrent use.
type Source struct {
	name       string
	content    []byte
	lineStarts []int
}

// New creates source. content must not be modified afterwards.
func New(name string, content []byte) *Source {
	s := &Source{name: name, content: content}
	lineCnt := bytes.Count(content, []byte("\n")) + 1
	s.lineStarts = make([]int, 1, lineCnt)
	for i, c := range content {
		if c == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
	return s
}

// FromString creates source from a string.
func FromString(name, content string) *Source {
	return New(name, []byte(content))
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) Content() []byte {
	return s.content
}

func (s *Source) Text() string {
	return string(s.content)
}

func (s *Source) Len() int {
	return len(s.content)
}

// LineCount returns the number of lines, a trailing newline starts an empty line.
func (s *Source) LineCount() int {
	return len(s.lineStarts)
}

// LineCol converts byte offset to 1-based line and column.
// Columns count grapheme clusters, so a combined character or an emoji sequence is one column.
// Offsets out of range are clamped.
func (s *Source) LineCol(pos int) (line, col int) {
	if pos < 0 {
		pos = 0
	} else if pos > len(s.content) {
		pos = len(s.content)
	}

	lineIndex := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > pos
	}) - 1
	lineStart := s.lineStarts[lineIndex]
	return lineIndex + 1, uniseg.GraphemeClusterCount(string(s.content[lineStart:pos])) + 1
}

// Pos converts 1-based line and column (in bytes) to byte offset.
// Results are clamped to content length, non-positive arguments yield 0.
func (s *Source) Pos(line, col int) int {
	if line <= 0 || col <= 0 {
		return 0
	}

	l := len(s.content)
	if line > len(s.lineStarts) {
		return l
	}

	return min(s.lineStarts[line-1]+col-1, l)
}

// Line returns the text of 1-based line without line terminator.
func (s *Source) Line(line int) string {
	if line <= 0 || line > len(s.lineStarts) {
		return ""
	}

	start := s.lineStarts[line-1]
	end := len(s.content)
	if line < len(s.lineStarts) {
		end = s.lineStarts[line] - 1
	}
	return string(bytes.TrimSuffix(s.content[start:end], []byte("\r")))
}

// Pos is a resolved position in a source, it implements prd.SourcePos.
type Pos struct {
	src            *Source
	pos, line, col int
}

// NewPos resolves byte offset in src. src may be nil.
func NewPos(src *Source, pos int) Pos {
	res := Pos{src: src, pos: pos}
	if src != nil {
		res.line, res.col = src.LineCol(pos)
	}
	return res
}

func (p Pos) Source() *Source {
	return p.src
}

func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.name
}

func (p Pos) Pos() int {
	return p.pos
}

func (p Pos) Line() int {
	return p.line
}

func (p Pos) Col() int {
	return p.col
}
