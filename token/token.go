// Package token defines source positions, spans and the lexical tokens of the
// host language, grouped into delimited token trees.
package token

import (
	"fmt"
	"strings"
)

// Position is a location in a source file. Line and Column are 1-based.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

// IsValid reports whether the position carries a line number.
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	s := p.Filename
	if p.IsValid() {
		if s != "" {
			s += ":"
		}
		s += fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	if s == "" {
		s = "-"
	}
	return s
}

// Span is a half-open range of source text.
type Span struct {
	Start Position
	End   Position
}

// NoSpan is used for synthesized syntax.
var NoSpan = Span{}

// IsValid reports whether the span points into real source.
func (s Span) IsValid() bool { return s.Start.IsValid() }

func (s Span) String() string { return s.Start.String() }

// Join returns the smallest span covering both s and other.
func (s Span) Join(other Span) Span {
	if !s.IsValid() {
		return other
	}
	if !other.IsValid() {
		return s
	}
	out := s
	if other.Start.Offset < out.Start.Offset {
		out.Start = other.Start
	}
	if other.End.Offset > out.End.Offset {
		out.End = other.End
	}
	return out
}

// Kind classifies a lexical token.
type Kind int

const (
	Invalid Kind = iota
	EOF
	Ident
	Lifetime
	Literal
	Punct
	DocComment
	Group
)

var kindNames = [...]string{
	Invalid:    "invalid",
	EOF:        "end of input",
	Ident:      "identifier",
	Lifetime:   "lifetime",
	Literal:    "literal",
	Punct:      "punctuation",
	DocComment: "doc comment",
	Group:      "group",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// LitKind classifies literal tokens.
type LitKind int

const (
	LitInt LitKind = iota
	LitFloat
	LitStr
	LitByteStr
	LitChar
	LitByte
)

// Delimiter is the bracket pair of a Group.
type Delimiter int

const (
	Parenthesis Delimiter = iota
	Bracket
	Brace
)

// Open returns the opening character of the delimiter.
func (d Delimiter) Open() string {
	switch d {
	case Bracket:
		return "["
	case Brace:
		return "{"
	}
	return "("
}

// Close returns the closing character of the delimiter.
func (d Delimiter) Close() string {
	switch d {
	case Bracket:
		return "]"
	case Brace:
		return "}"
	}
	return ")"
}

// Token is a single token tree: a leaf token or a delimited group.
//
// For literals Value holds the decoded value (strings unescaped, numbers
// without suffix) and Suffix the type suffix, e.g. "u8". For doc comments
// Value holds the comment text and Inner reports a `//!` or `/*!` comment.
type Token struct {
	Kind      Kind
	Text      string
	Value     string
	Suffix    string
	LitKind   LitKind
	Inner     bool
	Delimiter Delimiter
	Tokens    []Token
	Span      Span
}

// Is reports whether the token is the punctuation or identifier text.
func (t Token) Is(text string) bool {
	return (t.Kind == Punct || t.Kind == Ident) && t.Text == text
}

// IsGroup reports whether the token is a group with the given delimiter.
func (t Token) IsGroup(d Delimiter) bool {
	return t.Kind == Group && t.Delimiter == d
}

func (t Token) String() string {
	if t.Kind == Group {
		return t.Delimiter.Open() + Stream(t.Tokens).String() + t.Delimiter.Close()
	}
	return t.Text
}

// Stream is a sequence of token trees.
type Stream []Token

// String renders the stream with single spaces where tokens were separated.
func (s Stream) String() string {
	var b strings.Builder
	for i, t := range s {
		if i > 0 && needsSpace(s[i-1], t) {
			b.WriteByte(' ')
		}
		b.WriteString(t.String())
	}
	return b.String()
}

// Span returns the span covering every token of the stream.
func (s Stream) Span() Span {
	if len(s) == 0 {
		return NoSpan
	}
	return s[0].Span.Join(s[len(s)-1].Span)
}

// SplitComma splits the stream at top-level commas. A trailing comma does
// not produce an empty segment.
func (s Stream) SplitComma() []Stream {
	var out []Stream
	var cur Stream
	for _, t := range s {
		if t.Is(",") {
			out = append(out, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func needsSpace(prev, next Token) bool {
	if prev.Kind == Punct {
		switch prev.Text {
		case "::", "#", "&", "!", "-", "'":
			return false
		case ",", "=", ";", "=>", "->", ":":
			return true
		}
	}
	if next.Kind == Punct {
		switch next.Text {
		case ",", ";", ":", "::", "!", "?", ".":
			return false
		}
	}
	if next.Kind == Group && (next.Delimiter == Parenthesis || next.Delimiter == Bracket) && prev.Kind == Ident {
		return false
	}
	return true
}
