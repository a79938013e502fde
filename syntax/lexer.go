package syntax

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/token"
)

// multi-character punctuation recognised by the lexer, longest first. Angle
// brackets are always emitted one at a time so that `>>` closes two generic
// argument lists.
var puncts = []string{
	"..=", "...", "::", "->", "=>", "..", "==", "!=", "&&", "||",
}

type lexer struct {
	filename string
	src      string
	offset   int
	line     int
	col      int
	errs     errors.List
}

// Tokenize splits src into a stream of token trees. Groups are nested by
// their delimiters and doc comments are kept as DocComment tokens.
func Tokenize(filename, src string) (token.Stream, error) {
	l := &lexer{filename: filename, src: src, line: 1, col: 1}
	flat := l.scanAll()
	if err := l.errs.Err(); err != nil {
		return nil, err
	}
	stream, rest, err := group(flat)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, errors.Compile(rest[0].Span, "unexpected closing delimiter %q", rest[0].Text)
	}
	return stream, nil
}

func (l *lexer) pos() token.Position {
	return token.Position{Filename: l.filename, Offset: l.offset, Line: l.line, Column: l.col}
}

func (l *lexer) peekRune(n int) rune {
	off := l.offset
	for i := 0; i < n; i++ {
		if off >= len(l.src) {
			return 0
		}
		_, size := utf8.DecodeRuneInString(l.src[off:])
		off += size
	}
	if off >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[off:])
	return r
}

func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.offset:])
	l.offset += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) errorf(start token.Position, msg string, args ...any) {
	l.errs.Add(errors.Compile(token.Span{Start: start, End: l.pos()}, msg, args...))
}

func (l *lexer) scanAll() []token.Token {
	var out []token.Token
	for {
		l.skipSpace()
		if l.offset >= len(l.src) {
			return out
		}
		start := l.pos()
		tok, ok := l.scan()
		if !ok {
			continue
		}
		tok.Span = token.Span{Start: start, End: l.pos()}
		out = append(out, tok)
	}
}

func (l *lexer) skipSpace() {
	for l.offset < len(l.src) {
		r := l.peekRune(0)
		if !unicode.IsSpace(r) {
			return
		}
		l.advance()
	}
}

func (l *lexer) scan() (token.Token, bool) {
	start := l.pos()
	r := l.peekRune(0)
	switch {
	case r == '/' && l.peekRune(1) == '/':
		return l.lineComment()
	case r == '/' && l.peekRune(1) == '*':
		return l.blockComment(start)
	case r == 'r' && l.peekRune(1) == '#' && isIdentStart(l.peekRune(2)):
		l.advance()
		l.advance()
		name := l.identText()
		return token.Token{Kind: token.Ident, Text: name}, true
	case r == 'r' && (l.peekRune(1) == '"' || (l.peekRune(1) == '#' && (l.peekRune(2) == '"' || l.peekRune(2) == '#'))):
		l.advance()
		return l.rawString(start, token.LitStr, "r")
	case r == 'b' && l.peekRune(1) == 'r' && (l.peekRune(2) == '"' || l.peekRune(2) == '#'):
		l.advance()
		l.advance()
		return l.rawString(start, token.LitByteStr, "br")
	case r == 'b' && l.peekRune(1) == '"':
		l.advance()
		return l.quoted(start, '"', token.LitByteStr, "b")
	case r == 'b' && l.peekRune(1) == '\'':
		l.advance()
		return l.quoted(start, '\'', token.LitByte, "b")
	case isIdentStart(r):
		name := l.identText()
		return token.Token{Kind: token.Ident, Text: name}, true
	case r >= '0' && r <= '9':
		return l.number(), true
	case r == '"':
		return l.quoted(start, '"', token.LitStr, "")
	case r == '\'':
		return l.charOrLifetime(start)
	}
	for _, p := range puncts {
		if strings.HasPrefix(l.src[l.offset:], p) {
			for range p {
				l.advance()
			}
			return token.Token{Kind: token.Punct, Text: p}, true
		}
	}
	l.advance()
	if strings.ContainsRune("#!$%&*+,-./:;<=>?@^|~()[]{}", r) {
		return token.Token{Kind: token.Punct, Text: string(r)}, true
	}
	l.errorf(start, "unexpected character %q", r)
	return token.Token{}, false
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *lexer) identText() string {
	begin := l.offset
	for l.offset < len(l.src) && isIdentContinue(l.peekRune(0)) {
		l.advance()
	}
	return l.src[begin:l.offset]
}

func (l *lexer) lineComment() (token.Token, bool) {
	begin := l.offset
	for l.offset < len(l.src) && l.peekRune(0) != '\n' {
		l.advance()
	}
	text := l.src[begin:l.offset]
	switch {
	case strings.HasPrefix(text, "////"):
		return token.Token{}, false
	case strings.HasPrefix(text, "///"):
		return token.Token{Kind: token.DocComment, Text: text, Value: text[3:]}, true
	case strings.HasPrefix(text, "//!"):
		return token.Token{Kind: token.DocComment, Text: text, Value: text[3:], Inner: true}, true
	}
	return token.Token{}, false
}

func (l *lexer) blockComment(start token.Position) (token.Token, bool) {
	begin := l.offset
	l.advance()
	l.advance()
	depth := 1
	for depth > 0 {
		if l.offset >= len(l.src) {
			l.errorf(start, "unterminated block comment")
			return token.Token{}, false
		}
		switch {
		case strings.HasPrefix(l.src[l.offset:], "/*"):
			depth++
			l.advance()
			l.advance()
		case strings.HasPrefix(l.src[l.offset:], "*/"):
			depth--
			l.advance()
			l.advance()
		default:
			l.advance()
		}
	}
	text := l.src[begin:l.offset]
	body := strings.TrimSuffix(text, "*/")
	switch {
	case strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/***") && text != "/**/":
		return token.Token{Kind: token.DocComment, Text: text, Value: body[3:]}, true
	case strings.HasPrefix(text, "/*!"):
		return token.Token{Kind: token.DocComment, Text: text, Value: body[3:], Inner: true}, true
	}
	return token.Token{}, false
}

func (l *lexer) number() token.Token {
	begin := l.offset
	kind := token.LitInt
	if l.peekRune(0) == '0' && strings.ContainsRune("xob", l.peekRune(1)) {
		l.advance()
		l.advance()
		for isHexDigit(l.peekRune(0)) || l.peekRune(0) == '_' {
			l.advance()
		}
	} else {
		l.digits()
		// `1..2` is a range and `1.foo()` a method call, neither is a float.
		if l.peekRune(0) == '.' && l.peekRune(1) != '.' && !isIdentStart(l.peekRune(1)) {
			kind = token.LitFloat
			l.advance()
			l.digits()
		}
		if r := l.peekRune(0); (r == 'e' || r == 'E') && (isDigit(l.peekRune(1)) || ((l.peekRune(1) == '+' || l.peekRune(1) == '-') && isDigit(l.peekRune(2)))) {
			kind = token.LitFloat
			l.advance()
			if r := l.peekRune(0); r == '+' || r == '-' {
				l.advance()
			}
			l.digits()
		}
	}
	body := l.src[begin:l.offset]
	suffix := ""
	if isIdentStart(l.peekRune(0)) {
		suffix = l.identText()
		if strings.HasPrefix(suffix, "f") {
			kind = token.LitFloat
		}
	}
	return token.Token{
		Kind:    token.Literal,
		LitKind: kind,
		Text:    body + suffix,
		Value:   strings.ReplaceAll(body, "_", ""),
		Suffix:  suffix,
	}
}

func (l *lexer) digits() {
	for isDigit(l.peekRune(0)) || l.peekRune(0) == '_' {
		l.advance()
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (l *lexer) quoted(start token.Position, quote rune, kind token.LitKind, prefix string) (token.Token, bool) {
	begin := l.offset
	l.advance()
	var value strings.Builder
	for {
		if l.offset >= len(l.src) {
			l.errorf(start, "unterminated literal")
			return token.Token{}, false
		}
		r := l.advance()
		if r == quote {
			break
		}
		if r != '\\' {
			value.WriteRune(r)
			continue
		}
		l.escape(start, &value)
	}
	text := prefix + l.src[begin:l.offset]
	suffix := ""
	if isIdentStart(l.peekRune(0)) {
		suffix = l.identText()
		text += suffix
	}
	return token.Token{Kind: token.Literal, LitKind: kind, Text: text, Value: value.String(), Suffix: suffix}, true
}

func (l *lexer) escape(start token.Position, value *strings.Builder) {
	if l.offset >= len(l.src) {
		l.errorf(start, "unterminated escape sequence")
		return
	}
	switch e := l.advance(); e {
	case 'n':
		value.WriteByte('\n')
	case 'r':
		value.WriteByte('\r')
	case 't':
		value.WriteByte('\t')
	case '0':
		value.WriteByte(0)
	case '\\', '\'', '"':
		value.WriteRune(e)
	case '\n':
		// line continuation skips leading whitespace on the next line
		l.skipSpace()
	case 'x':
		hex := ""
		for i := 0; i < 2 && isHexDigit(l.peekRune(0)); i++ {
			hex += string(l.advance())
		}
		n, err := strconv.ParseUint(hex, 16, 8)
		if err != nil {
			l.errorf(start, "invalid hex escape")
			return
		}
		value.WriteByte(byte(n))
	case 'u':
		if l.peekRune(0) != '{' {
			l.errorf(start, "invalid unicode escape")
			return
		}
		l.advance()
		hex := ""
		for l.offset < len(l.src) && l.peekRune(0) != '}' {
			if r := l.advance(); r != '_' {
				hex += string(r)
			}
		}
		l.advance()
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			l.errorf(start, "invalid unicode escape")
			return
		}
		value.WriteRune(rune(n))
	default:
		l.errorf(start, "unknown escape sequence \\%c", e)
	}
}

func (l *lexer) rawString(start token.Position, kind token.LitKind, prefix string) (token.Token, bool) {
	begin := l.offset
	hashes := 0
	for l.peekRune(0) == '#' {
		hashes++
		l.advance()
	}
	if l.peekRune(0) != '"' {
		l.errorf(start, "invalid raw string literal")
		return token.Token{}, false
	}
	l.advance()
	closing := "\"" + strings.Repeat("#", hashes)
	contentStart := l.offset
	idx := strings.Index(l.src[l.offset:], closing)
	if idx < 0 {
		for l.offset < len(l.src) {
			l.advance()
		}
		l.errorf(start, "unterminated raw string literal")
		return token.Token{}, false
	}
	for l.offset < contentStart+idx+len(closing) {
		l.advance()
	}
	value := l.src[contentStart : contentStart+idx]
	text := prefix[:len(prefix)-1] + l.src[begin-1:l.offset]
	return token.Token{Kind: token.Literal, LitKind: kind, Text: text, Value: value}, true
}

func (l *lexer) charOrLifetime(start token.Position) (token.Token, bool) {
	// 'a' is a char, 'a (not followed by a quote) is a lifetime.
	if isIdentStart(l.peekRune(1)) && l.peekRune(2) != '\'' {
		l.advance()
		name := l.identText()
		return token.Token{Kind: token.Lifetime, Text: "'" + name, Value: name}, true
	}
	return l.quoted(start, '\'', token.LitChar, "")
}

// group nests flat tokens into delimited groups. It stops at a closing
// delimiter that has no matching opener and returns the remaining tokens.
func group(flat []token.Token) (token.Stream, []token.Token, error) {
	var out token.Stream
	for len(flat) > 0 {
		t := flat[0]
		if t.Kind == token.Punct {
			switch t.Text {
			case "(", "[", "{":
				inner, rest, err := group(flat[1:])
				if err != nil {
					return nil, nil, err
				}
				if len(rest) == 0 {
					return nil, nil, errors.Compile(t.Span, "unclosed delimiter %q", t.Text)
				}
				closing := rest[0]
				d := delimiterOf(t.Text)
				if closing.Text != d.Close() {
					return nil, nil, errors.Compile(closing.Span, "mismatched closing delimiter %q", closing.Text)
				}
				out = append(out, token.Token{
					Kind:      token.Group,
					Delimiter: d,
					Tokens:    inner,
					Text:      d.Open() + d.Close(),
					Span:      t.Span.Join(closing.Span),
				})
				flat = rest[1:]
				continue
			case ")", "]", "}":
				return out, flat, nil
			}
		}
		out = append(out, t)
		flat = flat[1:]
	}
	return out, nil, nil
}

func delimiterOf(open string) token.Delimiter {
	switch open {
	case "[":
		return token.Bracket
	case "{":
		return token.Brace
	}
	return token.Parenthesis
}
