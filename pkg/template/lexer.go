package template

// The lexer scans template source into a flat token stream: literal text
// spans and the two tag forms, variables {{ ... }} and depth-marked block
// statements {%N ... %}. Literal text is preserved byte for byte.

import (
	"strconv"
	"strings"
)

// TokenKind identifies the shape of a Token.
type TokenKind int

const (
	TokenText TokenKind = iota
	TokenVariable
	TokenBlockOpen
	TokenBlockElse
	TokenBlockClose
)

// BlockKind identifies which block statement a block token belongs to.
type BlockKind int

const (
	BlockFor BlockKind = iota
	BlockIf
)

func (k BlockKind) String() string {
	if k == BlockFor {
		return "for"
	}
	return "if"
}

// Token is one lexed element of a template. Which fields are meaningful
// depends on Kind: Text for TokenText; Path, Default and HasDefault for
// TokenVariable; Block, Depth and Expr for the block kinds.
type Token struct {
	Kind TokenKind
	Pos  int // byte offset of the token's first byte in the source

	Text string

	Path       string
	Default    string
	HasDefault bool

	Block BlockKind
	Depth int
	Expr  string
}

type lexer struct {
	src []byte
	i   int
	n   int
}

// Tokenize scans src into an ordered token sequence. It fails with a
// *LexError when a tag is left unterminated, and with a *ParseError of kind
// ParseMalformedExpr when a block tag body does not match the grammar.
func Tokenize(src string) ([]Token, error) {
	l := &lexer{src: []byte(src), n: len(src)}
	var toks []Token
	for {
		tok, done, err := l.next()
		if err != nil {
			return nil, err
		}
		if done {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

func (l *lexer) next() (Token, bool, error) {
	if l.i >= l.n {
		return Token{}, true, nil
	}
	start := l.i
	for l.i < l.n {
		if l.i+2 <= l.n {
			switch string(l.src[l.i : l.i+2]) {
			case "{{":
				if l.i > start {
					return l.textToken(start), false, nil
				}
				return l.lexVariable()
			case "{%":
				if l.i > start {
					return l.textToken(start), false, nil
				}
				return l.lexBlock()
			}
		}
		l.i++
	}
	if start < l.n {
		return l.textToken(start), false, nil
	}
	return Token{}, true, nil
}

func (l *lexer) textToken(start int) Token {
	return Token{Kind: TokenText, Pos: start, Text: string(l.src[start:l.i])}
}

func (l *lexer) lexVariable() (Token, bool, error) {
	pos := l.i
	l.i += 2
	inner, ok := l.scanUntil("}}")
	if !ok {
		return Token{}, false, &LexError{Kind: LexUnterminatedTag, Pos: pos}
	}
	tok := Token{Kind: TokenVariable, Pos: pos}
	path, filter := splitPipe(inner)
	tok.Path = strings.TrimSpace(path)
	if def, ok := parseDefaultFilter(filter); ok {
		tok.Default = def
		tok.HasDefault = true
	}
	return tok, false, nil
}

func (l *lexer) lexBlock() (Token, bool, error) {
	pos := l.i
	l.i += 2
	inner, ok := l.scanUntil("%}")
	if !ok {
		return Token{}, false, &LexError{Kind: LexUnterminatedTag, Pos: pos}
	}
	// The depth numeral must follow the opening delimiter immediately.
	d := 0
	for d < len(inner) && inner[d] >= '0' && inner[d] <= '9' {
		d++
	}
	if d == 0 {
		return Token{}, false, &ParseError{
			Kind: ParseMalformedExpr, Pos: pos,
			Detail: "block tag requires a depth numeral after {%",
		}
	}
	depth, err := strconv.Atoi(inner[:d])
	if err != nil || depth < 1 {
		return Token{}, false, &ParseError{
			Kind: ParseMalformedExpr, Pos: pos,
			Detail: "invalid depth numeral " + strconv.Quote(inner[:d]),
		}
	}
	rest := strings.TrimSpace(inner[d:])
	keyword := rest
	expr := ""
	if sp := strings.IndexAny(rest, " \t\n\r"); sp >= 0 {
		keyword = rest[:sp]
		expr = strings.TrimSpace(rest[sp:])
	}
	tok := Token{Pos: pos, Depth: depth, Expr: expr}
	switch keyword {
	case "for":
		tok.Kind, tok.Block = TokenBlockOpen, BlockFor
	case "if":
		tok.Kind, tok.Block = TokenBlockOpen, BlockIf
	case "else":
		tok.Kind = TokenBlockElse
	case "endfor":
		tok.Kind, tok.Block = TokenBlockClose, BlockFor
	case "endif":
		tok.Kind, tok.Block = TokenBlockClose, BlockIf
	default:
		return Token{}, false, &ParseError{
			Kind: ParseMalformedExpr, Pos: pos,
			Detail: "unknown block keyword " + strconv.Quote(keyword),
		}
	}
	if tok.Kind != TokenBlockOpen && expr != "" {
		return Token{}, false, &ParseError{
			Kind: ParseMalformedExpr, Pos: pos,
			Detail: keyword + " takes no expression",
		}
	}
	if tok.Kind == TokenBlockOpen && expr == "" {
		return Token{}, false, &ParseError{
			Kind: ParseMalformedExpr, Pos: pos,
			Detail: keyword + " requires an expression",
		}
	}
	return tok, false, nil
}

// scanUntil consumes input up to and including delim, returning the text
// before it. Reports false if delim is not found.
func (l *lexer) scanUntil(delim string) (string, bool) {
	start := l.i
	for l.i+len(delim) <= l.n {
		match := true
		for j := 0; j < len(delim); j++ {
			if l.src[l.i+j] != delim[j] {
				match = false
				break
			}
		}
		if match {
			s := string(l.src[start:l.i])
			l.i += len(delim)
			return s, true
		}
		l.i++
	}
	l.i = l.n
	return "", false
}

// splitPipe splits a variable tag body on the first unescaped '|'. An
// escaped pipe (\|) is kept, unescaped, as part of the path.
func splitPipe(s string) (path, filter string) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) && s[i+1] == '|' {
			b.WriteByte('|')
			i++
			continue
		}
		if c == '|' {
			return b.String(), s[i+1:]
		}
		b.WriteByte(c)
	}
	return b.String(), ""
}

// parseDefaultFilter recognizes default:'...' or default:"..." in the text
// after the pipe and returns the unescaped quoted literal. Any other filter
// text is ignored, matching the engine's single built-in fallback.
func parseDefaultFilter(s string) (string, bool) {
	s = strings.TrimSpace(s)
	const prefix = "default:"
	if !strings.HasPrefix(s, prefix) {
		return "", false
	}
	lit := strings.TrimSpace(s[len(prefix):])
	if len(lit) < 2 {
		return "", false
	}
	q := lit[0]
	if (q != '\'' && q != '"') || lit[len(lit)-1] != q {
		return "", false
	}
	inner := lit[1 : len(lit)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			b.WriteByte(inner[i+1])
			i++
			continue
		}
		b.WriteByte(inner[i])
	}
	return b.String(), true
}
