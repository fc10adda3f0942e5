package template

import (
	"strconv"
	"strings"
)

// MaxBlockDepth caps block nesting. Templates deeper than this fail to
// parse with ParseMaxDepthExceeded, which also bounds render recursion.
const MaxBlockDepth = 64

// Parse lexes and parses src into a Document. It fails with *LexError or
// *ParseError; a tree is only returned when the template is structurally
// sound, so callers never render a partially parsed document.
func Parse(src string) (*Document, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

// openBlock is a stack frame for a block whose closing tag has not been
// seen yet. The stack, not the depth numeral, is the matching authority;
// the numeral is validated against it.
type openBlock struct {
	tok    Token
	body   []Node
	orelse []Node
	inElse bool

	// parsed "for" pieces
	iterVar string
	list    string

	// parsed "if" condition
	cond Cond
}

// ParseTokens builds the node tree from a pre-lexed token sequence using an
// explicit stack of open blocks, so arbitrarily deep input cannot grow the
// native call stack.
func ParseTokens(toks []Token) (*Document, error) {
	var root []Node
	var stack []*openBlock

	appendNode := func(n Node) {
		if len(stack) == 0 {
			root = append(root, n)
			return
		}
		top := stack[len(stack)-1]
		if top.inElse {
			top.orelse = append(top.orelse, n)
		} else {
			top.body = append(top.body, n)
		}
	}

	for _, t := range toks {
		switch t.Kind {
		case TokenText:
			if t.Text != "" {
				appendNode(&TextNode{Text: t.Text})
			}

		case TokenVariable:
			if t.Path == "" {
				return nil, &ParseError{
					Kind: ParseMalformedExpr, Pos: t.Pos,
					Detail: "empty variable path",
				}
			}
			appendNode(&VariableNode{Path: t.Path, Default: t.Default, HasDefault: t.HasDefault})

		case TokenBlockOpen:
			enclosing := 0
			if len(stack) > 0 {
				enclosing = stack[len(stack)-1].tok.Depth
			}
			if t.Depth <= enclosing {
				return nil, &ParseError{
					Kind: ParseDepthMismatch, Pos: t.Pos,
					Detail: "opening " + t.Block.String() + " declares depth " +
						itoa(t.Depth) + " inside a block of depth " + itoa(enclosing),
				}
			}
			if len(stack) >= MaxBlockDepth {
				return nil, &ParseError{Kind: ParseMaxDepthExceeded, Pos: t.Pos}
			}
			ob := &openBlock{tok: t}
			switch t.Block {
			case BlockFor:
				iterVar, list, err := parseForExpr(t)
				if err != nil {
					return nil, err
				}
				ob.iterVar, ob.list = iterVar, list
			case BlockIf:
				cond, err := parseCond(t)
				if err != nil {
					return nil, err
				}
				ob.cond = cond
			}
			stack = append(stack, ob)

		case TokenBlockElse:
			if len(stack) == 0 {
				return nil, &ParseError{
					Kind: ParseUnexpectedClose, Pos: t.Pos,
					Detail: "else outside any block",
				}
			}
			top := stack[len(stack)-1]
			if top.tok.Block != BlockIf {
				return nil, &ParseError{
					Kind: ParseUnexpectedClose, Pos: t.Pos,
					Detail: "else is only valid inside an if block",
				}
			}
			if top.inElse {
				return nil, &ParseError{
					Kind: ParseUnexpectedClose, Pos: t.Pos,
					Detail: "duplicate else in if block",
				}
			}
			if t.Depth != top.tok.Depth {
				return nil, &ParseError{
					Kind: ParseDepthMismatch, Pos: t.Pos,
					Detail: "else declares depth " + itoa(t.Depth) +
						", open if declares " + itoa(top.tok.Depth),
				}
			}
			top.inElse = true

		case TokenBlockClose:
			if len(stack) == 0 {
				return nil, &ParseError{
					Kind: ParseUnexpectedClose, Pos: t.Pos,
					Detail: "end" + t.Block.String() + " with no open block",
				}
			}
			top := stack[len(stack)-1]
			if t.Block != top.tok.Block {
				return nil, &ParseError{
					Kind: ParseUnexpectedClose, Pos: t.Pos,
					Detail: "end" + t.Block.String() + " closes an open " +
						top.tok.Block.String() + " block",
				}
			}
			if t.Depth != top.tok.Depth {
				return nil, &ParseError{
					Kind: ParseDepthMismatch, Pos: t.Pos,
					Detail: "end" + t.Block.String() + " declares depth " +
						itoa(t.Depth) + ", open " + top.tok.Block.String() +
						" declares " + itoa(top.tok.Depth),
				}
			}
			stack = stack[:len(stack)-1]
			switch top.tok.Block {
			case BlockFor:
				appendNode(&ForNode{
					Var:   top.iterVar,
					List:  top.list,
					Depth: top.tok.Depth,
					Body:  top.body,
				})
			case BlockIf:
				appendNode(&IfNode{
					Cond:  top.cond,
					Depth: top.tok.Depth,
					Then:  top.body,
					Else:  top.orelse,
				})
			}
		}
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return nil, &ParseError{
			Kind: ParseUnclosedBlock, Pos: top.tok.Pos,
			Detail: top.tok.Block.String() + " block at depth " +
				itoa(top.tok.Depth) + " is never closed",
		}
	}
	return &Document{Nodes: root}, nil
}

// parseForExpr validates "<identifier> in <path-or-literal>".
func parseForExpr(t Token) (iterVar, list string, err error) {
	parts := strings.SplitN(t.Expr, " in ", 2)
	if len(parts) != 2 {
		return "", "", &ParseError{
			Kind: ParseMalformedExpr, Pos: t.Pos,
			Detail: "for expects 'var in list', got " + strings.TrimSpace(t.Expr),
		}
	}
	iterVar = strings.TrimSpace(parts[0])
	list = strings.TrimSpace(parts[1])
	if !isIdentifier(iterVar) {
		return "", "", &ParseError{
			Kind: ParseMalformedExpr, Pos: t.Pos,
			Detail: "invalid loop variable " + iterVar,
		}
	}
	if list == "" {
		return "", "", &ParseError{
			Kind: ParseMalformedExpr, Pos: t.Pos,
			Detail: "for expects a list expression after 'in'",
		}
	}
	return iterVar, list, nil
}

// condOps is ordered so that two-byte operators win over their one-byte
// prefixes.
var condOps = []string{"==", "!=", ">=", "<=", ">", "<"}

// parseCond validates "<path> <op> <literal>" or a bare truthiness path.
func parseCond(t Token) (Cond, error) {
	expr := strings.TrimSpace(t.Expr)
	for _, op := range condOps {
		i := strings.Index(expr, op)
		if i < 0 {
			continue
		}
		left := strings.TrimSpace(expr[:i])
		right := strings.TrimSpace(expr[i+len(op):])
		if left == "" || right == "" {
			return Cond{}, &ParseError{
				Kind: ParseMalformedExpr, Pos: t.Pos,
				Detail: "comparison requires operands on both sides of " + op,
			}
		}
		return Cond{Left: left, Op: op, Right: right}, nil
	}
	return Cond{Left: expr}, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func itoa(i int) string { return strconv.Itoa(i) }
