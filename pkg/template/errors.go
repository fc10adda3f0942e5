package template

import "fmt"

// LexErrorKind classifies lexical defects in template source.
type LexErrorKind int

const (
	// LexUnterminatedTag means a {{ or {% was opened but its closing
	// delimiter was not found before end of input.
	LexUnterminatedTag LexErrorKind = iota
)

func (k LexErrorKind) String() string {
	switch k {
	case LexUnterminatedTag:
		return "unterminated tag"
	default:
		return "unknown lex error"
	}
}

// LexError reports a lexical defect with the byte offset of the offending tag.
type LexError struct {
	Kind LexErrorKind
	Pos  int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("template: %s at offset %d", e.Kind, e.Pos)
}

// ParseErrorKind classifies structural defects in a template.
type ParseErrorKind int

const (
	// ParseUnclosedBlock means input ended while a block was still open.
	ParseUnclosedBlock ParseErrorKind = iota
	// ParseUnexpectedClose means an else/end tag had no matching open block.
	ParseUnexpectedClose
	// ParseDepthMismatch means a tag's depth numeral disagreed with the
	// actual nesting level tracked by the parser.
	ParseDepthMismatch
	// ParseMalformedExpr means a tag body did not match the grammar.
	ParseMalformedExpr
	// ParseMaxDepthExceeded means block nesting exceeded MaxBlockDepth.
	ParseMaxDepthExceeded
)

func (k ParseErrorKind) String() string {
	switch k {
	case ParseUnclosedBlock:
		return "unclosed block"
	case ParseUnexpectedClose:
		return "unexpected closing tag"
	case ParseDepthMismatch:
		return "depth mismatch"
	case ParseMalformedExpr:
		return "malformed expression"
	case ParseMaxDepthExceeded:
		return "maximum block depth exceeded"
	default:
		return "unknown parse error"
	}
}

// ParseError reports a structural defect with the byte offset of the
// offending tag. Detail, when set, carries the tag text or a short
// explanation for the template author.
type ParseError struct {
	Kind   ParseErrorKind
	Pos    int
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("template: %s at offset %d: %s", e.Kind, e.Pos, e.Detail)
	}
	return fmt.Sprintf("template: %s at offset %d", e.Kind, e.Pos)
}
