package template

import (
	"bytes"
	"strconv"
	"strings"
)

// Renderer walks a parsed Document against a context. The zero value is
// ready to use. Rendering is a pure function of the tree and the context:
// it never mutates either, never fails, and is safe to call concurrently
// on a shared tree.
type Renderer struct {
	// Escape, when set, is applied to every substituted variable value
	// (including default fallbacks) before it is appended to the output.
	// Literal template text is never escaped. Left nil, substitution is
	// raw.
	Escape func(string) string
}

// Render renders doc against ctx with default (raw, unescaped) settings.
func Render(doc *Document, ctx MappingValue) string {
	var r Renderer
	return r.Render(doc, ctx)
}

// Render produces the output text for doc against ctx. Data-level failures
// degrade instead of erroring: missing variables render empty, loops over
// non-sequences run zero iterations, malformed condition operands compare
// as missing.
func (r *Renderer) Render(doc *Document, ctx MappingValue) string {
	var buf bytes.Buffer
	r.renderNodes(&buf, doc.Nodes, &scope{root: ctx})
	return buf.String()
}

// scope is one link in the chain of loop bindings layered over the root
// context. Lookups check the innermost binding first and fall through to
// the enclosing scope, ending at the root, which models shadowing without
// mutating the caller's context.
type scope struct {
	name   string
	val    Value
	parent *scope
	root   MappingValue
}

func (s *scope) bind(name string, val Value) *scope {
	return &scope{name: name, val: val, parent: s, root: s.root}
}

func (s *scope) resolve(path string) Value {
	head, rest, dotted := strings.Cut(path, ".")
	for c := s; c != nil; c = c.parent {
		if c.name != head || c.name == "" {
			continue
		}
		if !dotted {
			return c.val
		}
		return Resolve(c.val, rest)
	}
	return Resolve(s.root, path)
}

func (r *Renderer) renderNodes(buf *bytes.Buffer, nodes []Node, sc *scope) {
	for _, n := range nodes {
		switch t := n.(type) {
		case *TextNode:
			buf.WriteString(t.Text)

		case *VariableNode:
			v := sc.resolve(t.Path)
			switch {
			case t.HasDefault && !Truthy(v):
				r.emit(buf, t.Default)
			case IsMissing(v):
				// no fallback: substitute empty text
			default:
				r.emit(buf, displayText(v))
			}

		case *ForNode:
			seq, ok := sc.resolve(t.List).(SequenceValue)
			if !ok {
				// absent or non-sequence target: zero iterations
				continue
			}
			for _, item := range seq {
				r.renderNodes(buf, t.Body, sc.bind(t.Var, item))
			}

		case *IfNode:
			if evalCond(t.Cond, sc) {
				r.renderNodes(buf, t.Then, sc)
			} else {
				r.renderNodes(buf, t.Else, sc)
			}
		}
	}
}

func (r *Renderer) emit(buf *bytes.Buffer, s string) {
	if r.Escape != nil {
		s = r.Escape(s)
	}
	buf.WriteString(s)
}

// displayText is the canonical output form of a value. The grammar defines
// no structural interpolation, so mappings and sequences substitute as
// empty text rather than a debug representation.
func displayText(v Value) string {
	switch v.(type) {
	case MappingValue, SequenceValue:
		return ""
	}
	return v.String()
}

// evalCond evaluates a parsed condition against the current scope.
func evalCond(c Cond, sc *scope) bool {
	if c.Op == "" {
		return Truthy(evalOperand(c.Left, sc))
	}
	return compare(evalOperand(c.Left, sc), c.Op, evalOperand(c.Right, sc))
}

// evalOperand interprets a condition operand: a quoted string, numeric or
// boolean literal is taken as itself, anything else is resolved as a
// dotted path against the scope.
func evalOperand(s string, sc *scope) Value {
	if len(s) >= 2 {
		q := s[0]
		if (q == '\'' || q == '"') && s[len(s)-1] == q {
			return StringValue(s[1 : len(s)-1])
		}
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntValue(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return FloatValue(f)
	}
	switch s {
	case "true", "True":
		return BoolValue(true)
	case "false", "False":
		return BoolValue(false)
	case "null", "none", "None":
		return NullValue{}
	}
	return sc.resolve(s)
}

// compare applies a comparison operator. When both operands have a numeric
// reading the comparison is numeric over all six operators; otherwise the
// operands compare as case-insensitive strings, where only == and != are
// meaningful and the ordering operators are false.
func compare(a Value, op string, b Value) bool {
	af, aok := numeric(a)
	bf, bok := numeric(b)
	if aok && bok {
		switch op {
		case "==":
			return af == bf
		case "!=":
			return af != bf
		case ">=":
			return af >= bf
		case "<=":
			return af <= bf
		case ">":
			return af > bf
		case "<":
			return af < bf
		}
		return false
	}
	as := strings.ToLower(a.String())
	bs := strings.ToLower(b.String())
	switch op {
	case "==":
		return as == bs
	case "!=":
		return as != bs
	}
	return false
}

func numeric(v Value) (float64, bool) {
	switch t := v.(type) {
	case IntValue:
		return float64(t), true
	case FloatValue:
		return float64(t), true
	case BoolValue:
		if t {
			return 1, true
		}
		return 0, true
	case StringValue:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(t)), 64)
		return f, err == nil
	}
	return 0, false
}
