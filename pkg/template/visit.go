package template

import (
	"bytes"
	"fmt"
)

type Visitor interface {
	Visit(n Node) error
}

// Walk applies v to n and every node beneath it in document order.
func Walk(v Visitor, n Node) error {
	if err := v.Visit(n); err != nil {
		return err
	}
	switch t := n.(type) {
	case *Document:
		for _, c := range t.Nodes {
			if err := Walk(v, c); err != nil {
				return err
			}
		}
	case *ForNode:
		for _, c := range t.Body {
			if err := Walk(v, c); err != nil {
				return err
			}
		}
	case *IfNode:
		for _, c := range t.Then {
			if err := Walk(v, c); err != nil {
				return err
			}
		}
		for _, c := range t.Else {
			if err := Walk(v, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// Pretty returns a line-oriented string representation of the tree.
func Pretty(doc *Document) string {
	var buf bytes.Buffer
	ppNode(&buf, 0, doc)
	return buf.String()
}

func ppNode(buf *bytes.Buffer, indent int, n Node) {
	ind := func() {
		for i := 0; i < indent; i++ {
			buf.WriteByte(' ')
		}
	}
	switch t := n.(type) {
	case *Document:
		ind()
		buf.WriteString("Document\n")
		for _, c := range t.Nodes {
			ppNode(buf, indent+2, c)
		}
	case *TextNode:
		ind()
		fmt.Fprintf(buf, "Text(%q)\n", t.Text)
	case *VariableNode:
		ind()
		if t.HasDefault {
			fmt.Fprintf(buf, "Variable(%s default=%q)\n", t.Path, t.Default)
		} else {
			fmt.Fprintf(buf, "Variable(%s)\n", t.Path)
		}
	case *ForNode:
		ind()
		fmt.Fprintf(buf, "For[%d](%s in %s)\n", t.Depth, t.Var, t.List)
		for _, c := range t.Body {
			ppNode(buf, indent+2, c)
		}
	case *IfNode:
		ind()
		if t.Cond.Op == "" {
			fmt.Fprintf(buf, "If[%d](%s)\n", t.Depth, t.Cond.Left)
		} else {
			fmt.Fprintf(buf, "If[%d](%s %s %s)\n", t.Depth, t.Cond.Left, t.Cond.Op, t.Cond.Right)
		}
		for _, c := range t.Then {
			ppNode(buf, indent+2, c)
		}
		if len(t.Else) > 0 {
			ind()
			buf.WriteString("Else\n")
			for _, c := range t.Else {
				ppNode(buf, indent+2, c)
			}
		}
	}
}
