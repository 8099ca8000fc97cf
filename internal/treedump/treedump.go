// Package treedump converts syntax trees to YAML documents for inspection.
package treedump

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"gopkg.microglot.org/minilet.go/internal/syntax"
)

// Encode writes n to w as a YAML document.
func Encode(w io.Writer, n syntax.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Node(n)); err != nil {
		return err
	}
	return enc.Close()
}

// Marshal returns n as a YAML document.
func Marshal(n syntax.Node) ([]byte, error) {
	var b bytes.Buffer
	if err := Encode(&b, n); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Node converts n to a YAML mapping. Every mapping has a kind and a span.
// Groupings are kept so the dump reflects the source.
func Node(n syntax.Node) *yaml.Node {
	switch n := n.(type) {
	case *syntax.IntegerLiteral:
		m := header("integer", n)
		if n.Prefix != syntax.PrefixNone {
			m.add("prefix", str(n.Prefix.String()))
		}
		m.add("digits", str(n.Digits))
		m.add("value", integer(n.Value))
		return m.Node
	case *syntax.StringLiteral:
		m := header("string", n)
		m.add("value", quoted(n.Text))
		return m.Node
	case *syntax.Ident:
		m := header("ident", n)
		m.add("name", str(n.Name))
		return m.Node
	case *syntax.BinOp:
		m := header("binary", n)
		m.add("op", str(n.Op.Kind.String()))
		m.add("lhs", Node(n.LHS))
		m.add("rhs", Node(n.RHS))
		return m.Node
	case *syntax.Unary:
		m := header("unary", n)
		m.add("op", str(n.Op.Kind.String()))
		m.add("operand", Node(n.Operand))
		return m.Node
	case *syntax.Tuple:
		kind := "tuple"
		if n.IsGrouping() {
			kind = "grouping"
		}
		m := header(kind, n)
		m.add("items", exprs(n.Items.Items()))
		if n.TrailingComma.IsPresent() {
			m.add("trailing_comma", boolean(true))
		}
		return m.Node
	case *syntax.App:
		m := header("app", n)
		m.add("receiver", Node(n.Receiver))
		m.add("arg", Node(n.Arg))
		return m.Node
	case *syntax.Block:
		m := header("block", n)
		m.add("stmts", Node(n.Stmts))
		return m.Node
	case *syntax.Stmts:
		m := header("stmts", n)
		items := seq()
		for _, stmt := range n.List.Items() {
			items.Content = append(items.Content, Node(stmt))
		}
		m.add("items", items)
		if n.TrailingSemi.IsPresent() {
			m.add("trailing_semi", boolean(true))
		}
		return m.Node
	case *syntax.LetStmt:
		m := header("let", n)
		m.add("name", str(n.Name.Name))
		m.add("value", Node(n.Value))
		return m.Node
	case *syntax.ExprStmt:
		m := header("expr", n)
		m.add("expr", Node(n.Expr))
		return m.Node
	default:
		return header(fmt.Sprintf("%T", n), n).Node
	}
}

type mapping struct {
	*yaml.Node
}

func header(kind string, n syntax.Node) mapping {
	m := mapping{&yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}}
	m.add("kind", str(kind))
	m.add("span", str(n.Span().String()))
	return m
}

func (m mapping) add(key string, value *yaml.Node) {
	m.Content = append(m.Content, str(key), value)
}

func seq() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

func exprs(items []syntax.Expr) *yaml.Node {
	s := seq()
	for _, item := range items {
		s.Content = append(s.Content, Node(item))
	}
	return s
}

func str(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func quoted(v string) *yaml.Node {
	n := str(v)
	n.Style = yaml.DoubleQuotedStyle
	return n
}

func integer(v int64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v, 10)}
}

func boolean(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
}
