package codec

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/vango-dev/docroutes/pkg/routetable"
)

// componentCreator is the factory the generated module wraps every
// component reference in.
const componentCreator = "ComponentCreator"

// SyntaxError reports a malformed document at a 1-based position. Column
// is 0 when the decoder only knows the line.
type SyntaxError struct {
	Line    int
	Column  int
	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (e *SyntaxError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// syntaxErrorAtOffset positions an error at a byte offset. Columns count
// bytes, like tree-sitter points.
func syntaxErrorAtOffset(src []byte, off int, err error) *SyntaxError {
	line := 1 + bytes.Count(src[:off], []byte("\n"))
	col := off + 1
	if nl := bytes.LastIndexByte(src[:off], '\n'); nl >= 0 {
		col = off - nl
	}
	return &SyntaxError{Line: line, Column: col, Message: err.Error(), Err: err}
}

func syntaxErrorAt(n *sitter.Node, format string, args ...any) *SyntaxError {
	p := n.StartPoint()
	return &SyntaxError{
		Line:    int(p.Row) + 1,
		Column:  int(p.Column) + 1,
		Message: fmt.Sprintf(format, args...),
	}
}

type jsCodec struct{}

// Decode reads the generated module: the first array literal in the file
// (normally the default export) holds the entries. Imports and comments
// are ignored.
func (jsCodec) Decode(src []byte) (*routetable.Table, error) {
	if off := invalidUTF8Offset(src); off >= 0 {
		return nil, syntaxErrorAtOffset(src, off, ErrInvalidUTF8)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("codec: parse routes.js: %w", err)
	}

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("codec: parse routes.js: empty syntax tree")
	}
	if root.HasError() {
		if errNode := findFirstError(root); errNode != nil {
			return nil, syntaxErrorAt(errNode, "syntax error")
		}
		return nil, &SyntaxError{Line: 1, Column: 1, Message: "syntax error"}
	}

	array := findArray(root)
	if array == nil {
		return nil, &SyntaxError{Line: 1, Column: 1, Message: "no route array found"}
	}

	entries, err := decodeEntries(array, src)
	if err != nil {
		return nil, err
	}
	return routetable.New(entries...), nil
}

// findFirstError does a depth-first search for the first ERROR node.
func findFirstError(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.HasError() || child.IsError() || child.IsMissing() {
			if found := findFirstError(child); found != nil {
				return found
			}
		}
	}
	return nil
}

// findArray returns the first array literal in document order.
func findArray(node *sitter.Node) *sitter.Node {
	if node.Type() == "array" {
		return node
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if found := findArray(node.NamedChild(i)); found != nil {
			return found
		}
	}
	return nil
}

func decodeEntries(array *sitter.Node, src []byte) ([]routetable.Entry, error) {
	var entries []routetable.Entry
	for i := 0; i < int(array.NamedChildCount()); i++ {
		child := array.NamedChild(i)
		switch child.Type() {
		case "comment":
			continue
		case "object":
			e, err := decodeEntry(child, src)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		default:
			return nil, syntaxErrorAt(child, "expected route object, got %s", child.Type())
		}
	}
	return entries, nil
}

func decodeEntry(obj *sitter.Node, src []byte) (routetable.Entry, error) {
	var e routetable.Entry
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		pair := obj.NamedChild(i)
		if pair.Type() == "comment" {
			continue
		}
		if pair.Type() != "pair" {
			return e, syntaxErrorAt(pair, "unsupported %s in route object", pair.Type())
		}

		key, err := propertyKey(pair.ChildByFieldName("key"), src)
		if err != nil {
			return e, err
		}
		value := pair.ChildByFieldName("value")

		switch key {
		case "path":
			e.Path, err = stringValue(value, src)
		case "sidebar":
			e.Sidebar, err = stringValue(value, src)
		case "exact":
			e.Exact, err = boolValue(value)
		case "component":
			e.Component, err = componentValue(value, src)
		case "routes":
			if value.Type() != "array" {
				return e, syntaxErrorAt(value, "routes must be an array")
			}
			e.Routes, err = decodeEntries(value, src)
		default:
			// Unknown keys from newer generator versions are skipped.
		}
		if err != nil {
			return e, err
		}
	}
	return e, nil
}

func propertyKey(n *sitter.Node, src []byte) (string, error) {
	switch n.Type() {
	case "property_identifier":
		return n.Content(src), nil
	case "string":
		return stringValue(n, src)
	default:
		return "", syntaxErrorAt(n, "unsupported property key %s", n.Type())
	}
}

func stringValue(n *sitter.Node, src []byte) (string, error) {
	if n.Type() != "string" {
		return "", syntaxErrorAt(n, "expected string, got %s", n.Type())
	}
	s, err := unquoteJS(n.Content(src))
	if err != nil {
		return "", syntaxErrorAt(n, "bad string literal: %v", err)
	}
	if !utf8.ValidString(s) {
		e := syntaxErrorAt(n, "string literal escapes to invalid UTF-8")
		e.Err = ErrInvalidUTF8
		return "", e
	}
	return s, nil
}

func boolValue(n *sitter.Node) (bool, error) {
	switch n.Type() {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, syntaxErrorAt(n, "expected boolean, got %s", n.Type())
	}
}

// componentValue reads ComponentCreator('<module>', '<hash>'). The hash is
// optional.
func componentValue(n *sitter.Node, src []byte) (routetable.ComponentRef, error) {
	var ref routetable.ComponentRef
	if n.Type() != "call_expression" {
		return ref, syntaxErrorAt(n, "expected %s call, got %s", componentCreator, n.Type())
	}
	if fn := n.ChildByFieldName("function"); fn == nil || fn.Content(src) != componentCreator {
		return ref, syntaxErrorAt(n, "expected %s call", componentCreator)
	}

	args := n.ChildByFieldName("arguments")
	if args == nil {
		return ref, syntaxErrorAt(n, "%s call has no arguments", componentCreator)
	}
	var values []string
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		if arg.Type() == "comment" {
			continue
		}
		s, err := stringValue(arg, src)
		if err != nil {
			return ref, err
		}
		values = append(values, s)
	}

	switch len(values) {
	case 1:
		ref.Module = values[0]
	case 2:
		ref.Module, ref.Hash = values[0], values[1]
	default:
		return ref, syntaxErrorAt(n, "%s takes 1 or 2 arguments, got %d", componentCreator, len(values))
	}
	return ref, nil
}

// unquoteJS decodes a single- or double-quoted JavaScript string literal.
func unquoteJS(raw string) (string, error) {
	if len(raw) < 2 {
		return "", fmt.Errorf("literal too short")
	}
	q := raw[0]
	if (q != '\'' && q != '"') || raw[len(raw)-1] != q {
		return "", fmt.Errorf("unquoted literal %s", raw)
	}
	body := raw[1 : len(raw)-1]

	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			next := body[i+1]
			switch {
			case next == '\'' || next == '/':
				b.WriteByte(next)
			case next == 'x' && i+3 < len(body):
				// \xHH names a code point, not a byte.
				b.WriteString(`\u00`)
				b.WriteString(body[i+2 : i+4])
				i += 2
			default:
				b.WriteByte('\\')
				b.WriteByte(next)
			}
			i++
		case c == '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return strconv.Unquote(b.String())
}

// Encode writes the module in the generator's own layout.
func (jsCodec) Encode(t *routetable.Table) ([]byte, error) {
	if err := checkTableUTF8(t); err != nil {
		return nil, fmt.Errorf("codec: encode js: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("import React from 'react';\n")
	buf.WriteString("import ComponentCreator from '@docusaurus/ComponentCreator';\n\n")
	buf.WriteString("export default [\n")
	for i := range t.Routes {
		writeJSEntry(&buf, &t.Routes[i], 2)
		buf.WriteString(",\n")
	}
	buf.WriteString("];\n")
	return buf.Bytes(), nil
}

func writeJSEntry(buf *bytes.Buffer, e *routetable.Entry, indent int) {
	pad := strings.Repeat(" ", indent)
	inner := pad + "  "

	var props []string
	props = append(props, "path: "+quoteJS(e.Path, '\''))
	if e.Component.Hash == "" {
		props = append(props, fmt.Sprintf("component: %s(%s)", componentCreator, quoteJS(e.Component.Module, '\'')))
	} else {
		props = append(props, fmt.Sprintf("component: %s(%s, %s)", componentCreator,
			quoteJS(e.Component.Module, '\''), quoteJS(e.Component.Hash, '\'')))
	}
	if e.Exact {
		props = append(props, "exact: true")
	}
	if e.Sidebar != "" {
		props = append(props, "sidebar: "+quoteJS(e.Sidebar, '"'))
	}

	buf.WriteString(pad + "{\n")
	for i, p := range props {
		buf.WriteString(inner + p)
		last := i == len(props)-1 && len(e.Routes) == 0
		// The generator leaves a trailing comma on the bare wildcard.
		if !last || e.IsWildcard() {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	if len(e.Routes) > 0 {
		buf.WriteString(inner + "routes: [\n")
		for i := range e.Routes {
			writeJSEntry(buf, &e.Routes[i], indent+4)
			if i < len(e.Routes)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(inner + "]\n")
	}
	buf.WriteString(pad + "}")
}

func quoteJS(s string, q byte) string {
	var b strings.Builder
	b.WriteByte(q)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\', q:
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 {
				fmt.Fprintf(&b, `\x%02x`, c)
				continue
			}
			b.WriteByte(c)
		}
	}
	b.WriteByte(q)
	return b.String()
}
