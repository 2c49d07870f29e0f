// Package query evaluates JSONPath expressions against route tables.
//
// Expressions run over the table's JSON form, a bare array of entries:
//
//	$[*].path                                   top-level paths
//	$..[?(@.sidebar == 'tutorialSidebar')].path pages in a sidebar
//	$..component.hash                           every component hash
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/vango-dev/docroutes/pkg/routetable"
)

// ErrInvalidExpression is returned by Compile for empty or malformed
// expressions.
var ErrInvalidExpression = errors.New("query: invalid jsonpath")

// Query is a compiled JSONPath expression.
type Query struct {
	source string
	expr   jp.Expr
}

// Compile parses a JSONPath expression.
func Compile(expr string) (*Query, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidExpression)
	}
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidExpression, expr, err)
	}
	return &Query{source: expr, expr: x}, nil
}

// String returns the expression as written.
func (q *Query) String() string {
	return q.source
}

// Run evaluates the query against a table.
func (q *Query) Run(t *routetable.Table) ([]any, error) {
	doc, err := Document(t)
	if err != nil {
		return nil, err
	}
	return q.Get(doc), nil
}

// Get evaluates the query against a document produced by Document.
func (q *Query) Get(doc any) []any {
	results := q.expr.Get(doc)
	if results == nil {
		return []any{}
	}
	return results
}

// Document converts a table to the generic form queries run against.
// Callers evaluating many queries against one table can convert once.
func Document(t *routetable.Table) (any, error) {
	if t == nil {
		t = &routetable.Table{}
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("query: encode table: %w", err)
	}
	doc, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("query: parse table: %w", err)
	}
	return doc, nil
}

// Run compiles expr and evaluates it against t.
func Run(t *routetable.Table, expr string) ([]any, error) {
	q, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	return q.Run(t)
}

// Format renders results one per line: strings as-is, everything else as
// compact JSON.
func Format(results []any) string {
	var sb strings.Builder
	for _, r := range results {
		if s, ok := r.(string); ok {
			sb.WriteString(s)
		} else {
			sb.WriteString(oj.JSON(r, &oj.Options{Sort: true}))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
