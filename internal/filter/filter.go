// Package filter compiles row-filter expressions evaluated while loading a
// dataset, e.g. `country == 'US' && age > 30`.
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
)

// Expr is a compiled row filter bound to a dataset header.
type Expr struct {
	expr  *govaluate.EvaluableExpression
	index map[string]int // variable name -> column index
}

// Compile parses the expression and resolves every referenced variable
// against the header, case-insensitively. Column names containing spaces can
// be referenced with bracket syntax: [listening time] > 30.
func Compile(expression string, header []string) (*Expr, error) {
	ev, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return nil, fmt.Errorf("parse filter: %w", err)
	}
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}
	index := make(map[string]int)
	for _, v := range ev.Vars() {
		i, ok := byName[strings.ToLower(v)]
		if !ok {
			return nil, fmt.Errorf("unknown column in filter: %q", v)
		}
		index[v] = i
	}
	return &Expr{expr: ev, index: index}, nil
}

// Match evaluates the filter against one raw record. Cells that parse as
// plain floats are passed as numbers, everything else as trimmed strings.
// The expression must evaluate to a boolean.
func (e *Expr) Match(rec []string) (bool, error) {
	vars := make(map[string]interface{}, len(e.index))
	for name, i := range e.index {
		v := ""
		if i < len(rec) {
			v = strings.TrimSpace(rec[i])
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			vars[name] = f
		} else {
			vars[name] = v
		}
	}
	res, err := e.expr.Evaluate(vars)
	if err != nil {
		return false, err
	}
	b, ok := res.(bool)
	if !ok {
		return false, fmt.Errorf("filter must evaluate to a boolean, got %T", res)
	}
	return b, nil
}
