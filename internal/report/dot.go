package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/awalterschulze/gographviz"
)

// WriteDOT writes the redundancy graph in Graphviz DOT form: one node per
// column that appears in a redundant pair, one undirected edge per pair
// labeled with its correlation.
func WriteDOT(w io.Writer, r *Report) error {
	graphAst, err := gographviz.Parse([]byte(`graph redundancy{}`))
	if err != nil {
		return err
	}
	graph := gographviz.NewGraph()
	if err := gographviz.Analyse(graphAst, graph); err != nil {
		return err
	}

	seen := map[string]bool{}
	addNode := func(name string) error {
		if seen[name] {
			return nil
		}
		seen[name] = true
		return graph.AddNode("redundancy", strconv.Quote(name), nil)
	}
	for _, p := range r.Redundant {
		if err := addNode(p.A); err != nil {
			return err
		}
		if err := addNode(p.B); err != nil {
			return err
		}
		attrs := map[string]string{"label": strconv.Quote(fmt.Sprintf("r=%.3f", p.R))}
		if err := graph.AddEdge(strconv.Quote(p.A), strconv.Quote(p.B), false, attrs); err != nil {
			return err
		}
	}

	_, err = io.WriteString(w, graph.String())
	return err
}
