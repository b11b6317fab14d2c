package kripke

import (
	"fmt"
	"io"
)

// WriteMermaid writes a Mermaid stateDiagram-v2 representation of g to w.
// "initial" is the starting state. Parallel edges are written once.
func WriteMermaid(g *Graph, initial StateID, w io.Writer) error {
	if _, err := fmt.Fprintln(w, "stateDiagram-v2"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  [*] --> %s\n", initial); err != nil {
		return err
	}

	seenEdge := make(map[[2]StateID]bool)
	for _, from := range g.States {
		succs := g.Succ[from]
		for _, to := range succs {
			key := [2]StateID{from, to}
			if seenEdge[key] {
				continue
			}
			seenEdge[key] = true
			if _, err := fmt.Fprintf(w, "  %s --> %s\n", from, to); err != nil {
				return err
			}
		}
		if len(succs) == 0 {
			if _, err := fmt.Fprintf(w, "  %s --> [*]\n", from); err != nil {
				return err
			}
		}
	}
	return nil
}
