package statespace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rfielding/petrispace/kripke"
)

// DotFile is the artifact written by the -V dot switch.
const DotFile = "statespace.dot"

// StateName is the name of a state in every export format.
func StateName(id NodeID) kripke.StateID {
	return kripke.StateID(fmt.Sprintf("S%d", id))
}

// WriteDot writes the explored graph in Graphviz DOT. Each state is
// labeled with its number of pending activations; the initial state is
// filled.
func (c *Core) WriteDot(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph X {")
	for _, n := range c.nodes {
		name := StateName(n.id)
		if n.id == c.initial {
			fmt.Fprintf(bw, "%s [style=filled, label=%d]\n", name, len(n.activations))
		} else {
			fmt.Fprintf(bw, "%s [label=%d]\n", name, len(n.activations))
		}
		for _, s := range n.successors {
			fmt.Fprintf(bw, "%s -> %s\n", name, StateName(s))
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

// SaveDot writes the DOT export to path, creating parent directories.
func (c *Core) SaveDot(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := c.WriteDot(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Graph returns the explored graph as a Kripke structure together with
// the initial state.
func (c *Core) Graph() (*kripke.Graph, kripke.StateID) {
	g := kripke.NewGraph()
	for _, n := range c.nodes {
		name := StateName(n.id)
		g.AddState(name)
		for _, s := range n.successors {
			g.AddEdge(name, StateName(s))
		}
	}
	return g, StateName(c.initial)
}

// WriteMermaid writes the explored graph as a Mermaid state diagram.
func (c *Core) WriteMermaid(w io.Writer) error {
	g, init := c.Graph()
	return kripke.WriteMermaid(g, init, w)
}

// WriteTLAPlus writes the explored graph as a TLA+ module. The atoms of
// every property, and a deadlock atom, become state predicates.
func (c *Core) WriteTLAPlus(w io.Writer, module string, props ...Property) error {
	fs := make([]kripke.Formula, 0, len(props)+1)
	for _, p := range props {
		fs = append(fs, p.Formula(c))
	}
	fs = append(fs, c.Deadlocks())
	g, init := c.Graph()
	return kripke.WriteTLAPlus(g, init, module, w, kripke.Atoms(fs...)...)
}
