package statespace

import "github.com/rfielding/petrispace/kripke"

// Property is a named CTL formula over the explored graph. Formula is
// called after exploration so atoms can be computed from the states.
type Property struct {
	Name        string
	Description string
	Formula     func(c *Core) kripke.Formula
}

// PropertyResult is the verdict of one Property at the initial state.
type PropertyResult struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Formula     string   `yaml:"formula"`
	Holds       bool     `yaml:"holds"`
	Satisfying  int      `yaml:"satisfying"`
	Total       int      `yaml:"total"`
	Witness     []NodeID `yaml:"witness,omitempty"`
}

// Invariant builds the property AG pred.
func Invariant(name, description string, pred func(n *Node) bool) Property {
	return Property{
		Name:        name,
		Description: description,
		Formula: func(c *Core) kripke.Formula {
			return kripke.AG{F: c.Where(name, pred)}
		},
	}
}

// Eventually builds the property AF pred.
func Eventually(name, description string, pred func(n *Node) bool) Property {
	return Property{
		Name:        name,
		Description: description,
		Formula: func(c *Core) kripke.Formula {
			return kripke.AF{F: c.Where(name, pred)}
		},
	}
}

// NoDeadlockUnless builds AG (¬deadlock ∨ final): every state without
// successors must satisfy final. The final atom is named name_final.
func NoDeadlockUnless(name, description string, final func(n *Node) bool) Property {
	return Property{
		Name:        name,
		Description: description,
		Formula: func(c *Core) kripke.Formula {
			return kripke.AG{F: kripke.Or{
				Left:  kripke.Not{F: c.Deadlocks()},
				Right: c.Where(name+"_final", final),
			}}
		},
	}
}

// Where returns the atom holding in every state that satisfies pred.
func (c *Core) Where(name string, pred func(n *Node) bool) kripke.Atom {
	set := kripke.NewStateSet()
	for _, n := range c.nodes {
		if pred(n) {
			set.Add(StateName(n.id))
		}
	}
	return kripke.Atom{Name: name, States: set}
}

// Deadlocks returns the atom holding in every expanded state without
// successors. States left pending by a bound are not deadlocks.
func (c *Core) Deadlocks() kripke.Atom {
	set := kripke.NewStateSet()
	for _, n := range c.nodes {
		if n.expanded && len(n.successors) == 0 {
			set.Add(StateName(n.id))
		}
	}
	return kripke.Atom{Name: "deadlock", States: set}
}

// Check evaluates every property at the initial state. A violated
// invariant AG φ carries the shortest path from the initial state to a
// state where φ fails.
func (c *Core) Check(props ...Property) []PropertyResult {
	g, init := c.Graph()
	out := make([]PropertyResult, 0, len(props))
	for _, p := range props {
		f := p.Formula(c)
		sat := f.Sat(g)
		r := PropertyResult{
			Name:        p.Name,
			Description: p.Description,
			Formula:     f.String(),
			Holds:       sat.Has(init),
			Satisfying:  sat.Size(),
			Total:       len(g.States),
		}
		if ag, ok := f.(kripke.AG); ok && !r.Holds {
			r.Witness = c.pathTo(ag.F.Sat(g))
		}
		out = append(out, r)
	}
	return out
}

// pathTo finds the shortest successor path from the initial state to any
// state outside good.
func (c *Core) pathTo(good kripke.StateSet) []NodeID {
	if c.initial == NoNode {
		return nil
	}
	parent := make(map[NodeID]NodeID, len(c.nodes))
	parent[c.initial] = NoNode
	queue := []NodeID{c.initial}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if !good.Has(StateName(id)) {
			var path []NodeID
			for cur := id; cur != NoNode; cur = parent[cur] {
				path = append([]NodeID{cur}, path...)
			}
			return path
		}
		for _, s := range c.nodes[id].successors {
			if _, seen := parent[s]; !seen {
				parent[s] = id
				queue = append(queue, s)
			}
		}
	}
	return nil
}
