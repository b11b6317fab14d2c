package statespace

import (
	"fmt"

	"github.com/rfielding/petrispace/tokens"
)

// NodeID is the stable index of a canonical Node in its Core.
type NodeID int

// NoNode is the id of a Node that has not been admitted.
const NoNode NodeID = -1

// Node is one global configuration.
type Node struct {
	id          NodeID
	defs        []Transition
	nets        []Net
	mailboxes   []mailbox
	activations []Activation
	successors  []NodeID
	expanded    bool
}

// ID returns the canonical id, or NoNode for a candidate.
func (n *Node) ID() NodeID { return n.id }

// Processes returns the number of processes.
func (n *Node) Processes() int { return len(n.nets) }

// Net returns the net of process p. Callers must not modify it.
func (n *Node) Net(p int) Net { return n.nets[p] }

// Mailbox returns a copy of the queue of process p, oldest first.
func (n *Node) Mailbox(p int) []*Packet { return n.mailboxes[p].clone() }

// Activations returns a copy of the pending activations.
func (n *Node) Activations() []Activation {
	return append([]Activation(nil), n.activations...)
}

// Expanded reports whether the successors of n have been generated.
func (n *Node) Expanded() bool { return n.expanded }

// Successors returns the ids of every successor found by generate, one per
// enabled action, duplicates included.
func (n *Node) Successors() []NodeID {
	return append([]NodeID(nil), n.successors...)
}

// copy deep-copies nets, clones mailboxes (sharing packets) and activations
// (sharing plain bindings, copying resource bindings). Successors are not
// copied.
func (n *Node) copy() *Node {
	c := &Node{
		id:        NoNode,
		defs:      n.defs,
		nets:      make([]Net, len(n.nets)),
		mailboxes: make([]mailbox, len(n.mailboxes)),
	}
	for i, net := range n.nets {
		c.nets[i] = net.Copy()
	}
	for i, mb := range n.mailboxes {
		c.mailboxes[i] = mb.clone()
	}
	if len(n.activations) > 0 {
		c.activations = make([]Activation, len(n.activations), len(n.activations)+1)
		for i, a := range n.activations {
			if rb, ok := a.Binding.(ResourceBinding); ok {
				a.Binding = rb.CopyBinding()
			}
			c.activations[i] = a
		}
	}
	return c
}

// release drops everything a discarded candidate owns.
func (n *Node) release() {
	for _, net := range n.nets {
		release(net)
	}
	for _, a := range n.activations {
		if rb, ok := a.Binding.(ResourceBinding); ok {
			rb.Release()
		}
	}
	n.nets = nil
	n.mailboxes = nil
	n.activations = nil
}

// generate computes every successor reachable by one action and admits
// each of them through c. n itself only gains successor ids.
func (n *Node) generate(c *Core) error {
	n.expanded = true

	// Transition starts, each against an unmodified copy.
	for p := range n.nets {
		for t, tr := range n.defs {
			cand := n.copy()
			th := c.thread(cand, p, 1)
			b, err := tr.FirePhase1(th, cand.nets[p])
			if err = fireErr(th, "phase1 "+tr.Name(), err); err != nil {
				cand.release()
				return err
			}
			if b == nil {
				cand.release()
				continue
			}
			cand.activations = append(cand.activations, Activation{
				Transition: t,
				Process:    p,
				Thread:     0,
				Binding:    b,
			})
			c.metrics.started.Inc()
			n.link(c, cand)
		}
	}

	// Transition finishes, one activation per successor.
	for i := range n.activations {
		cand := n.copy()
		a := cand.activations[i]
		cand.activations = append(cand.activations[:i], cand.activations[i+1:]...)
		tr := n.defs[a.Transition]
		th := c.thread(cand, a.Process, a.Thread)
		err := tr.FirePhase2(th, cand.nets[a.Process], a.Binding)
		if err = fireErr(th, "phase2 "+tr.Name(), err); err != nil {
			cand.release()
			return err
		}
		c.metrics.finished.Inc()
		n.link(c, cand)
	}

	// Deliveries, oldest packet first.
	for p, mb := range n.mailboxes {
		if len(mb) == 0 {
			continue
		}
		cand := n.copy()
		packet := cand.mailboxes[p][0]
		cand.mailboxes[p] = cand.mailboxes[p][1:]
		if err := deliver(cand.nets[p], packet); err != nil {
			cand.release()
			return &ModelError{Process: p, Op: "receive", Err: err}
		}
		c.metrics.delivered.Inc()
		n.link(c, cand)
	}
	return nil
}

func (n *Node) link(c *Core, cand *Node) {
	id, _ := c.Admit(cand)
	n.successors = append(n.successors, id)
}

func deliver(net Net, p *Packet) error {
	r := tokens.NewReader(p.Payload())
	for i := 0; i < p.Tokens(); i++ {
		if err := net.Receive(p.Place(), r); err != nil {
			return fmt.Errorf("token %d of %d for place %d: %w", i+1, p.Tokens(), p.Place(), err)
		}
	}
	return nil
}

// fireErr prefers the fatal error recorded on the thread over whatever
// the net code returned.
func fireErr(th *Thread, op string, err error) error {
	if terr := th.Err(); terr != nil {
		return terr
	}
	if err != nil {
		return &ModelError{Process: th.ProcessID(), Op: op, Err: err}
	}
	return nil
}

// Hash is the semantic state hash. Activations are folded with XOR so the
// order of the multiset does not matter; nets and mailboxes are folded in
// process and FIFO order.
func (n *Node) Hash() uint64 {
	h := uint64(len(n.activations))
	for _, a := range n.activations {
		h ^= a.hash(n.defs)
	}
	for p, net := range n.nets {
		h = mix(h, net.Hash())
		for _, packet := range n.mailboxes[p] {
			h = mix(h, packet.Hash())
		}
	}
	return h
}

func mix(h, v uint64) uint64 {
	h += v
	h += h << 10
	h ^= h >> 6
	return h
}

// Equal is semantic state equality: same activation multiset, same mailbox
// contents in FIFO order, and equal nets, process by process.
func (n *Node) Equal(o *Node) bool {
	if len(n.activations) != len(o.activations) || len(n.nets) != len(o.nets) {
		return false
	}
	for p := range n.mailboxes {
		if len(n.mailboxes[p]) != len(o.mailboxes[p]) {
			return false
		}
	}

	matched := make([]bool, len(o.activations))
	for _, a := range n.activations {
		found := false
		for j, b := range o.activations {
			if !matched[j] && a.equal(b, n.defs) {
				matched[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for p := range n.mailboxes {
		if !n.mailboxes[p].equal(o.mailboxes[p]) {
			return false
		}
	}
	for p := range n.nets {
		if !n.nets[p].Equal(o.nets[p]) {
			return false
		}
	}
	return true
}
