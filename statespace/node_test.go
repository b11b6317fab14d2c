package statespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoProcessNode(defs []Transition, acts []Activation, box0 mailbox) *Node {
	return &Node{
		id:          NoNode,
		defs:        defs,
		nets:        []Net{&toyNet{counts: []int{1, 0}}, &toyNet{counts: []int{0, 0}}},
		mailboxes:   []mailbox{box0, nil},
		activations: acts,
	}
}

func TestActivationOrderDoesNotMatter(t *testing.T) {
	defs := relayDef().moves
	a := Activation{Transition: 0, Process: 0, Binding: 0}
	b := Activation{Transition: 0, Process: 1, Binding: 0}

	n1 := twoProcessNode(defs, []Activation{a, b}, nil)
	n2 := twoProcessNode(defs, []Activation{b, a}, nil)
	assert.True(t, n1.Equal(n2))
	assert.True(t, n2.Equal(n1))
	assert.Equal(t, n1.Hash(), n2.Hash())
}

func TestActivationsAreAMultiset(t *testing.T) {
	defs := relayDef().moves
	a := Activation{Transition: 0, Process: 0, Binding: 0}
	b := Activation{Transition: 0, Process: 1, Binding: 0}

	n1 := twoProcessNode(defs, []Activation{a, a}, nil)
	n2 := twoProcessNode(defs, []Activation{a, b}, nil)
	assert.False(t, n1.Equal(n2))
	assert.False(t, n2.Equal(n1))

	n3 := twoProcessNode(defs, []Activation{a}, nil)
	assert.False(t, n1.Equal(n3))
}

func TestMailboxOrderMatters(t *testing.T) {
	defs := relayDef().moves
	p := NewPacket(0, 1, []byte{2})
	q := NewPacket(1, 1, []byte{2})

	n1 := twoProcessNode(defs, nil, mailbox{p, q})
	n2 := twoProcessNode(defs, nil, mailbox{q, p})
	assert.False(t, n1.Equal(n2))

	// Distinct packets with equal content compare equal.
	n3 := twoProcessNode(defs, nil, mailbox{NewPacket(0, 1, []byte{2}), q})
	assert.True(t, n1.Equal(n3))
	assert.Equal(t, n1.Hash(), n3.Hash())
}

func TestNetsDecideEquality(t *testing.T) {
	defs := relayDef().moves
	n1 := twoProcessNode(defs, nil, nil)
	n2 := twoProcessNode(defs, nil, nil)
	require.True(t, n1.Equal(n2))

	n2.nets[1].(*toyNet).counts[1] = 1
	assert.False(t, n1.Equal(n2))
}

func TestCopyIsIndependent(t *testing.T) {
	defs := relayDef().moves
	p := NewPacket(0, 1, []byte{2})
	n := twoProcessNode(defs, []Activation{{Binding: 0}}, mailbox{p})
	n.successors = []NodeID{3}

	c := n.copy()
	assert.Equal(t, NoNode, c.ID())
	assert.True(t, n.Equal(c))
	assert.Empty(t, c.Successors())

	c.nets[0].(*toyNet).counts[0] = 9
	c.mailboxes[0] = append(c.mailboxes[0], p)
	c.activations = append(c.activations, Activation{Process: 1, Binding: 0})

	assert.Equal(t, []int{1, 0}, counts(n, 0))
	assert.Len(t, n.Mailbox(0), 1)
	assert.Len(t, n.Activations(), 1)
	// Packets are shared, not copied.
	assert.Same(t, n.mailboxes[0][0], c.mailboxes[0][0])
}

type countedBinding struct {
	copies   *int
	releases *int
}

func (b countedBinding) CopyBinding() Binding { *b.copies++; return b }
func (b countedBinding) Release()             { *b.releases++ }

func TestResourceBindingsFollowCopies(t *testing.T) {
	var copies, releases int
	b := countedBinding{copies: &copies, releases: &releases}
	n := &Node{
		id:          NoNode,
		nets:        []Net{&toyNet{counts: []int{0}}},
		mailboxes:   make([]mailbox, 1),
		activations: []Activation{{Binding: b}},
	}

	c := n.copy()
	assert.Equal(t, 1, copies)
	c.release()
	assert.Equal(t, 1, releases)
	assert.Nil(t, c.nets)
}

func TestPacketEquality(t *testing.T) {
	payload := []byte{1, 2, 3}
	p := NewPacket(2, 3, payload)
	payload[0] = 9

	assert.Equal(t, []byte{1, 2, 3}, p.Payload())
	assert.True(t, p.Equal(NewPacket(2, 3, []byte{1, 2, 3})))
	assert.False(t, p.Equal(NewPacket(1, 3, []byte{1, 2, 3})))
	assert.False(t, p.Equal(NewPacket(2, 2, []byte{1, 2, 3})))
	assert.False(t, p.Equal(NewPacket(2, 3, []byte{1, 2, 4})))
	assert.Equal(t, p.Hash(), NewPacket(2, 3, []byte{1, 2, 3}).Hash())
}
