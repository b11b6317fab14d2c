package statespace

import (
	"fmt"

	"github.com/rfielding/petrispace/tokens"
)

// toyNet is an uncoloured marking: a token count per place.
type toyNet struct {
	counts   []int
	released *int
}

func (n *toyNet) Copy() Net {
	return &toyNet{counts: append([]int(nil), n.counts...), released: n.released}
}

func (n *toyNet) Receive(place int, r *tokens.Reader) error {
	v, err := r.Int()
	if err != nil {
		return err
	}
	if place < 0 || place >= len(n.counts) {
		return fmt.Errorf("no place %d", place)
	}
	n.counts[place] += int(v)
	return nil
}

func (n *toyNet) Hash() uint64 {
	var h uint64
	for _, c := range n.counts {
		h = h*31 + uint64(c)
	}
	return h
}

func (n *toyNet) Equal(other Net) bool {
	o := other.(*toyNet)
	for i := range n.counts {
		if n.counts[i] != o.counts[i] {
			return false
		}
	}
	return true
}

func (n *toyNet) Release() {
	if n.released != nil {
		*n.released++
	}
}

// move takes a token from one place at start and, at finish, puts it on
// another place locally or sends it to a remote process.
type move struct {
	name   string
	from   int
	to     int
	target func(th *Thread) int // -1 keeps the token local
	finish func()
}

func (m *move) Name() string { return m.name }

func (m *move) FirePhase1(_ *Thread, n Net) (Binding, error) {
	tn := n.(*toyNet)
	if tn.counts[m.from] == 0 {
		return nil, nil
	}
	tn.counts[m.from]--
	return m.from, nil
}

func (m *move) FirePhase2(th *Thread, n Net, _ Binding) error {
	if m.finish != nil {
		m.finish()
	}
	target := -1
	if m.target != nil {
		target = m.target(th)
	}
	if target < 0 {
		n.(*toyNet).counts[m.to]++
		return nil
	}
	w := tokens.NewWriter()
	w.PutInts(1)
	return th.MulticastBatch([]int{target}, m.to, w)
}

func (m *move) BindingHash(b Binding) uint64   { return uint64(b.(int)) }
func (m *move) BindingEqual(a, b Binding) bool { return a.(int) == b.(int) }

type toyDef struct {
	places   int
	initial  func(process int) []int
	moves    []Transition
	released int
}

func (d *toyDef) Spawn(th *Thread) (Net, error) {
	n := &toyNet{counts: make([]int, d.places), released: &d.released}
	if d.initial != nil {
		copy(n.counts, d.initial(th.ProcessID()))
	}
	return n, nil
}

func (d *toyDef) Transitions() []Transition { return d.moves }

// relayDef is the two-process scenario: process 0 holds one token on place
// 0 and forwards it to place 1 of process 1.
func relayDef() *toyDef {
	return &toyDef{
		places: 2,
		initial: func(p int) []int {
			if p == 0 {
				return []int{1, 0}
			}
			return nil
		},
		moves: []Transition{&move{
			name:   "forward",
			from:   0,
			to:     1,
			target: func(th *Thread) int { return (th.ProcessID() + 1) % th.ProcessCount() },
		}},
	}
}

// localDef gives every process one token that moves locally from place 0
// to place 1, so interleavings reconverge.
func localDef() *toyDef {
	return &toyDef{
		places:  2,
		initial: func(int) []int { return []int{1, 0} },
		moves:   []Transition{&move{name: "step", from: 0, to: 1}},
	}
}

// ringDef passes one token around a ring of processes forever.
func ringDef() *toyDef {
	return &toyDef{
		places: 1,
		initial: func(p int) []int {
			if p == 0 {
				return []int{1}
			}
			return nil
		},
		moves: []Transition{&move{
			name:   "pass",
			from:   0,
			to:     0,
			target: func(th *Thread) int { return (th.ProcessID() + 1) % th.ProcessCount() },
		}},
	}
}

func newCore(def NetDef, cfg Config, opts ...Option) *Core {
	c, err := New(def, cfg, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func counts(n *Node, p int) []int { return n.Net(p).(*toyNet).counts }
