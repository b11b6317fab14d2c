package petri

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfielding/petrispace/statespace"
	"github.com/rfielding/petrispace/tokens"
)

const (
	out = iota
	in
)

func relay(t *testing.T) *Def {
	d, err := NewDef("relay",
		[]Place{
			{Name: "out", Initial: func(p, _ int) []int64 {
				if p == 0 {
					return []int64{7}
				}
				return nil
			}},
			{Name: "in"},
		},
		[]Transition{{
			Name:   "forward",
			Inputs: []int{out},
			Finish: func(f *Firing) error {
				return f.Send([]int{(f.Process() + 1) % f.Processes()}, in, f.Values...)
			},
		}},
	)
	require.NoError(t, err)
	return d
}

func TestNewDefValidates(t *testing.T) {
	_, err := NewDef("x", []Place{{Name: "a"}, {Name: "a"}}, nil)
	assert.ErrorContains(t, err, "duplicate place")

	_, err = NewDef("x", []Place{{}}, nil)
	assert.ErrorContains(t, err, "without name")

	_, err = NewDef("x", []Place{{Name: "a"}}, []Transition{{Name: "t", Inputs: []int{1}}})
	assert.ErrorContains(t, err, "unknown place 1")

	assert.Panics(t, func() { MustDef("x", []Place{{}}, nil) })
}

func TestPlaceLookup(t *testing.T) {
	d := relay(t)
	i, ok := d.PlaceIndex("in")
	assert.True(t, ok)
	assert.Equal(t, in, i)
	_, ok = d.PlaceIndex("nope")
	assert.False(t, ok)
	assert.Equal(t, "out", d.PlaceName(out))
	assert.Equal(t, "relay", d.Name())
}

func TestNetIsSortedMultiset(t *testing.T) {
	n := &Net{def: relay(t), places: make([][]int64, 2)}
	n.Put(out, 3, 1, 2, 1)
	assert.Equal(t, []int64{1, 1, 2, 3}, n.Tokens(out))
	assert.Equal(t, 4, n.Count(out))
	assert.Equal(t, 4, n.Total())

	n.take(out, 1)
	assert.Equal(t, []int64{1, 2, 3}, n.Tokens(out))
	assert.Equal(t, "{out=[1 2 3]}", n.String())
}

func TestNetCopyHashEqual(t *testing.T) {
	n := &Net{def: relay(t), places: make([][]int64, 2)}
	n.Put(out, 1, 2)
	c := n.Copy().(*Net)
	assert.True(t, n.Equal(c))
	assert.Equal(t, n.Hash(), c.Hash())

	c.Put(in, 1)
	assert.False(t, n.Equal(c))
	assert.NotEqual(t, n.Hash(), c.Hash())
	assert.Equal(t, 0, n.Count(in))

	// Same tokens in a different place is a different marking.
	m := &Net{def: n.def, places: make([][]int64, 2)}
	m.Put(in, 1, 2)
	assert.False(t, n.Equal(m))
	assert.NotEqual(t, n.Hash(), m.Hash())
}

func TestReceive(t *testing.T) {
	n := &Net{def: relay(t), places: make([][]int64, 2)}
	w := tokens.NewWriter()
	w.PutInts(5, -2)

	r := tokens.NewReader(w.Bytes())
	require.NoError(t, n.Receive(in, r))
	require.NoError(t, n.Receive(in, r))
	assert.Equal(t, []int64{-2, 5}, n.Tokens(in))

	assert.Error(t, n.Receive(in, r))
	assert.Error(t, n.Receive(9, tokens.NewReader(w.Bytes())))
}

func explore(t *testing.T, d *Def, processes int) *statespace.Core {
	c, err := statespace.New(d, statespace.Config{Processes: processes})
	require.NoError(t, err)
	require.NoError(t, c.Generate())
	return c
}

func TestPhase1PicksFirstGuardedBinding(t *testing.T) {
	d := MustDef("pairs",
		[]Place{{Name: "p", Initial: func(int, int) []int64 { return []int64{1, 2, 2, 5} }}},
		[]Transition{
			{
				Name:   "pair",
				Inputs: []int{0, 0},
				Guard:  func(_ *statespace.Thread, v []int64) bool { return v[0] == v[1] },
			},
			{
				Name:   "big",
				Inputs: []int{0},
				Guard:  func(_ *statespace.Thread, v []int64) bool { return v[0] > 9 },
			},
		},
	)
	c := explore(t, d, 1)

	require.Equal(t, 3, c.Len())
	started := c.Node(1)
	acts := started.Activations()
	require.Len(t, acts, 1)
	assert.Equal(t, binding{2, 2}, acts[0].Binding)
	assert.Equal(t, []int64{1, 5}, started.Net(0).(*Net).Tokens(0))

	finished := c.Node(2)
	assert.Empty(t, finished.Activations())
	assert.Empty(t, finished.Successors())
}

func TestRelayThroughCore(t *testing.T) {
	c := explore(t, relay(t), 2)

	require.Equal(t, 4, c.Len())
	assert.Equal(t, 0, c.Pending())
	s2 := c.Node(2)
	box := s2.Mailbox(1)
	require.Len(t, box, 1)
	assert.Equal(t, in, box[0].Place())

	s3 := c.Node(3).Net(1).(*Net)
	assert.Equal(t, []int64{7}, s3.Tokens(in))
	assert.Equal(t, 0, c.Node(3).Net(0).(*Net).Total())
}

func TestFiringFanOut(t *testing.T) {
	const (
		start = iota
		done
		inbox
	)
	d := MustDef("fan",
		[]Place{
			{Name: "start", Initial: func(p, _ int) []int64 {
				if p == 0 {
					return []int64{1}
				}
				return nil
			}},
			{Name: "done"},
			{Name: "inbox"},
		},
		[]Transition{{
			Name:   "fan",
			Inputs: []int{start},
			Finish: func(f *Firing) error {
				assert.Equal(t, []int{1, 2}, f.Others())
				f.Put(done, f.Values...)
				return f.Send(f.Others(), inbox, 4, 4)
			},
		}},
	)
	c := explore(t, d, 3)

	sent := c.Node(2)
	assert.Equal(t, []int64{1}, sent.Net(0).(*Net).Tokens(done))
	one, two := sent.Mailbox(1), sent.Mailbox(2)
	require.Len(t, one, 1)
	require.Len(t, two, 1)
	assert.Same(t, one[0], two[0])
	assert.Equal(t, 2, one[0].Tokens())

	// Two deliveries in either order reconverge on one final state.
	require.Equal(t, 6, c.Len())
	assert.Equal(t, 1.0, c.Metrics().Value("duplicates"))
	last := c.Node(statespace.NodeID(c.Len() - 1))
	assert.Empty(t, last.Successors())
	for _, p := range []int{1, 2} {
		assert.Equal(t, []int64{4, 4}, last.Net(p).(*Net).Tokens(inbox))
	}
}

func TestFinishErrorIsModelError(t *testing.T) {
	boom := errors.New("boom")
	d := MustDef("fail",
		[]Place{{Name: "p", Initial: func(int, int) []int64 { return []int64{1} }}},
		[]Transition{{Name: "t", Inputs: []int{0}, Finish: func(*Firing) error { return boom }}},
	)
	c, err := statespace.New(d, statespace.Config{Processes: 1})
	require.NoError(t, err)

	err = c.Generate()
	assert.ErrorIs(t, err, boom)
	var merr *statespace.ModelError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "phase2 t", merr.Op)
}
