package petri

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/rfielding/petrispace/statespace"
	"github.com/rfielding/petrispace/tokens"
)

// binding holds the chosen token values in Inputs order.
type binding []int64

type transition struct {
	def  *Def
	rule Transition
}

func (t *transition) Name() string { return t.rule.Name }

// FirePhase1 picks the first binding, in ascending token order, that the
// guard accepts and removes its tokens from the input places.
func (t *transition) FirePhase1(th *statespace.Thread, sn statespace.Net) (statespace.Binding, error) {
	n := sn.(*Net)
	values := make([]int64, len(t.rule.Inputs))
	picked := make([]int, len(t.rule.Inputs))
	if !t.choose(th, n, 0, values, picked) {
		return nil, nil
	}
	for k, place := range t.rule.Inputs {
		n.take(place, values[k])
	}
	return binding(values), nil
}

func (t *transition) choose(th *statespace.Thread, n *Net, k int, values []int64, picked []int) bool {
	if k == len(t.rule.Inputs) {
		return t.rule.Guard == nil || t.rule.Guard(th, values)
	}
	place := t.rule.Inputs[k]
	toks := n.places[place]
	for i, v := range toks {
		if taken(t.rule.Inputs[:k], picked[:k], place, i) {
			continue
		}
		// Equal values bind identically; try only the first free one.
		if i > 0 && toks[i-1] == v && !taken(t.rule.Inputs[:k], picked[:k], place, i-1) {
			continue
		}
		values[k] = v
		picked[k] = i
		if t.choose(th, n, k+1, values, picked) {
			return true
		}
	}
	return false
}

// taken reports whether token i of place was already picked by an earlier
// input.
func taken(inputs, picked []int, place, i int) bool {
	for k, p := range inputs {
		if p == place && picked[k] == i {
			return true
		}
	}
	return false
}

// FirePhase2 runs the Finish effect.
func (t *transition) FirePhase2(th *statespace.Thread, sn statespace.Net, b statespace.Binding) error {
	if t.rule.Finish == nil {
		return nil
	}
	return t.rule.Finish(&Firing{
		Thread: th,
		Net:    sn.(*Net),
		Values: slices.Clone(b.(binding)),
	})
}

func (t *transition) BindingHash(b statespace.Binding) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, v := range b.(binding) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		d.Write(buf[:])
	}
	return d.Sum64()
}

func (t *transition) BindingEqual(a, b statespace.Binding) bool {
	return slices.Equal(a.(binding), b.(binding))
}

// Firing is the context of a finishing transition.
type Firing struct {
	Thread *statespace.Thread
	Net    *Net
	Values []int64 // the binding, in Inputs order
}

// Process is the id of the process the transition fires on.
func (f *Firing) Process() int { return f.Thread.ProcessID() }

// Processes is the number of processes.
func (f *Firing) Processes() int { return f.Thread.ProcessCount() }

// Put adds tokens to a local place.
func (f *Firing) Put(place int, vs ...int64) { f.Net.Put(place, vs...) }

// Send multicasts vs, one token each, to place on every target process.
func (f *Firing) Send(targets []int, place int, vs ...int64) error {
	w := tokens.NewWriter()
	w.PutInts(vs...)
	return f.Thread.MulticastBatch(targets, place, w)
}

// Others returns every process id except the firing one.
func (f *Firing) Others() []int {
	out := make([]int, 0, f.Processes()-1)
	for p := 0; p < f.Processes(); p++ {
		if p != f.Process() {
			out = append(out, p)
		}
	}
	return out
}
