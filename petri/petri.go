// Package petri implements the statespace net capability for nets whose
// tokens are integers. Places hold multisets of int64 values; a transition
// takes one token from each of its input places when its guard accepts
// the chosen values, and produces its effects when it finishes.
package petri

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/rfielding/petrispace/statespace"
	"github.com/rfielding/petrispace/tokens"
)

// Place declares a place and its initial marking on every process.
type Place struct {
	Name string
	// Initial returns the tokens the place holds at spawn time on the
	// given process. Nil means empty.
	Initial func(process, processes int) []int64
}

// Transition declares a firing rule.
type Transition struct {
	Name string
	// Inputs lists the places a token is taken from, one per entry. A
	// place may appear more than once; each entry then takes a distinct
	// token.
	Inputs []int
	// Guard accepts or rejects a candidate binding, given in Inputs order.
	// Nil accepts every binding.
	Guard func(th *statespace.Thread, values []int64) bool
	// Finish applies the effect of a started firing. Nil only consumes.
	Finish func(f *Firing) error
}

// Def is a net definition shared by every process.
type Def struct {
	name        string
	places      []Place
	transitions []statespace.Transition
}

// NewDef validates places and transitions and returns the definition.
func NewDef(name string, places []Place, transitions []Transition) (*Def, error) {
	d := &Def{name: name, places: places}
	seen := make(map[string]bool, len(places))
	for _, p := range places {
		if p.Name == "" {
			return nil, fmt.Errorf("petri %s: place without name", name)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("petri %s: duplicate place %q", name, p.Name)
		}
		seen[p.Name] = true
	}
	for _, t := range transitions {
		for _, in := range t.Inputs {
			if in < 0 || in >= len(places) {
				return nil, fmt.Errorf("petri %s: transition %q reads unknown place %d", name, t.Name, in)
			}
		}
		d.transitions = append(d.transitions, &transition{def: d, rule: t})
	}
	return d, nil
}

// MustDef is NewDef for definitions known to be valid.
func MustDef(name string, places []Place, transitions []Transition) *Def {
	d, err := NewDef(name, places, transitions)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Def) Name() string { return d.name }

// PlaceIndex returns the index of the named place.
func (d *Def) PlaceIndex(name string) (int, bool) {
	for i, p := range d.places {
		if p.Name == name {
			return i, true
		}
	}
	return 0, false
}

// PlaceName returns the name of place i.
func (d *Def) PlaceName(i int) string { return d.places[i].Name }

// Spawn implements statespace.NetDef.
func (d *Def) Spawn(th *statespace.Thread) (statespace.Net, error) {
	n := &Net{def: d, places: make([][]int64, len(d.places))}
	for i, p := range d.places {
		if p.Initial == nil {
			continue
		}
		n.Put(i, p.Initial(th.ProcessID(), th.ProcessCount())...)
	}
	return n, nil
}

// Transitions implements statespace.NetDef.
func (d *Def) Transitions() []statespace.Transition { return d.transitions }

// Net is the marking of one process: a sorted multiset per place.
type Net struct {
	def    *Def
	places [][]int64
}

// Tokens returns a copy of the tokens in place i, ascending.
func (n *Net) Tokens(i int) []int64 { return slices.Clone(n.places[i]) }

// Count returns the number of tokens in place i.
func (n *Net) Count(i int) int { return len(n.places[i]) }

// Total returns the number of tokens in all places.
func (n *Net) Total() int {
	total := 0
	for _, p := range n.places {
		total += len(p)
	}
	return total
}

// Put adds tokens to place i.
func (n *Net) Put(i int, vs ...int64) {
	for _, v := range vs {
		at, _ := slices.BinarySearch(n.places[i], v)
		n.places[i] = slices.Insert(n.places[i], at, v)
	}
}

func (n *Net) take(i int, v int64) {
	at, ok := slices.BinarySearch(n.places[i], v)
	if ok {
		n.places[i] = slices.Delete(n.places[i], at, at+1)
	}
}

// Copy implements statespace.Net.
func (n *Net) Copy() statespace.Net {
	c := &Net{def: n.def, places: make([][]int64, len(n.places))}
	for i, p := range n.places {
		c.places[i] = slices.Clone(p)
	}
	return c
}

// Receive implements statespace.Net: one delivered token is one int.
func (n *Net) Receive(place int, r *tokens.Reader) error {
	if place < 0 || place >= len(n.places) {
		return fmt.Errorf("petri %s: no place %d", n.def.name, place)
	}
	v, err := r.Int()
	if err != nil {
		return err
	}
	n.Put(place, v)
	return nil
}

// Hash implements statespace.Net.
func (n *Net) Hash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, p := range n.places {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(p)))
		d.Write(buf[:])
		for _, v := range p {
			binary.LittleEndian.PutUint64(buf[:], uint64(v))
			d.Write(buf[:])
		}
	}
	return d.Sum64()
}

// Equal implements statespace.Net.
func (n *Net) Equal(other statespace.Net) bool {
	o, ok := other.(*Net)
	if !ok || len(o.places) != len(n.places) {
		return false
	}
	for i := range n.places {
		if !slices.Equal(n.places[i], o.places[i]) {
			return false
		}
	}
	return true
}

func (n *Net) String() string {
	s := ""
	for i, p := range n.places {
		if len(p) == 0 {
			continue
		}
		if s != "" {
			s += " "
		}
		s += fmt.Sprintf("%s=%v", n.def.places[i].Name, p)
	}
	return "{" + s + "}"
}
