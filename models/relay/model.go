// Package relay is the smallest complete system: one token forwarded from
// process 0 to process 1.
package relay

import (
	"github.com/rfielding/petrispace/petri"
	"github.com/rfielding/petrispace/statespace"
)

// Places.
const (
	Out = iota
	In
)

// Token is the value process 0 starts with.
const Token = 42

type Model struct{}

func (Model) Name() string { return "relay" }

func (Model) Description() string {
	return `Process 0 holds one token on "out". Its "forward" transition takes
the token and, when it finishes, sends it to "in" on the next process.
Nothing else can happen, so the run ends once the token is delivered.`
}

func (Model) Processes() int { return 2 }

func (Model) Def() statespace.NetDef { return def }

var def = petri.MustDef("relay",
	[]petri.Place{
		{Name: "out", Initial: func(p, _ int) []int64 {
			if p == 0 {
				return []int64{Token}
			}
			return nil
		}},
		{Name: "in"},
	},
	[]petri.Transition{{
		Name:   "forward",
		Inputs: []int{Out},
		Finish: func(f *petri.Firing) error {
			next := (f.Process() + 1) % f.Processes()
			return f.Send([]int{next}, In, f.Values...)
		},
	}},
)

// Delivered holds once the token sits on some "in" place.
func Delivered(n *statespace.Node) bool { return petri.Marked(n, In) == 1 }

// Conserved holds while exactly one token exists, wherever it is.
func Conserved(n *statespace.Node) bool {
	total := petri.Marked(n, Out) + petri.Marked(n, In) + petri.InFlight(n, In) + len(n.Activations())
	return total == 1
}

func (Model) Properties() []statespace.Property {
	return []statespace.Property{
		statespace.Eventually("delivered", "the token is eventually delivered", Delivered),
		statespace.Invariant("conserved", "the token is never lost or duplicated", Conserved),
		statespace.NoDeadlockUnless("no-deadlock", "the run only stops after delivery", Delivered),
	}
}
