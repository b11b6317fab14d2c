// Package broadcast has process 0 publish one job to every other process
// with a single multicast; every worker acknowledges back to process 0.
package broadcast

import (
	"github.com/rfielding/petrispace/petri"
	"github.com/rfielding/petrispace/statespace"
)

const (
	Job = iota
	Work
	Acks
)

// JobID is the value carried by the job token.
const JobID = 1

type Model struct{}

func (Model) Name() string { return "broadcast" }

func (Model) Description() string {
	return `Process 0 holds one job. "publish" multicasts it to the "work" place of
every other process as one packet. Each worker's "ack" takes the job and
replies with its own id on the "acks" place of process 0. The run ends
when every worker has acknowledged.`
}

func (Model) Processes() int { return 3 }

func (Model) Def() statespace.NetDef { return def }

var def = petri.MustDef("broadcast",
	[]petri.Place{
		{Name: "job", Initial: func(p, _ int) []int64 {
			if p == 0 {
				return []int64{JobID}
			}
			return nil
		}},
		{Name: "work"},
		{Name: "acks"},
	},
	[]petri.Transition{
		{
			Name:   "publish",
			Inputs: []int{Job},
			Finish: func(f *petri.Firing) error {
				return f.Send(f.Others(), Work, f.Values...)
			},
		},
		{
			Name:   "ack",
			Inputs: []int{Work},
			Finish: func(f *petri.Firing) error {
				return f.Send([]int{0}, Acks, int64(f.Process()))
			},
		},
	},
)

// Collected holds once process 0 has an ack from every worker.
func Collected(n *statespace.Node) bool {
	return petri.Count(n, 0, Acks) == n.Processes()-1
}

// Bounded holds while no worker has acknowledged more than once.
func Bounded(n *statespace.Node) bool {
	seen := make(map[int64]bool)
	for _, v := range petri.Tokens(n, 0, Acks) {
		if seen[v] || v == 0 {
			return false
		}
		seen[v] = true
	}
	return true
}

func (Model) Properties() []statespace.Property {
	return []statespace.Property{
		statespace.Eventually("collected", "every worker eventually acknowledges", Collected),
		statespace.Invariant("bounded", "no worker acknowledges twice", Bounded),
		statespace.NoDeadlockUnless("no-deadlock", "the run only stops once every ack is in", Collected),
	}
}
