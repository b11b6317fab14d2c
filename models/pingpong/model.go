// Package pingpong bounces a counter between processes until it reaches a
// fixed number of rounds.
package pingpong

import (
	"fmt"

	"github.com/rfielding/petrispace/petri"
	"github.com/rfielding/petrispace/statespace"
)

// Ball is the only place. Its single token carries the number of hits so
// far.
const Ball = 0

// DefaultRounds is the number of hits used by the registry.
const DefaultRounds = 3

type Model struct {
	Rounds int
}

func (Model) Name() string { return "pingpong" }

func (m Model) Description() string {
	return fmt.Sprintf(`Process 0 starts with the ball at count 0. Whoever holds the ball hits
it to the next process, incrementing the count, until the count reaches
%d. The ball is never dropped and the rally always ends.`, m.Rounds)
}

func (Model) Processes() int { return 2 }

func (m Model) Def() statespace.NetDef {
	rounds := int64(m.Rounds)
	return petri.MustDef("pingpong",
		[]petri.Place{{Name: "ball", Initial: func(p, _ int) []int64 {
			if p == 0 {
				return []int64{0}
			}
			return nil
		}}},
		[]petri.Transition{{
			Name:   "hit",
			Inputs: []int{Ball},
			Guard: func(_ *statespace.Thread, v []int64) bool {
				return v[0] < rounds
			},
			Finish: func(f *petri.Firing) error {
				next := (f.Process() + 1) % f.Processes()
				return f.Send([]int{next}, Ball, f.Values[0]+1)
			},
		}},
	)
}

// Finished holds once the count has reached Rounds.
func (m Model) Finished(n *statespace.Node) bool {
	for p := 0; p < n.Processes(); p++ {
		for _, v := range petri.Tokens(n, p, Ball) {
			if v == int64(m.Rounds) {
				return true
			}
		}
	}
	return false
}

// OneBall holds while exactly one ball exists.
func OneBall(n *statespace.Node) bool {
	return petri.Marked(n, Ball)+petri.InFlight(n, Ball)+len(n.Activations()) == 1
}

func (m Model) Properties() []statespace.Property {
	return []statespace.Property{
		statespace.Eventually("finished", "the rally reaches the last round", m.Finished),
		statespace.Invariant("one-ball", "there is always exactly one ball", OneBall),
		statespace.NoDeadlockUnless("no-deadlock", "the rally only stops when finished", m.Finished),
	}
}
