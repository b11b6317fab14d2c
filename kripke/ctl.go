package kripke

import (
	"fmt"
	"sort"
)

// CTL evaluator over a finite Kripke graph.
// The state space generator maps every explored configuration to a StateID
// and hands the successor relation over as a Graph; atoms are plain sets
// of states computed by the caller.

type StateID string

// Graph is a finite Kripke structure: states + successor relation.
type Graph struct {
	States []StateID
	Succ   map[StateID][]StateID // R(s) = Succ[s]
}

// NewGraph returns an empty graph ready for AddState/AddEdge.
func NewGraph() *Graph {
	return &Graph{Succ: make(map[StateID][]StateID)}
}

// AddState appends s to the state list. Callers add each state once.
func (g *Graph) AddState(s StateID) {
	g.States = append(g.States, s)
}

// AddEdge records s -> t. Parallel edges are kept.
func (g *Graph) AddEdge(s, t StateID) {
	g.Succ[s] = append(g.Succ[s], t)
}

// ----- State sets -----

type StateSet map[StateID]struct{}

func NewStateSet(ids ...StateID) StateSet {
	s := make(StateSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s StateSet) Has(id StateID) bool { _, ok := s[id]; return ok }
func (s StateSet) Add(id StateID)      { s[id] = struct{}{} }
func (s StateSet) Size() int           { return len(s) }

func (s StateSet) Copy() StateSet {
	out := make(StateSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Sorted returns the members in lexical order.
func (s StateSet) Sorted() []StateID {
	out := make([]StateID, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s StateSet) Equals(other StateSet) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

func (s StateSet) Intersect(other StateSet) StateSet {
	out := NewStateSet()
	for k := range s {
		if other.Has(k) {
			out.Add(k)
		}
	}
	return out
}

func (s StateSet) Union(other StateSet) StateSet {
	out := s.Copy()
	for k := range other {
		out.Add(k)
	}
	return out
}

func (s StateSet) Difference(other StateSet) StateSet {
	out := NewStateSet()
	for k := range s {
		if !other.Has(k) {
			out.Add(k)
		}
	}
	return out
}

// Universe builds a set containing all states in the graph.
func Universe(g *Graph) StateSet {
	return NewStateSet(g.States...)
}

// Terminal returns the states without successors.
func Terminal(g *Graph) StateSet {
	out := NewStateSet()
	for _, s := range g.States {
		if len(g.Succ[s]) == 0 {
			out.Add(s)
		}
	}
	return out
}

// PreE returns predecessors with SOME successor in W:
// PreE(W) = { s | ∃ s' . R(s,s') ∧ s' ∈ W }
func PreE(W StateSet, g *Graph) StateSet {
	out := NewStateSet()
	for _, s := range g.States {
		for _, s2 := range g.Succ[s] {
			if W.Has(s2) {
				out.Add(s)
				break
			}
		}
	}
	return out
}

// PreA returns states whose ALL successors are in W.
// Dead ends have no successors, so they are excluded: AX φ does not hold
// vacuously at a deadlock.
func PreA(W StateSet, g *Graph) StateSet {
	out := NewStateSet()
	for _, s := range g.States {
		succs := g.Succ[s]
		if len(succs) == 0 {
			continue
		}
		all := true
		for _, s2 := range succs {
			if !W.Has(s2) {
				all = false
				break
			}
		}
		if all {
			out.Add(s)
		}
	}
	return out
}

// ----- CTL Formula AST -----

// Formula is a CTL state formula.
// Sat(g) returns the set of states satisfying the formula in graph g.
type Formula interface {
	Sat(g *Graph) StateSet
	String() string
}

// True holds everywhere.
type True struct{}

func (True) Sat(g *Graph) StateSet { return Universe(g) }
func (True) String() string        { return "true" }

// Atom: an atomic proposition is represented as a set of states
// where it holds.
type Atom struct {
	Name   string
	States StateSet
}

func (a Atom) Sat(g *Graph) StateSet {
	return a.States.Intersect(Universe(g))
}

func (a Atom) String() string { return a.Name }

// Not: ¬φ
type Not struct {
	F Formula
}

func (n Not) Sat(g *Graph) StateSet {
	return Universe(g).Difference(n.F.Sat(g))
}

func (n Not) String() string { return fmt.Sprintf("¬%s", n.F) }

// And: (φ ∧ ψ)
type And struct {
	Left, Right Formula
}

func (a And) Sat(g *Graph) StateSet {
	return a.Left.Sat(g).Intersect(a.Right.Sat(g))
}

func (a And) String() string { return fmt.Sprintf("(%s ∧ %s)", a.Left, a.Right) }

// Or: (φ ∨ ψ)
type Or struct {
	Left, Right Formula
}

func (o Or) Sat(g *Graph) StateSet {
	return o.Left.Sat(g).Union(o.Right.Sat(g))
}

func (o Or) String() string { return fmt.Sprintf("(%s ∨ %s)", o.Left, o.Right) }

// Implies: (φ → ψ) ≡ ¬φ ∨ ψ
type Implies struct {
	Left, Right Formula
}

func (i Implies) Sat(g *Graph) StateSet {
	return Or{Not{i.Left}, i.Right}.Sat(g)
}

func (i Implies) String() string { return fmt.Sprintf("(%s → %s)", i.Left, i.Right) }

// EX φ: "there exists a next state where φ holds"
type EX struct {
	F Formula
}

func (e EX) Sat(g *Graph) StateSet { return PreE(e.F.Sat(g), g) }
func (e EX) String() string        { return fmt.Sprintf("EX %s", e.F) }

// AX φ: "for all next states, φ holds"
type AX struct {
	F Formula
}

func (a AX) Sat(g *Graph) StateSet { return PreA(a.F.Sat(g), g) }
func (a AX) String() string        { return fmt.Sprintf("AX %s", a.F) }

// EU(p, q): "there exists a path where p holds UNTIL q holds"
type EU struct {
	P, Q Formula
}

func (eu EU) Sat(g *Graph) StateSet {
	satP := eu.P.Sat(g)

	// Least fixpoint:
	// W0 = Sat(Q)
	// W_{i+1} = W_i ∪ (Sat(P) ∩ PreE(W_i))
	W := eu.Q.Sat(g)
	for {
		next := W.Union(PreE(W, g).Intersect(satP))
		if next.Equals(W) {
			return W
		}
		W = next
	}
}

func (eu EU) String() string { return fmt.Sprintf("E[%s U %s]", eu.P, eu.Q) }

// AU(p, q): "on every path p holds UNTIL q holds"
type AU struct {
	P, Q Formula
}

func (au AU) Sat(g *Graph) StateSet {
	satP := au.P.Sat(g)

	// W_{i+1} = W_i ∪ (Sat(P) ∩ PreA(W_i))
	W := au.Q.Sat(g)
	for {
		next := W.Union(PreA(W, g).Intersect(satP))
		if next.Equals(W) {
			return W
		}
		W = next
	}
}

func (au AU) String() string { return fmt.Sprintf("A[%s U %s]", au.P, au.Q) }

// EG φ: "there exists a path where φ holds globally (forever)"
type EG struct {
	F Formula
}

func (eg EG) Sat(g *Graph) StateSet {
	// Greatest fixpoint: drop states of Z with no successor left in Z.
	Z := eg.F.Sat(g)
	for {
		next := Z.Intersect(PreE(Z, g))
		if next.Equals(Z) {
			return Z
		}
		Z = next
	}
}

func (eg EG) String() string { return fmt.Sprintf("EG %s", eg.F) }

// EF φ ≡ E[true U φ]
type EF struct {
	F Formula
}

func (ef EF) Sat(g *Graph) StateSet { return EU{P: True{}, Q: ef.F}.Sat(g) }
func (ef EF) String() string        { return fmt.Sprintf("EF %s", ef.F) }

// AF φ ≡ A[true U φ]
// Computed through AU rather than ¬EG ¬φ so that a finite path ending in
// a dead end without φ counts as a violation.
type AF struct {
	F Formula
}

func (af AF) Sat(g *Graph) StateSet { return AU{P: True{}, Q: af.F}.Sat(g) }
func (af AF) String() string        { return fmt.Sprintf("AF %s", af.F) }

// AG φ ≡ ¬EF ¬φ
type AG struct {
	F Formula
}

func (ag AG) Sat(g *Graph) StateSet {
	bad := EF{F: Not{F: ag.F}}.Sat(g)
	return Universe(g).Difference(bad)
}

func (ag AG) String() string { return fmt.Sprintf("AG %s", ag.F) }

// SatIn evaluates a formula and asks if a given initial state satisfies it.
func SatIn(f Formula, g *Graph, init StateID) bool {
	return f.Sat(g).Has(init)
}
