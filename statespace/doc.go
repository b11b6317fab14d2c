// Package statespace enumerates every reachable global configuration of a
// distributed system modeled as a fixed number of processes, each running
// its own Petri net, that talk to each other through asynchronous FIFO
// mailboxes.
//
// A global configuration is a Node: one net per process, one mailbox per
// process and the multiset of transitions that have started but not yet
// finished. Transitions fire in two phases. Phase 1 picks a binding and
// applies the start effect; phase 2, taken later as its own step, applies
// the finish effect. Between the two, any other process may act.
//
// Core drives the search. It seeds the initial Node, then repeatedly pops
// pending work and asks the Node for its successors: one per enabled
// transition start, one per pending activation to finish, and one per
// non-empty mailbox to deliver from. Every successor is a deep copy of its
// parent with exactly one action applied. Successors pass through Core's
// admission gate, which compares them by content (not identity) against
// the states already seen, so exploration terminates whenever the
// reachable state space is finite.
//
// The behaviour of the nets themselves is supplied through NetDef, Net and
// Transition. Package petri provides a ready-made implementation.
package statespace
