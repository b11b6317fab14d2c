package statespace

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTarget is a fatal configuration error: a net multicast to
	// a process id outside [0, processes).
	ErrInvalidTarget = errors.New("invalid multicast target")
	// ErrBoundReached means exploration stopped on a resource bound before
	// the state space was exhausted.
	ErrBoundReached = errors.New("exploration bound reached")
	// ErrAlreadyGenerated is returned by a second call to Generate.
	ErrAlreadyGenerated = errors.New("state space already generated")
)

// TargetError describes an out-of-range multicast.
type TargetError struct {
	Process   int // sending process
	Target    int
	Tokens    int
	Processes int
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("process %d sends %d token(s) to invalid process id %d (valid ids: [0 .. %d])",
		e.Process, e.Tokens, e.Target, e.Processes-1)
}

func (e *TargetError) Unwrap() error { return ErrInvalidTarget }

// ModelError wraps an error returned by net code.
type ModelError struct {
	Process int
	Op      string // "spawn", "phase1 <name>", "phase2 <name>", "receive"
	Err     error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("process %d: %s: %v", e.Process, e.Op, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// BoundError reports which resource bound stopped the search.
type BoundError struct {
	Reason  string // "states", "time" or "heap"
	Limit   string
	States  int
	Pending int
}

func (e *BoundError) Error() string {
	return fmt.Sprintf("%s limit %s reached with %d states, %d pending",
		e.Reason, e.Limit, e.States, e.Pending)
}

func (e *BoundError) Unwrap() error { return ErrBoundReached }
