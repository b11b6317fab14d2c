package statespace

import "github.com/rfielding/petrispace/tokens"

// Binding is the opaque result of a transition's start phase. The engine
// stores it in an Activation and hands it back to the same transition's
// finish phase. A binding must not be mutated after FirePhase1 returns:
// copies of a Node share it.
type Binding any

// NetDef describes one compiled net model. Every process runs a net
// spawned from the same definition.
type NetDef interface {
	// Spawn creates the initial net for th.ProcessID(). Spawn may send
	// packets through th; they land in the initial configuration.
	Spawn(th *Thread) (Net, error)
	// Transitions lists every transition of the net. The order must be
	// stable for the lifetime of a run; an Activation refers to a
	// transition by its index in this slice.
	Transitions() []Transition
}

// Net is one process's local state.
type Net interface {
	// Copy returns a deep clone that shares no mutable state with the
	// receiver.
	Copy() Net
	// Receive applies one delivered token read from r to the given place.
	Receive(place int, r *tokens.Reader) error
	// Hash returns a content hash of the marking. Equal nets must hash
	// equally.
	Hash() uint64
	// Equal reports whether other holds the same marking.
	Equal(other Net) bool
}

// Transition is one firing rule of a net.
type Transition interface {
	Name() string
	// FirePhase1 tries to start the transition on n. It returns a nil
	// binding when the transition is not enabled, in which case n must be
	// left untouched.
	FirePhase1(th *Thread, n Net) (Binding, error)
	// FirePhase2 applies the finish effect of a binding produced by
	// FirePhase1.
	FirePhase2(th *Thread, n Net, b Binding) error
	BindingHash(b Binding) uint64
	BindingEqual(a, b Binding) bool
}

// Releaser is implemented by nets that hold resources beyond memory.
// Release is called exactly once when the owning Node is discarded.
type Releaser interface {
	Release()
}

// ResourceBinding is a binding that holds resources beyond memory. Node
// copies call CopyBinding so that every Activation owns its binding
// exclusively; a discarded Node releases the bindings it still owns. A
// binding consumed by FirePhase2 belongs to the transition from then on.
// Plain bindings are shared between copies and never released.
type ResourceBinding interface {
	Releaser
	CopyBinding() Binding
}

func release(v any) {
	if r, ok := v.(Releaser); ok {
		r.Release()
	}
}
