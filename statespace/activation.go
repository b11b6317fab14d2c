package statespace

// Activation is a transition that has started but not finished.
type Activation struct {
	Transition int // index into NetDef.Transitions()
	Process    int
	Thread     int
	Binding    Binding
}

func (a Activation) hash(defs []Transition) uint64 {
	v := uint64(a.Transition) + uint64(a.Process)<<16 + uint64(a.Thread)
	return v ^ defs[a.Transition].BindingHash(a.Binding)
}

func (a Activation) equal(o Activation, defs []Transition) bool {
	return a.Transition == o.Transition &&
		a.Process == o.Process &&
		a.Thread == o.Thread &&
		defs[a.Transition].BindingEqual(a.Binding, o.Binding)
}
