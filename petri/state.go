package petri

import "github.com/rfielding/petrispace/statespace"

// Count returns the number of tokens on place of process p in state n.
func Count(n *statespace.Node, p, place int) int {
	return n.Net(p).(*Net).Count(place)
}

// Tokens returns the tokens on place of process p in state n.
func Tokens(n *statespace.Node, p, place int) []int64 {
	return n.Net(p).(*Net).Tokens(place)
}

// Marked returns the number of tokens on place summed over every process.
func Marked(n *statespace.Node, place int) int {
	total := 0
	for p := 0; p < n.Processes(); p++ {
		total += Count(n, p, place)
	}
	return total
}

// InFlight returns the number of tokens queued for place in every mailbox.
func InFlight(n *statespace.Node, place int) int {
	total := 0
	for p := 0; p < n.Processes(); p++ {
		for _, packet := range n.Mailbox(p) {
			if packet.Place() == place {
				total += packet.Tokens()
			}
		}
	}
	return total
}

// Started returns the number of activations of the named transition.
func Started(n *statespace.Node, defs []statespace.Transition, name string) int {
	total := 0
	for _, a := range n.Activations() {
		if defs[a.Transition].Name() == name {
			total++
		}
	}
	return total
}
