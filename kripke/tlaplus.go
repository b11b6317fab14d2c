package kripke

import (
	"fmt"
	"io"
	"strings"
)

// GenerateTLAPlus renders g as a TLA+ module with a single variable,
// state, ranging over the state names. Each atom becomes an operator
// true in the states of its set, so properties can be re-checked with TLC.
func GenerateTLAPlus(g *Graph, initial StateID, module string, atoms ...Atom) string {
	var tla strings.Builder

	tla.WriteString(fmt.Sprintf("---- MODULE %s ----\n", module))
	tla.WriteString("VARIABLE state\n\n")

	tla.WriteString("States == " + tlaSet(g.States) + "\n\n")
	tla.WriteString("TypeOK == state \\in States\n\n")
	tla.WriteString(fmt.Sprintf("Init == state = %q\n\n", initial))

	tla.WriteString("Next ==\n")
	edges := 0
	for _, from := range g.States {
		succs := g.Succ[from]
		if len(succs) == 0 {
			continue
		}
		seen := make(map[StateID]bool, len(succs))
		var to []StateID
		for _, s := range succs {
			if !seen[s] {
				seen[s] = true
				to = append(to, s)
			}
		}
		tla.WriteString(fmt.Sprintf("    \\/ state = %q /\\ state' \\in %s\n", from, tlaSet(to)))
		edges++
	}
	if edges == 0 {
		tla.WriteString("    FALSE\n")
	}
	tla.WriteString("\n")

	tla.WriteString("\\* Temporal specification\n")
	tla.WriteString("Spec == Init /\\ [][Next]_state\n\n")

	for _, a := range atoms {
		tla.WriteString(fmt.Sprintf("%s == state \\in %s\n", tlaName(a.Name), tlaSet(a.States.Sorted())))
	}
	if len(atoms) > 0 {
		tla.WriteString("\n")
	}

	tla.WriteString("====\n")
	return tla.String()
}

// WriteTLAPlus writes GenerateTLAPlus to w.
func WriteTLAPlus(g *Graph, initial StateID, module string, w io.Writer, atoms ...Atom) error {
	_, err := io.WriteString(w, GenerateTLAPlus(g, initial, module, atoms...))
	return err
}

func tlaSet(ids []StateID) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = fmt.Sprintf("%q", id)
	}
	return "{" + strings.Join(quoted, ", ") + "}"
}

// tlaName maps an atom name to a TLA+ identifier.
func tlaName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

// Atoms collects the atoms referenced by fs, first occurrence per name.
func Atoms(fs ...Formula) []Atom {
	var out []Atom
	seen := make(map[string]bool)
	var walk func(f Formula)
	walk = func(f Formula) {
		switch f := f.(type) {
		case Atom:
			if !seen[f.Name] {
				seen[f.Name] = true
				out = append(out, f)
			}
		case Not:
			walk(f.F)
		case And:
			walk(f.Left)
			walk(f.Right)
		case Or:
			walk(f.Left)
			walk(f.Right)
		case Implies:
			walk(f.Left)
			walk(f.Right)
		case EX:
			walk(f.F)
		case AX:
			walk(f.F)
		case EF:
			walk(f.F)
		case AF:
			walk(f.F)
		case EG:
			walk(f.F)
		case AG:
			walk(f.F)
		case EU:
			walk(f.P)
			walk(f.Q)
		case AU:
			walk(f.P)
			walk(f.Q)
		}
	}
	for _, f := range fs {
		walk(f)
	}
	return out
}
