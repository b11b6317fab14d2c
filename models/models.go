// Package models is the registry of shipped systems.
package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rfielding/petrispace/models/broadcast"
	"github.com/rfielding/petrispace/models/pingpong"
	"github.com/rfielding/petrispace/models/relay"
	"github.com/rfielding/petrispace/statespace"
)

// Spec is the small API that model packages implement.
type Spec interface {
	Name() string
	// Description is the English scenario the net encodes.
	Description() string
	// Processes is the default process count.
	Processes() int
	Def() statespace.NetDef
	Properties() []statespace.Property
}

var registry = map[string]Spec{}

func register(s Spec) { registry[s.Name()] = s }

func init() {
	register(relay.Model{})
	register(pingpong.Model{Rounds: pingpong.DefaultRounds})
	register(broadcast.Model{})
}

// Names returns every registered model name, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the model called name.
func Lookup(name string) (Spec, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown model %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return s, nil
}
