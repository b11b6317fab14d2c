package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// genmodel -name X
// Produces:
//   models/X/model.go
//   docs/models/X.md

var validName = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

func main() {
	name := flag.String("name", "", "model name (required)")
	root := flag.String("root", ".", "repository root")
	flag.Parse()

	if *name == "" {
		fmt.Println("Usage: genmodel -name mutex")
		os.Exit(1)
	}

	created, err := generate(*root, *name)
	if err != nil {
		fmt.Fprintln(os.Stderr, "genmodel:", err)
		os.Exit(1)
	}
	for _, path := range created {
		fmt.Println("Created:", path)
	}
	fmt.Printf("Register %s.Model{} in models/models.go to make it runnable.\n", *name)
}

// generate writes the model and doc stubs under root. Existing files are
// never overwritten.
func generate(root, name string) ([]string, error) {
	if !validName.MatchString(name) {
		return nil, fmt.Errorf("model name %q must be a lowercase Go package name", name)
	}
	files := []struct {
		path     string
		contents string
	}{
		{filepath.Join(root, "models", name, "model.go"), renderModel(name)},
		{filepath.Join(root, "docs", "models", name+".md"), renderDoc(name)},
	}
	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			return nil, fmt.Errorf("%s already exists", f.path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	var created []string
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return created, err
		}
		if err := os.WriteFile(f.path, []byte(f.contents), 0o644); err != nil {
			return created, err
		}
		created = append(created, f.path)
	}
	return created, nil
}

func renderModel(name string) string {
	return fmt.Sprintf(`// Package %[1]s is a generated model skeleton. Describe the scenario,
// then replace the places and transitions.
package %[1]s

import (
	"github.com/rfielding/petrispace/petri"
	"github.com/rfielding/petrispace/statespace"
)

// Places.
const (
	Ready = iota
	Done
)

type Model struct{}

func (Model) Name() string { return %[1]q }

func (Model) Description() string {
	return "Every process moves its token from ready to done."
}

func (Model) Processes() int { return 2 }

func (Model) Def() statespace.NetDef { return def }

var def = petri.MustDef(%[1]q,
	[]petri.Place{
		{Name: "ready", Initial: func(p, processes int) []int64 { return []int64{int64(p)} }},
		{Name: "done"},
	},
	[]petri.Transition{{
		Name:   "finish",
		Inputs: []int{Ready},
		Finish: func(f *petri.Firing) error {
			// Use f.Send(targets, place, values...) to talk to other processes.
			f.Put(Done, f.Values...)
			return nil
		},
	}},
)

// AllDone holds once every process has finished.
func AllDone(n *statespace.Node) bool { return petri.Marked(n, Done) == n.Processes() }

func (Model) Properties() []statespace.Property {
	return []statespace.Property{
		statespace.Eventually("all-done", "every process eventually finishes", AllDone),
		statespace.NoDeadlockUnless("no-deadlock", "the run only stops when all are done", AllDone),
	}
}
`, name)
}

func renderDoc(name string) string {
	return fmt.Sprintf(`# %s Model

This file documents the model in models/%s.

## Editing

You should:

- describe the scenario
- list places and transitions
- add properties
- regenerate the diagram

## Diagrams

Regenerate with:

~~~
petrispace -model %s -mermaid docs/models/%s.mmd
~~~
`, strings.ToUpper(name[:1])+name[1:], name, name, name)
}
