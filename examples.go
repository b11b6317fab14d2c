package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rfielding/petrispace/models"
)

// listModels prints every shipped model with its scenario.
func listModels(w io.Writer) {
	for _, name := range models.Names() {
		spec, _ := models.Lookup(name)
		fmt.Fprintf(w, "%s (%d processes)\n", spec.Name(), spec.Processes())
		for _, line := range strings.Split(spec.Description(), "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
		for _, p := range spec.Properties() {
			fmt.Fprintf(w, "    - %s: %s\n", p.Name, p.Description)
		}
		fmt.Fprintln(w)
	}
}
