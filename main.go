package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/rfielding/petrispace/internal/config"
	"github.com/rfielding/petrispace/internal/report"
	"github.com/rfielding/petrispace/models"
	"github.com/rfielding/petrispace/statespace"
)

// Exit codes.
const (
	exitOK = iota
	exitFatal
	exitBound
	exitExport
	exitViolated
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	model      string
	processes  int
	verbose    string
	dot        string
	mermaid    string
	tla        string
	report     string
	maxStates  int
	timeout    time.Duration
	maxHeap    uint64
	list       bool
	logLevel   string
	logDev     bool
}

func parseFlags(args []string, stderr io.Writer) (options, map[string]bool, error) {
	var o options
	fs := flag.NewFlagSet("petrispace", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "YAML run configuration")
	fs.StringVar(&o.model, "model", "", "model to explore (see -list)")
	fs.IntVar(&o.processes, "processes", 0, "number of processes (default: the model's)")
	fs.StringVar(&o.verbose, "V", "", `"dot" writes `+statespace.DotFile+` after exploration`)
	fs.StringVar(&o.dot, "dot", "", "write the state graph as Graphviz DOT")
	fs.StringVar(&o.mermaid, "mermaid", "", "write the state graph as a Mermaid diagram")
	fs.StringVar(&o.tla, "tla", "", "write the state graph as a TLA+ module")
	fs.StringVar(&o.report, "report", "", "write a YAML run report")
	fs.IntVar(&o.maxStates, "max-states", 0, "stop after this many states (0: unbounded)")
	fs.DurationVar(&o.timeout, "timeout", 0, "stop after exploring this long (0: unbounded)")
	fs.Uint64Var(&o.maxHeap, "max-heap", 0, "stop once the heap exceeds this many bytes (0: unbounded)")
	fs.BoolVar(&o.list, "list", false, "list the available models and exit")
	fs.StringVar(&o.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.BoolVar(&o.logDev, "log-dev", false, "human readable development logging")
	if err := fs.Parse(args); err != nil {
		return o, nil, err
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if o.verbose != "" && o.verbose != "dot" {
		return o, nil, fmt.Errorf("-V: unknown mode %q", o.verbose)
	}
	return o, set, nil
}

// loadConfig starts from the file (or defaults) and applies every flag
// that was given explicitly.
func loadConfig(o options, set map[string]bool) (config.File, error) {
	f := config.Default()
	if o.configPath != "" {
		var err error
		if f, err = config.Load(o.configPath); err != nil {
			return f, err
		}
	}
	if set["model"] {
		f.Model = o.model
	}
	if set["processes"] {
		f.Processes = o.processes
	}
	if set["dot"] {
		f.Export.Dot = o.dot
	}
	if o.verbose == "dot" && f.Export.Dot == "" {
		f.Export.Dot = statespace.DotFile
	}
	if set["mermaid"] {
		f.Export.Mermaid = o.mermaid
	}
	if set["tla"] {
		f.Export.TLA = o.tla
	}
	if set["report"] {
		f.Export.Report = o.report
	}
	if set["max-states"] {
		f.Explore.MaxStates = o.maxStates
	}
	if set["timeout"] {
		f.Explore.Timeout = o.timeout
	}
	if set["max-heap"] {
		f.Explore.MaxHeapBytes = o.maxHeap
	}
	if set["log-level"] {
		f.Log.Level = o.logLevel
	}
	if set["log-dev"] {
		f.Log.Development = o.logDev
	}
	return f, f.Validate()
}

func run(args []string, stdout, stderr io.Writer) int {
	o, set, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitFatal
	}
	if o.list {
		listModels(stdout)
		return exitOK
	}

	f, err := loadConfig(o, set)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFatal
	}
	spec, err := models.Lookup(f.Model)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFatal
	}
	logger, err := f.Logger()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFatal
	}
	defer logger.Sync()

	cfg := f.StateSpace(spec.Processes())
	logger = logger.With(zap.String("model", spec.Name()), zap.Int("processes", cfg.Processes))
	core, err := statespace.New(spec.Def(), cfg, statespace.WithLogger(logger))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFatal
	}

	start := time.Now()
	genErr := core.Generate()
	elapsed := time.Since(start)

	fmt.Fprintf(stdout, "=== %s: %d processes ===\n", spec.Name(), cfg.Processes)
	fmt.Fprintf(stdout, "Nodes %d\n", core.Len())
	fmt.Fprintf(stdout, "Pending %d\n\n", core.Pending())
	fmt.Fprintln(stdout, core.Metrics().GenerateMetricsTable())

	var results []statespace.PropertyResult
	if genErr == nil {
		results = core.Check(spec.Properties()...)
		printProperties(stdout, results)
	}

	rep := report.New(spec.Name(), core, genErr, elapsed)
	rep.Properties = results
	if err := export(core, spec, rep, f.Export); err != nil {
		logger.Error("export failed", zap.Error(err))
		if genErr == nil {
			return exitExport
		}
	}

	var bound *statespace.BoundError
	switch {
	case errors.As(genErr, &bound):
		fmt.Fprintf(stdout, "incomplete: %v\n", genErr)
		return exitBound
	case genErr != nil:
		fmt.Fprintf(stderr, "fatal: %v\n", genErr)
		return exitFatal
	}
	for _, r := range results {
		if !r.Holds {
			return exitViolated
		}
	}
	return exitOK
}

// export writes every configured artifact and reports all failures.
func export(core *statespace.Core, spec models.Spec, rep *report.Report, e config.Export) error {
	var err error
	if e.Dot != "" {
		err = multierr.Append(err, core.SaveDot(e.Dot))
	}
	if e.Mermaid != "" {
		err = multierr.Append(err, writeFile(e.Mermaid, core.WriteMermaid))
	}
	if e.TLA != "" {
		err = multierr.Append(err, writeFile(e.TLA, func(w io.Writer) error {
			return core.WriteTLAPlus(w, spec.Name(), spec.Properties()...)
		}))
	}
	if e.Report != "" {
		err = multierr.Append(err, rep.Write(e.Report))
	}
	return err
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer func() { err = multierr.Append(err, out.Close()) }()
	if err := write(out); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func printProperties(w io.Writer, results []statespace.PropertyResult) {
	fmt.Fprintln(w, "| Property | Formula | Holds | Satisfying |")
	fmt.Fprintln(w, "|----------|---------|-------|------------|")
	for _, r := range results {
		mark := "✓"
		if !r.Holds {
			mark = "✗"
		}
		fmt.Fprintf(w, "| %s | %s | %s | %d/%d |\n", r.Name, r.Formula, mark, r.Satisfying, r.Total)
	}
	for _, r := range results {
		if len(r.Witness) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s violated along:", r.Name)
		for _, id := range r.Witness {
			fmt.Fprintf(w, " %s", statespace.StateName(id))
		}
		fmt.Fprintln(w)
	}
}
