package statespace

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/rfielding/petrispace/kripke"
)

// Core owns the explored state graph. Every canonical Node lives in the
// nodes arena and is addressed by its NodeID; buckets index the arena by
// semantic hash, and pending is the LIFO work list.
//
// A Core is not safe for concurrent use.
type Core struct {
	def         NetDef
	cfg         Config
	transitions []Transition

	nodes   []*Node
	buckets map[uint64][]NodeID
	pending []NodeID
	initial NodeID

	generated bool

	logger  *zap.Logger
	clock   clock.Clock
	metrics coreMetrics
}

// Option configures a Core.
type Option func(*Core)

// WithLogger sets the logger used for progress and bound reports.
func WithLogger(l *zap.Logger) Option {
	return func(c *Core) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock sets the clock used for the time bound and progress rates.
func WithClock(clk clock.Clock) Option {
	return func(c *Core) {
		if clk != nil {
			c.clock = clk
		}
	}
}

type coreMetrics struct {
	collector  *kripke.MetricsCollector
	states     *kripke.Metric
	duplicates *kripke.Metric
	processed  *kripke.Metric
	started    *kripke.Metric
	finished   *kripke.Metric
	delivered  *kripke.Metric
	packets    *kripke.Metric
}

func newCoreMetrics() coreMetrics {
	mc := kripke.NewMetricsCollector()
	return coreMetrics{
		collector:  mc,
		states:     mc.Counter("states", "canonical states admitted", "states"),
		duplicates: mc.Counter("duplicates", "candidates discarded as already seen", "states"),
		processed:  mc.Counter("processed", "states expanded", "states"),
		started:    mc.Counter("started", "transition starts explored", "steps"),
		finished:   mc.Counter("finished", "transition finishes explored", "steps"),
		delivered:  mc.Counter("delivered", "packet deliveries explored", "steps"),
		packets:    mc.Counter("packets", "multicast calls", "packets"),
	}
}

// New returns a Core for def. Nothing is explored until Generate.
func New(def NetDef, cfg Config, opts ...Option) (*Core, error) {
	if def == nil {
		return nil, fmt.Errorf("statespace: nil net definition")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("statespace: %w", err)
	}
	c := &Core{
		def:         def,
		cfg:         cfg,
		transitions: def.Transitions(),
		buckets:     make(map[uint64][]NodeID),
		initial:     NoNode,
		logger:      zap.NewNop(),
		clock:       clock.New(),
		metrics:     newCoreMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Generate explores the whole reachable state space depth first. It
// returns nil once no pending work remains. A *BoundError means a resource
// bound stopped the search early; any other error is fatal. In both cases
// the states found so far remain available.
func (c *Core) Generate() error {
	if c.generated {
		return ErrAlreadyGenerated
	}
	c.generated = true

	init, err := c.initialNode()
	if err != nil {
		c.logger.Error("spawn failed", zap.Error(err))
		return err
	}
	c.initial, _ = c.Admit(init)

	start := c.clock.Now()
	interval := c.cfg.progressInterval()
	processed := 0
	for len(c.pending) > 0 {
		if err := c.checkBounds(start); err != nil {
			c.logger.Warn("exploration stopped",
				zap.Error(err),
				zap.Int("processed", processed),
			)
			return err
		}

		last := len(c.pending) - 1
		id := c.pending[last]
		c.pending = c.pending[:last]

		processed++
		c.metrics.processed.Inc()
		if processed%interval == 0 {
			c.progress(processed, start)
			if err := c.checkHeap(); err != nil {
				c.logger.Warn("exploration stopped", zap.Error(err))
				return err
			}
		}

		if err := c.nodes[id].generate(c); err != nil {
			c.logger.Error("exploration aborted",
				zap.Int("state", int(id)),
				zap.Error(err),
			)
			return fmt.Errorf("expand S%d: %w", id, err)
		}
	}

	c.logger.Info("state space complete",
		zap.Int("states", len(c.nodes)),
		zap.Int("processed", processed),
		zap.Float64("duplicates", c.metrics.duplicates.Value),
		zap.Duration("elapsed", c.clock.Since(start)),
	)
	return nil
}

func (c *Core) initialNode() (*Node, error) {
	n := &Node{
		id:        NoNode,
		defs:      c.transitions,
		nets:      make([]Net, c.cfg.Processes),
		mailboxes: make([]mailbox, c.cfg.Processes),
	}
	for p := range n.nets {
		th := c.thread(n, p, 0)
		net, err := c.def.Spawn(th)
		if err = fireErr(th, "spawn", err); err != nil {
			return nil, err
		}
		n.nets[p] = net
	}
	return n, nil
}

// Admit is the deduplication gate. If a canonical Node equal to cand
// exists, cand is released and the existing id is returned with false.
// Otherwise cand becomes canonical, is pushed as pending work and its new
// id is returned with true.
func (c *Core) Admit(cand *Node) (NodeID, bool) {
	if cand.id != NoNode {
		return cand.id, false
	}
	h := cand.Hash()
	for _, id := range c.buckets[h] {
		if c.nodes[id].Equal(cand) {
			cand.release()
			c.metrics.duplicates.Inc()
			return id, false
		}
	}

	id := NodeID(len(c.nodes))
	cand.id = id
	c.nodes = append(c.nodes, cand)
	c.buckets[h] = append(c.buckets[h], id)
	c.pending = append(c.pending, id)
	c.metrics.states.Inc()
	return id, true
}

func (c *Core) thread(n *Node, process, thread int) *Thread {
	th := newThread(n.mailboxes, process, thread)
	th.sent = func(*Packet) { c.metrics.packets.Inc() }
	return th
}

func (c *Core) checkBounds(start time.Time) error {
	if c.cfg.MaxStates > 0 && len(c.nodes) > c.cfg.MaxStates {
		return c.bound("states", strconv.Itoa(c.cfg.MaxStates))
	}
	if c.cfg.Timeout > 0 && c.clock.Since(start) >= c.cfg.Timeout {
		return c.bound("time", c.cfg.Timeout.String())
	}
	return nil
}

func (c *Core) checkHeap() error {
	if c.cfg.MaxHeapBytes == 0 {
		return nil
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	if ms.HeapAlloc > c.cfg.MaxHeapBytes {
		return c.bound("heap", strconv.FormatUint(c.cfg.MaxHeapBytes, 10)+"B")
	}
	return nil
}

func (c *Core) bound(reason, limit string) *BoundError {
	return &BoundError{
		Reason:  reason,
		Limit:   limit,
		States:  len(c.nodes),
		Pending: len(c.pending),
	}
}

func (c *Core) progress(processed int, start time.Time) {
	rate := 0.0
	if d := c.clock.Since(start).Seconds(); d > 0 {
		rate = float64(processed) / d
	}
	c.logger.Info("exploring",
		zap.Int("processed", processed),
		zap.Int("states", len(c.nodes)),
		zap.Int("pending", len(c.pending)),
		zap.Float64("states_per_sec", rate),
	)
}

// Config returns the configuration the Core was built with.
func (c *Core) Config() Config { return c.cfg }

// Transitions returns the transition table of the net definition.
func (c *Core) Transitions() []Transition { return c.transitions }

// Initial returns the id of the initial state, or NoNode before Generate.
func (c *Core) Initial() NodeID { return c.initial }

// Node returns the canonical Node with the given id.
func (c *Core) Node(id NodeID) *Node { return c.nodes[id] }

// Nodes returns every canonical Node in id order.
func (c *Core) Nodes() []*Node { return append([]*Node(nil), c.nodes...) }

// Len returns the number of canonical states.
func (c *Core) Len() int { return len(c.nodes) }

// Pending returns the number of states admitted but not yet expanded.
func (c *Core) Pending() int { return len(c.pending) }

// Metrics returns the exploration counters.
func (c *Core) Metrics() *kripke.MetricsCollector { return c.metrics.collector }
