package statespace

import "github.com/rfielding/petrispace/tokens"

// Thread is the execution context handed to net code while it spawns or
// fires. It identifies the acting process and owns the only effect that
// crosses process boundaries: multicast.
type Thread struct {
	process   int
	thread    int
	mailboxes []mailbox // the Node under construction
	sent      func(*Packet)
	err       error
}

func newThread(mailboxes []mailbox, process, thread int) *Thread {
	return &Thread{
		process:   process,
		thread:    thread,
		mailboxes: mailboxes,
	}
}

// ProcessID is the id of the process executing net code.
func (t *Thread) ProcessID() int { return t.process }

// ProcessCount is the number of processes in the system.
func (t *Thread) ProcessCount() int { return len(t.mailboxes) }

// ThreadID is the id of the executing thread within the process.
func (t *Thread) ThreadID() int { return t.thread }

// Multicast queues one packet holding payload on the mailbox of every
// process in targets. Every target is checked before any mailbox is
// touched; an invalid target returns a *TargetError and queues nothing.
// The error is also remembered by the thread, so the engine aborts the run
// even if net code drops it.
func (t *Thread) Multicast(targets []int, place, count int, payload []byte) error {
	if t.err != nil {
		return t.err
	}
	for _, target := range targets {
		if target < 0 || target >= len(t.mailboxes) {
			t.err = &TargetError{
				Process:   t.process,
				Target:    target,
				Tokens:    count,
				Processes: len(t.mailboxes),
			}
			return t.err
		}
	}

	p := NewPacket(place, count, payload)
	for _, target := range targets {
		t.mailboxes[target] = append(t.mailboxes[target], p)
	}
	if t.sent != nil {
		t.sent(p)
	}
	return nil
}

// Send is Multicast to a single process.
func (t *Thread) Send(target, place, count int, payload []byte) error {
	return t.Multicast([]int{target}, place, count, payload)
}

// MulticastBatch multicasts the tokens accumulated in w.
func (t *Thread) MulticastBatch(targets []int, place int, w *tokens.Writer) error {
	return t.Multicast(targets, place, w.Len(), w.Bytes())
}

// Err returns the first fatal error raised through this thread.
func (t *Thread) Err() error { return t.err }
