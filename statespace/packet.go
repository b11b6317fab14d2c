package statespace

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Packet is one batch of serialized tokens addressed to one place. A
// multicast builds a single Packet and every target mailbox holds a
// pointer to it, so a Packet is never modified after construction.
type Packet struct {
	place   int
	tokens  int
	payload []byte
	sum     uint64
}

// NewPacket copies payload into a new immutable Packet.
func NewPacket(place, tokens int, payload []byte) *Packet {
	p := &Packet{
		place:   place,
		tokens:  tokens,
		payload: bytes.Clone(payload),
	}
	if p.payload == nil {
		p.payload = []byte{}
	}

	var hdr [16]byte
	binary.LittleEndian.PutUint64(hdr[:8], uint64(place))
	binary.LittleEndian.PutUint64(hdr[8:], uint64(tokens))
	d := xxhash.New()
	d.Write(hdr[:])
	d.Write(p.payload)
	p.sum = d.Sum64()
	return p
}

// Place is the index of the target place in the receiving net.
func (p *Packet) Place() int { return p.place }

// Tokens is the number of tokens in the batch.
func (p *Packet) Tokens() int { return p.tokens }

// Payload returns the serialized tokens. The slice must not be modified.
func (p *Packet) Payload() []byte { return p.payload }

// Hash returns the content hash computed at construction.
func (p *Packet) Hash() uint64 { return p.sum }

// Equal compares header and payload bytes.
func (p *Packet) Equal(o *Packet) bool {
	if p == o {
		return true
	}
	return p.sum == o.sum &&
		p.place == o.place &&
		p.tokens == o.tokens &&
		bytes.Equal(p.payload, o.payload)
}

// mailbox is a per-process FIFO of shared packets. Node copies clone the
// slice, never the packets.
type mailbox []*Packet

func (m mailbox) clone() mailbox {
	if len(m) == 0 {
		return nil
	}
	out := make(mailbox, len(m))
	copy(out, m)
	return out
}

func (m mailbox) equal(o mailbox) bool {
	if len(m) != len(o) {
		return false
	}
	for i := range m {
		if !m[i].Equal(o[i]) {
			return false
		}
	}
	return true
}
