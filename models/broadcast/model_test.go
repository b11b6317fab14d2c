package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfielding/petrispace/petri"
	"github.com/rfielding/petrispace/statespace"
)

func TestPublishIsOnePacket(t *testing.T) {
	c, err := statespace.New(Model{}.Def(), statespace.Config{Processes: 3})
	require.NoError(t, err)
	require.NoError(t, c.Generate())

	// S2: the job is queued for both workers as the same packet.
	s2 := c.Node(2)
	one, two := s2.Mailbox(1), s2.Mailbox(2)
	require.Len(t, one, 1)
	require.Len(t, two, 1)
	assert.Same(t, one[0], two[0])
	assert.Empty(t, s2.Mailbox(0))
}

func TestBroadcastEndsCollected(t *testing.T) {
	for _, processes := range []int{1, 2, 3, 4} {
		m := Model{}
		c, err := statespace.New(m.Def(), statespace.Config{Processes: processes})
		require.NoError(t, err)
		require.NoError(t, c.Generate())

		deadlocks := 0
		for _, n := range c.Nodes() {
			if len(n.Successors()) > 0 {
				continue
			}
			deadlocks++
			assert.True(t, Collected(n))
			assert.Len(t, petri.Tokens(n, 0, Acks), processes-1)
		}
		assert.Equal(t, 1, deadlocks, "processes=%d", processes)

		for _, r := range c.Check(m.Properties()...) {
			assert.True(t, r.Holds, "processes=%d %s", processes, r.Name)
		}
	}
}
