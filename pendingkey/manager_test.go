package pendingkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEnqueueDedup verifies property 9 / scenario S3: enqueueing the same
// key twice results in exactly one entry.
func TestEnqueueDedup(t *testing.T) {
	m := NewManager()
	_, err := m.Enqueue("k1")
	require.NoError(t, err)
	_, err = m.Enqueue("k1")
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 1, m.Len())
}

func TestEnqueueRejectsOverflow(t *testing.T) {
	m := NewManager()
	for i := 0; i < MaxPendingKeys; i++ {
		_, err := m.Enqueue(string(rune('a' + i)))
		require.NoError(t, err)
	}
	_, err := m.Enqueue("overflow")
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, MaxPendingKeys, m.Len())
}

func TestOldestAndRemove(t *testing.T) {
	m := NewManager()
	_, _ = m.Enqueue("k1")
	_, _ = m.Enqueue("k2")

	head, err := m.Oldest()
	require.NoError(t, err)
	assert.Equal(t, "k1", head.PubKeyB64)

	require.NoError(t, m.Remove("k1"))
	head, err = m.Oldest()
	require.NoError(t, err)
	assert.Equal(t, "k2", head.PubKeyB64)
}

func TestOldestEmptyQueue(t *testing.T) {
	m := NewManager()
	_, err := m.Oldest()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestCodecRoundTrip(t *testing.T) {
	keys := []*PendingKey{{PubKeyB64: "abc=", ReceivedAt: 42}}
	decoded := Decode(Encode(keys))
	require.Len(t, decoded, 1)
	assert.Equal(t, keys[0].PubKeyB64, decoded[0].PubKeyB64)
	assert.Equal(t, keys[0].ReceivedAt, decoded[0].ReceivedAt)
}
