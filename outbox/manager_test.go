package outbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faisal-shah/offline-secure-messenger-sub000/crypto"
)

type recordingSender struct {
	calls []struct {
		uuid uint16
		data []byte
	}
}

func (r *recordingSender) Broadcast(charUUID uint16, data []byte) {
	r.calls = append(r.calls, struct {
		uuid uint16
		data []byte
	}{charUUID, data})
}

func TestEnqueueRejectsOverCapacity(t *testing.T) {
	m := NewManager()
	for i := 0; i < MaxEntries; i++ {
		_, err := m.Enqueue(0xFE03, "x")
		require.NoError(t, err)
	}
	_, err := m.Enqueue(0xFE03, "overflow")
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

// TestFlushNoOpWithoutPeers and TestFlushOnConnectDelivers verify property
// 10 / test property "outbox at-least-once": a message enqueued while no
// peer is connected is delivered exactly when the first peer connects.
func TestFlushNoOpWithoutPeers(t *testing.T) {
	m := NewManager()
	_, err := m.Enqueue(0xFE03, "hello")
	require.NoError(t, err)

	sender := &recordingSender{}
	m.Flush(sender)
	assert.Empty(t, sender.calls)
}

func TestFlushOnConnectDelivers(t *testing.T) {
	m := NewManager()
	_, err := m.Enqueue(0xFE03, "hello")
	require.NoError(t, err)

	m.NotePeerCount(1)
	sender := &recordingSender{}
	m.Flush(sender)
	require.Len(t, sender.calls, 1)
	assert.Equal(t, "hello", string(sender.calls[0].data))

	// A second flush with no new enqueue does not redeliver.
	m.Flush(sender)
	assert.Len(t, sender.calls, 1)
}

func TestReconnectRearmsUnackedEntries(t *testing.T) {
	m := NewManager()
	_, err := m.Enqueue(0xFE03, "hello")
	require.NoError(t, err)

	m.NotePeerCount(1)
	sender := &recordingSender{}
	m.Flush(sender)
	require.Len(t, sender.calls, 1)

	m.NotePeerCount(0)
	m.NotePeerCount(1)
	m.Flush(sender)
	assert.Len(t, sender.calls, 2)
}

// TestAckRemovesEntry verifies property 11.
func TestAckRemovesEntry(t *testing.T) {
	m := NewManager()
	e, err := m.Enqueue(0xFE03, "hello")
	require.NoError(t, err)

	removed := m.Ack(e.MsgID)
	assert.True(t, removed)
	assert.Equal(t, 0, m.Len())
}

func TestAckUnknownIDIsNoOp(t *testing.T) {
	m := NewManager()
	_, err := m.Enqueue(0xFE03, "hello")
	require.NoError(t, err)

	removed := m.Ack(crypto.Fingerprint([]byte("nope")))
	assert.False(t, removed)
	assert.Equal(t, 1, m.Len())
}

func TestCodecRoundTrip(t *testing.T) {
	entries := []*Entry{
		{Data: "OSM:MSG:abc", CharUUID: 0xFE03, MsgID: crypto.Fingerprint([]byte("OSM:MSG:abc")), Acked: false, Sent: true},
	}
	decoded := Decode(Encode(entries))
	require.Len(t, decoded, 1)
	assert.Equal(t, entries[0].Data, decoded[0].Data)
	assert.Equal(t, entries[0].CharUUID, decoded[0].CharUUID)
	assert.Equal(t, entries[0].MsgID, decoded[0].MsgID)
	assert.Equal(t, entries[0].Sent, decoded[0].Sent)
}
