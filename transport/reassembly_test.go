package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faisal-shah/offline-secure-messenger-sub000/crypto"
)

// TestReorderedFragmentIsDropped verifies property 7: a fragment
// delivered out of sequence abandons the partial assembly with no
// upstream delivery.
func TestReorderedFragmentIsDropped(t *testing.T) {
	data := make([]byte, 800)
	frags, err := BuildFragments(data)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(frags), 4)

	var r Reassembly
	res := r.Feed(frags[0])
	assert.Nil(t, res.Delivered)

	// Skip a fragment: feed seq 2 instead of seq 1.
	res = r.Feed(frags[2])
	assert.Nil(t, res.Delivered)

	// Subsequent in-order fragments no longer deliver; the assembly was
	// abandoned and is not resumed.
	for _, f := range frags[3:] {
		res = r.Feed(f)
		assert.Nil(t, res.Delivered)
	}
}

func TestAckFragmentBypassesReassembly(t *testing.T) {
	var r Reassembly
	var id [8]byte
	copy(id[:], []byte("abcdefgh"))

	res := r.Feed(BuildAckFragment(id))
	assert.True(t, res.IsAck)
	assert.Equal(t, id, res.AckID)
	assert.Nil(t, res.Delivered)
}

func TestStartResetsInProgressAssembly(t *testing.T) {
	data1 := make([]byte, 500)
	frags1, err := BuildFragments(data1)
	require.NoError(t, err)

	data2 := []byte("short message")
	frags2, err := BuildFragments(data2)
	require.NoError(t, err)

	var r Reassembly
	r.Feed(frags1[0])
	r.Feed(frags1[1])

	// A new START mid-assembly discards the old one and begins fresh.
	var delivered []byte
	for _, f := range frags2 {
		res := r.Feed(f)
		if res.Delivered != nil {
			delivered = res.Delivered
		}
	}
	assert.Equal(t, data2, delivered)
}

func TestAckIDMatchesFingerprint(t *testing.T) {
	payload := []byte("reassembled bytes")
	assert.Equal(t, crypto.Fingerprint(payload), AckID(payload))
}
