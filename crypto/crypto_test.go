package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoundTrip verifies property 1: for all plaintexts and keypairs,
// Decrypt(Encrypt(P)) recovers P exactly.
func TestRoundTrip(t *testing.T) {
	a, err := GenerateIdentity()
	require.NoError(t, err)
	b, err := GenerateIdentity()
	require.NoError(t, err)

	plaintexts := [][]byte{
		[]byte("Hello Bob, this is a secret message!"),
		[]byte("a"),
		bytes.Repeat([]byte("x"), MaxPlaintextSize),
	}

	for _, p := range plaintexts {
		envelope, err := Encrypt(p, b.Public, a.Private)
		require.NoError(t, err)
		require.NotEmpty(t, envelope)

		out, err := Decrypt(envelope, a.Public, b.Private)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(p, out))
	}
}

// TestWrongKeyRejection verifies property 2.
func TestWrongKeyRejection(t *testing.T) {
	a, err := GenerateIdentity()
	require.NoError(t, err)
	b, err := GenerateIdentity()
	require.NoError(t, err)
	e, err := GenerateIdentity()
	require.NoError(t, err)

	envelope, err := Encrypt([]byte("Secret"), b.Public, a.Private)
	require.NoError(t, err)

	_, err = Decrypt(envelope, a.Public, e.Private)
	assert.ErrorIs(t, err, ErrAuthFailed)
}

// TestNonceFreshness verifies property 3: two encryptions of identical
// input produce distinct envelopes and distinct leading nonces.
func TestNonceFreshness(t *testing.T) {
	a, err := GenerateIdentity()
	require.NoError(t, err)
	b, err := GenerateIdentity()
	require.NoError(t, err)

	e1, err := Encrypt([]byte("same message"), b.Public, a.Private)
	require.NoError(t, err)
	e2, err := Encrypt([]byte("same message"), b.Public, a.Private)
	require.NoError(t, err)

	assert.NotEqual(t, e1, e2)

	raw1, err := DecodeB64(e1)
	require.NoError(t, err)
	raw2, err := DecodeB64(e2)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(raw1[:nonceSize], raw2[:nonceSize]))
}

// TestPubKeyB64Length verifies property 4.
func TestPubKeyB64Length(t *testing.T) {
	kp, err := GenerateIdentity()
	require.NoError(t, err)

	encoded := PubKeyToB64(kp.Public)
	assert.Len(t, encoded, PubKeyB64Len)
	assert.Equal(t, byte('='), encoded[len(encoded)-1])
}

func TestB64RoundTrip(t *testing.T) {
	kp, err := GenerateIdentity()
	require.NoError(t, err)

	encoded := PubKeyToB64(kp.Public)
	decoded, err := B64ToPubKey(encoded)
	require.NoError(t, err)
	assert.Equal(t, kp.Public, decoded)
}

func TestB64ToPubKeyRejectsWrongLength(t *testing.T) {
	_, err := B64ToPubKey(EncodeB64([]byte("too short")))
	assert.ErrorIs(t, err, ErrInvalidPubKey)
}

func TestDecryptRejectsShortEnvelope(t *testing.T) {
	kp, err := GenerateIdentity()
	require.NoError(t, err)

	_, err = Decrypt(EncodeB64([]byte("short")), kp.Public, kp.Private)
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestEncryptRejectsOversizePlaintext(t *testing.T) {
	kp, err := GenerateIdentity()
	require.NoError(t, err)

	_, err = Encrypt(bytes.Repeat([]byte("x"), MaxPlaintextSize+1), kp.Public, kp.Private)
	assert.ErrorIs(t, err, ErrPlaintextTooLarge)
}

func TestFingerprintDeterministic(t *testing.T) {
	data := []byte("arbitrary payload bytes")
	fp1 := Fingerprint(data)
	fp2 := Fingerprint(data)
	assert.Equal(t, fp1, fp2)
	assert.Len(t, fp1[:], FingerprintSize)
}
