package crypto

import (
	"encoding/base64"
	"errors"
)

// PubKeySize is the length in bytes of an X25519 public key.
const PubKeySize = 32

// PubKeyB64Len is the exact length of a base64-encoded public key using
// the standard alphabet with padding.
const PubKeyB64Len = 44

// ErrInvalidPubKey is returned when a base64 string does not decode to
// exactly PubKeySize bytes.
var ErrInvalidPubKey = errors.New("invalid public key encoding")

// EncodeB64 encodes data with the standard '+'/'/' alphabet and '='
// padding, used for both envelopes and public keys on the wire and in
// persisted documents.
func EncodeB64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeB64 decodes a standard-alphabet, padded base64 string.
func DecodeB64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// PubKeyToB64 encodes a public key to its 44-character base64 form.
func PubKeyToB64(pub [32]byte) string {
	return EncodeB64(pub[:])
}

// B64ToPubKey decodes a base64 string to a 32-byte public key, failing
// with ErrInvalidPubKey if the decoded length is not exactly 32 bytes.
func B64ToPubKey(s string) ([32]byte, error) {
	var pub [32]byte
	raw, err := DecodeB64(s)
	if err != nil {
		return pub, ErrInvalidPubKey
	}
	if len(raw) != PubKeySize {
		return pub, ErrInvalidPubKey
	}
	copy(pub[:], raw)
	return pub, nil
}
