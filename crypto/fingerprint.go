package crypto

import "crypto/sha512"

// FingerprintSize is the length in bytes of a Fingerprint result.
const FingerprintSize = 8

// Fingerprint returns the first 8 bytes of SHA-512(data). It is the
// transport's ACK id over reassembled message bytes and the outbox's
// msg_id over queued envelopes -- a content fingerprint, not a MAC,
// since it carries no key material.
func Fingerprint(data []byte) [FingerprintSize]byte {
	sum := sha512.Sum512(data)
	var fp [FingerprintSize]byte
	copy(fp[:], sum[:FingerprintSize])
	return fp
}
