// Package crypto implements the cryptographic primitives used by the
// offline secure messenger core: X25519 key agreement combined with
// XSalsa20-Poly1305 authenticated encryption (the NaCl "crypto_box"
// construction), base64 framing for the wire and on-disk formats, and
// SHA-512-derived fingerprints used as the transport's ACK ids and the
// outbox's message ids.
//
// All key generation and nonce selection draws from crypto/rand. Encrypt
// and Decrypt zero their local copy of the private key on every exit
// path, including error paths. Plaintext buffers are not zeroed: the
// plaintext passed to Encrypt belongs to the caller, and Decrypt returns
// its plaintext to the caller.
package crypto
