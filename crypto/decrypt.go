package crypto

import (
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/nacl/box"
)

// ErrAuthFailed is returned for any decryption failure: malformed
// envelope, truncated envelope, or a genuine authentication mismatch.
// There is deliberately no way to distinguish these cases from the
// error alone, so a remote peer gains no oracle from failed attempts.
var ErrAuthFailed = errors.New("authentication failed")

// minEnvelopeSize is the smallest legal envelope: a 24-byte nonce, a
// 16-byte Poly1305 tag, and at least one byte of ciphertext.
const minEnvelopeSize = nonceSize + 16 + 1

// Decrypt base64-decodes envelope and opens it against peerPub/ownPriv,
// returning the plaintext on authentication success. Any failure --
// invalid base64, a too-short envelope, or a failed authentication check
// -- is reported uniformly as ErrAuthFailed.
func Decrypt(envelope string, peerPub, ownPriv [32]byte) ([]byte, error) {
	logger := logrus.WithFields(logrus.Fields{
		"function": "Decrypt",
		"package":  "crypto",
	})

	defer ZeroBytes(ownPriv[:])

	raw, err := DecodeB64(envelope)
	if err != nil {
		logger.Debug("envelope failed base64 decode")
		return nil, ErrAuthFailed
	}

	if len(raw) < minEnvelopeSize {
		logger.Debug("envelope shorter than minimum size")
		return nil, ErrAuthFailed
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	ciphertext := raw[nonceSize:]

	plaintext, ok := box.Open(nil, ciphertext, &nonce, &peerPub, &ownPriv)
	if !ok {
		logger.Debug("authentication failed")
		return nil, ErrAuthFailed
	}

	return plaintext, nil
}
