package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/nacl/box"
)

// MaxPlaintextSize is the largest plaintext Encrypt will accept: 1024
// bytes. Stored message records are capped one byte lower, at
// message.MaxPlaintextLen (1023).
const MaxPlaintextSize = 1024

// nonceSize is the NaCl box nonce length in bytes.
const nonceSize = 24

// ErrPlaintextTooLarge is returned when Encrypt is asked to seal more than
// MaxPlaintextSize bytes.
var ErrPlaintextTooLarge = errors.New("plaintext exceeds maximum size")

// Encrypt authenticates and encrypts plaintext for peerPub using ownPriv,
// returning the base64 envelope nonce||ciphertext_with_tag. A fresh random
// nonce is drawn for every call, so two encryptions of identical input
// never produce identical envelopes.
func Encrypt(plaintext []byte, peerPub, ownPriv [32]byte) (string, error) {
	logger := logrus.WithFields(logrus.Fields{
		"function":     "Encrypt",
		"package":      "crypto",
		"message_size": len(plaintext),
		"peer_pub":     fmt.Sprintf("%x", peerPub[:8]),
	})
	logger.Debug("encrypting message")

	defer ZeroBytes(ownPriv[:])

	if len(plaintext) > MaxPlaintextSize {
		logger.WithFields(logrus.Fields{
			"max_size": MaxPlaintextSize,
		}).Error("plaintext too large")
		return "", ErrPlaintextTooLarge
	}

	var nonce [nonceSize]byte
	n, err := rand.Read(nonce[:])
	if err != nil || n != nonceSize {
		logger.WithFields(logrus.Fields{"error": err}).Error("nonce generation failed")
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := box.Seal(nil, plaintext, &nonce, &peerPub, &ownPriv)

	envelope := make([]byte, 0, nonceSize+len(sealed))
	envelope = append(envelope, nonce[:]...)
	envelope = append(envelope, sealed...)

	logger.WithFields(logrus.Fields{
		"envelope_size": len(envelope),
	}).Debug("message encrypted")

	return EncodeB64(envelope), nil
}
