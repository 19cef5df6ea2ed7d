package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"
)

// KeyPair holds a device's or peer's X25519 public and private keys.
type KeyPair struct {
	Public  [32]byte
	Private [32]byte
}

// GenerateIdentity creates a new random X25519 key pair suitable for use
// as the device's long-term identity. The public key is derived
// deterministically from the private key via fixed-base scalar
// multiplication, matching the NaCl box convention.
func GenerateIdentity() (*KeyPair, error) {
	logger := logrus.WithFields(logrus.Fields{
		"function": "GenerateIdentity",
		"package":  "crypto",
	})
	logger.Debug("generating new identity key pair")

	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("key generation failed")
		return nil, fmt.Errorf("generate identity: %w", err)
	}

	kp := &KeyPair{Public: *pub, Private: *priv}

	logger.WithFields(logrus.Fields{
		"public_key_preview": fmt.Sprintf("%x", kp.Public[:8]),
	}).Info("identity key pair generated")

	return kp, nil
}

// FromPrivateKey rebuilds a KeyPair's public half from a stored private
// key. The identity loader does not use it: the identity document stores
// both keys and both are read back as stored.
func FromPrivateKey(priv [32]byte) (*KeyPair, error) {
	if isZeroKey(priv) {
		return nil, errors.New("invalid private key: all zeros")
	}

	var pub [32]byte
	curve25519.ScalarBaseMult(&pub, &priv)

	return &KeyPair{Public: pub, Private: priv}, nil
}

// Wipe zeros the private half of the key pair. Call once the key pair is
// no longer needed, including on error paths where a partially built
// KeyPair must not outlive its use.
func (kp *KeyPair) Wipe() {
	if kp == nil {
		return
	}
	ZeroBytes(kp.Private[:])
}

func isZeroKey(key [32]byte) bool {
	for _, b := range key {
		if b != 0 {
			return false
		}
	}
	return true
}
