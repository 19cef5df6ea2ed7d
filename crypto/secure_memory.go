package crypto

import (
	"crypto/subtle"
	"errors"
	"runtime"
)

// SecureWipe overwrites data with zeros using a constant-time XOR that the
// compiler cannot optimize away, then pins the slice alive through the
// wipe with runtime.KeepAlive.
func SecureWipe(data []byte) error {
	if data == nil {
		return errors.New("cannot wipe nil data")
	}
	subtle.XORBytes(data, data, data)
	runtime.KeepAlive(data)
	return nil
}

// ZeroBytes is SecureWipe with the error discarded, for use in defer
// statements guarding private key and plaintext buffers.
func ZeroBytes(data []byte) {
	_ = SecureWipe(data)
}
