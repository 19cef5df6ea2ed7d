package message

// Direction distinguishes a message's origin. Numeric values are part of
// the on-disk/wire contract (spec.md §6) and must not be renumbered.
type Direction uint8

const (
	// Sent marks a message the device encrypted and enqueued.
	Sent Direction = iota
	// Received marks a message decrypted from an incoming envelope.
	Received
)

// MaxMessages is the capacity named in spec.md §3.
const MaxMessages = 256

// MaxPlaintextLen is the maximum plaintext size in bytes.
const MaxPlaintextLen = 1023

// MaxCiphertextLen is the maximum base64 envelope size in bytes.
const MaxCiphertextLen = 2047

// Message is a single sent or received message. Ciphertext is kept only
// in memory (it has no field in the persisted document, spec.md §6) as a
// diagnostic record; the outbox keeps its own copy of every outgoing
// envelope, so nothing retransmits from this field. It is not reloaded
// from the store on restart.
type Message struct {
	ID         uint32
	ContactID  uint32
	Direction  Direction
	Plaintext  string
	Ciphertext string
	Timestamp  int64
}
