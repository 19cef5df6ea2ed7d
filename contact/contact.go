package contact

// Status represents a contact's position in the three-state key-exchange
// lifecycle. The numeric values are part of the on-disk and external
// contract (spec.md §6) and must never be renumbered.
type Status uint8

const (
	// PendingSent means the device sent its own public key and is
	// waiting on the peer's.
	PendingSent Status = iota
	// PendingReceived means the device holds the peer's public key
	// (assigned from a triaged pending key) but has not yet completed
	// the exchange by sending its own key back.
	PendingReceived
	// Established means both halves of the key exchange are complete;
	// the contact is eligible for encrypted messaging.
	Established
)

// MaxContacts is the capacity named in spec.md §3.
const MaxContacts = 32

// MaxNameLen is the maximum length in bytes of a contact's display name.
const MaxNameLen = 63

// Contact is a single entry in the device's contact list. PublicKey is
// carried as its base64 text, matching the wire/store representation;
// it is empty until the key exchange assigns a value.
type Contact struct {
	ID           uint32
	Name         string
	Status       Status
	PublicKeyB64 string
	UnreadCount  uint32
	CreatedAt    int64
}
