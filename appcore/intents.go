package appcore

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/faisal-shah/offline-secure-messenger-sub000/contact"
	"github.com/faisal-shah/offline-secure-messenger-sub000/crypto"
	"github.com/faisal-shah/offline-secure-messenger-sub000/message"
	"github.com/faisal-shah/offline-secure-messenger-sub000/store"
	"github.com/faisal-shah/offline-secure-messenger-sub000/transport"
)

// Keygen generates and persists a fresh identity, refusing to overwrite
// one that already exists (spec.md §4.3: "mutated only by KEYGEN").
func (a *App) Keygen() (*identityResult, error) {
	if a.Identity.Valid() {
		return nil, ErrIdentityExists
	}
	kp, err := a.Identity.Generate()
	if err != nil {
		if errors.Is(err, store.ErrNoSpace) || errors.Is(err, store.ErrIo) {
			a.noteStorageErr("Keygen", err)
		}
		return nil, err
	}
	a.notify()
	return &identityResult{PubKeyB64: crypto.PubKeyToB64(kp.Public)}, nil
}

// identityResult is the minimal public view of a freshly generated or
// loaded identity, surfaced to the command surface's IDENTITY/KEYGEN
// responses without exposing the private key.
type identityResult struct {
	PubKeyB64 string
}

// IdentityInfo reports the device's own public key, used by the
// IDENTITY command-surface token.
func (a *App) IdentityInfo() (*identityResult, error) {
	if !a.Identity.Valid() {
		return nil, ErrNoIdentity
	}
	return &identityResult{PubKeyB64: crypto.PubKeyToB64(a.Identity.Current().Public)}, nil
}

// AddContact implements the "add" intent (spec.md §3 Lifecycle): creates
// a PendingSent contact and enqueues the device's own public key for
// delivery to the peer.
func (a *App) AddContact(name string) (*contact.Contact, error) {
	c, err := a.Contacts.Add(name)
	if err != nil {
		return nil, err
	}
	if err := a.saveContacts(); err != nil {
		return nil, err
	}
	if err := a.enqueueOwnKey(); err != nil {
		return nil, err
	}
	a.notify()
	return c, nil
}

// CreateFromPending implements the "create new from pending" intent:
// pops the oldest queued pending key and founds a new PendingReceived
// contact from it.
func (a *App) CreateFromPending(name string) (*contact.Contact, error) {
	pk, err := a.Pending.Oldest()
	if err != nil {
		return nil, ErrNoPendingKeys
	}

	c, err := a.Contacts.CreateFromPendingKey(name, pk.PubKeyB64)
	if err != nil {
		return nil, err
	}
	if err := a.Pending.Remove(pk.PubKeyB64); err != nil {
		return nil, err
	}
	if err := a.saveContacts(); err != nil {
		return nil, err
	}
	if err := a.savePending(); err != nil {
		return nil, err
	}
	a.notify()
	return c, nil
}

// AssignPendingKey implements the "assign to existing contact" intent:
// pops the oldest queued pending key and attaches it to the named
// PendingSent contact, transitioning it directly to Established
// (spec.md §3 Lifecycle, scenario S4's "assign-to-Bob" step).
func (a *App) AssignPendingKey(name string) (*contact.Contact, error) {
	pk, err := a.Pending.Oldest()
	if err != nil {
		return nil, ErrNoPendingKeys
	}

	c, err := a.Contacts.AssignPublicKey(name, pk.PubKeyB64)
	if err != nil {
		return nil, err
	}
	if err := a.Pending.Remove(pk.PubKeyB64); err != nil {
		return nil, err
	}
	if err := a.saveContacts(); err != nil {
		return nil, err
	}
	if err := a.savePending(); err != nil {
		return nil, err
	}
	a.notify()
	return c, nil
}

// CompleteExchange implements the "complete key exchange" intent: a
// PendingReceived contact transitions to Established and the device
// sends its own public key back to close the loop (spec.md §4.7,
// scenario S4's "complete-kex" step).
func (a *App) CompleteExchange(name string) (*contact.Contact, error) {
	c, err := a.Contacts.CompleteExchange(name)
	if err != nil {
		return nil, err
	}
	if err := a.saveContacts(); err != nil {
		return nil, err
	}
	if err := a.enqueueOwnKey(); err != nil {
		return nil, err
	}
	a.notify()
	return c, nil
}

// SendMessage implements the "send" intent: encrypts plaintext for the
// named Established contact, records a Sent message, and enqueues the
// envelope on the outbox (spec.md §4.7).
func (a *App) SendMessage(name, plaintext string) (*message.Message, error) {
	c, err := a.Contacts.FindByName(name)
	if err != nil {
		return nil, err
	}
	if c.Status != contact.Established {
		return nil, ErrNotEstablished
	}
	if !a.Identity.Valid() {
		return nil, fmt.Errorf("send message: %w", ErrNoIdentity)
	}

	peerPub, err := crypto.B64ToPubKey(c.PublicKeyB64)
	if err != nil {
		return nil, err
	}
	ownPriv := a.Identity.Current().Private

	envelope, err := crypto.Encrypt([]byte(plaintext), peerPub, ownPriv)
	if err != nil {
		return nil, err
	}

	msg, err := a.Messages.Add(c.ID, message.Sent, plaintext, envelope)
	if err != nil {
		return nil, err
	}
	if err := a.saveMessages(); err != nil {
		return nil, err
	}

	if _, err := a.Outbox.Enqueue(transport.ChannelNotify, MsgPrefix+envelope); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "SendMessage",
			"package":  "appcore",
			"error":    err.Error(),
		}).Warn("outbox rejected outgoing message envelope")
		return msg, err
	}
	if err := a.saveOutbox(); err != nil {
		return msg, err
	}

	a.notify()
	return msg, nil
}

// DeleteContact implements the cascade-delete operation of spec.md §4.4:
// every message referencing cid is removed first and persisted, then
// the contact itself is removed and persisted, in that fixed order. If
// the messages write succeeds but the contacts write fails with
// NoSpace, the contact is left referring to zero messages -- the
// documented acceptable partial-failure outcome, surfaced only through
// the sticky StorageError/StorageFull flags (spec.md §4.4).
func (a *App) DeleteContact(cid uint32) error {
	a.Messages.DeleteByContact(cid)
	if err := a.saveMessages(); err != nil {
		return err
	}

	if err := a.Contacts.Delete(cid); err != nil {
		return err
	}
	if err := a.saveContacts(); err != nil {
		return err
	}

	a.notify()
	return nil
}

// Snapshot is the full state dump the STATE command-surface token
// reports: enough to drive a scripted test without a GUI.
type Snapshot struct {
	IdentityValid bool
	PubKeyB64     string
	Contacts      []*contact.Contact
	Messages      []*message.Message
	PendingKeys   int
	OutboxLen     int
	Connected     int
	StorageError  bool
	StorageFull   bool
}

// State builds a Snapshot of the current in-memory state.
func (a *App) State() Snapshot {
	s := Snapshot{
		IdentityValid: a.Identity.Valid(),
		Contacts:      a.Contacts.All(),
		Messages:      a.Messages.All(),
		PendingKeys:   a.Pending.Len(),
		OutboxLen:     a.Outbox.Len(),
		Connected:     a.Transport.ConnectedCount(),
		StorageError:  a.StorageError,
		StorageFull:   a.StorageFull,
	}
	if s.IdentityValid {
		s.PubKeyB64 = crypto.PubKeyToB64(a.Identity.Current().Public)
	}
	return s
}

// RecvCount reports and clears the named contact's unread counter, the
// read-and-clear mechanism SPEC_FULL.md assigns to RECV_COUNT.
func (a *App) RecvCount(name string) (uint32, error) {
	return a.Contacts.ResetUnread(name)
}

// enqueueOwnKey queues the device's own public key for delivery, used by
// both AddContact and CompleteExchange.
func (a *App) enqueueOwnKey() error {
	if !a.Identity.Valid() {
		return fmt.Errorf("enqueue own key: %w", ErrNoIdentity)
	}
	ownPubB64 := crypto.PubKeyToB64(a.Identity.Current().Public)
	if _, err := a.Outbox.Enqueue(transport.ChannelNotify, KeyPrefix+ownPubB64); err != nil {
		return err
	}
	return a.saveOutbox()
}
