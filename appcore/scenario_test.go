package appcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faisal-shah/offline-secure-messenger-sub000/contact"
	"github.com/faisal-shah/offline-secure-messenger-sub000/crypto"
	"github.com/faisal-shah/offline-secure-messenger-sub000/message"
	"github.com/faisal-shah/offline-secure-messenger-sub000/store"
	"github.com/faisal-shah/offline-secure-messenger-sub000/transport"
)

func newTestApp(t *testing.T) *App {
	s, err := store.New(t.TempDir())
	require.NoError(t, err)
	a := New(s, transport.NewServer())
	require.NoError(t, a.Boot(true))
	return a
}

// lastOutboxData returns the Data field of the most recently enqueued
// outbox entry.
func lastOutboxData(t *testing.T, a *App) string {
	entries := a.Outbox.All()
	require.NotEmpty(t, entries)
	return entries[len(entries)-1].Data
}

// TestKeyExchangeDedup verifies scenario S3: injecting the same
// OSM:KEY: envelope twice leaves exactly one pending key queued.
func TestKeyExchangeDedup(t *testing.T) {
	a := newTestApp(t)

	kp, err := crypto.GenerateIdentity()
	require.NoError(t, err)
	envelope := []byte(KeyPrefix + crypto.PubKeyToB64(kp.Public))

	a.handleEnvelope(0, transport.ChannelWrite, envelope)
	a.handleEnvelope(0, transport.ChannelWrite, envelope)

	assert.Equal(t, 1, a.Pending.Len())
}

// TestKeyExchangeIgnoresEstablishedContactKey verifies that a key
// matching an already-Established contact produces no new pending key.
func TestKeyExchangeIgnoresEstablishedContactKey(t *testing.T) {
	a := newTestApp(t)

	kp, err := crypto.GenerateIdentity()
	require.NoError(t, err)
	pubB64 := crypto.PubKeyToB64(kp.Public)

	_, err = a.Contacts.Add("Bob")
	require.NoError(t, err)
	_, err = a.Contacts.AssignPublicKey("Bob", pubB64)
	require.NoError(t, err)

	a.handleEnvelope(0, transport.ChannelWrite, []byte(KeyPrefix+pubB64))
	assert.Equal(t, 0, a.Pending.Len())
}

// TestFullKeyExchangeAndMessageScenario implements spec.md scenario S4
// end to end across two independent App instances standing in for
// devices alpha and beta.
func TestFullKeyExchangeAndMessageScenario(t *testing.T) {
	alpha := newTestApp(t)
	beta := newTestApp(t)

	// alpha: add contact "Bob" -> PendingSent; outbox gets OSM:KEY:<A.pub>.
	bob, err := alpha.AddContact("Bob")
	require.NoError(t, err)
	assert.Equal(t, contact.PendingSent, bob.Status)
	aliceKeyEnvelope := lastOutboxData(t, alpha)
	assert.Contains(t, aliceKeyEnvelope, KeyPrefix)

	// Deliver alpha's key envelope to beta; beta queues a pending key.
	beta.handleEnvelope(0, transport.ChannelWrite, []byte(aliceKeyEnvelope))
	require.Equal(t, 1, beta.Pending.Len())

	// beta: create-new-from-pending "Alice" -> PendingReceived.
	alice, err := beta.CreateFromPending("Alice")
	require.NoError(t, err)
	assert.Equal(t, contact.PendingReceived, alice.Status)

	// beta: complete-kex -> outbox gets OSM:KEY:<B.pub>; Alice Established.
	alice, err = beta.CompleteExchange("Alice")
	require.NoError(t, err)
	assert.Equal(t, contact.Established, alice.Status)
	bobKeyEnvelope := lastOutboxData(t, beta)
	assert.Contains(t, bobKeyEnvelope, KeyPrefix)

	// Deliver beta's key envelope to alpha; alpha queues a pending key.
	alpha.handleEnvelope(0, transport.ChannelWrite, []byte(bobKeyEnvelope))
	require.Equal(t, 1, alpha.Pending.Len())

	// alpha: assign-to-"Bob" -> Bob transitions to Established.
	bob, err = alpha.AssignPendingKey("Bob")
	require.NoError(t, err)
	assert.Equal(t, contact.Established, bob.Status)

	// alpha: send "hi" -> alpha's outbox gets OSM:MSG:<...>.
	_, err = alpha.SendMessage("Bob", "hi")
	require.NoError(t, err)
	sentEnvelope := lastOutboxData(t, alpha)
	assert.Contains(t, sentEnvelope, MsgPrefix)

	// Deliver to beta; beta has one received message from Alice with
	// plaintext "hi" and unread_count = 1.
	beta.handleEnvelope(0, transport.ChannelWrite, []byte(sentEnvelope))

	msgs := beta.Messages.All()
	require.Len(t, msgs, 1)
	assert.Equal(t, "hi", msgs[0].Plaintext)
	assert.Equal(t, alice.ID, msgs[0].ContactID)

	aliceAfter, err := beta.Contacts.FindByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), aliceAfter.UnreadCount)
}

// TestRecvCountResetsCounter verifies the RECV_COUNT read-and-clear
// semantics SPEC_FULL.md assigns to the command.
func TestRecvCountResetsCounter(t *testing.T) {
	a := newTestApp(t)
	_, err := a.Contacts.Add("Bob")
	require.NoError(t, err)
	require.NoError(t, a.Contacts.IncrementUnread(1))
	require.NoError(t, a.Contacts.IncrementUnread(1))

	n, err := a.RecvCount("Bob")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), n)

	n2, err := a.RecvCount("Bob")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), n2)
}

// TestSendRequiresEstablished verifies the NotEstablished error kind
// (spec.md §7): a send to a non-Established contact is rejected with no
// state change.
func TestSendRequiresEstablished(t *testing.T) {
	a := newTestApp(t)
	_, err := a.Contacts.Add("Bob")
	require.NoError(t, err)

	_, err = a.SendMessage("Bob", "hi")
	assert.ErrorIs(t, err, ErrNotEstablished)
	assert.Equal(t, 0, a.Messages.Len())
}

// TestDeleteContactCascades verifies test property 8: after deleting a
// contact, its messages are gone and the contact itself is no longer
// found, while another contact and its message are untouched. Only the
// in-memory state is checked, not the persisted documents.
func TestDeleteContactCascades(t *testing.T) {
	a := newTestApp(t)
	bob, err := a.Contacts.Add("Bob")
	require.NoError(t, err)
	carol, err := a.Contacts.Add("Carol")
	require.NoError(t, err)

	_, err = a.Messages.Add(bob.ID, message.Sent, "hi", "")
	require.NoError(t, err)
	_, err = a.Messages.Add(bob.ID, message.Received, "hey", "")
	require.NoError(t, err)
	_, err = a.Messages.Add(carol.ID, message.Sent, "unrelated", "")
	require.NoError(t, err)

	require.NoError(t, a.DeleteContact(bob.ID))

	assert.Equal(t, 0, a.Messages.CountForContact(bob.ID))
	assert.Equal(t, 1, a.Messages.CountForContact(carol.ID))

	_, err = a.Contacts.FindByID(bob.ID)
	assert.ErrorIs(t, err, contact.ErrNotFound)

	_, err = a.Contacts.FindByID(carol.ID)
	assert.NoError(t, err)
}

// TestKeygenRefusesOverwrite verifies KEYGEN never overwrites an
// existing identity.
func TestKeygenRefusesOverwrite(t *testing.T) {
	a := newTestApp(t)
	_, err := a.Keygen()
	assert.ErrorIs(t, err, ErrIdentityExists)
}

// TestBootPersistsAcrossRestart verifies test property 6 (persistence
// across restart) at the appcore level: a fresh App pointed at the same
// store directory recovers the same number of contacts and the same
// identity public key.
func TestBootPersistsAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	s, err := store.New(dir)
	require.NoError(t, err)
	a := New(s, transport.NewServer())
	require.NoError(t, a.Boot(true))

	_, err = a.AddContact("Bob")
	require.NoError(t, err)
	_, err = a.AddContact("Carol")
	require.NoError(t, err)

	s2, err := store.New(dir)
	require.NoError(t, err)
	b := New(s2, transport.NewServer())
	require.NoError(t, b.Boot(false))

	assert.Equal(t, a.Contacts.Len(), b.Contacts.Len())
	assert.True(t, b.Identity.Valid())
	assert.Equal(t, a.Identity.Current().Public, b.Identity.Current().Public)
}
