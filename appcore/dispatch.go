package appcore

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/faisal-shah/offline-secure-messenger-sub000/crypto"
	"github.com/faisal-shah/offline-secure-messenger-sub000/message"
)

// KeyPrefix and MsgPrefix are the two recognized envelope prefixes,
// spec.md §4.7/§6. The key-exchange form carries only the anonymous
// peer public key, per spec.md §9 open question 3 -- the later,
// intended design, with no sender name on the wire.
const (
	KeyPrefix = "OSM:KEY:"
	MsgPrefix = "OSM:MSG:"
)

// handleEnvelope is the transport's OnMessage callback. It is only ever
// invoked on the host->device channel in practice, but spec.md does not
// restrict dispatch by char_uuid, so every delivered payload is treated
// uniformly as an envelope.
func (a *App) handleEnvelope(peerIdx int, charUUID uint16, payload []byte) {
	text := trimEnvelope(string(payload))

	logger := logrus.WithFields(logrus.Fields{
		"function":  "handleEnvelope",
		"package":   "appcore",
		"peer_slot": peerIdx,
		"char_uuid": charUUID,
	})

	switch {
	case strings.HasPrefix(text, KeyPrefix):
		a.dispatchKey(strings.TrimPrefix(text, KeyPrefix))
	case strings.HasPrefix(text, MsgPrefix):
		a.dispatchMessage(strings.TrimPrefix(text, MsgPrefix))
	default:
		logger.Warn("unrecognized envelope prefix, discarding")
	}
}

// trimEnvelope strips the trailing whitespace characters spec.md §6
// requires removed before classification.
func trimEnvelope(s string) string {
	return strings.TrimRight(s, "\n\r \t")
}

// dispatchKey implements the OSM:KEY: triage path (spec.md §4.7): an
// unknown peer public key is queued for the user to assign to an
// existing contact or to found a new one from.
func (a *App) dispatchKey(pubkeyB64 string) {
	logger := logrus.WithFields(logrus.Fields{
		"function": "dispatchKey",
		"package":  "appcore",
	})

	if !a.Identity.Valid() {
		logger.Warn("no identity present, discarding key envelope")
		return
	}
	if _, err := crypto.B64ToPubKey(pubkeyB64); err != nil {
		logger.Debug("key envelope failed base64/length check, discarding")
		return
	}
	if a.Contacts.HasPublicKey(pubkeyB64) {
		logger.Debug("key already belongs to an established contact, discarding")
		return
	}
	if a.Pending.Has(pubkeyB64) {
		logger.Debug("key already queued, discarding duplicate")
		return
	}

	if _, err := a.Pending.Enqueue(pubkeyB64); err != nil {
		logger.WithFields(logrus.Fields{"error": err.Error()}).Warn("pending key queue full, dropping arrival")
		return
	}
	if err := a.savePending(); err != nil {
		return
	}
	a.PendingKeysDirty = true
	logger.Info("pending key queued for triage")
	a.notify()
}

// dispatchMessage implements the OSM:MSG: trial-decrypt path (spec.md
// §4.7): the envelope is attempted against every Established contact in
// insertion order; the first successful decryption wins.
func (a *App) dispatchMessage(envelope string) {
	logger := logrus.WithFields(logrus.Fields{
		"function": "dispatchMessage",
		"package":  "appcore",
	})

	if !a.Identity.Valid() {
		logger.Warn("no identity present, cannot attempt decryption")
		return
	}
	ownPriv := a.Identity.Current().Private

	for _, c := range a.Contacts.EstablishedContacts() {
		peerPub, err := crypto.B64ToPubKey(c.PublicKeyB64)
		if err != nil {
			continue
		}
		plaintext, err := crypto.Decrypt(envelope, peerPub, ownPriv)
		if err != nil {
			continue
		}

		msg, err := a.Messages.Add(c.ID, message.Received, string(plaintext), envelope)
		if err != nil {
			logger.WithFields(logrus.Fields{"error": err.Error()}).Warn("received message rejected by message manager")
			return
		}
		_ = a.Contacts.IncrementUnread(c.ID)

		if err := a.saveMessages(); err != nil {
			return
		}
		if err := a.saveContacts(); err != nil {
			return
		}

		logger.WithFields(logrus.Fields{
			"contact_id": c.ID,
			"message_id": msg.ID,
		}).Info("message decrypted and recorded")
		a.notify()
		return
	}

	logger.Debug("no established contact could decrypt envelope, discarding")
}

// handleAck is the transport's ACK callback, wiring the outbox's
// ACK-keyed dedup removal (spec.md §4.6).
func (a *App) handleAck(peerIdx int, ackID [8]byte) {
	if a.Outbox.Ack(ackID) {
		_ = a.saveOutbox()
		logrus.WithFields(logrus.Fields{
			"function":  "handleAck",
			"package":   "appcore",
			"peer_slot": peerIdx,
		}).Debug("outbox entry acknowledged")
	}
}
