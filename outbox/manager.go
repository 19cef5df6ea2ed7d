package outbox

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/faisal-shah/offline-secure-messenger-sub000/crypto"
)

// ErrCapacityExceeded is returned when an enqueue would exceed MaxEntries.
// The enqueue is an explicit drop, logged, per spec.md §4.6.
var ErrCapacityExceeded = errors.New("outbox capacity exceeded")

// ErrDataTooLong is returned when data exceeds MaxDataLen bytes.
var ErrDataTooLong = errors.New("outbox entry data too long")

// Sender broadcasts data on a logical channel to every connected peer,
// tolerating per-slot failures -- the capability the transport server
// exposes (spec.md §4.5 broadcast).
type Sender interface {
	Broadcast(charUUID uint16, data []byte)
}

// Manager holds the in-memory, insertion-ordered outbox queue.
type Manager struct {
	entries []*Entry

	// connectedPeers tracks the last peer count observed by
	// NotePeerCount, used to detect the 0->=1 transition that re-arms
	// every entry for redelivery (spec.md §4.6, §9 open question 2).
	connectedPeers int
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{}
}

// All returns the queue in FIFO order.
func (m *Manager) All() []*Entry {
	out := make([]*Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len reports the number of entries currently queued.
func (m *Manager) Len() int {
	return len(m.entries)
}

// Enqueue appends a new entry carrying data on charUUID, computing its
// ACK id as the 8-byte fingerprint of data. The entry starts
// Sent=false so the next Flush call will attempt delivery.
func (m *Manager) Enqueue(charUUID uint16, data string) (*Entry, error) {
	logger := logrus.WithFields(logrus.Fields{
		"function":  "Enqueue",
		"package":   "outbox",
		"char_uuid": charUUID,
	})

	if len(data) > MaxDataLen {
		logger.Warn("outbox entry exceeds maximum data length")
		return nil, ErrDataTooLong
	}
	if len(m.entries) >= MaxEntries {
		logger.Warn("outbox full, dropping enqueue")
		return nil, ErrCapacityExceeded
	}

	e := &Entry{
		Data:     data,
		CharUUID: charUUID,
		MsgID:    crypto.Fingerprint([]byte(data)),
	}
	m.entries = append(m.entries, e)

	logger.Debug("entry queued")
	return e, nil
}

// NotePeerCount informs the outbox of the current connected-peer count.
// On the 0->=1 transition, every entry's Sent flag is cleared so a
// reconnect triggers redelivery of everything still unacked (spec.md
// §4.6, the re-arm-on-reconnect design decision documented in
// SPEC_FULL.md/DESIGN.md).
func (m *Manager) NotePeerCount(connected int) {
	if m.connectedPeers == 0 && connected >= 1 {
		for _, e := range m.entries {
			e.Sent = false
		}
		logrus.WithFields(logrus.Fields{
			"function": "NotePeerCount",
			"package":  "outbox",
		}).Info("peer reconnected, re-arming outbox for redelivery")
	}
	m.connectedPeers = connected
}

// Flush broadcasts every unsent entry's data on its char_uuid via
// sender, provided at least one peer is connected, and marks each as
// sent. It is a no-op when no peer is connected.
func (m *Manager) Flush(sender Sender) {
	if m.connectedPeers < 1 {
		return
	}
	for _, e := range m.entries {
		if e.Sent {
			continue
		}
		sender.Broadcast(e.CharUUID, []byte(e.Data))
		e.Sent = true
	}
}

// Ack removes the entry whose MsgID matches id from the queue, reporting
// whether a match was found. The Acked flag is not set: the entry is
// dropped outright.
func (m *Manager) Ack(id [8]byte) bool {
	for i, e := range m.entries {
		if e.MsgID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			logrus.WithFields(logrus.Fields{
				"function": "Ack",
				"package":  "outbox",
			}).Debug("entry acknowledged and removed")
			return true
		}
	}
	return false
}

// ReplaceAll discards the current queue and installs entries, used when
// loading from the store.
func (m *Manager) ReplaceAll(entries []*Entry) {
	m.entries = entries
}
