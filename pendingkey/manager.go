package pendingkey

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrCapacityExceeded is returned when an enqueue would exceed
// MaxPendingKeys. Per spec.md §9 open question 1, this implementation
// rejects the new arrival rather than evicting the oldest entry --
// the source's observed behavior, preserved here explicitly.
var ErrCapacityExceeded = errors.New("pending key capacity exceeded")

// ErrDuplicate is returned when pubkeyB64 is already queued, per
// invariant 4: no two pending keys share the same pubkey_b64.
var ErrDuplicate = errors.New("pending key already queued")

// ErrNotFound is returned when a lookup or removal by pubkey fails.
var ErrNotFound = errors.New("pending key not found")

// ErrEmpty is returned when Oldest is called on an empty queue.
var ErrEmpty = errors.New("pending key queue is empty")

// TimeProvider abstracts time.Now for deterministic tests.
type TimeProvider interface {
	Now() time.Time
}

type defaultTimeProvider struct{}

func (defaultTimeProvider) Now() time.Time { return time.Now() }

// Manager holds the in-memory, insertion-ordered (FIFO) pending-key queue.
type Manager struct {
	keys         []*PendingKey
	timeProvider TimeProvider
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{timeProvider: defaultTimeProvider{}}
}

// SetTimeProvider overrides the time source, for deterministic tests.
func (m *Manager) SetTimeProvider(tp TimeProvider) {
	m.timeProvider = tp
}

// All returns the queue in FIFO order.
func (m *Manager) All() []*PendingKey {
	out := make([]*PendingKey, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len reports the number of pending keys currently queued.
func (m *Manager) Len() int {
	return len(m.keys)
}

// Has reports whether pubkeyB64 is already queued.
func (m *Manager) Has(pubkeyB64 string) bool {
	for _, k := range m.keys {
		if k.PubKeyB64 == pubkeyB64 {
			return true
		}
	}
	return false
}

// Enqueue appends pubkeyB64 to the tail of the queue, rejecting
// duplicates and overflow.
func (m *Manager) Enqueue(pubkeyB64 string) (*PendingKey, error) {
	logger := logrus.WithFields(logrus.Fields{
		"function": "Enqueue",
		"package":  "pendingkey",
	})

	if m.Has(pubkeyB64) {
		logger.Debug("duplicate pending key, discarding")
		return nil, ErrDuplicate
	}
	if len(m.keys) >= MaxPendingKeys {
		logger.Warn("pending key queue full, dropping incoming key")
		return nil, ErrCapacityExceeded
	}

	k := &PendingKey{PubKeyB64: pubkeyB64, ReceivedAt: m.timeProvider.Now().Unix()}
	m.keys = append(m.keys, k)

	logger.Info("pending key queued")
	return k, nil
}

// Oldest returns the head of the FIFO queue without removing it.
func (m *Manager) Oldest() (*PendingKey, error) {
	if len(m.keys) == 0 {
		return nil, ErrEmpty
	}
	return m.keys[0], nil
}

// Remove discards the entry matching pubkeyB64, used once the user
// assigns or creates a contact from it.
func (m *Manager) Remove(pubkeyB64 string) error {
	for i, k := range m.keys {
		if k.PubKeyB64 == pubkeyB64 {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// ReplaceAll discards the current queue and installs keys, used when
// loading from the store.
func (m *Manager) ReplaceAll(keys []*PendingKey) {
	m.keys = keys
}
