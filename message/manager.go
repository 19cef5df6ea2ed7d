package message

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrCapacityExceeded is returned when an add would exceed MaxMessages.
var ErrCapacityExceeded = errors.New("message capacity exceeded")

// ErrPlaintextTooLong is returned when plaintext exceeds MaxPlaintextLen.
var ErrPlaintextTooLong = errors.New("plaintext exceeds maximum length")

// ErrCiphertextTooLong is returned when ciphertext exceeds MaxCiphertextLen.
var ErrCiphertextTooLong = errors.New("ciphertext exceeds maximum length")

// ErrNotFound is returned when a lookup by id fails.
var ErrNotFound = errors.New("message not found")

// TimeProvider abstracts time.Now for deterministic tests.
type TimeProvider interface {
	Now() time.Time
}

type defaultTimeProvider struct{}

func (defaultTimeProvider) Now() time.Time { return time.Now() }

// Manager holds the in-memory, insertion-ordered message list.
type Manager struct {
	messages     []*Message
	nextID       uint32
	timeProvider TimeProvider
}

// NewManager creates an empty Manager with nextID starting at 1.
func NewManager() *Manager {
	return &Manager{nextID: 1, timeProvider: defaultTimeProvider{}}
}

// SetTimeProvider overrides the time source, for deterministic tests.
func (m *Manager) SetTimeProvider(tp TimeProvider) {
	m.timeProvider = tp
}

// All returns the message list in insertion order.
func (m *Manager) All() []*Message {
	out := make([]*Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Len reports the number of messages currently held.
func (m *Manager) Len() int {
	return len(m.messages)
}

// Add creates a new message for contactID with the given direction,
// plaintext, and ciphertext, enforcing the size and capacity bounds from
// spec.md §3.
func (m *Manager) Add(contactID uint32, dir Direction, plaintext, ciphertext string) (*Message, error) {
	logger := logrus.WithFields(logrus.Fields{
		"function":   "Add",
		"package":    "message",
		"contact_id": contactID,
		"direction":  dir,
	})

	if len(plaintext) > MaxPlaintextLen {
		logger.Warn("plaintext exceeds maximum length")
		return nil, ErrPlaintextTooLong
	}
	if len(ciphertext) > MaxCiphertextLen {
		logger.Warn("ciphertext exceeds maximum length")
		return nil, ErrCiphertextTooLong
	}
	if len(m.messages) >= MaxMessages {
		logger.Warn("message capacity exceeded")
		return nil, ErrCapacityExceeded
	}

	msg := &Message{
		ID:         m.nextID,
		ContactID:  contactID,
		Direction:  dir,
		Plaintext:  plaintext,
		Ciphertext: ciphertext,
		Timestamp:  m.timeProvider.Now().Unix(),
	}
	m.nextID++
	m.messages = append(m.messages, msg)

	logger.WithFields(logrus.Fields{"id": msg.ID}).Debug("message recorded")
	return msg, nil
}

// FindByID performs a linear scan for a message with the given id.
func (m *Manager) FindByID(id uint32) (*Message, error) {
	for _, msg := range m.messages {
		if msg.ID == id {
			return msg, nil
		}
	}
	return nil, ErrNotFound
}

// CountForContact returns the number of messages referencing contactID,
// used by test property 8 (cascade delete).
func (m *Manager) CountForContact(contactID uint32) int {
	n := 0
	for _, msg := range m.messages {
		if msg.ContactID == contactID {
			n++
		}
	}
	return n
}

// Delete removes the message with id msgID, preserving insertion order
// of the survivors.
func (m *Manager) Delete(msgID uint32) error {
	for i, msg := range m.messages {
		if msg.ID == msgID {
			m.messages = append(m.messages[:i], m.messages[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// DeleteByContact removes every message referencing contactID, the first
// half of the cascade-delete operation in spec.md §4.4.
func (m *Manager) DeleteByContact(contactID uint32) {
	survivors := m.messages[:0:0]
	for _, msg := range m.messages {
		if msg.ContactID != contactID {
			survivors = append(survivors, msg)
		}
	}
	m.messages = survivors
}

// ReplaceAll discards the current in-memory list and installs messages
// (and the id high-water mark), used when loading from the store.
func (m *Manager) ReplaceAll(messages []*Message) {
	maxID := uint32(0)
	for _, msg := range messages {
		if msg.ID > maxID {
			maxID = msg.ID
		}
	}
	m.messages = messages
	if maxID+1 > m.nextID {
		m.nextID = maxID + 1
	}
}
