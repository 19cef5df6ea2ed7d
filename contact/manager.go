package contact

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrCapacityExceeded is returned when an add would exceed MaxContacts.
var ErrCapacityExceeded = errors.New("contact capacity exceeded")

// ErrNameTooLong is returned when a name exceeds MaxNameLen bytes.
var ErrNameTooLong = errors.New("contact name too long")

// ErrNotFound is returned when a lookup by id or name fails.
var ErrNotFound = errors.New("contact not found")

// ErrDuplicatePublicKey is returned when an assignment would duplicate a
// public key already held by another contact (spec.md invariant 3).
var ErrDuplicatePublicKey = errors.New("public key already assigned to a contact")

// TimeProvider abstracts time.Now for deterministic tests, matching the
// teacher's friend.TimeProvider convention.
type TimeProvider interface {
	Now() time.Time
}

type defaultTimeProvider struct{}

func (defaultTimeProvider) Now() time.Time { return time.Now() }

// Manager holds the in-memory, insertion-ordered contact list.
type Manager struct {
	contacts     []*Contact
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

// All returns the contact list in insertion order. The returned slice is
// a defensive copy of the header only; callers must not rely on pointer
// identity surviving a Delete.
func (m *Manager) All() []*Contact {
	out := make([]*Contact, len(m.contacts))
	copy(out, m.contacts)
	return out
}

// Len reports the number of contacts currently held.
func (m *Manager) Len() int {
	return len(m.contacts)
}

// FindByID performs a linear scan for a contact with the given id.
func (m *Manager) FindByID(id uint32) (*Contact, error) {
	for _, c := range m.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

// FindByName performs a linear scan for a contact with the given name.
func (m *Manager) FindByName(name string) (*Contact, error) {
	for _, c := range m.contacts {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

// HasPublicKey reports whether any contact already carries pubkeyB64,
// per invariant 3: no two contacts share the same non-empty public key.
func (m *Manager) HasPublicKey(pubkeyB64 string) bool {
	if pubkeyB64 == "" {
		return false
	}
	for _, c := range m.contacts {
		if c.PublicKeyB64 == pubkeyB64 {
			return true
		}
	}
	return false
}

// Add creates a new contact in PendingSent status with no public key yet
// assigned, used by the "add contact" / ADD:<name> intent.
func (m *Manager) Add(name string) (*Contact, error) {
	logger := logrus.WithFields(logrus.Fields{
		"function": "Add",
		"package":  "contact",
		"name":     name,
	})

	if len(name) > MaxNameLen {
		logger.Warn("name exceeds maximum length")
		return nil, ErrNameTooLong
	}
	if len(m.contacts) >= MaxContacts {
		logger.Warn("contact capacity exceeded")
		return nil, ErrCapacityExceeded
	}

	c := &Contact{
		ID:        m.nextID,
		Name:      name,
		Status:    PendingSent,
		CreatedAt: m.timeProvider.Now().Unix(),
	}
	m.nextID++
	m.contacts = append(m.contacts, c)

	logger.WithFields(logrus.Fields{"id": c.ID}).Info("contact added")
	return c, nil
}

// CreateFromPendingKey creates a new contact already carrying pubkeyB64
// (taken from the pending-keys triage queue) in PendingReceived status,
// used by the "create new from pending" / CREATE:<name> intent (spec.md
// §4.7, scenario S4). The contact is not yet Established: CompleteExchange
// must be called to send the device's own key back.
func (m *Manager) CreateFromPendingKey(name, pubkeyB64 string) (*Contact, error) {
	logger := logrus.WithFields(logrus.Fields{
		"function": "CreateFromPendingKey",
		"package":  "contact",
		"name":     name,
	})

	if len(name) > MaxNameLen {
		return nil, ErrNameTooLong
	}
	if len(m.contacts) >= MaxContacts {
		return nil, ErrCapacityExceeded
	}
	if m.HasPublicKey(pubkeyB64) {
		logger.Warn("duplicate public key on create-from-pending")
		return nil, ErrDuplicatePublicKey
	}

	c := &Contact{
		ID:           m.nextID,
		Name:         name,
		Status:       PendingReceived,
		PublicKeyB64: pubkeyB64,
		CreatedAt:    m.timeProvider.Now().Unix(),
	}
	m.nextID++
	m.contacts = append(m.contacts, c)

	logger.WithFields(logrus.Fields{"id": c.ID}).Info("contact created from pending key")
	return c, nil
}

// AssignPublicKey attaches pubkeyB64 to the named PendingSent contact and
// transitions it to Established, used by the "assign to existing contact"
// / ASSIGN:<name> intent.
func (m *Manager) AssignPublicKey(name, pubkeyB64 string) (*Contact, error) {
	c, err := m.FindByName(name)
	if err != nil {
		return nil, err
	}
	if m.HasPublicKey(pubkeyB64) {
		return nil, ErrDuplicatePublicKey
	}
	c.PublicKeyB64 = pubkeyB64
	c.Status = Established
	return c, nil
}

// CompleteExchange transitions a PendingReceived contact to Established,
// used by the COMPLETE:<name> intent after the device has (re-)sent its
// own public key.
func (m *Manager) CompleteExchange(name string) (*Contact, error) {
	c, err := m.FindByName(name)
	if err != nil {
		return nil, err
	}
	c.Status = Established
	return c, nil
}

// IncrementUnread bumps the unread counter for the contact with id cid,
// used on message receipt (spec.md §4.7).
func (m *Manager) IncrementUnread(cid uint32) error {
	c, err := m.FindByID(cid)
	if err != nil {
		return err
	}
	c.UnreadCount++
	return nil
}

// ResetUnread zeroes the unread counter and returns its prior value, used
// by the RECV_COUNT command surface token.
func (m *Manager) ResetUnread(name string) (uint32, error) {
	c, err := m.FindByName(name)
	if err != nil {
		return 0, err
	}
	prev := c.UnreadCount
	c.UnreadCount = 0
	return prev, nil
}

// Delete removes the contact with id cid, preserving insertion order of
// the survivors by shifting them down and releasing the vacated slot.
func (m *Manager) Delete(cid uint32) error {
	for i, c := range m.contacts {
		if c.ID == cid {
			m.contacts = append(m.contacts[:i], m.contacts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// EstablishedContacts returns Established contacts in insertion order,
// used by the trial-decrypt loop in appcore (spec.md §4.7).
func (m *Manager) EstablishedContacts() []*Contact {
	var out []*Contact
	for _, c := range m.contacts {
		if c.Status == Established {
			out = append(out, c)
		}
	}
	return out
}

// ReplaceAll discards the current in-memory list and installs contacts
// (and the id high-water mark), used when loading from the store.
func (m *Manager) ReplaceAll(contacts []*Contact) {
	maxID := uint32(0)
	for _, c := range contacts {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	m.contacts = contacts
	if maxID+1 > m.nextID {
		m.nextID = maxID + 1
	}
}

func (s Status) String() string {
	switch s {
	case PendingSent:
		return "pending_sent"
	case PendingReceived:
		return "pending_received"
	case Established:
		return "established"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}
