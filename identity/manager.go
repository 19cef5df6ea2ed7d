package identity

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/faisal-shah/offline-secure-messenger-sub000/crypto"
	"github.com/faisal-shah/offline-secure-messenger-sub000/store"
)

// DocPath is the filename of the persisted identity document.
const DocPath = "data_identity.json"

// ErrNotPresent is returned by Load when no identity document exists.
var ErrNotPresent = errors.New("no identity present")

// Identity is the device's long-term X25519 keypair.
type Identity struct {
	Public  [32]byte
	Private [32]byte
	Valid   bool
}

// Manager owns the single process-wide identity instance and gates every
// other subsystem on its presence, per spec.md §4.3.
type Manager struct {
	store   *store.Store
	current *Identity
}

// NewManager constructs a Manager backed by s. It does not load or create
// an identity; call Load (and Generate, if absent) during boot.
func NewManager(s *store.Store) *Manager {
	return &Manager{store: s}
}

// Valid reports whether a usable identity is currently held in memory.
func (m *Manager) Valid() bool {
	return m.current != nil && m.current.Valid
}

// Current returns the in-memory identity, or nil if none has been loaded
// or generated yet.
func (m *Manager) Current() *Identity {
	return m.current
}

// Load reads the identity document from the store. It returns
// ErrNotPresent (not an error from the store's perspective) if the
// document does not exist, matching spec.md's "absent" read semantics.
func (m *Manager) Load() error {
	logger := logrus.WithFields(logrus.Fields{
		"function": "Load",
		"package":  "identity",
	})

	data, err := m.store.ReadFile(DocPath)
	if err != nil {
		logger.WithFields(logrus.Fields{"error": err.Error()}).Error("read identity document failed")
		return fmt.Errorf("load identity: %w", err)
	}
	if data == nil {
		logger.Debug("no identity document present")
		return ErrNotPresent
	}

	id, err := decode(data)
	if err != nil {
		logger.WithFields(logrus.Fields{"error": err.Error()}).Error("identity document malformed")
		return fmt.Errorf("decode identity: %w", err)
	}

	m.current = id
	logger.Info("identity loaded")
	return nil
}

// Generate creates a fresh keypair, holds it as the current identity, and
// persists it. Generate is idempotent only in the sense that it always
// overwrites; callers must not call it when an identity already exists
// unless they intend a reset (the command surface's KEYGEN only calls it
// when Valid() is false).
func (m *Manager) Generate() (*Identity, error) {
	logger := logrus.WithFields(logrus.Fields{
		"function": "Generate",
		"package":  "identity",
	})

	kp, err := crypto.GenerateIdentity()
	if err != nil {
		logger.WithFields(logrus.Fields{"error": err.Error()}).Error("keypair generation failed")
		return nil, fmt.Errorf("generate identity: %w", err)
	}

	id := &Identity{Public: kp.Public, Private: kp.Private, Valid: true}
	m.current = id

	if err := m.Save(); err != nil {
		return nil, err
	}

	logger.Info("new identity generated and persisted")
	return id, nil
}

// Save rewrites the identity document in full from the in-memory state.
func (m *Manager) Save() error {
	if m.current == nil {
		return errors.New("no identity to save")
	}
	data := encode(m.current)
	if err := m.store.WriteFile(DocPath, data); err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}
