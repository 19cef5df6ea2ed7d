package appcore

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/faisal-shah/offline-secure-messenger-sub000/contact"
	"github.com/faisal-shah/offline-secure-messenger-sub000/identity"
	"github.com/faisal-shah/offline-secure-messenger-sub000/message"
	"github.com/faisal-shah/offline-secure-messenger-sub000/outbox"
	"github.com/faisal-shah/offline-secure-messenger-sub000/pendingkey"
)

// Boot loads every persisted document into memory, the first step of
// spec.md §5's initialization. If testMode is true and no identity
// document exists, a fresh identity is generated immediately rather than
// routing to the (out-of-scope) UI setup flow, per spec.md §4.3 and the
// config surface's test_mode knob (§6).
func (a *App) Boot(testMode bool) error {
	logger := logrus.WithFields(logrus.Fields{
		"function": "Boot",
		"package":  "appcore",
	})

	if err := a.Identity.Load(); err != nil {
		if !errors.Is(err, identity.ErrNotPresent) {
			return fmt.Errorf("boot: %w", err)
		}
		if testMode {
			if _, err := a.Identity.Generate(); err != nil {
				return fmt.Errorf("boot: generate identity: %w", err)
			}
			logger.Info("no identity present, generated one for test mode")
		} else {
			logger.Info("no identity present, routing to setup flow")
		}
	}

	if data, err := a.Store.ReadFile(contact.DocPath); err == nil {
		a.Contacts.ReplaceAll(contact.Decode(data))
	}
	if data, err := a.Store.ReadFile(message.DocPath); err == nil {
		a.Messages.ReplaceAll(message.Decode(data))
	}
	if data, err := a.Store.ReadFile(pendingkey.DocPath); err == nil {
		a.Pending.ReplaceAll(pendingkey.Decode(data))
	}
	if data, err := a.Store.ReadFile(outbox.DocPath); err == nil {
		a.Outbox.ReplaceAll(outbox.Decode(data))
	}

	logger.WithFields(logrus.Fields{
		"contacts": a.Contacts.Len(),
		"messages": a.Messages.Len(),
		"pending":  a.Pending.Len(),
		"outbox":   a.Outbox.Len(),
	}).Info("state loaded")
	return nil
}

// saveContacts rewrites the contacts document. On failure it sets the
// sticky error flags and also returns the write error to the caller.
func (a *App) saveContacts() error {
	if err := a.Store.WriteFile(contact.DocPath, contact.Encode(a.Contacts.All())); err != nil {
		a.noteStorageErr("saveContacts", err)
		return err
	}
	return nil
}

func (a *App) saveMessages() error {
	if err := a.Store.WriteFile(message.DocPath, message.Encode(a.Messages.All())); err != nil {
		a.noteStorageErr("saveMessages", err)
		return err
	}
	return nil
}

func (a *App) savePending() error {
	if err := a.Store.WriteFile(pendingkey.DocPath, pendingkey.Encode(a.Pending.All())); err != nil {
		a.noteStorageErr("savePending", err)
		return err
	}
	return nil
}

func (a *App) saveOutbox() error {
	if err := a.Store.WriteFile(outbox.DocPath, outbox.Encode(a.Outbox.All())); err != nil {
		a.noteStorageErr("saveOutbox", err)
		return err
	}
	return nil
}
