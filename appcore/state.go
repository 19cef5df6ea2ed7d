package appcore

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/faisal-shah/offline-secure-messenger-sub000/contact"
	"github.com/faisal-shah/offline-secure-messenger-sub000/identity"
	"github.com/faisal-shah/offline-secure-messenger-sub000/message"
	"github.com/faisal-shah/offline-secure-messenger-sub000/outbox"
	"github.com/faisal-shah/offline-secure-messenger-sub000/pendingkey"
	"github.com/faisal-shah/offline-secure-messenger-sub000/store"
	"github.com/faisal-shah/offline-secure-messenger-sub000/transport"
)

// App is the single process-wide application-state struct (spec.md §9,
// "global mutable state"). It owns every subsystem and is threaded
// explicitly through the cooperative loop and the command surface rather
// than held as a package-level global, so tests can construct as many
// independent instances as they need.
type App struct {
	Store     *store.Store
	Identity  *identity.Manager
	Contacts  *contact.Manager
	Messages  *message.Manager
	Pending   *pendingkey.Manager
	Outbox    *outbox.Manager
	Transport *transport.Server

	// StorageError and StorageFull are the sticky flags spec.md §4.2 and
	// §7 require: set on any persistence failure (StorageError) or
	// specifically on an out-of-space failure (StorageFull), and never
	// cleared automatically -- only a successful write of the affected
	// document would let a future save "heal", which this implementation
	// does not attempt, matching the spec's "subsequent reads and writes
	// continue to be attempted" without promising recovery.
	StorageError bool
	StorageFull  bool

	// PendingKeysDirty is set whenever the pending-keys queue changes
	// and cleared by the UI/command surface reading it, standing in for
	// the "notify UI that the pending-keys indicator changed" callback
	// named in spec.md §4.7.
	PendingKeysDirty bool

	// OnRefresh, if set, is invoked after any mutation the UI should
	// redraw for -- the refresh-notification sink named in spec.md §1 as
	// the one thing the core exposes to the (out-of-scope) UI layer.
	OnRefresh func()
}

// New constructs an App wired to s and configured to drive srv, but does
// not load any persisted state or start the transport -- call Boot and
// srv.Start separately during initialization.
func New(s *store.Store, srv *transport.Server) *App {
	a := &App{
		Store:     s,
		Identity:  identity.NewManager(s),
		Contacts:  contact.NewManager(),
		Messages:  message.NewManager(),
		Pending:   pendingkey.NewManager(),
		Outbox:    outbox.NewManager(),
		Transport: srv,
	}
	srv.OnMessage = a.handleEnvelope
	srv.SetOnAck(a.handleAck)
	return a
}

// notify invokes OnRefresh if one is registered.
func (a *App) notify() {
	if a.OnRefresh != nil {
		a.OnRefresh()
	}
}

// noteStorageErr records a persistence failure in the sticky flags and
// logs it, per spec.md §4.2/§7. It never returns an error of its own --
// callers propagate the original error to their caller while the flags
// persist across the life of the process.
func (a *App) noteStorageErr(op string, err error) {
	a.StorageError = true
	if errors.Is(err, store.ErrNoSpace) {
		a.StorageFull = true
	}
	logrus.WithFields(logrus.Fields{
		"function": op,
		"package":  "appcore",
		"error":    err.Error(),
	}).Error("persistence write failed")
}
