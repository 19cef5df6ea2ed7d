package appcore

// Iterate is the single per-tick driver the cooperative main loop calls
// (spec.md §5): it drains transport I/O (which may itself invoke
// handleEnvelope/handleAck synchronously), tells the outbox how many
// peers are currently connected so it can re-arm on a 0->=1 transition,
// and flushes any entries still unsent. There are no other mutation
// paths outside Iterate and the command-surface intents, so no locking
// is required (spec.md §5, "Shared resources").
func (a *App) Iterate() {
	a.Transport.Poll()

	connected := a.Transport.ConnectedCount()
	a.Outbox.NotePeerCount(connected)
	a.Outbox.Flush(a.Transport)
	if connected > 0 {
		_ = a.saveOutbox()
	}
}

// Stop closes the transport server, per spec.md §5's shutdown contract:
// no callbacks fire after Stop returns.
func (a *App) Stop() error {
	return a.Transport.Stop()
}

