// Package appcore wires Identity, Contacts, Messages, PendingKeys,
// Outbox, Store, Crypto, and Transport into the single driver struct the
// cooperative main loop ticks (spec.md §4.7, §5). It owns envelope
// dispatch -- routing a decoded OSM:KEY: or OSM:MSG: envelope to the
// key-exchange triage path or the trial-decrypt path -- and the
// navigation/indicator state the UI observes, but it runs no goroutines
// of its own: every exported method is meant to be called from the
// single event loop.
package appcore
