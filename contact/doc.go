// Package contact manages the device's in-memory contact list: a small,
// insertion-ordered collection with stable integer ids, gated through the
// three-state key-exchange lifecycle (PendingSent, PendingReceived,
// Established) described in spec.md §3-4.4.
package contact
