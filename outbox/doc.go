// Package outbox implements the durable, bounded FIFO of pending
// ciphertext envelopes awaiting delivery to a connected peer, with
// at-least-once delivery and ACK-id-keyed deduplication across
// reconnects (spec.md §4.6).
package outbox
