// Package pendingkey implements the pending-key triage queue: base64
// peer public keys that arrived before the user decided whether to
// assign them to an existing contact or create a new one (spec.md §3).
package pendingkey
