// Package message manages the in-memory, insertion-ordered list of sent
// and received messages, each tied to an owning contact by integer id
// only (spec.md §9: "no pointer graph").
package message
