// Package transport implements the OSM wire protocol: an outer
// length-prefixed frame over a byte stream, an inner MTU-bounded
// fragment layer with START/END flags and per-fragment sequence
// numbers, reassembly, and application-level acknowledgements, on top
// of a cooperative, non-blocking, up-to-4-peer TCP server (spec.md
// §4.5).
//
// Only the byte-stream backend is implemented: this device has no
// packet-oriented (e.g. BLE attribute) transport, so the capability
// split described in spec.md §9 ("dynamic dispatch for transport")
// collapses to a single concrete Server rather than a Backend
// interface with multiple implementations.
package transport
