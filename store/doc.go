// Package store is a thin facade over the block-device-backed filesystem
// that the firmware mounts at boot. It exposes exactly two operations --
// ReadFile and WriteFile -- and leaves wear leveling, erase cycles, and
// block allocation to the underlying mounted image. Document bodies are
// small, tolerant-JSON-ish arrays/objects: see doc_codec.go for the
// scanning encoder/decoder that reads known keys and ignores the rest,
// rather than requiring strict JSON.
package store
