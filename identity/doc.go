// Package identity manages the device's long-term keypair: the single
// piece of state every other subsystem is gated on. An identity is
// created once, persisted immediately, and never destroyed for the life
// of the device.
package identity
