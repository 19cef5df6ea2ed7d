package appcore

import "errors"

// ErrNotEstablished is returned when a send is requested against a
// contact that has not completed the key exchange (spec.md §7).
var ErrNotEstablished = errors.New("contact is not established")

// ErrIdentityExists is returned by Keygen when an identity is already
// present; KEYGEN never overwrites an existing identity (spec.md §4.3).
var ErrIdentityExists = errors.New("identity already present")

// ErrNoPendingKeys is returned by AssignPendingKey/CreateFromPending
// when the pending-keys queue is empty.
var ErrNoPendingKeys = errors.New("no pending keys to triage")

// ErrNoIdentity is returned by any operation that needs the device's own
// keypair (sending, completing an exchange) when none has been
// generated yet (spec.md §4.3: "gate all other functions on its
// presence").
var ErrNoIdentity = errors.New("no identity present")
