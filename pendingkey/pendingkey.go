package pendingkey

// MaxPendingKeys is the capacity named in spec.md §3.
const MaxPendingKeys = 8

// PendingKey is an unassigned peer public key awaiting user triage.
type PendingKey struct {
	PubKeyB64  string
	ReceivedAt int64
}
