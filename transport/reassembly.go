package transport

import (
	"encoding/binary"

	"github.com/faisal-shah/offline-secure-messenger-sub000/crypto"
)

// FeedResult reports what happened to a single fragment fed into a
// Reassembly: either it was an ACK (IsAck, AckID set), it completed a
// message (Delivered non-nil), or neither (an in-progress fragment, or
// one that was dropped).
type FeedResult struct {
	IsAck     bool
	AckID     [8]byte
	Delivered []byte
}

// Reassembly holds one peer slot's in-progress message reassembly
// state, per spec.md §4.5's per-peer receive path. It is invalidated
// (active=false) by a sequence mismatch or by the owning slot
// disconnecting; it never times out on its own (spec.md §5).
type Reassembly struct {
	buf         []byte
	expectedSeq uint16
	active      bool
}

// Feed advances the reassembly state machine with one fragment, in the
// order the transport layer received it. ACK fragments bypass
// reassembly state entirely. A START fragment resets any in-progress
// assembly. Any fragment whose seq does not match expectedSeq abandons
// the in-flight message with no upstream delivery (test property 7).
func (r *Reassembly) Feed(f Fragment) FeedResult {
	if f.Flags&FlagAck != 0 {
		var id [8]byte
		copy(id[:], f.Payload)
		return FeedResult{IsAck: true, AckID: id}
	}

	if f.Flags&FlagStart != 0 {
		r.active = true
		r.buf = r.buf[:0]
		if len(f.Payload) < 2 {
			r.active = false
			return FeedResult{}
		}
		totalLen := binary.LittleEndian.Uint16(f.Payload[:2])
		if totalLen > MaxMessageSize {
			r.active = false
			return FeedResult{}
		}
		data := f.Payload[2:]
		if len(data) > MaxMessageSize {
			r.active = false
			return FeedResult{}
		}
		r.buf = append(r.buf, data...)
		r.expectedSeq = f.Seq + 1
	} else {
		if !r.active {
			return FeedResult{}
		}
		if f.Seq != r.expectedSeq {
			r.active = false
			return FeedResult{}
		}
		if len(r.buf)+len(f.Payload) > MaxMessageSize {
			r.active = false
			return FeedResult{}
		}
		r.buf = append(r.buf, f.Payload...)
		r.expectedSeq++
	}

	if f.Flags&FlagEnd != 0 {
		delivered := make([]byte, len(r.buf))
		copy(delivered, r.buf)
		r.active = false
		r.buf = nil
		return FeedResult{Delivered: delivered}
	}
	return FeedResult{}
}

// Reset cancels any in-progress assembly, used when the owning peer slot
// disconnects.
func (r *Reassembly) Reset() {
	r.active = false
	r.buf = nil
}

// AckID computes the ACK id for a reassembled payload: the first 8
// bytes of SHA-512(payload) (spec.md §4.5, glossary).
func AckID(payload []byte) [8]byte {
	return crypto.Fingerprint(payload)
}
