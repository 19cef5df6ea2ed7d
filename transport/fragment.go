package transport

import (
	"encoding/binary"
	"errors"
)

// MTU is the maximum size in bytes of a single encoded fragment,
// including its 3-byte header (spec.md §4.5).
const MTU = 200

// FragmentHeaderSize is the length in bytes of the inner fragment
// header: a 1-byte flags field and a 2-byte little-endian sequence
// number.
const FragmentHeaderSize = 3

// MaxFragmentPayload is the largest fragment_payload a single fragment
// can carry.
const MaxFragmentPayload = MTU - FragmentHeaderSize

// MaxMessageSize is the largest reassembled logical message accepted,
// matching the receiver's fixed 4 KB reassembly buffer.
const MaxMessageSize = 4096

// Fragment flag bits.
const (
	FlagStart byte = 0x01
	FlagEnd   byte = 0x02
	FlagAck   byte = 0x04
)

// ErrMessageTooLarge is returned when BuildFragments is asked to
// fragment a message exceeding MaxMessageSize.
var ErrMessageTooLarge = errors.New("message exceeds maximum reassembled size")

// ErrFragmentTooShort is returned when decoding finds fewer than
// FragmentHeaderSize bytes available.
var ErrFragmentTooShort = errors.New("fragment header truncated")

// Fragment is one inner wire unit: a flags byte, a little-endian
// sequence number, and a payload slice.
type Fragment struct {
	Flags   byte
	Seq     uint16
	Payload []byte
}

// EncodeFragment serializes f to its wire form.
func EncodeFragment(f Fragment) []byte {
	buf := make([]byte, FragmentHeaderSize+len(f.Payload))
	buf[0] = f.Flags
	binary.LittleEndian.PutUint16(buf[1:3], f.Seq)
	copy(buf[3:], f.Payload)
	return buf
}

// DecodeFragment parses raw into a Fragment.
func DecodeFragment(raw []byte) (Fragment, error) {
	if len(raw) < FragmentHeaderSize {
		return Fragment{}, ErrFragmentTooShort
	}
	return Fragment{
		Flags:   raw[0],
		Seq:     binary.LittleEndian.Uint16(raw[1:3]),
		Payload: raw[3:],
	}, nil
}

// BuildFragments splits a logical message of data into the fragment
// sequence described in spec.md §4.5's send path: max_payload =
// MTU-3 bytes per fragment; the first fragment's payload begins with the
// 2-byte little-endian total message length; the last fragment sets END;
// a single-fragment message sets both START and END.
func BuildFragments(data []byte) ([]Fragment, error) {
	if len(data) > MaxMessageSize {
		return nil, ErrMessageTooLarge
	}

	full := make([]byte, 2+len(data))
	binary.LittleEndian.PutUint16(full[:2], uint16(len(data)))
	copy(full[2:], data)

	var frags []Fragment
	seq := uint16(0)
	for offset := 0; offset < len(full); offset += MaxFragmentPayload {
		end := offset + MaxFragmentPayload
		if end > len(full) {
			end = len(full)
		}
		var flags byte
		if offset == 0 {
			flags |= FlagStart
		}
		if end == len(full) {
			flags |= FlagEnd
		}
		frags = append(frags, Fragment{Flags: flags, Seq: seq, Payload: full[offset:end]})
		seq++
	}
	return frags, nil
}

// BuildAckFragment constructs the single ACK fragment for a reassembled
// payload's 8-byte fingerprint id, sent back on the device->host channel.
func BuildAckFragment(ackID [8]byte) Fragment {
	return Fragment{Flags: FlagAck, Seq: 0, Payload: ackID[:]}
}
