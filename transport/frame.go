package transport

import (
	"encoding/binary"
	"errors"
)

// Logical channel ids (char_uuid), spec.md §6. Only Notify and Write are
// required for end-to-end operation.
const (
	ChannelNotify     uint16 = 0xFE02 // device -> host notifications
	ChannelWrite      uint16 = 0xFE03 // host -> device writes
	ChannelStatus     uint16 = 0xFE04 // status
	ChannelDeviceInfo uint16 = 0xFE05 // read-only device metadata
)

// FrameHeaderSize is the length in bytes of the outer frame header:
// a 4-byte big-endian length followed by a 2-byte big-endian char_uuid.
const FrameHeaderSize = 6

// ErrFrameTooShort is returned when decoding finds fewer than
// FrameHeaderSize bytes available.
var ErrFrameTooShort = errors.New("frame header truncated")

// EncodeFrame wraps payload (an encoded fragment) in the outer,
// length-prefixed byte-stream frame described in spec.md §4.5. All
// integers in the outer frame are big-endian; this is intentionally the
// opposite endianness of the inner fragment header, and that asymmetry
// is load-bearing wire compatibility (spec.md §6).
func EncodeFrame(charUUID uint16, payload []byte) []byte {
	buf := make([]byte, FrameHeaderSize+len(payload))
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(payload)))
	binary.BigEndian.PutUint16(buf[4:6], charUUID)
	copy(buf[6:], payload)
	return buf
}

// TryDecodeFrame attempts to split one outer frame off the front of buf.
// It returns the char_uuid, the fragment payload, the number of bytes of
// buf the frame occupied, and ok=true on success. ok=false (with n=0)
// means buf does not yet contain a complete frame and the caller should
// wait for more bytes.
func TryDecodeFrame(buf []byte) (charUUID uint16, payload []byte, n int, ok bool) {
	if len(buf) < FrameHeaderSize {
		return 0, nil, 0, false
	}
	msgLen := binary.BigEndian.Uint32(buf[0:4])
	charUUID = binary.BigEndian.Uint16(buf[4:6])
	total := FrameHeaderSize + int(msgLen)
	if len(buf) < total {
		return 0, nil, 0, false
	}
	payload = buf[FrameHeaderSize:total]
	return charUUID, payload, total, true
}
