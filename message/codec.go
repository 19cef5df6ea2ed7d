package message

import (
	"fmt"
	"strings"

	"github.com/faisal-shah/offline-secure-messenger-sub000/store"
)

// DocPath is the filename of the persisted messages document.
const DocPath = "data_messages.json"

// Encode renders messages as the JSON array described in spec.md §6:
// `{"id":u32,"cid":u32,"dir":0|1,"ts":i64,"text":<escaped str>}`.
// Ciphertext has no persisted field (it is a RAM-only retransmission aid,
// see message.go doc comment).
func Encode(messages []*Message) []byte {
	var b strings.Builder
	b.WriteByte('[')
	for i, msg := range messages {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"id":%d,"cid":%d,"dir":%d,"ts":%d,"text":"%s"}`,
			msg.ID, msg.ContactID, uint8(msg.Direction), msg.Timestamp,
			store.EscapeString(msg.Plaintext),
		)
	}
	b.WriteByte(']')
	return []byte(b.String())
}

// Decode tolerantly parses a messages document. Ciphertext is always
// empty on a freshly loaded message.
func Decode(data []byte) []*Message {
	objects := store.SplitObjects(data)
	messages := make([]*Message, 0, len(objects))
	for _, obj := range objects {
		id, _ := store.ScanNumber(obj, "id")
		cid, _ := store.ScanNumber(obj, "cid")
		dir, _ := store.ScanNumber(obj, "dir")
		ts, _ := store.ScanNumber(obj, "ts")
		text, _ := store.ScanString(obj, "text")

		messages = append(messages, &Message{
			ID:        uint32(id),
			ContactID: uint32(cid),
			Direction: Direction(dir),
			Timestamp: ts,
			Plaintext: text,
		})
	}
	return messages
}
