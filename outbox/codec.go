package outbox

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/faisal-shah/offline-secure-messenger-sub000/store"
)

// DocPath is the filename of the persisted outbox document.
const DocPath = "data_outbox.json"

// Encode renders entries as the JSON array described in spec.md §6:
// `{"data":str,"uuid":u16,"msg_id":"<hex8>","acked":bool,"sent":bool}`.
func Encode(entries []*Entry) []byte {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range entries {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"data":"%s","uuid":%d,"msg_id":"%s","acked":%t,"sent":%t}`,
			store.EscapeString(e.Data), e.CharUUID, hex.EncodeToString(e.MsgID[:]),
			e.Acked, e.Sent,
		)
	}
	b.WriteByte(']')
	return []byte(b.String())
}

// Decode tolerantly parses an outbox document.
func Decode(data []byte) []*Entry {
	objects := store.SplitObjects(data)
	entries := make([]*Entry, 0, len(objects))
	for _, obj := range objects {
		text, _ := store.ScanString(obj, "data")
		uuid, _ := store.ScanNumber(obj, "uuid")
		msgIDHex, _ := store.ScanString(obj, "msg_id")
		acked, _ := store.ScanBool(obj, "acked")
		sent, _ := store.ScanBool(obj, "sent")

		e := &Entry{
			Data:     text,
			CharUUID: uint16(uuid),
			Acked:    acked,
			Sent:     sent,
		}
		if raw, err := hex.DecodeString(msgIDHex); err == nil && len(raw) == 8 {
			copy(e.MsgID[:], raw)
		}
		entries = append(entries, e)
	}
	return entries
}
