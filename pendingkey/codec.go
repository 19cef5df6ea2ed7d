package pendingkey

import (
	"fmt"
	"strings"

	"github.com/faisal-shah/offline-secure-messenger-sub000/store"
)

// DocPath is the filename of the persisted pending-keys document.
const DocPath = "data_pending_keys.json"

// Encode renders keys as the JSON array described in spec.md §6:
// `{"pubkey":"<b64>","received":i64}`.
func Encode(keys []*PendingKey) []byte {
	var b strings.Builder
	b.WriteByte('[')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"pubkey":"%s","received":%d}`,
			store.EscapeString(k.PubKeyB64), k.ReceivedAt)
	}
	b.WriteByte(']')
	return []byte(b.String())
}

// Decode tolerantly parses a pending-keys document.
func Decode(data []byte) []*PendingKey {
	objects := store.SplitObjects(data)
	keys := make([]*PendingKey, 0, len(objects))
	for _, obj := range objects {
		pubkey, _ := store.ScanString(obj, "pubkey")
		received, _ := store.ScanNumber(obj, "received")
		keys = append(keys, &PendingKey{PubKeyB64: pubkey, ReceivedAt: received})
	}
	return keys
}
