package contact

import (
	"fmt"
	"strings"

	"github.com/faisal-shah/offline-secure-messenger-sub000/store"
)

// DocPath is the filename of the persisted contacts document.
const DocPath = "data_contacts.json"

// Encode renders contacts as the JSON array described in spec.md §6:
// `{"id":u32,"name":str,"status":0|1|2,"unread":u32,"pubkey":"<b64>"}`.
func Encode(contacts []*Contact) []byte {
	var b strings.Builder
	b.WriteByte('[')
	for i, c := range contacts {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"id":%d,"name":"%s","status":%d,"unread":%d,"pubkey":"%s"}`,
			c.ID,
			store.EscapeString(c.Name),
			uint8(c.Status),
			c.UnreadCount,
			store.EscapeString(c.PublicKeyB64),
		)
	}
	b.WriteByte(']')
	return []byte(b.String())
}

// Decode tolerantly parses a contacts document, defaulting missing
// fields to zero values per spec.md §4.2.
func Decode(data []byte) []*Contact {
	objects := store.SplitObjects(data)
	contacts := make([]*Contact, 0, len(objects))
	for _, obj := range objects {
		id, _ := store.ScanNumber(obj, "id")
		name, _ := store.ScanString(obj, "name")
		status, _ := store.ScanNumber(obj, "status")
		unread, _ := store.ScanNumber(obj, "unread")
		pubkey, _ := store.ScanString(obj, "pubkey")

		contacts = append(contacts, &Contact{
			ID:           uint32(id),
			Name:         name,
			Status:       Status(status),
			UnreadCount:  uint32(unread),
			PublicKeyB64: pubkey,
		})
	}
	return contacts
}
