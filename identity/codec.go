package identity

import (
	"errors"
	"fmt"

	"github.com/faisal-shah/offline-secure-messenger-sub000/crypto"
	"github.com/faisal-shah/offline-secure-messenger-sub000/store"
)

// encode renders id as the `{"pubkey":"<b64>","privkey":"<b64>"}` document
// shape named in spec.md §6.
func encode(id *Identity) []byte {
	doc := fmt.Sprintf(`{"pubkey":"%s","privkey":"%s"}`,
		store.EscapeString(crypto.PubKeyToB64(id.Public)),
		store.EscapeString(crypto.EncodeB64(id.Private[:])),
	)
	return []byte(doc)
}

// decode tolerantly scans an identity document for its two base64 keys.
// Both keys decode must yield exactly 32 bytes for Valid to be true, per
// spec.md invariant 6.
func decode(data []byte) (*Identity, error) {
	obj := string(data)

	pubB64, ok := store.ScanString(obj, "pubkey")
	if !ok {
		return nil, errors.New("identity document missing pubkey")
	}
	privB64, ok := store.ScanString(obj, "privkey")
	if !ok {
		return nil, errors.New("identity document missing privkey")
	}

	pub, pubErr := crypto.B64ToPubKey(pubB64)
	rawPriv, privErr := crypto.DecodeB64(privB64)

	id := &Identity{}
	if pubErr == nil && privErr == nil && len(rawPriv) == crypto.PubKeySize {
		id.Public = pub
		copy(id.Private[:], rawPriv)
		id.Valid = true
	}
	return id, nil
}
