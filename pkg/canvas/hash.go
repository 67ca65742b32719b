package canvas

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Hash returns a deterministic BLAKE3 digest of every value in field order.
func (r Record) Hash() string {
	h := blake3.New()
	for _, f := range allFields {
		h.Write([]byte(f))
		h.Write([]byte{0})
		h.Write([]byte(r.Get(f)))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
