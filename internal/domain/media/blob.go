package media

import (
	"encoding/hex"
	"path"
)

// BlobKey is the storage path of id's bytes. The two shard directories come
// from the random tail of the id, so uploads made in the same millisecond
// still spread evenly.
func BlobKey(id ID) string {
	h := hex.EncodeToString(id[:])

	return path.Join(h[30:32], h[28:30], h)
}
