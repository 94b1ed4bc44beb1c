// Package hashutil names stored files by their content. Prediction
// images are written under their digest, so identical masks share one
// file and re-uploads are idempotent.
package hashutil

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// Blake3Hash returns the lowercase hex blake3-256 digest of data.
func Blake3Hash(data []byte) string {
	digest := blake3.Sum256(data)
	return hex.EncodeToString(digest[:])
}
