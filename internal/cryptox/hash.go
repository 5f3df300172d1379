// Package cryptox computes content hashes of listing field sets.
package cryptox

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
)

// ContentHash returns the hex BLAKE2b-256 digest of the canonical JSON
// encoding of fields. Equal field sets hash equally regardless of map
// order or of how the values were built.
func ContentHash(fields listing.Fields) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	enc := json.NewEncoder(h)
	for _, k := range fields.Keys() {
		if err := enc.Encode([]any{k, fields[k]}); err != nil {
			return "", fmt.Errorf("hash field %s: %w", k, err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
