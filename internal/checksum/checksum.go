// Package checksum fingerprints ingested batches.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"

	"consolidate/internal/store"
)

// BatchHash computes the content hash of a batch: a SHA-256 digest over the
// business-key values of every row, in row order. Two files carrying the
// same transactions produce the same hash regardless of non-key columns.
func BatchHash(keys []store.BusinessKey) string {
	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k.DocNo))
		h.Write([]byte(k.InternalDocumentNumber))
		h.Write([]byte(k.RegistrationDate))
		h.Write([]byte(k.SellerParty))
		h.Write([]byte(k.PurchaserParty))
	}
	return hex.EncodeToString(h.Sum(nil))
}
