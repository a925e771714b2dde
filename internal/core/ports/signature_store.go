package ports

import (
	"context"
)

// SignatureStore stores proof-of-delivery and remittance-receipt blobs and
// returns an opaque reference to the stored object. References are derived
// from content, so storing the same blob twice yields the same reference and
// a replayed completion does not duplicate storage.
type SignatureStore interface {
	// Store uploads the blob and returns its reference.
	Store(ctx context.Context, blob []byte, contentType string) (string, error)
}
