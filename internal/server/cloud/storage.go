// Package cloud stores snapshots of synced listings in object storage and
// hands out presigned links to them.
package cloud

import (
	"context"
	"fmt"
	"time"
)

// Storage is the object store behind SyncToCloud / UnsyncFromCloud.
type Storage interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	// PresignGet returns a time-limited download URL for key.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	// Delete removes key. Removing an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// ListingKey is the object key of the snapshot of the listing publicID.
// It is stable so that a repeated unsync deletes the same object.
func ListingKey(publicID string) string {
	return fmt.Sprintf("listings/%s.json", publicID)
}
