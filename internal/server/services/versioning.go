package services

import (
	"github.com/dmitrijs2005/gophmarket/internal/server/models"
)

// Reconcile merges an owner's edited copy into the stored record.
//
// The edit always wins on content. Everything else (identity, status,
// boost, moderation and cloud metadata, created_at) is kept from stored.
// The version becomes stored+1, or max(stored, incoming)+1 when the edit was
// based on an older version, in which case conflictResolved is true.
func Reconcile(stored, incoming models.Ad) (merged models.Ad, conflictResolved bool) {
	merged = stored.Clone()
	merged.Content = incoming.Clone().Content

	if stored.Version > incoming.Version {
		merged.Version = max(stored.Version, incoming.Version) + 1
		return merged, true
	}
	merged.Version = stored.Version + 1
	return merged, false
}
