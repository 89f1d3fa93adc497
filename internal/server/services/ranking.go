package services

import (
	"sort"

	"github.com/dmitrijs2005/gophmarket/internal/common"
	"github.com/dmitrijs2005/gophmarket/internal/server/models"
)

// Score is the rank of ad for viewer: its boost plus a fixed bonus when the
// viewer follows the seller. A nil viewer follows nobody.
func Score(ad *models.Ad, viewer *models.User) int64 {
	score := ad.BoostScore
	if viewer != nil && viewer.Follows(ad.SellerID) {
		score += common.FollowAffinityBonus
	}
	return score
}

// Rank orders ads by score desc, then newest first, then public id. The
// input slice is not modified.
func Rank(ads []models.Ad, viewer *models.User) []models.Ad {
	ranked := make([]models.Ad, len(ads))
	copy(ranked, ads)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := &ranked[i], &ranked[j]
		if sa, sb := Score(a, viewer), Score(b, viewer); sa != sb {
			return sa > sb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.PublicID < b.PublicID
	})
	return ranked
}
