package models

import "time"

// Tier is the privilege level of an account.
type Tier string

const (
	TierMember     Tier = "member"
	TierModerator  Tier = "moderator"
	TierPrivileged Tier = "privileged"
)

type User struct {
	ID           string    `json:"id"`
	UserName     string    `json:"username"`
	Salt         []byte    `json:"-"`
	PasswordHash []byte    `json:"-"`
	Tier         Tier      `json:"tier"`
	FollowingIDs []string  `json:"following_ids"`
	CreatedAt    time.Time `json:"created_at"`
}

// Follows reports whether u follows sellerID.
func (u *User) Follows(sellerID string) bool {
	for _, id := range u.FollowingIDs {
		if id == sellerID {
			return true
		}
	}
	return false
}
