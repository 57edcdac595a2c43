package voting

import (
	"sort"

	"github.com/veriverse/veriverse/internal/model"
)

// Reward tiers by accumulated points
const (
	TierPlatinum = "Platinum"
	TierGold     = "Gold"
	TierSilver   = "Silver"
	TierBronze   = "Bronze"
)

// LeaderboardEntry is one ranked reviewer on the reward leaderboard
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	UserID   string  `json:"user_id"`
	Name     string  `json:"name"`
	Location string  `json:"location,omitempty"`
	Points   float64 `json:"points"`
	Tier     string  `json:"tier"`
}

// Points scores a reviewer: precision times 100, scaled by attempts with
// the multiplier capped at 5
func Points(rev model.Reviewer) float64 {
	attempts := rev.Attempts
	if attempts > 5 {
		attempts = 5
	}
	return rev.Precision * 100 * float64(attempts)
}

// Tier maps points to a reward tier
func Tier(points float64) string {
	switch {
	case points >= 400:
		return TierPlatinum
	case points >= 250:
		return TierGold
	case points >= 150:
		return TierSilver
	default:
		return TierBronze
	}
}

// Leaderboard ranks reviewers by points, descending. Ties break on user id
// for stable output.
func Leaderboard(reviewers []model.Reviewer) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(reviewers))
	for _, rev := range reviewers {
		points := Points(rev)
		entries = append(entries, LeaderboardEntry{
			UserID:   rev.UserID,
			Name:     rev.Name,
			Location: rev.Location,
			Points:   points,
			Tier:     Tier(points),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
