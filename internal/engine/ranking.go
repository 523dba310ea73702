package engine

import (
	"sort"

	"github.com/KirkDiggler/bingo/internal/models"
)

// Rank orders players for the final leaderboard: the winner first, then by
// completed rows and marked cells. Ties keep the order players were given in.
func Rank(players []*models.Player, winnerID string) []models.RankedResult {
	ordered := make([]*models.Player, len(players))
	copy(ordered, players)

	isWinner := func(p *models.Player) bool {
		return winnerID != "" && p.ID == winnerID
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if isWinner(a) != isWinner(b) {
			return isWinner(a)
		}
		if a.CompletedRows != b.CompletedRows {
			return a.CompletedRows > b.CompletedRows
		}
		return a.MarkedCount > b.MarkedCount
	})

	results := make([]models.RankedResult, len(ordered))
	for i, p := range ordered {
		results[i] = models.RankedResult{
			Rank:          i + 1,
			PlayerID:      p.ID,
			Name:          p.Name,
			Avatar:        p.Avatar,
			IsBot:         p.IsBot,
			IsWinner:      isWinner(p),
			CompletedRows: p.CompletedRows,
			MarkedCount:   p.MarkedCount,
		}
	}
	return results
}
