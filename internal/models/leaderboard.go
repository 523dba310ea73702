package models

// RankedResult is one line of the final leaderboard
type RankedResult struct {
	// Rank is the 1-based position after sorting
	Rank int

	PlayerID string
	Name     string
	Avatar   string
	IsBot    bool
	IsWinner bool

	CompletedRows int
	MarkedCount   int
}
