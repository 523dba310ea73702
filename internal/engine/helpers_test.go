package engine

import (
	"time"

	"github.com/KirkDiggler/bingo/internal/models"
)

// orderedSource makes every random choice predictable: permutations are the
// identity, Intn always picks the first index and Float64 always returns 0.
type orderedSource struct{}

func (orderedSource) Intn(int) int     { return 0 }
func (orderedSource) Float64() float64 { return 0 }
func (orderedSource) Perm(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}

var testNow = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)

func smallSettings() models.Settings {
	return models.Settings{
		Title:         "test",
		MaxPlayers:    4,
		MinPlayers:    1,
		SkillsEnabled: false,
		SkillInterval: 5,
		RowCount:      1,
		CellsPerRow:   5,
		Range:         models.NumberRange{Min: 1, Max: 10},
	}
}

// newPlayingGame seats the given players and moves straight to playing
func newPlayingGame(settings models.Settings, ids ...string) *models.Game {
	game, err := NewGame(NewGameInput{
		ID:       "game-1",
		Code:     "ABCDEF",
		Settings: settings,
		Host:     PlayerSpec{ID: ids[0], Name: ids[0]},
		Now:      testNow,
	}, orderedSource{})
	if err != nil {
		panic(err)
	}
	for _, id := range ids[1:] {
		game, err = AddPlayer(game, PlayerSpec{ID: id, Name: id}, testNow, orderedSource{})
		if err != nil {
			panic(err)
		}
	}
	game, err = Start(game, ids[0])
	if err != nil {
		panic(err)
	}
	game, err = BeginPlay(game)
	if err != nil {
		panic(err)
	}
	return game
}

func countCompleteRows(p *models.Player) int {
	count := 0
	for _, row := range p.Rows {
		complete := true
		for _, cell := range row.Cells {
			if !cell.Marked {
				complete = false
			}
		}
		if complete {
			count++
		}
	}
	return count
}
