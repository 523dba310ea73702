package engine

import (
	"sort"

	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/KirkDiggler/bingo/internal/random"
)

// ValidateSettings checks the settings a room is created with
func ValidateSettings(s models.Settings) error {
	switch {
	case s.RowCount <= 0 || s.CellsPerRow <= 0:
		return ErrInvalidSettings
	case s.Range.Size() <= 0:
		return ErrInvalidSettings
	case s.MaxPlayers <= 0 || s.MinPlayers <= 0 || s.MinPlayers > s.MaxPlayers:
		return ErrInvalidSettings
	case s.SkillsEnabled && s.SkillInterval <= 0:
		return ErrInvalidSettings
	case s.RowCount*s.CellsPerRow > s.Range.Size():
		return ErrInsufficientNumbers
	}
	return nil
}

// GenerateRows builds a fresh card. Numbers are distinct across the whole
// card, each row is sorted ascending and nothing is marked.
func GenerateRows(rowCount, cellsPerRow int, numberRange models.NumberRange, rnd random.Source) ([]models.Row, error) {
	if rowCount <= 0 || cellsPerRow <= 0 || numberRange.Size() <= 0 {
		return nil, ErrInvalidSettings
	}
	if rowCount*cellsPerRow > numberRange.Size() {
		return nil, ErrInsufficientNumbers
	}

	perm := rnd.Perm(numberRange.Size())

	rows := make([]models.Row, rowCount)
	for r := range rows {
		numbers := make([]int, cellsPerRow)
		for c := range numbers {
			numbers[c] = numberRange.Min + perm[r*cellsPerRow+c]
		}
		sort.Ints(numbers)

		cells := make([]models.Cell, cellsPerRow)
		for c, n := range numbers {
			cells[c] = models.Cell{Number: n}
		}
		rows[r] = models.Row{Cells: cells}
	}

	return rows, nil
}

// GeneratePool returns every number of the range in random order
func GeneratePool(numberRange models.NumberRange, rnd random.Source) []int {
	perm := rnd.Perm(numberRange.Size())
	pool := make([]int, len(perm))
	for i, offset := range perm {
		pool[i] = numberRange.Min + offset
	}
	return pool
}

// recomputePlayer derives row completion and the counters from the cells
func recomputePlayer(p *models.Player) {
	marked, completed := 0, 0
	for i := range p.Rows {
		row := &p.Rows[i]
		complete := len(row.Cells) > 0
		for _, cell := range row.Cells {
			if cell.Marked {
				marked++
			} else {
				complete = false
			}
		}
		row.IsComplete = complete
		if complete {
			completed++
		}
	}

	p.MarkedCount = marked
	p.CompletedRows = completed
	p.CanBingo = completed > 0 && !p.HasBingoed
}

// hasFullRow checks the cells directly, ignoring the cached flags
func hasFullRow(p *models.Player) bool {
	for _, row := range p.Rows {
		if len(row.Cells) == 0 {
			continue
		}
		full := true
		for _, cell := range row.Cells {
			if !cell.Marked {
				full = false
				break
			}
		}
		if full {
			return true
		}
	}
	return false
}

func markNumber(p *models.Player, number int) {
	for r := range p.Rows {
		for c := range p.Rows[r].Cells {
			if p.Rows[r].Cells[c].Number == number {
				p.Rows[r].Cells[c].Marked = true
			}
		}
	}
}
