package engine

import (
	"testing"

	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/KirkDiggler/bingo/internal/random"
	"github.com/stretchr/testify/suite"
)

type CardsTestSuite struct {
	suite.Suite
	rnd *random.Roller
}

func (s *CardsTestSuite) SetupTest() {
	s.rnd = random.New(&random.Config{Seed: 42})
}

func TestCardsTestSuite(t *testing.T) {
	suite.Run(t, new(CardsTestSuite))
}

func (s *CardsTestSuite) TestGenerateRowsIntegrity() {
	numberRange := models.NumberRange{Min: 1, Max: 99}

	for i := 0; i < 200; i++ {
		rows, err := GenerateRows(6, 5, numberRange, s.rnd)
		s.Require().NoError(err)
		s.Require().Len(rows, 6)

		seen := make(map[int]bool)
		for _, row := range rows {
			s.Len(row.Cells, 5)
			s.False(row.IsComplete)
			for c, cell := range row.Cells {
				s.True(numberRange.Contains(cell.Number), "number %d out of range", cell.Number)
				s.False(seen[cell.Number], "duplicate number %d", cell.Number)
				s.False(cell.Marked)
				seen[cell.Number] = true
				if c > 0 {
					s.Less(row.Cells[c-1].Number, cell.Number, "row is not sorted")
				}
			}
		}
	}
}

func (s *CardsTestSuite) TestGenerateRowsUsesWholeRangeWhenExact() {
	rows, err := GenerateRows(2, 5, models.NumberRange{Min: 1, Max: 10}, s.rnd)
	s.Require().NoError(err)

	seen := make(map[int]bool)
	for _, row := range rows {
		for _, cell := range row.Cells {
			seen[cell.Number] = true
		}
	}
	s.Len(seen, 10)
}

func (s *CardsTestSuite) TestGenerateRowsInsufficientNumbers() {
	rows, err := GenerateRows(3, 5, models.NumberRange{Min: 1, Max: 10}, s.rnd)
	s.ErrorIs(err, ErrInsufficientNumbers)
	s.Nil(rows)
}

func (s *CardsTestSuite) TestGenerateRowsInvalidShape() {
	_, err := GenerateRows(0, 5, models.NumberRange{Min: 1, Max: 10}, s.rnd)
	s.ErrorIs(err, ErrInvalidSettings)

	_, err = GenerateRows(1, 5, models.NumberRange{Min: 10, Max: 1}, s.rnd)
	s.ErrorIs(err, ErrInvalidSettings)
}

func (s *CardsTestSuite) TestGeneratePoolCoversRange() {
	numberRange := models.NumberRange{Min: 5, Max: 24}
	pool := GeneratePool(numberRange, s.rnd)

	s.Len(pool, 20)
	seen := make(map[int]bool)
	for _, n := range pool {
		s.True(numberRange.Contains(n))
		s.False(seen[n])
		seen[n] = true
	}
}

func (s *CardsTestSuite) TestValidateSettings() {
	testCases := []struct {
		name   string
		mutate func(*models.Settings)
		err    error
	}{
		{name: "defaults", mutate: func(*models.Settings) {}},
		{name: "no rows", mutate: func(st *models.Settings) { st.RowCount = 0 }, err: ErrInvalidSettings},
		{name: "inverted range", mutate: func(st *models.Settings) { st.Range = models.NumberRange{Min: 9, Max: 1} }, err: ErrInvalidSettings},
		{name: "min above max players", mutate: func(st *models.Settings) { st.MinPlayers = 5; st.MaxPlayers = 4 }, err: ErrInvalidSettings},
		{name: "zero interval with skills", mutate: func(st *models.Settings) { st.SkillInterval = 0 }, err: ErrInvalidSettings},
		{name: "zero interval without skills", mutate: func(st *models.Settings) { st.SkillInterval = 0; st.SkillsEnabled = false }},
		{name: "card larger than range", mutate: func(st *models.Settings) { st.Range = models.NumberRange{Min: 1, Max: 20} }, err: ErrInsufficientNumbers},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			settings := models.DefaultSettings()
			tc.mutate(&settings)

			err := ValidateSettings(settings)
			if tc.err == nil {
				s.NoError(err)
			} else {
				s.ErrorIs(err, tc.err)
			}
		})
	}
}
