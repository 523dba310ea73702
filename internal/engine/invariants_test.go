package engine

import (
	"testing"

	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/KirkDiggler/bingo/internal/random"
	"github.com/stretchr/testify/suite"
)

// InvariantsTestSuite plays many random games and checks the state after every transition
type InvariantsTestSuite struct {
	suite.Suite
}

func TestInvariantsTestSuite(t *testing.T) {
	suite.Run(t, new(InvariantsTestSuite))
}

func (s *InvariantsTestSuite) TestRandomGamesKeepInvariants() {
	for seed := int64(1); seed <= 40; seed++ {
		s.playRandomGame(seed)
	}
}

func (s *InvariantsTestSuite) playRandomGame(seed int64) {
	rnd := random.New(&random.Config{Seed: seed})
	ids := []string{"p1", "p2", "p3"}

	game, err := NewGame(NewGameInput{
		ID:       "game",
		Settings: models.DefaultSettings(),
		Host:     PlayerSpec{ID: ids[0], Name: ids[0]},
		Now:      testNow,
	}, rnd)
	s.Require().NoError(err)
	for _, id := range ids[1:] {
		game, err = AddPlayer(game, PlayerSpec{ID: id, Name: id}, testNow, rnd)
		s.Require().NoError(err)
	}
	s.checkInvariants(game)

	game, err = Start(game, ids[0])
	s.Require().NoError(err)
	game, err = BeginPlay(game)
	s.Require().NoError(err)

	for step := 0; step < 500 && game.Status != models.GameStatusFinished; step++ {
		switch game.Status {
		case models.GameStatusSkillPhase:
			for _, id := range ids {
				if !game.Players[id].HasSkillAvailable {
					continue
				}
				game = s.randomSkill(game, id, ids, rnd)
				s.checkInvariants(game)
			}
		case models.GameStatusPlaying:
			drawer := ids[step%len(ids)]
			before := game
			next, drawn, err := DrawNumber(game, drawer, rnd, testNow)
			if err == ErrPlayerBlocked || err == ErrPoolExhausted {
				game = s.claimAnyone(game, ids)
				continue
			}
			s.Require().NoError(err, "seed %d", seed)
			s.checkMarking(before, next, drawn.Number)
			game = next
			s.checkInvariants(game)

			if rnd.Float64() < 0.2 {
				game = s.claimAnyone(game, ids)
				s.checkInvariants(game)
			}
		default:
			s.Failf("unexpected status", "seed %d: %s", seed, game.Status)
			return
		}
	}
	s.Equal(models.GameStatusFinished, game.Status, "seed %d never finished", seed)
	s.Len(game.Results, len(ids))
}

func (s *InvariantsTestSuite) randomSkill(game *models.Game, id string, ids []string, rnd *random.Roller) *models.Game {
	choice := rnd.Intn(len(models.AllSkills) + 1)
	if choice == len(models.AllSkills) {
		next, err := SkipSkill(game, id)
		s.Require().NoError(err)
		return next
	}

	skill := models.AllSkills[choice]
	target := ""
	if skill.NeedsTarget() {
		target = ids[(indexOf(ids, id)+1+rnd.Intn(len(ids)-1))%len(ids)]
	}
	next, err := UseSkill(game, id, skill, target)
	s.Require().NoError(err)
	return next
}

func (s *InvariantsTestSuite) claimAnyone(game *models.Game, ids []string) *models.Game {
	for _, id := range ids {
		if !game.Players[id].CanBingo {
			continue
		}
		next, err := ClaimBingo(game, id)
		s.Require().NoError(err)

		for _, other := range ids {
			_, err := ClaimBingo(next, other)
			s.ErrorIs(err, ErrGameFinished)
		}
		return next
	}
	return game
}

// checkMarking asserts that only cells holding the drawn number changed
func (s *InvariantsTestSuite) checkMarking(before, after *models.Game, number int) {
	for id, prev := range before.Players {
		cur := after.Players[id]
		for r := range prev.Rows {
			for c := range prev.Rows[r].Cells {
				was, is := prev.Rows[r].Cells[c], cur.Rows[r].Cells[c]
				s.Equal(was.Number, is.Number)
				if was.Number == number {
					s.True(is.Marked, "cell %d not marked for %s", number, id)
				} else {
					s.Equal(was.Marked, is.Marked, "cell %d changed for %s", was.Number, id)
				}
			}
		}
	}
}

func (s *InvariantsTestSuite) checkInvariants(game *models.Game) {
	size := game.Settings.Range.Size()
	s.Equal(size, len(game.DrawnNumbers)+len(game.AvailableNumbers))

	seen := make(map[int]bool, size)
	for _, d := range game.DrawnNumbers {
		s.False(seen[d.Number], "number %d drawn twice", d.Number)
		seen[d.Number] = true
	}
	for _, n := range game.AvailableNumbers {
		s.False(seen[n], "number %d both drawn and available", n)
		s.True(game.Settings.Range.Contains(n))
		seen[n] = true
	}
	s.Len(seen, size)

	bingoed := 0
	for _, p := range game.Players {
		marked := 0
		for _, row := range p.Rows {
			complete := true
			for _, cell := range row.Cells {
				if cell.Marked {
					marked++
				} else {
					complete = false
				}
			}
			s.Equal(complete, row.IsComplete)
		}
		s.Equal(countCompleteRows(p), p.CompletedRows)
		s.Equal(marked, p.MarkedCount)
		s.Equal(p.CompletedRows > 0 && !p.HasBingoed, p.CanBingo)
		if p.HasBingoed {
			bingoed++
		}
	}
	s.LessOrEqual(bingoed, 1)
	if bingoed == 1 {
		s.Equal(models.GameStatusFinished, game.Status)
	}
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
