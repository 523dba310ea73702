package engine

import (
	"testing"

	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/stretchr/testify/suite"
)

type SkillsTestSuite struct {
	suite.Suite
	game *models.Game
}

// SetupTest leaves alice, bob and carol in a skill phase with 1 and 2 marked
func (s *SkillsTestSuite) SetupTest() {
	settings := smallSettings()
	settings.SkillsEnabled = true
	settings.SkillInterval = 3

	game := newPlayingGame(settings, "alice", "bob", "carol")
	var err error
	for i := 0; i < 2; i++ {
		game, _, err = DrawNumber(game, "alice", orderedSource{}, testNow)
		s.Require().NoError(err)
	}
	s.Require().Equal(models.GameStatusSkillPhase, game.Status)
	s.game = game
}

func TestSkillsTestSuite(t *testing.T) {
	suite.Run(t, new(SkillsTestSuite))
}

func (s *SkillsTestSuite) TestRemoveMarkClearsFirstMarkedCellOfTarget() {
	next, err := UseSkill(s.game, "alice", models.SkillRemoveMark, "bob")
	s.Require().NoError(err)

	bob := next.Players["bob"]
	s.False(bob.Rows[0].Cells[0].Marked)
	s.True(bob.Rows[0].Cells[1].Marked)
	s.Equal(1, bob.MarkedCount)

	s.Equal(2, next.Players["alice"].MarkedCount)
	s.False(next.Players["alice"].HasSkillAvailable)
	s.True(next.Players["bob"].HasSkillAvailable)

	// the stored copy is untouched
	s.True(s.game.Players["bob"].Rows[0].Cells[0].Marked)
}

func (s *SkillsTestSuite) TestAutoMarkMarksFirstUnmarkedCell() {
	next, err := UseSkill(s.game, "bob", models.SkillAutoMark, "")
	s.Require().NoError(err)

	bob := next.Players["bob"]
	s.True(bob.Rows[0].Cells[2].Marked)
	s.False(bob.Rows[0].Cells[3].Marked)
	s.Equal(3, bob.MarkedCount)
}

func (s *SkillsTestSuite) TestAutoMarkCanCompleteRow() {
	game := s.game.Clone()
	bob := game.Players["bob"]
	for i := 0; i < 4; i++ {
		bob.Rows[0].Cells[i].Marked = true
	}
	recomputePlayer(bob)

	next, err := UseSkill(game, "bob", models.SkillAutoMark, "")
	s.Require().NoError(err)
	s.Equal(1, next.Players["bob"].CompletedRows)
	s.True(next.Players["bob"].CanBingo)
	s.True(next.Players["bob"].Rows[0].IsComplete)
}

func (s *SkillsTestSuite) TestIncreaseLuck() {
	next, err := UseSkill(s.game, "carol", models.SkillIncreaseLuck, "")
	s.Require().NoError(err)

	carol := next.Players["carol"]
	s.Equal(LuckMultiplier, carol.LuckBonus)
	s.Equal(LuckDuration, carol.LuckTurnsLeft)
}

func (s *SkillsTestSuite) TestFiftyFiftyOnlySetsFlag() {
	next, err := UseSkill(s.game, "carol", models.SkillFiftyFifty, "")
	s.Require().NoError(err)

	carol := next.Players["carol"]
	s.True(carol.HasFiftyFifty)
	s.Equal(s.game.Players["carol"].Rows, carol.Rows)
	s.Equal(NeutralLuck, carol.LuckBonus)
}

func (s *SkillsTestSuite) TestTargetValidation() {
	testCases := []struct {
		name   string
		skill  models.SkillType
		target string
		err    error
	}{
		{name: "remove mark without target", skill: models.SkillRemoveMark, err: ErrInvalidTarget},
		{name: "remove mark on self", skill: models.SkillRemoveMark, target: "alice", err: ErrInvalidTarget},
		{name: "block unknown player", skill: models.SkillBlockTurn, target: "mallory", err: ErrPlayerNotInGame},
		{name: "block self", skill: models.SkillBlockTurn, target: "alice", err: ErrInvalidTarget},
		{name: "unknown skill", skill: models.SkillType("teleport"), err: ErrUnknownSkill},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			next, err := UseSkill(s.game, "alice", tc.skill, tc.target)
			s.ErrorIs(err, tc.err)
			s.Nil(next)
		})
	}
}

func (s *SkillsTestSuite) TestSkillPreconditions() {
	used, err := UseSkill(s.game, "alice", models.SkillAutoMark, "")
	s.Require().NoError(err)

	_, err = UseSkill(used, "alice", models.SkillAutoMark, "")
	s.ErrorIs(err, ErrSkillUnavailable)

	_, err = UseSkill(s.game, "mallory", models.SkillAutoMark, "")
	s.ErrorIs(err, ErrPlayerNotInGame)

	playing := s.game.Clone()
	playing.Status = models.GameStatusPlaying
	_, err = UseSkill(playing, "alice", models.SkillAutoMark, "")
	s.ErrorIs(err, ErrNotSkillPhase)

	_, err = SkipSkill(playing, "alice")
	s.ErrorIs(err, ErrNotSkillPhase)

	finished := s.game.Clone()
	finished.Status = models.GameStatusFinished
	_, err = UseSkill(finished, "alice", models.SkillAutoMark, "")
	s.ErrorIs(err, ErrGameFinished)
}

func (s *SkillsTestSuite) TestPhaseEndsWhenEveryoneHasDecided() {
	game, err := UseSkill(s.game, "alice", models.SkillIncreaseLuck, "")
	s.Require().NoError(err)
	s.Equal(models.GameStatusSkillPhase, game.Status)

	game, err = SkipSkill(game, "bob")
	s.Require().NoError(err)
	s.Equal(models.GameStatusSkillPhase, game.Status)

	game, err = UseSkill(game, "carol", models.SkillFiftyFifty, "")
	s.Require().NoError(err)
	s.Equal(models.GameStatusPlaying, game.Status)
}

func (s *SkillsTestSuite) TestLeavingPlayerCanEndPhase() {
	game, err := SkipSkill(s.game, "alice")
	s.Require().NoError(err)
	game, err = SkipSkill(game, "bob")
	s.Require().NoError(err)
	s.Equal(models.GameStatusSkillPhase, game.Status)

	game, err = RemovePlayer(game, "carol")
	s.Require().NoError(err)
	s.Equal(models.GameStatusPlaying, game.Status)
}

func (s *SkillsTestSuite) TestResolveSkillPhaseSkipsEveryone() {
	game, err := UseSkill(s.game, "alice", models.SkillAutoMark, "")
	s.Require().NoError(err)

	game, err = ResolveSkillPhase(game)
	s.Require().NoError(err)
	s.Equal(models.GameStatusPlaying, game.Status)
	for _, p := range game.Players {
		s.False(p.HasSkillAvailable)
	}

	_, err = ResolveSkillPhase(game)
	s.ErrorIs(err, ErrNotSkillPhase)
}

func (s *SkillsTestSuite) TestBlockTurnScenario() {
	game, err := UseSkill(s.game, "alice", models.SkillBlockTurn, "bob")
	s.Require().NoError(err)
	s.True(game.Players["bob"].IsBlocked)

	game, err = ResolveSkillPhase(game)
	s.Require().NoError(err)

	_, _, err = DrawNumber(game, "bob", orderedSource{}, testNow)
	s.ErrorIs(err, ErrPlayerBlocked)

	game, _, err = DrawNumber(game, "carol", orderedSource{}, testNow)
	s.Require().NoError(err)
	s.False(game.Players["bob"].IsBlocked)

	_, _, err = DrawNumber(game, "bob", orderedSource{}, testNow)
	s.NoError(err)
}

func (s *SkillsTestSuite) TestPhaseClosingOnEmptyPoolWithoutBingoFinishes() {
	game := s.game.Clone()
	game.AvailableNumbers = nil

	game, err := UseSkill(game, "alice", models.SkillRemoveMark, "bob")
	s.Require().NoError(err)
	game, err = SkipSkill(game, "bob")
	s.Require().NoError(err)
	s.Equal(models.GameStatusSkillPhase, game.Status)

	game, err = SkipSkill(game, "carol")
	s.Require().NoError(err)
	s.Equal(models.GameStatusFinished, game.Status)
	s.Equal(models.EndReasonPoolExhausted, game.EndReason)
	s.Len(game.Results, 3)
}
