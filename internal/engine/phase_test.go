package engine

import (
	"testing"

	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/stretchr/testify/suite"
)

type PhaseTestSuite struct {
	suite.Suite
	waiting *models.Game
}

func (s *PhaseTestSuite) SetupTest() {
	settings := smallSettings()
	settings.MinPlayers = 2

	game, err := NewGame(NewGameInput{
		ID:       "game-1",
		Code:     "ABCDEF",
		Settings: settings,
		Host:     PlayerSpec{ID: "alice", Name: "Alice"},
		Now:      testNow,
	}, orderedSource{})
	s.Require().NoError(err)
	s.waiting = game
}

func TestPhaseTestSuite(t *testing.T) {
	suite.Run(t, new(PhaseTestSuite))
}

func (s *PhaseTestSuite) TestStartRequiresHostAndMinimumPlayers() {
	_, err := Start(s.waiting, "alice")
	s.ErrorIs(err, ErrTooFewPlayers)

	game, err := AddPlayer(s.waiting, PlayerSpec{ID: "bob", Name: "Bob"}, testNow, orderedSource{})
	s.Require().NoError(err)

	_, err = Start(game, "bob")
	s.ErrorIs(err, ErrNotHost)

	_, err = Start(game, "mallory")
	s.ErrorIs(err, ErrPlayerNotInGame)

	started, err := Start(game, "alice")
	s.Require().NoError(err)
	s.Equal(models.GameStatusStarting, started.Status)
	s.Equal(models.GameStatusWaiting, game.Status)

	_, err = Start(started, "alice")
	s.ErrorIs(err, ErrNotWaiting)
}

func (s *PhaseTestSuite) TestBeginPlayOpensFirstTurn() {
	_, err := BeginPlay(s.waiting)
	s.ErrorIs(err, ErrNotStarting)

	game, err := AddPlayer(s.waiting, PlayerSpec{ID: "bob"}, testNow, orderedSource{})
	s.Require().NoError(err)
	game, err = Start(game, "alice")
	s.Require().NoError(err)

	game, err = BeginPlay(game)
	s.Require().NoError(err)
	s.Equal(models.GameStatusPlaying, game.Status)
	s.Equal(1, game.Turn)
}

func (s *PhaseTestSuite) TestBeginPlayReturnsToWaitingBelowMinimum() {
	game, err := AddPlayer(s.waiting, PlayerSpec{ID: "bob"}, testNow, orderedSource{})
	s.Require().NoError(err)
	game, err = Start(game, "alice")
	s.Require().NoError(err)

	game, err = RemovePlayer(game, "bob")
	s.Require().NoError(err)
	s.Equal(models.GameStatusStarting, game.Status)

	game, err = BeginPlay(game)
	s.Require().NoError(err)
	s.Equal(models.GameStatusWaiting, game.Status)
	s.Equal(0, game.Turn)

	_, err = Start(game, "alice")
	s.ErrorIs(err, ErrTooFewPlayers)
}

func (s *PhaseTestSuite) TestClaimWithoutCompletedRowIsRejected() {
	game := newPlayingGame(smallSettings(), "alice", "bob")

	_, err := ClaimBingo(game, "alice")
	s.ErrorIs(err, ErrNoCompletedRow)

	_, err = ClaimBingo(s.waiting, "alice")
	s.ErrorIs(err, ErrNotPlaying)

	_, err = ClaimBingo(game, "mallory")
	s.ErrorIs(err, ErrPlayerNotInGame)
}

func (s *PhaseTestSuite) TestClaimReverifiesCells() {
	game := newPlayingGame(smallSettings(), "alice")

	// cached flag claims a bingo the cells do not back up
	game.Players["alice"].CanBingo = true
	game.Players["alice"].CompletedRows = 1

	_, err := ClaimBingo(game, "alice")
	s.ErrorIs(err, ErrNoCompletedRow)
}

func (s *PhaseTestSuite) TestSingleRowBingoScenario() {
	game := newPlayingGame(smallSettings(), "alice")

	var err error
	for i := 0; i < 5; i++ {
		game, _, err = DrawNumber(game, "alice", orderedSource{}, testNow)
		s.Require().NoError(err)
	}

	alice := game.Players["alice"]
	s.Equal(1, alice.CompletedRows)
	s.True(alice.CanBingo)

	game, err = ClaimBingo(game, "alice")
	s.Require().NoError(err)
	s.Equal(models.GameStatusFinished, game.Status)
	s.Equal("alice", game.WinnerID)
	s.Equal(models.EndReasonBingo, game.EndReason)
	s.True(game.Players["alice"].HasBingoed)
	s.False(game.Players["alice"].CanBingo)

	s.Require().Len(game.Results, 1)
	s.Equal(1, game.Results[0].Rank)
	s.Equal("alice", game.Results[0].PlayerID)
	s.True(game.Results[0].IsWinner)
}

func (s *PhaseTestSuite) TestSimultaneousBingoFirstClaimWins() {
	game := newPlayingGame(smallSettings(), "alice", "bob")

	var err error
	for i := 0; i < 5; i++ {
		game, _, err = DrawNumber(game, "alice", orderedSource{}, testNow)
		s.Require().NoError(err)
	}
	s.True(game.Players["alice"].CanBingo)
	s.True(game.Players["bob"].CanBingo)

	game, err = ClaimBingo(game, "bob")
	s.Require().NoError(err)

	_, err = ClaimBingo(game, "alice")
	s.ErrorIs(err, ErrGameFinished)

	s.Equal("bob", game.WinnerID)
	s.False(game.Players["alice"].HasBingoed)
	s.Equal("bob", game.Results[0].PlayerID)
	s.Equal("alice", game.Results[1].PlayerID)
	s.Equal(2, game.Results[1].Rank)
}

func (s *PhaseTestSuite) TestClaimDuringSkillPhase() {
	settings := smallSettings()
	settings.SkillsEnabled = true
	settings.SkillInterval = 6
	game := newPlayingGame(settings, "alice", "bob")

	var err error
	for i := 0; i < 5; i++ {
		game, _, err = DrawNumber(game, "bob", orderedSource{}, testNow)
		s.Require().NoError(err)
	}
	s.Require().Equal(models.GameStatusSkillPhase, game.Status)

	game, err = ClaimBingo(game, "alice")
	s.Require().NoError(err)
	s.Equal(models.GameStatusFinished, game.Status)
	for _, p := range game.Players {
		s.False(p.HasSkillAvailable)
	}
}

func (s *PhaseTestSuite) TestRosterRules() {
	game, err := AddPlayer(s.waiting, PlayerSpec{ID: "bob"}, testNow, orderedSource{})
	s.Require().NoError(err)
	s.Equal([]string{"alice", "bob"}, game.PlayerOrder)
	s.Equal(1, game.Players["bob"].Seat)
	s.Equal(models.PlayerRolePlayer, game.Players["bob"].Role)
	s.Equal(models.PlayerRoleHost, game.Players["alice"].Role)

	_, err = AddPlayer(game, PlayerSpec{ID: "bob"}, testNow, orderedSource{})
	s.ErrorIs(err, ErrPlayerAlreadyInGame)

	for _, id := range []string{"carol", "dave"} {
		game, err = AddPlayer(game, PlayerSpec{ID: id}, testNow, orderedSource{})
		s.Require().NoError(err)
	}
	_, err = AddPlayer(game, PlayerSpec{ID: "erin"}, testNow, orderedSource{})
	s.ErrorIs(err, ErrGameFull)

	_, err = Kick(game, "bob", "carol")
	s.ErrorIs(err, ErrNotHost)
	_, err = Kick(game, "alice", "alice")
	s.ErrorIs(err, ErrCannotKickSelf)
	_, err = Kick(game, "alice", "mallory")
	s.ErrorIs(err, ErrPlayerNotInGame)

	game, err = Kick(game, "alice", "carol")
	s.Require().NoError(err)
	s.Equal([]string{"alice", "bob", "dave"}, game.PlayerOrder)
	s.NotContains(game.Players, "carol")

	_, err = RemovePlayer(game, "carol")
	s.ErrorIs(err, ErrPlayerNotInGame)

	started, err := Start(game, "alice")
	s.Require().NoError(err)
	_, err = AddPlayer(started, PlayerSpec{ID: "erin"}, testNow, orderedSource{})
	s.ErrorIs(err, ErrNotWaiting)
}

func (s *PhaseTestSuite) TestNewGameRejectsOversizedCard() {
	settings := smallSettings()
	settings.RowCount = 3

	_, err := NewGame(NewGameInput{ID: "g", Settings: settings, Host: PlayerSpec{ID: "alice"}}, orderedSource{})
	s.ErrorIs(err, ErrInsufficientNumbers)
}
