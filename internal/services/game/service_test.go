package game

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/KirkDiggler/bingo/internal/common/clock"
	"github.com/KirkDiggler/bingo/internal/common/clock/mocks"
	"github.com/KirkDiggler/bingo/internal/common/uuid"
	uuidMocks "github.com/KirkDiggler/bingo/internal/common/uuid/mocks"
	"github.com/KirkDiggler/bingo/internal/engine"
	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/KirkDiggler/bingo/internal/random"
	gameRepo "github.com/KirkDiggler/bingo/internal/repositories/game"
	gameMocks "github.com/KirkDiggler/bingo/internal/repositories/game/mocks"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type scheduledTimer struct {
	delay time.Duration
	fn    func()
}

// fakeScheduler records timers so tests can fire them by hand
type fakeScheduler struct {
	timers         map[string]scheduledTimer
	cancelled      []string
	cancelledRooms []string
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{timers: make(map[string]scheduledTimer)}
}

func (f *fakeScheduler) Schedule(roomID, name string, delay time.Duration, fn func()) {
	f.timers[roomID+"/"+name] = scheduledTimer{delay: delay, fn: fn}
}

func (f *fakeScheduler) Cancel(roomID, name string) {
	delete(f.timers, roomID+"/"+name)
	f.cancelled = append(f.cancelled, roomID+"/"+name)
}

func (f *fakeScheduler) CancelRoom(roomID string) {
	for key := range f.timers {
		if strings.HasPrefix(key, roomID+"/") {
			delete(f.timers, key)
		}
	}
	f.cancelledRooms = append(f.cancelledRooms, roomID)
}

func (f *fakeScheduler) fire(roomID, name string) bool {
	t, ok := f.timers[roomID+"/"+name]
	if !ok {
		return false
	}
	delete(f.timers, roomID+"/"+name)
	t.fn()
	return true
}

type recordingPublisher struct {
	events []*Event
}

func (p *recordingPublisher) Publish(_ context.Context, event *Event) {
	p.events = append(p.events, event)
}

func (p *recordingPublisher) kinds() []EventKind {
	kinds := make([]EventKind, len(p.events))
	for i, e := range p.events {
		kinds[i] = e.Kind
	}
	return kinds
}

type GameServiceTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockGameRepo *gameMocks.MockRepository
	mockClock    *mocks.MockClock
	mockUUID     *uuidMocks.MockUUID
	random       *random.Roller
	scheduler    *fakeScheduler
	publisher    *recordingPublisher
	logHook      *test.Hook
	gameService  *service
	ctx          context.Context

	// Test data
	testTime     time.Time
	testGameID   string
	testCode     string
	testHostID   string
	testPlayerID string
}

func (s *GameServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockGameRepo = gameMocks.NewMockRepository(s.mockCtrl)
	s.mockClock = mocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.random = random.New(&random.Config{Seed: 7})
	s.scheduler = newFakeScheduler()
	s.publisher = &recordingPublisher{}

	s.ctx = context.Background()

	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.testGameID = "test-game-id"
	s.testCode = "ABCDEF"
	s.testHostID = "test-host-id"
	s.testPlayerID = "test-player-id"

	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s.logHook = hook

	svc, err := New(&Config{
		GameRepo:      s.mockGameRepo,
		Random:        s.random,
		Clock:         s.mockClock,
		UUIDGenerator: s.mockUUID,
		Scheduler:     s.scheduler,
		Publisher:     s.publisher,
		Logger:        logger,
	})
	s.Require().NoError(err)
	s.gameService = svc
}

func (s *GameServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestGameServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GameServiceTestSuite))
}

func (s *GameServiceTestSuite) newWaitingGame(playerIDs ...string) *models.Game {
	game, err := engine.NewGame(engine.NewGameInput{
		ID:       s.testGameID,
		Code:     s.testCode,
		Settings: models.DefaultSettings(),
		Host:     engine.PlayerSpec{ID: s.testHostID, Name: "Host"},
		Now:      s.testTime,
	}, s.random)
	s.Require().NoError(err)

	for _, id := range playerIDs {
		game, err = engine.AddPlayer(game, engine.PlayerSpec{ID: id, Name: id}, s.testTime, s.random)
		s.Require().NoError(err)
	}
	return game
}

func (s *GameServiceTestSuite) newPlayingGame() *models.Game {
	game := s.newWaitingGame(s.testPlayerID)

	game, err := engine.Start(game, s.testHostID)
	s.Require().NoError(err)
	game, err = engine.BeginPlay(game)
	s.Require().NoError(err)
	return game
}

// expectUpdate runs the service's mutate function against current, the way
// the repository would
func (s *GameServiceTestSuite) expectUpdate(current *models.Game) *gomock.Call {
	return s.mockGameRepo.EXPECT().UpdateGame(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, input *gameRepo.UpdateGameInput) (*models.Game, error) {
			s.Equal(current.ID, input.GameID)
			next, err := input.Mutate(current.Clone())
			if err != nil {
				return nil, err
			}
			next.Version = current.Version + 1
			return next, nil
		})
}

func (s *GameServiceTestSuite) TestNewValidatesConfig() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{})
	s.ErrorIs(err, ErrNilGameRepo)

	_, err = New(&Config{GameRepo: s.mockGameRepo})
	s.ErrorIs(err, ErrNilRandom)

	_, err = New(&Config{GameRepo: s.mockGameRepo, Random: s.random})
	s.ErrorIs(err, ErrNilClock)

	_, err = New(&Config{GameRepo: s.mockGameRepo, Random: s.random, Clock: s.mockClock})
	s.ErrorIs(err, ErrNilUUIDGenerator)

	_, err = New(&Config{GameRepo: s.mockGameRepo, Random: s.random, Clock: s.mockClock, UUIDGenerator: s.mockUUID})
	s.ErrorIs(err, ErrNilScheduler)

	bad := models.DefaultSettings()
	bad.RowCount = 0
	_, err = New(&Config{
		GameRepo:        s.mockGameRepo,
		Random:          s.random,
		Clock:           s.mockClock,
		UUIDGenerator:   s.mockUUID,
		Scheduler:       s.scheduler,
		DefaultSettings: &bad,
	})
	s.ErrorIs(err, engine.ErrInvalidSettings)
}

func (s *GameServiceTestSuite) TestCreateGame() {
	skills := false
	s.mockGameRepo.EXPECT().GetGameByChannel(s.ctx, &gameRepo.GetGameByChannelInput{ChannelID: "channel-1"}).
		Return(nil, gameRepo.ErrGameNotFound)
	s.mockGameRepo.EXPECT().GetGameByPlayer(s.ctx, &gameRepo.GetGameByPlayerInput{PlayerID: s.testHostID}).
		Return(nil, gameRepo.ErrGameNotFound)
	s.mockUUID.EXPECT().NewUUID().Return(s.testGameID)
	s.mockUUID.EXPECT().NewCode(DefaultCodeLength).Return(s.testCode)
	s.mockGameRepo.EXPECT().CreateGame(s.ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, input *gameRepo.CreateGameInput) error {
			s.Equal(s.testGameID, input.Game.ID)
			s.Equal(s.testCode, input.Game.Code)
			return nil
		})

	output, err := s.gameService.CreateGame(s.ctx, &CreateGameInput{
		HostID:        s.testHostID,
		HostName:      "Host",
		HostAvatar:    "🦊",
		ChannelID:     "channel-1",
		Title:         "Friday night",
		MaxPlayers:    3,
		SkillsEnabled: &skills,
	})
	s.Require().NoError(err)

	game := output.Game
	s.Equal(models.GameStatusWaiting, game.Status)
	s.Equal(s.testHostID, game.HostID)
	s.Equal("channel-1", game.ChannelID)
	s.Equal("Friday night", game.Settings.Title)
	s.Equal(3, game.Settings.MaxPlayers)
	s.False(game.Settings.SkillsEnabled)
	s.Len(game.AvailableNumbers, 99)
	s.Equal([]string{s.testHostID}, game.PlayerOrder)
	s.True(game.Players[s.testHostID].IsHost())
	s.Equal("🦊", game.Players[s.testHostID].Avatar)

	s.Equal([]EventKind{EventRoomCreated}, s.publisher.kinds())
	s.Equal(s.testGameID, s.publisher.events[0].GameID)
}

func (s *GameServiceTestSuite) TestCreateGameRetriesTakenCode() {
	s.mockGameRepo.EXPECT().GetGameByPlayer(s.ctx, gomock.Any()).Return(nil, gameRepo.ErrGameNotFound)
	s.mockUUID.EXPECT().NewUUID().Return(s.testGameID).Times(2)
	gomock.InOrder(
		s.mockUUID.EXPECT().NewCode(DefaultCodeLength).Return("TAKEN1"),
		s.mockUUID.EXPECT().NewCode(DefaultCodeLength).Return(s.testCode),
	)
	gomock.InOrder(
		s.mockGameRepo.EXPECT().CreateGame(s.ctx, gomock.Any()).Return(gameRepo.ErrCodeTaken),
		s.mockGameRepo.EXPECT().CreateGame(s.ctx, gomock.Any()).Return(nil),
	)

	output, err := s.gameService.CreateGame(s.ctx, &CreateGameInput{
		HostID:   s.testHostID,
		HostName: "Host",
	})
	s.Require().NoError(err)
	s.Equal(s.testCode, output.Game.Code)
}

func (s *GameServiceTestSuite) TestCreateGameRejectsBusyChannel() {
	existing := s.newWaitingGame()
	s.mockGameRepo.EXPECT().GetGameByChannel(s.ctx, gomock.Any()).Return(existing, nil)

	_, err := s.gameService.CreateGame(s.ctx, &CreateGameInput{
		HostID:    s.testHostID,
		HostName:  "Host",
		ChannelID: "channel-1",
	})
	s.ErrorIs(err, ErrGameAlreadyExists)
	s.Empty(s.publisher.events)
}

func (s *GameServiceTestSuite) TestCreateGameReplacesFinishedChannelGame() {
	finished := s.newWaitingGame()
	finished.Status = models.GameStatusFinished

	s.mockGameRepo.EXPECT().GetGameByChannel(s.ctx, gomock.Any()).Return(finished, nil)
	s.mockGameRepo.EXPECT().DeleteGame(s.ctx, &gameRepo.DeleteGameInput{GameID: s.testGameID}).Return(nil)
	s.mockGameRepo.EXPECT().GetGameByPlayer(s.ctx, gomock.Any()).Return(finished, nil)
	s.mockUUID.EXPECT().NewUUID().Return("new-game-id")
	s.mockUUID.EXPECT().NewCode(DefaultCodeLength).Return("NEWONE")
	s.mockGameRepo.EXPECT().CreateGame(s.ctx, gomock.Any()).Return(nil)

	output, err := s.gameService.CreateGame(s.ctx, &CreateGameInput{
		HostID:    s.testHostID,
		HostName:  "Host",
		ChannelID: "channel-1",
	})
	s.Require().NoError(err)
	s.Equal("new-game-id", output.Game.ID)
	s.Contains(s.scheduler.cancelledRooms, s.testGameID)
}

func (s *GameServiceTestSuite) TestCreateGameRejectsPlayerInAnotherGame() {
	other := s.newWaitingGame()
	s.mockGameRepo.EXPECT().GetGameByPlayer(s.ctx, gomock.Any()).Return(other, nil)

	_, err := s.gameService.CreateGame(s.ctx, &CreateGameInput{
		HostID:   s.testHostID,
		HostName: "Host",
	})
	s.ErrorIs(err, ErrPlayerInAnotherGame)
}

func (s *GameServiceTestSuite) TestCreateGameValidatesInput() {
	_, err := s.gameService.CreateGame(s.ctx, &CreateGameInput{HostID: s.testHostID})
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.gameService.CreateGame(s.ctx, nil)
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *GameServiceTestSuite) TestJoinGameByCode() {
	waiting := s.newWaitingGame()

	s.mockGameRepo.EXPECT().GetGameByCode(s.ctx, &gameRepo.GetGameByCodeInput{Code: s.testCode}).Return(waiting, nil)
	s.mockGameRepo.EXPECT().GetGameByPlayer(s.ctx, &gameRepo.GetGameByPlayerInput{PlayerID: s.testPlayerID}).
		Return(nil, gameRepo.ErrGameNotFound)
	s.expectUpdate(waiting)

	output, err := s.gameService.JoinGame(s.ctx, &JoinGameInput{
		Code:       s.testCode,
		PlayerID:   s.testPlayerID,
		PlayerName: "Player",
	})
	s.Require().NoError(err)
	s.False(output.AlreadyJoined)
	s.Equal([]string{s.testHostID, s.testPlayerID}, output.Game.PlayerOrder)
	s.Equal(int64(1), output.Game.Version)
	s.Equal(s.testTime, output.Game.UpdatedAt)

	s.Equal([]EventKind{EventPlayerJoined}, s.publisher.kinds())
	s.Equal(s.testPlayerID, s.publisher.events[0].ActorID)
}

func (s *GameServiceTestSuite) TestJoinGameIsIdempotent() {
	waiting := s.newWaitingGame(s.testPlayerID)
	s.mockGameRepo.EXPECT().GetGame(s.ctx, &gameRepo.GetGameInput{GameID: s.testGameID}).Return(waiting, nil)

	output, err := s.gameService.JoinGame(s.ctx, &JoinGameInput{
		GameID:     s.testGameID,
		PlayerID:   s.testPlayerID,
		PlayerName: "Player",
	})
	s.Require().NoError(err)
	s.True(output.AlreadyJoined)
	s.Empty(s.publisher.events)
}

func (s *GameServiceTestSuite) TestJoinGameUnknownCode() {
	s.mockGameRepo.EXPECT().GetGameByCode(s.ctx, gomock.Any()).Return(nil, gameRepo.ErrGameNotFound)

	_, err := s.gameService.JoinGame(s.ctx, &JoinGameInput{
		Code:       "NOPE00",
		PlayerID:   s.testPlayerID,
		PlayerName: "Player",
	})
	s.ErrorIs(err, ErrGameNotFound)
}

func (s *GameServiceTestSuite) TestJoinGameAfterStartIsRejected() {
	playing := s.newPlayingGame()

	s.mockGameRepo.EXPECT().GetGame(s.ctx, gomock.Any()).Return(playing, nil)
	s.mockGameRepo.EXPECT().GetGameByPlayer(s.ctx, gomock.Any()).Return(nil, gameRepo.ErrGameNotFound)
	s.expectUpdate(playing)

	_, err := s.gameService.JoinGame(s.ctx, &JoinGameInput{
		GameID:     s.testGameID,
		PlayerID:   "late",
		PlayerName: "Late",
	})
	s.ErrorIs(err, engine.ErrNotWaiting)
	s.Empty(s.publisher.events)
}

func (s *GameServiceTestSuite) TestAddBot() {
	waiting := s.newWaitingGame()
	s.mockUUID.EXPECT().NewUUID().Return("abc")
	s.expectUpdate(waiting)

	output, err := s.gameService.AddBot(s.ctx, &AddBotInput{
		GameID: s.testGameID,
		Name:   "Sakura",
		Avatar: "🌸",
	})
	s.Require().NoError(err)
	s.Equal("bot-abc", output.BotID)
	s.True(output.Game.Players["bot-abc"].IsBot)
	s.Equal(1, output.Game.BotCount())
}

func (s *GameServiceTestSuite) TestStartGameRunsCountdown() {
	waiting := s.newWaitingGame(s.testPlayerID)
	s.expectUpdate(waiting)

	output, err := s.gameService.StartGame(s.ctx, &StartGameInput{
		GameID:   s.testGameID,
		PlayerID: s.testHostID,
	})
	s.Require().NoError(err)
	s.Equal(models.GameStatusStarting, output.Game.Status)
	s.Equal(s.testTime.Add(DefaultStartDelay), output.StartsAt)

	timer, ok := s.scheduler.timers[s.testGameID+"/"+TimerStartCountdown]
	s.Require().True(ok)
	s.Equal(DefaultStartDelay, timer.delay)

	s.expectUpdate(output.Game)
	s.True(s.scheduler.fire(s.testGameID, TimerStartCountdown))

	s.Equal([]EventKind{EventGameStarting, EventGameStarted}, s.publisher.kinds())
	started := s.publisher.events[1].Game
	s.Equal(models.GameStatusPlaying, started.Status)
	s.Equal(1, started.Turn)
}

func (s *GameServiceTestSuite) TestStartGameByNonHost() {
	waiting := s.newWaitingGame(s.testPlayerID)
	s.expectUpdate(waiting)

	_, err := s.gameService.StartGame(s.ctx, &StartGameInput{
		GameID:   s.testGameID,
		PlayerID: s.testPlayerID,
	})
	s.ErrorIs(err, engine.ErrNotHost)
	s.Empty(s.scheduler.timers)
}

func (s *GameServiceTestSuite) TestCountdownForClosedRoomIsSkipped() {
	waiting := s.newWaitingGame(s.testPlayerID)
	s.expectUpdate(waiting)

	_, err := s.gameService.StartGame(s.ctx, &StartGameInput{GameID: s.testGameID, PlayerID: s.testHostID})
	s.Require().NoError(err)

	s.mockGameRepo.EXPECT().UpdateGame(gomock.Any(), gomock.Any()).Return(nil, gameRepo.ErrGameNotFound)
	s.True(s.scheduler.fire(s.testGameID, TimerStartCountdown))

	s.Equal([]EventKind{EventGameStarting}, s.publisher.kinds())
	s.Require().NotNil(s.logHook.LastEntry())
	s.Equal(logrus.DebugLevel, s.logHook.LastEntry().Level)
}

func (s *GameServiceTestSuite) TestCountdownCancelledWhenPlayersLeave() {
	waiting := s.newWaitingGame(s.testPlayerID)
	s.expectUpdate(waiting)

	started, err := s.gameService.StartGame(s.ctx, &StartGameInput{GameID: s.testGameID, PlayerID: s.testHostID})
	s.Require().NoError(err)

	s.mockGameRepo.EXPECT().GetGame(s.ctx, &gameRepo.GetGameInput{GameID: s.testGameID}).Return(started.Game, nil)
	s.expectUpdate(started.Game)
	left, err := s.gameService.LeaveGame(s.ctx, &LeaveGameInput{GameID: s.testGameID, PlayerID: s.testPlayerID})
	s.Require().NoError(err)
	s.Equal(models.GameStatusStarting, left.Game.Status)

	s.expectUpdate(left.Game)
	s.True(s.scheduler.fire(s.testGameID, TimerStartCountdown))

	s.Equal([]EventKind{EventGameStarting, EventPlayerLeft, EventStartCancelled}, s.publisher.kinds())
	s.Equal(models.GameStatusWaiting, s.publisher.events[2].Game.Status)
}

func (s *GameServiceTestSuite) TestDrawNumberOpensSkillPhaseWithTimeout() {
	playing := s.newPlayingGame()
	playing.Turn = 4
	s.expectUpdate(playing)

	output, err := s.gameService.DrawNumber(s.ctx, &DrawNumberInput{
		GameID:   s.testGameID,
		PlayerID: s.testPlayerID,
	})
	s.Require().NoError(err)
	s.Equal(models.GameStatusSkillPhase, output.Game.Status)
	s.Equal(output.Drawn.Number, output.Game.LastDrawn)
	s.Equal(s.testPlayerID, output.Drawn.DrawerID)

	s.Equal([]EventKind{EventNumberDrawn, EventSkillPhaseStarted}, s.publisher.kinds())
	s.Equal(output.Drawn.Number, s.publisher.events[0].Number)

	timer, ok := s.scheduler.timers[s.testGameID+"/"+TimerSkillPhase]
	s.Require().True(ok)
	s.Equal(DefaultSkillPhaseTimeout, timer.delay)

	s.expectUpdate(output.Game)
	s.True(s.scheduler.fire(s.testGameID, TimerSkillPhase))

	s.Equal([]EventKind{EventNumberDrawn, EventSkillPhaseStarted, EventSkillPhaseEnded}, s.publisher.kinds())
	resumed := s.publisher.events[2].Game
	s.Equal(models.GameStatusPlaying, resumed.Status)
	for _, p := range resumed.Players {
		s.False(p.HasSkillAvailable)
	}
}

func (s *GameServiceTestSuite) TestSkillPhaseEndsWhenEveryoneDecides() {
	skillPhase := s.newPlayingGame()
	skillPhase.Status = models.GameStatusSkillPhase
	for _, p := range skillPhase.Players {
		p.HasSkillAvailable = true
	}
	s.scheduler.Schedule(s.testGameID, TimerSkillPhase, time.Minute, func() {})

	s.expectUpdate(skillPhase)
	used, err := s.gameService.UseSkill(s.ctx, &UseSkillInput{
		GameID:   s.testGameID,
		PlayerID: s.testHostID,
		Skill:    models.SkillBlockTurn,
		TargetID: s.testPlayerID,
	})
	s.Require().NoError(err)
	s.True(used.Game.Players[s.testPlayerID].IsBlocked)

	s.expectUpdate(used.Game)
	skipped, err := s.gameService.SkipSkill(s.ctx, &SkipSkillInput{
		GameID:   s.testGameID,
		PlayerID: s.testPlayerID,
	})
	s.Require().NoError(err)
	s.Equal(models.GameStatusPlaying, skipped.Game.Status)

	s.Equal([]EventKind{EventSkillUsed, EventSkillSkipped, EventSkillPhaseEnded}, s.publisher.kinds())
	s.Equal(models.SkillBlockTurn, s.publisher.events[0].Skill)
	s.Equal(s.testPlayerID, s.publisher.events[0].TargetID)
	s.Contains(s.scheduler.cancelled, s.testGameID+"/"+TimerSkillPhase)
	s.Empty(s.scheduler.timers)
}

func (s *GameServiceTestSuite) TestUseSkillRejections() {
	_, err := s.gameService.UseSkill(s.ctx, &UseSkillInput{
		GameID:   s.testGameID,
		PlayerID: s.testHostID,
		Skill:    models.SkillType("teleport"),
	})
	s.ErrorIs(err, engine.ErrUnknownSkill)

	noSkills := s.newPlayingGame()
	noSkills.Settings.SkillsEnabled = false
	s.expectUpdate(noSkills)

	_, err = s.gameService.UseSkill(s.ctx, &UseSkillInput{
		GameID:   s.testGameID,
		PlayerID: s.testHostID,
		Skill:    models.SkillAutoMark,
	})
	s.ErrorIs(err, ErrFeatureUnavailable)
}

func (s *GameServiceTestSuite) TestDrawNumberRuleViolationChangesNothing() {
	playing := s.newPlayingGame()
	playing.Players[s.testPlayerID].IsBlocked = true
	s.expectUpdate(playing)

	_, err := s.gameService.DrawNumber(s.ctx, &DrawNumberInput{
		GameID:   s.testGameID,
		PlayerID: s.testPlayerID,
	})
	s.ErrorIs(err, engine.ErrPlayerBlocked)
	s.Empty(s.publisher.events)
}

func (s *GameServiceTestSuite) TestClaimBingoFinishesGame() {
	playing := s.newPlayingGame()
	host := playing.Players[s.testHostID]
	for i := range host.Rows[0].Cells {
		host.Rows[0].Cells[i].Marked = true
	}
	host.Rows[0].IsComplete = true
	host.CompletedRows = 1
	host.MarkedCount = len(host.Rows[0].Cells)
	host.CanBingo = true
	s.scheduler.Schedule(s.testGameID, "bot_decide", time.Second, func() {})

	s.expectUpdate(playing)
	output, err := s.gameService.ClaimBingo(s.ctx, &ClaimBingoInput{
		GameID:   s.testGameID,
		PlayerID: s.testHostID,
	})
	s.Require().NoError(err)
	s.Equal(models.GameStatusFinished, output.Game.Status)
	s.Equal(s.testHostID, output.Game.WinnerID)
	s.Require().Len(output.Results, 2)
	s.Equal(s.testHostID, output.Results[0].PlayerID)
	s.True(output.Results[0].IsWinner)

	s.Equal([]EventKind{EventBingo, EventGameFinished}, s.publisher.kinds())
	s.Contains(s.scheduler.cancelledRooms, s.testGameID)
	s.Empty(s.scheduler.timers)
}

func (s *GameServiceTestSuite) TestClaimBingoWithoutRow() {
	playing := s.newPlayingGame()
	s.expectUpdate(playing)

	_, err := s.gameService.ClaimBingo(s.ctx, &ClaimBingoInput{
		GameID:   s.testGameID,
		PlayerID: s.testPlayerID,
	})
	s.ErrorIs(err, engine.ErrNoCompletedRow)
}

func (s *GameServiceTestSuite) TestHostLeavingClosesRoom() {
	playing := s.newPlayingGame()
	s.mockGameRepo.EXPECT().GetGame(s.ctx, gomock.Any()).Return(playing, nil)
	s.mockGameRepo.EXPECT().DeleteGame(s.ctx, &gameRepo.DeleteGameInput{GameID: s.testGameID}).Return(nil)

	output, err := s.gameService.LeaveGame(s.ctx, &LeaveGameInput{
		GameID:   s.testGameID,
		PlayerID: s.testHostID,
	})
	s.Require().NoError(err)
	s.True(output.Closed)
	s.Nil(output.Game)

	s.Equal([]EventKind{EventRoomClosed}, s.publisher.kinds())
	s.Contains(s.scheduler.cancelledRooms, s.testGameID)
}

func (s *GameServiceTestSuite) TestPlayerLeaving() {
	waiting := s.newWaitingGame(s.testPlayerID)
	s.mockGameRepo.EXPECT().GetGame(s.ctx, gomock.Any()).Return(waiting, nil)
	s.expectUpdate(waiting)

	output, err := s.gameService.LeaveGame(s.ctx, &LeaveGameInput{
		GameID:   s.testGameID,
		PlayerID: s.testPlayerID,
	})
	s.Require().NoError(err)
	s.False(output.Closed)
	s.NotContains(output.Game.Players, s.testPlayerID)
	s.Equal([]EventKind{EventPlayerLeft}, s.publisher.kinds())
}

func (s *GameServiceTestSuite) TestLeaveGameNotSeated() {
	waiting := s.newWaitingGame()
	s.mockGameRepo.EXPECT().GetGame(s.ctx, gomock.Any()).Return(waiting, nil)

	_, err := s.gameService.LeaveGame(s.ctx, &LeaveGameInput{
		GameID:   s.testGameID,
		PlayerID: "stranger",
	})
	s.ErrorIs(err, engine.ErrPlayerNotInGame)
}

func (s *GameServiceTestSuite) TestKickPlayer() {
	waiting := s.newWaitingGame(s.testPlayerID)
	s.expectUpdate(waiting)

	output, err := s.gameService.KickPlayer(s.ctx, &KickPlayerInput{
		GameID:   s.testGameID,
		PlayerID: s.testHostID,
		TargetID: s.testPlayerID,
	})
	s.Require().NoError(err)
	s.NotContains(output.Game.Players, s.testPlayerID)
	s.Equal([]EventKind{EventPlayerKicked}, s.publisher.kinds())
	s.Equal(s.testPlayerID, s.publisher.events[0].TargetID)
}

func (s *GameServiceTestSuite) TestGetResults() {
	playing := s.newPlayingGame()
	s.mockGameRepo.EXPECT().GetGame(s.ctx, gomock.Any()).Return(playing, nil)

	_, err := s.gameService.GetResults(s.ctx, &GetResultsInput{GameID: s.testGameID})
	s.ErrorIs(err, ErrGameNotFinished)

	finished := playing.Clone()
	finished.Status = models.GameStatusFinished
	finished.EndReason = models.EndReasonPoolExhausted
	finished.Results = engine.Rank(finished.OrderedPlayers(), "")
	s.mockGameRepo.EXPECT().GetGame(s.ctx, gomock.Any()).Return(finished, nil)

	output, err := s.gameService.GetResults(s.ctx, &GetResultsInput{GameID: s.testGameID})
	s.Require().NoError(err)
	s.Len(output.Results, 2)
	s.Equal(models.EndReasonPoolExhausted, output.EndReason)
	s.Empty(output.WinnerID)
}

func (s *GameServiceTestSuite) TestListOpenGames() {
	waiting := s.newWaitingGame()
	s.mockGameRepo.EXPECT().ListOpenGames(s.ctx, &gameRepo.ListOpenGamesInput{Limit: 5}).
		Return(&gameRepo.ListOpenGamesOutput{Games: []*models.Game{waiting}}, nil)

	output, err := s.gameService.ListOpenGames(s.ctx, &ListOpenGamesInput{Limit: 5})
	s.Require().NoError(err)
	s.Len(output.Games, 1)
}

func TestFinishedRoomDoesNotFreeSeatedPlayer(t *testing.T) {
	ctx := context.Background()
	repo := gameRepo.NewMemory()
	logger, _ := test.NewNullLogger()

	svc, err := New(&Config{
		GameRepo:      repo,
		Random:        random.New(&random.Config{Seed: 3}),
		Clock:         clock.New(),
		UUIDGenerator: uuid.New(),
		Scheduler:     newFakeScheduler(),
		Publisher:     &recordingPublisher{},
		Logger:        logger,
	})
	require.NoError(t, err)

	first, err := svc.CreateGame(ctx, &CreateGameInput{HostID: "host", HostName: "Host"})
	require.NoError(t, err)
	for _, id := range []string{"mover", "leaver"} {
		_, err = svc.JoinGame(ctx, &JoinGameInput{GameID: first.Game.ID, PlayerID: id, PlayerName: id})
		require.NoError(t, err)
	}

	_, err = repo.UpdateGame(ctx, &gameRepo.UpdateGameInput{
		GameID: first.Game.ID,
		Mutate: func(current *models.Game) (*models.Game, error) {
			next := current.Clone()
			next.Status = models.GameStatusFinished
			return next, nil
		},
	})
	require.NoError(t, err)

	// a finished room lets its players move on
	second, err := svc.CreateGame(ctx, &CreateGameInput{HostID: "mover", HostName: "Mover"})
	require.NoError(t, err)

	_, err = svc.LeaveGame(ctx, &LeaveGameInput{GameID: first.Game.ID, PlayerID: "leaver"})
	require.NoError(t, err)

	_, err = svc.CreateGame(ctx, &CreateGameInput{HostID: "mover", HostName: "Mover"})
	assert.ErrorIs(t, err, ErrPlayerInAnotherGame)

	third, err := svc.CreateGame(ctx, &CreateGameInput{HostID: "other", HostName: "Other"})
	require.NoError(t, err)
	_, err = svc.JoinGame(ctx, &JoinGameInput{GameID: third.Game.ID, PlayerID: "mover", PlayerName: "Mover"})
	assert.ErrorIs(t, err, ErrPlayerInAnotherGame)

	current, err := repo.GetGameByPlayer(ctx, &gameRepo.GetGameByPlayerInput{PlayerID: "mover"})
	require.NoError(t, err)
	assert.Equal(t, second.Game.ID, current.ID)
}
