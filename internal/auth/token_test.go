package auth

import (
	"testing"
	"time"

	"github.com/KirkDiggler/bingo/internal/common/clock/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type TokenTestSuite struct {
	suite.Suite
	mockCtrl  *gomock.Controller
	mockClock *mocks.MockClock
	issuer    *Issuer
	now       time.Time
}

func (s *TokenTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = mocks.NewMockClock(s.mockCtrl)
	s.now = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()

	issuer, err := New(&Config{
		Secret: []byte("test-secret"),
		TTL:    time.Hour,
		Clock:  s.mockClock,
	})
	s.Require().NoError(err)
	s.issuer = issuer
}

func (s *TokenTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestTokenTestSuite(t *testing.T) {
	suite.Run(t, new(TokenTestSuite))
}

func (s *TokenTestSuite) TestNewValidatesConfig() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{})
	s.ErrorIs(err, ErrEmptySecret)
}

func (s *TokenTestSuite) TestIssueAndParse() {
	token, err := s.issuer.Issue("room-1", "player-1", "Lan")
	s.Require().NoError(err)

	claims, err := s.issuer.Parse(token)
	s.Require().NoError(err)
	s.Equal("room-1", claims.RoomID)
	s.Equal("player-1", claims.PlayerID())
	s.Equal("Lan", claims.Name)
	s.Equal(DefaultIssuer, claims.Issuer)
	s.Equal(s.now.Add(time.Hour), claims.ExpiresAt.Time.UTC())
}

func (s *TokenTestSuite) TestExpiredToken() {
	token, err := s.issuer.Issue("room-1", "player-1", "Lan")
	s.Require().NoError(err)

	s.now = s.now.Add(2 * time.Hour)

	_, err = s.issuer.Parse(token)
	s.ErrorIs(err, ErrExpiredToken)
}

func (s *TokenTestSuite) TestForeignSignature() {
	other, err := New(&Config{Secret: []byte("other-secret"), Clock: s.mockClock})
	s.Require().NoError(err)

	token, err := other.Issue("room-1", "player-1", "Lan")
	s.Require().NoError(err)

	_, err = s.issuer.Parse(token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *TokenTestSuite) TestMalformedAndEmpty() {
	_, err := s.issuer.Parse("not-a-token")
	s.ErrorIs(err, ErrMalformedToken)

	_, err = s.issuer.Parse("")
	s.ErrorIs(err, ErrEmptyToken)
}
