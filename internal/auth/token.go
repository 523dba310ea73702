package auth

import (
	"errors"
	"time"

	"github.com/KirkDiggler/bingo/internal/common/clock"
	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultTTL    = 12 * time.Hour
	DefaultIssuer = "bingo"
)

// Claims identify a player inside one room. The subject is the player id.
type Claims struct {
	RoomID string `json:"room"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// PlayerID returns the subject
func (c *Claims) PlayerID() string {
	return c.Subject
}

// Config for the token issuer
type Config struct {
	Secret []byte

	// TTL defaults to DefaultTTL
	TTL time.Duration

	// Clock defaults to the wall clock
	Clock clock.Clock

	Issuer string
}

// Issuer signs and verifies HS256 room tokens
type Issuer struct {
	key    []byte
	ttl    time.Duration
	clock  clock.Clock
	issuer string
}

// New creates a new token issuer
func New(cfg *Config) (*Issuer, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if len(cfg.Secret) == 0 {
		return nil, ErrEmptySecret
	}

	i := &Issuer{
		key:    cfg.Secret,
		ttl:    cfg.TTL,
		clock:  cfg.Clock,
		issuer: cfg.Issuer,
	}
	if i.ttl <= 0 {
		i.ttl = DefaultTTL
	}
	if i.clock == nil {
		i.clock = clock.New()
	}
	if i.issuer == "" {
		i.issuer = DefaultIssuer
	}

	return i, nil
}

// Issue creates a token for a player seated in a room
func (i *Issuer) Issue(roomID, playerID, name string) (string, error) {
	now := i.clock.Now()
	claims := Claims{
		RoomID: roomID,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   playerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.key)
}

// Parse verifies a token and returns its claims
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrEmptyToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(i.clock.Now),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.RoomID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
