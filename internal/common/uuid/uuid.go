package uuid

import (
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_uuid.go github.com/KirkDiggler/bingo/internal/common/uuid UUID

type UUID interface {
	NewUUID() string

	// NewCode returns a short human-friendly code, used to join rooms
	NewCode(length int) string
}

// codeAlphabet skips 0/O and 1/I so codes can be read aloud
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// DefaultUUID implements the UUID interface using the uuid package
type DefaultUUID struct{}

func New() *DefaultUUID {
	return &DefaultUUID{}
}

// NewUUID returns a new UUID
func (d *DefaultUUID) NewUUID() string {
	return uuid.New().String()
}

// NewCode takes its randomness from fresh v4 UUIDs
func (d *DefaultUUID) NewCode(length int) string {
	var b strings.Builder
	b.Grow(length)
	for b.Len() < length {
		id := uuid.New()
		for _, by := range id {
			if b.Len() == length {
				break
			}
			b.WriteByte(codeAlphabet[int(by)%len(codeAlphabet)])
		}
	}
	return b.String()
}
