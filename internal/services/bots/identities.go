package bots

import (
	"fmt"

	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/KirkDiggler/bingo/internal/random"
)

type identity struct {
	Name   string
	Avatar string
}

var identities = []identity{
	{Name: "Bé Na", Avatar: "🐱"},
	{Name: "Anh Tư", Avatar: "🐲"},
	{Name: "Cô Ba", Avatar: "🦊"},
	{Name: "Chú Sáu", Avatar: "🐼"},
	{Name: "Út Mập", Avatar: "🐷"},
	{Name: "Bác Hai", Avatar: "🐢"},
	{Name: "Tèo", Avatar: "🐸"},
	{Name: "Tí Nị", Avatar: "🐰"},
}

// pickIdentity returns a name nobody in the room is using, starting from a
// random offset
func pickIdentity(game *models.Game, rnd random.Source) identity {
	taken := make(map[string]bool, len(game.Players))
	for _, p := range game.Players {
		taken[p.Name] = true
	}

	start := rnd.Intn(len(identities))
	for i := range identities {
		candidate := identities[(start+i)%len(identities)]
		if !taken[candidate.Name] {
			return candidate
		}
	}

	// every name is in use; fall back to a numbered copy
	fallback := identities[start]
	fallback.Name = fmt.Sprintf("%s %d", fallback.Name, len(game.Players)+1)
	return fallback
}
