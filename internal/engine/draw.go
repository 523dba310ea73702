package engine

import (
	"time"

	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/KirkDiggler/bingo/internal/random"
)

// NeutralLuck is the luck bonus of a player with no active luck skill
const NeutralLuck = 1.0

// DrawNumber draws one number for the acting player and applies every
// consequence of the draw to a copy of the game: marking, luck decay,
// unblocking, the turn counter and skill phase entry.
func DrawNumber(game *models.Game, playerID string, rnd random.Source, now time.Time) (*models.Game, models.DrawnNumber, error) {
	if game.Status == models.GameStatusFinished {
		return nil, models.DrawnNumber{}, ErrGameFinished
	}
	if game.Status != models.GameStatusPlaying {
		return nil, models.DrawnNumber{}, ErrNotPlaying
	}
	actor, ok := game.Players[playerID]
	if !ok {
		return nil, models.DrawnNumber{}, ErrPlayerNotInGame
	}
	if actor.IsBlocked && !everyoneBlocked(game) {
		return nil, models.DrawnNumber{}, ErrPlayerBlocked
	}
	if len(game.AvailableNumbers) == 0 {
		return nil, models.DrawnNumber{}, ErrPoolExhausted
	}

	next := game.Clone()
	actor = next.Players[playerID]

	idx := chooseIndex(next.AvailableNumbers, actor, rnd)
	number := next.AvailableNumbers[idx]
	next.AvailableNumbers = append(next.AvailableNumbers[:idx], next.AvailableNumbers[idx+1:]...)

	drawn := models.DrawnNumber{
		Number:     number,
		DrawerID:   actor.ID,
		DrawerName: actor.Name,
		Timestamp:  now,
	}
	next.DrawnNumbers = append(next.DrawnNumbers, drawn)
	next.LastDrawn = number

	for _, p := range next.Players {
		markNumber(p, number)
		recomputePlayer(p)

		if p.LuckTurnsLeft > 0 {
			p.LuckTurnsLeft--
			if p.LuckTurnsLeft == 0 {
				p.LuckBonus = NeutralLuck
			}
		}

		p.IsBlocked = false
	}

	next.Turn++
	if next.Settings.SkillsEnabled && next.Settings.SkillInterval > 0 && next.Turn%next.Settings.SkillInterval == 0 {
		openSkillPhase(next)
	}

	settleExhaustedPool(next)

	return next, drawn, nil
}

// chooseIndex picks a pool index. With probability luckBonus-1 the pick is
// restricted to numbers still unmarked on the player's card.
func chooseIndex(available []int, p *models.Player, rnd random.Source) int {
	if p.LuckBonus > NeutralLuck && rnd.Float64() < p.LuckBonus-NeutralLuck {
		unmarked := make(map[int]struct{})
		for _, n := range p.UnmarkedNumbers() {
			unmarked[n] = struct{}{}
		}

		var candidates []int
		for i, n := range available {
			if _, ok := unmarked[n]; ok {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) > 0 {
			return candidates[rnd.Intn(len(candidates))]
		}
	}
	return rnd.Intn(len(available))
}

// everyoneBlocked voids blocks that would otherwise stall the game
func everyoneBlocked(game *models.Game) bool {
	for _, p := range game.Players {
		if !p.IsBlocked {
			return false
		}
	}
	return true
}

func anyoneCanBingo(game *models.Game) bool {
	for _, p := range game.Players {
		if p.CanBingo {
			return true
		}
	}
	return false
}
