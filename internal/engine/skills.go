package engine

import (
	"github.com/KirkDiggler/bingo/internal/models"
)

const (
	// LuckMultiplier is the bonus granted by increase_luck
	LuckMultiplier = 1.5

	// LuckDuration is how many draws the bonus lasts
	LuckDuration = 3
)

// UseSkill applies one skill for the caller during a skill phase
func UseSkill(game *models.Game, playerID string, skill models.SkillType, targetID string) (*models.Game, error) {
	caller, err := skillCaller(game, playerID)
	if err != nil {
		return nil, err
	}
	if !caller.HasSkillAvailable {
		return nil, ErrSkillUnavailable
	}

	next := game.Clone()
	caller = next.Players[playerID]

	switch skill {
	case models.SkillRemoveMark:
		target, err := skillTarget(next, playerID, targetID)
		if err != nil {
			return nil, err
		}
		unmarkFirst(target)
		recomputePlayer(target)
	case models.SkillAutoMark:
		markFirstUnmarked(caller)
		recomputePlayer(caller)
	case models.SkillIncreaseLuck:
		caller.LuckBonus = LuckMultiplier
		caller.LuckTurnsLeft = LuckDuration
	case models.SkillBlockTurn:
		target, err := skillTarget(next, playerID, targetID)
		if err != nil {
			return nil, err
		}
		target.IsBlocked = true
	case models.SkillFiftyFifty:
		caller.HasFiftyFifty = true
	default:
		return nil, ErrUnknownSkill
	}

	caller.HasSkillAvailable = false
	closeSkillPhaseIfDone(next)
	settleExhaustedPool(next)

	return next, nil
}

// SkipSkill gives up the caller's skill for this phase
func SkipSkill(game *models.Game, playerID string) (*models.Game, error) {
	if _, err := skillCaller(game, playerID); err != nil {
		return nil, err
	}

	next := game.Clone()
	next.Players[playerID].HasSkillAvailable = false
	closeSkillPhaseIfDone(next)
	settleExhaustedPool(next)

	return next, nil
}

// ResolveSkillPhase skips for everyone still deciding and resumes play
func ResolveSkillPhase(game *models.Game) (*models.Game, error) {
	if game.Status != models.GameStatusSkillPhase {
		return nil, ErrNotSkillPhase
	}

	next := game.Clone()
	for _, p := range next.Players {
		p.HasSkillAvailable = false
	}
	next.Status = models.GameStatusPlaying
	settleExhaustedPool(next)

	return next, nil
}

func skillCaller(game *models.Game, playerID string) (*models.Player, error) {
	if game.Status == models.GameStatusFinished {
		return nil, ErrGameFinished
	}
	if game.Status != models.GameStatusSkillPhase {
		return nil, ErrNotSkillPhase
	}
	caller, ok := game.Players[playerID]
	if !ok {
		return nil, ErrPlayerNotInGame
	}
	return caller, nil
}

func skillTarget(game *models.Game, callerID, targetID string) (*models.Player, error) {
	if targetID == "" || targetID == callerID {
		return nil, ErrInvalidTarget
	}
	target, ok := game.Players[targetID]
	if !ok {
		return nil, ErrPlayerNotInGame
	}
	return target, nil
}

func openSkillPhase(game *models.Game) {
	game.Status = models.GameStatusSkillPhase
	for _, p := range game.Players {
		p.HasSkillAvailable = true
	}
}

func closeSkillPhaseIfDone(game *models.Game) {
	if game.Status != models.GameStatusSkillPhase {
		return
	}
	for _, p := range game.Players {
		if p.HasSkillAvailable {
			return
		}
	}
	game.Status = models.GameStatusPlaying
}

// unmarkFirst clears the first marked cell in row-major order
func unmarkFirst(p *models.Player) {
	for r := range p.Rows {
		for c := range p.Rows[r].Cells {
			if p.Rows[r].Cells[c].Marked {
				p.Rows[r].Cells[c].Marked = false
				return
			}
		}
	}
}

// markFirstUnmarked marks the first unmarked cell in row-major order
func markFirstUnmarked(p *models.Player) {
	for r := range p.Rows {
		for c := range p.Rows[r].Cells {
			if !p.Rows[r].Cells[c].Marked {
				p.Rows[r].Cells[c].Marked = true
				return
			}
		}
	}
}
