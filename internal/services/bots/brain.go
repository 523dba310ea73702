package bots

import (
	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/KirkDiggler/bingo/internal/random"
)

// skillChoices are the options a bot weighs in a skill phase. An empty
// skill means skip.
var skillChoices = []models.SkillType{
	models.SkillAutoMark,
	models.SkillIncreaseLuck,
	"",
}

// wantsToClaim reports whether the bot holds a winning card and decides to
// call it this tick
func wantsToClaim(game *models.Game, bot *models.Player, rnd random.Source, chance float64) bool {
	if game.WinnerID != "" || bot.HasBingoed || !bot.CanBingo {
		return false
	}
	return rnd.Float64() < chance
}

// chooseSkill picks a self-targeted skill or skip
func chooseSkill(rnd random.Source) models.SkillType {
	return skillChoices[rnd.Intn(len(skillChoices))]
}
