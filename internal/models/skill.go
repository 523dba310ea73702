package models

// SkillType is one of the five skill effects
type SkillType string

const (
	SkillRemoveMark   SkillType = "remove_mark"
	SkillAutoMark     SkillType = "auto_mark"
	SkillIncreaseLuck SkillType = "increase_luck"
	SkillBlockTurn    SkillType = "block_turn"
	SkillFiftyFifty   SkillType = "fifty_fifty"
)

// AllSkills lists the skill types in display order
var AllSkills = []SkillType{
	SkillRemoveMark,
	SkillAutoMark,
	SkillIncreaseLuck,
	SkillBlockTurn,
	SkillFiftyFifty,
}

// NeedsTarget reports whether the skill is aimed at another player
func (s SkillType) NeedsTarget() bool {
	return s == SkillRemoveMark || s == SkillBlockTurn
}

// IsValid reports whether s is a known skill
func (s SkillType) IsValid() bool {
	for _, skill := range AllSkills {
		if skill == s {
			return true
		}
	}
	return false
}
