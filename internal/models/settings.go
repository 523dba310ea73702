package models

// NumberRange is an inclusive range of card numbers
type NumberRange struct {
	Min int
	Max int
}

// Size returns how many integers the range holds
func (r NumberRange) Size() int {
	if r.Max < r.Min {
		return 0
	}
	return r.Max - r.Min + 1
}

// Contains reports whether n lies in the range
func (r NumberRange) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// Settings are chosen by the host and immutable after the room is created
type Settings struct {
	Title         string
	MaxPlayers    int
	MinPlayers    int
	SkillsEnabled bool

	// SkillInterval opens a skill phase every N turns
	SkillInterval int

	RowCount    int
	CellsPerRow int
	Range       NumberRange

	// BotsEnabled lets the server fill empty seats with bots
	BotsEnabled bool
}

// DefaultSettings returns the standard 6x5 card on 1-99
func DefaultSettings() Settings {
	return Settings{
		Title:         "Bingo",
		MaxPlayers:    4,
		MinPlayers:    2,
		SkillsEnabled: true,
		SkillInterval: 5,
		RowCount:      6,
		CellsPerRow:   5,
		Range:         NumberRange{Min: 1, Max: 99},
		BotsEnabled:   true,
	}
}
