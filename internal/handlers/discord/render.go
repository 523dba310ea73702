package discord

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/bwmarrin/discordgo"
)

const (
	colorWaiting  = 0x3498db
	colorPlaying  = 0x2ecc71
	colorSkill    = 0x9b59b6
	colorFinished = 0xf1c40f
	colorError    = 0xff0000
)

var statusLabels = map[models.GameStatus]string{
	models.GameStatusWaiting:    "⏳ Đang chờ người chơi",
	models.GameStatusStarting:   "🚦 Sắp bắt đầu",
	models.GameStatusPlaying:    "🎱 Đang bốc số",
	models.GameStatusSkillPhase: "✨ Lượt kỹ năng",
	models.GameStatusFinished:   "🏁 Đã kết thúc",
}

type skillLabel struct {
	Label string
	Emoji string
}

var skillLabels = map[models.SkillType]skillLabel{
	models.SkillRemoveMark:   {Label: "Xoá dấu", Emoji: "🧽"},
	models.SkillAutoMark:     {Label: "Tự đánh dấu", Emoji: "🎯"},
	models.SkillIncreaseLuck: {Label: "Tăng may mắn", Emoji: "🍀"},
	models.SkillBlockTurn:    {Label: "Chặn lượt", Emoji: "🚫"},
	models.SkillFiftyFifty:   {Label: "50/50", Emoji: "🎲"},
}

func statusLabel(status models.GameStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

func colorFor(status models.GameStatus) int {
	switch status {
	case models.GameStatusPlaying, models.GameStatusStarting:
		return colorPlaying
	case models.GameStatusSkillPhase:
		return colorSkill
	case models.GameStatusFinished:
		return colorFinished
	default:
		return colorWaiting
	}
}

// renderGameMessage builds the shared channel embed. line is the latest event text.
func renderGameMessage(g *models.Game, line string) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Trạng thái",
			Value:  statusLabel(g.Status),
			Inline: true,
		},
		{
			Name:   "Người chơi",
			Value:  fmt.Sprintf("%d/%d", len(g.PlayerOrder), g.Settings.MaxPlayers),
			Inline: true,
		},
		{
			Name:   "Mã phòng",
			Value:  fmt.Sprintf("`%s`", g.Code),
			Inline: true,
		},
	}

	if g.Turn > 0 {
		last := "-"
		if g.LastDrawn > 0 {
			last = fmt.Sprintf("**%d**", g.LastDrawn)
		}
		fields = append(fields,
			&discordgo.MessageEmbedField{Name: "Lượt", Value: fmt.Sprintf("%d", g.Turn), Inline: true},
			&discordgo.MessageEmbedField{Name: "Số vừa bốc", Value: last, Inline: true},
			&discordgo.MessageEmbedField{Name: "Còn lại", Value: fmt.Sprintf("%d", len(g.AvailableNumbers)), Inline: true},
		)
	}

	fields = append(fields, &discordgo.MessageEmbedField{
		Name:  "Bàn chơi",
		Value: renderRoster(g),
	})

	if len(g.DrawnNumbers) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Đã bốc",
			Value: renderDrawLog(g.DrawnNumbers, 15),
		})
	}

	if g.Status == models.GameStatusFinished && len(g.Results) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Bảng xếp hạng",
			Value: renderResults(g.Results),
		})
	}

	title := g.Settings.Title
	if title == "" {
		title = "Bingo"
	}

	return &discordgo.MessageEmbed{
		Title:       "🎱 " + title,
		Description: line,
		Color:       colorFor(g.Status),
		Fields:      fields,
	}
}

func renderRoster(g *models.Game) string {
	if len(g.PlayerOrder) == 0 {
		return "Chưa có ai"
	}

	var sb strings.Builder
	for _, p := range g.OrderedPlayers() {
		sb.WriteString(playerLabel(p))
		if g.Turn > 0 {
			sb.WriteString(fmt.Sprintf(" · %d ô · %d hàng", p.MarkedCount, p.CompletedRows))
		}

		var flags []string
		if p.IsHost() {
			flags = append(flags, "👑")
		}
		if p.CanBingo && !p.HasBingoed {
			flags = append(flags, "🔥")
		}
		if p.IsBlocked {
			flags = append(flags, "🚫")
		}
		if p.LuckTurnsLeft > 0 {
			flags = append(flags, "🍀")
		}
		if g.Status == models.GameStatusSkillPhase && p.HasSkillAvailable {
			flags = append(flags, "✨")
		}
		if len(flags) > 0 {
			sb.WriteString(" " + strings.Join(flags, ""))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func playerLabel(p *models.Player) string {
	avatar := p.Avatar
	if avatar == "" || strings.HasPrefix(avatar, "http") {
		avatar = "👤"
		if p.IsBot {
			avatar = "🤖"
		}
	}
	return fmt.Sprintf("%s **%s**", avatar, p.Name)
}

// renderDrawLog shows the most recent draws, newest first
func renderDrawLog(drawn []models.DrawnNumber, limit int) string {
	start := 0
	if len(drawn) > limit {
		start = len(drawn) - limit
	}

	numbers := make([]string, 0, len(drawn)-start)
	for i := len(drawn) - 1; i >= start; i-- {
		numbers = append(numbers, fmt.Sprintf("%d", drawn[i].Number))
	}

	out := strings.Join(numbers, " · ")
	if start > 0 {
		out += " …"
	}
	return out
}

// renderResults prints the final ranking, one line per player
func renderResults(results []models.RankedResult) string {
	var sb strings.Builder
	for _, r := range results {
		medal := fmt.Sprintf("%d.", r.Rank)
		switch r.Rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		sb.WriteString(fmt.Sprintf("%s **%s** · %d hàng · %d ô", medal, r.Name, r.CompletedRows, r.MarkedCount))
		if r.IsWinner {
			sb.WriteString(" 🏆")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderCard draws a player's card as a monospace grid. Marked cells are bracketed.
func renderCard(p *models.Player, lastDrawn int) string {
	var sb strings.Builder
	sb.WriteString("```\n")
	for _, row := range p.Rows {
		for _, cell := range row.Cells {
			switch {
			case cell.Marked && cell.Number == lastDrawn:
				sb.WriteString(fmt.Sprintf("<%2d>", cell.Number))
			case cell.Marked:
				sb.WriteString(fmt.Sprintf("[%2d]", cell.Number))
			default:
				sb.WriteString(fmt.Sprintf(" %2d ", cell.Number))
			}
		}
		if row.IsComplete {
			sb.WriteString(" ★")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("```")
	return sb.String()
}

func renderCardEmbed(g *models.Game, p *models.Player) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Đã đánh", Value: fmt.Sprintf("%d", p.MarkedCount), Inline: true},
		{Name: "Hàng đủ", Value: fmt.Sprintf("%d", p.CompletedRows), Inline: true},
	}
	if p.LuckTurnsLeft > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "May mắn",
			Value:  fmt.Sprintf("x%.1f (%d lượt)", p.LuckBonus, p.LuckTurnsLeft),
			Inline: true,
		})
	}

	description := renderCard(p, g.LastDrawn)
	if p.CanBingo && !p.HasBingoed {
		description += "\nBạn đã đủ một hàng, hô **BINGO** đi!"
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Vé của %s", p.Name),
		Description: description,
		Color:       colorFor(g.Status),
		Fields:      fields,
	}
}

func renderResultsEmbed(g *models.Game, title, message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: message + "\n\n" + renderResults(g.Results),
		Color:       colorFinished,
	}
}

// gameComponents returns the buttons that fit the current phase
func gameComponents(g *models.Game) []discordgo.MessageComponent {
	cardButton := discordgo.Button{
		Label:    "Xem vé",
		Style:    discordgo.SecondaryButton,
		CustomID: ButtonCard,
		Emoji:    &discordgo.ComponentEmoji{Name: "🎫"},
	}

	switch g.Status {
	case models.GameStatusWaiting:
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Vào phòng",
					Style:    discordgo.SuccessButton,
					CustomID: ButtonJoin,
					Disabled: g.IsFull(),
					Emoji:    &discordgo.ComponentEmoji{Name: "🙋"},
				},
				discordgo.Button{
					Label:    "Bắt đầu",
					Style:    discordgo.PrimaryButton,
					CustomID: ButtonStart,
					Disabled: len(g.PlayerOrder) < g.Settings.MinPlayers,
					Emoji:    &discordgo.ComponentEmoji{Name: "🚦"},
				},
				cardButton,
			}},
		}
	case models.GameStatusPlaying:
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Bốc số",
					Style:    discordgo.PrimaryButton,
					CustomID: ButtonDraw,
					Emoji:    &discordgo.ComponentEmoji{Name: "🎱"},
				},
				discordgo.Button{
					Label:    "BINGO!",
					Style:    discordgo.SuccessButton,
					CustomID: ButtonClaim,
					Emoji:    &discordgo.ComponentEmoji{Name: "🎉"},
				},
				cardButton,
			}},
		}
	case models.GameStatusSkillPhase:
		skills := make([]discordgo.MessageComponent, 0, len(models.AllSkills))
		for _, skill := range models.AllSkills {
			label := skillLabels[skill]
			skills = append(skills, discordgo.Button{
				Label:    label.Label,
				Style:    discordgo.PrimaryButton,
				CustomID: ButtonSkillPrefix + string(skill),
				Emoji:    &discordgo.ComponentEmoji{Name: label.Emoji},
			})
		}
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: skills},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Bỏ qua",
					Style:    discordgo.SecondaryButton,
					CustomID: ButtonSkip,
				},
				discordgo.Button{
					Label:    "BINGO!",
					Style:    discordgo.SuccessButton,
					CustomID: ButtonClaim,
					Emoji:    &discordgo.ComponentEmoji{Name: "🎉"},
				},
				cardButton,
			}},
		}
	default:
		return []discordgo.MessageComponent{}
	}
}

// targetMenu lists the opponents a targeted skill can be aimed at
func targetMenu(g *models.Game, skill models.SkillType, actorID string) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(g.PlayerOrder))
	for _, p := range g.OrderedPlayers() {
		if p.ID == actorID {
			continue
		}
		options = append(options, discordgo.SelectMenuOption{
			Label:       p.Name,
			Value:       p.ID,
			Description: fmt.Sprintf("%d ô · %d hàng", p.MarkedCount, p.CompletedRows),
		})
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    SelectTargetPrefix + string(skill),
				Placeholder: "Chọn đối thủ",
				Options:     options,
			},
		}},
	}
}
