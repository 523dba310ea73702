package discord

import (
	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/bwmarrin/discordgo"
)

// BingoCommand handles the /bingo command
type BingoCommand struct {
	BaseCommand
	bot *Bot
}

// NewBingoCommand creates the /bingo command handler
func NewBingoCommand(bot *Bot) *BingoCommand {
	minPlayers := float64(2)
	maxPlayers := float64(8)

	skillChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.AllSkills))
	for _, skill := range models.AllSkills {
		skillChoices = append(skillChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  skillLabels[skill].Label,
			Value: string(skill),
		})
	}

	return &BingoCommand{
		BaseCommand: BaseCommand{
			Name:        "bingo",
			Description: "Chơi lô tô cùng cả kênh",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Mở phòng mới trong kênh này",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "title",
							Description: "Tên phòng",
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "max_players",
							Description: "Số người tối đa",
							MinValue:    &minPlayers,
							MaxValue:    maxPlayers,
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "skills",
							Description: "Bật lượt kỹ năng",
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "bots",
							Description: "Cho bot vào lấp chỗ trống",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "join",
					Description: "Vào phòng đang mở",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Bắt đầu ván (chủ phòng)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "draw",
					Description: "Bốc số tiếp theo",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "claim",
					Description: "Hô BINGO",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "skill",
					Description: "Dùng kỹ năng trong lượt kỹ năng",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "type",
							Description: "Kỹ năng",
							Required:    true,
							Choices:     skillChoices,
						},
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "target",
							Description: "Đối thủ (cho Xoá dấu và Chặn lượt)",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "skip",
					Description: "Bỏ qua lượt kỹ năng",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leave",
					Description: "Rời phòng",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "kick",
					Description: "Mời một người ra khỏi phòng (chủ phòng)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "player",
							Description: "Người chơi",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "card",
					Description: "Xem vé của bạn",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Xem tình hình phòng",
				},
			},
		},
		bot: bot,
	}
}

// Handle processes a Discord interaction for the bingo command
func (c *BingoCommand) Handle(s Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name || len(data.Options) == 0 {
		return nil
	}

	sub := data.Options[0]
	opts := optionMap(sub.Options)

	switch sub.Name {
	case "create":
		return c.bot.create(i, parseCreateOptions(opts))
	case "join":
		return c.bot.join(i)
	case "start":
		return c.bot.start(i)
	case "draw":
		return c.bot.draw(i)
	case "claim":
		return c.bot.claim(i)
	case "skill":
		skill := models.SkillType(stringOption(opts, "type"))
		return c.bot.useSkill(i, skill, userOption(opts, "target"))
	case "skip":
		return c.bot.skip(i)
	case "leave":
		return c.bot.leave(i)
	case "kick":
		return c.bot.kick(i, userOption(opts, "player"))
	case "card":
		return c.bot.card(i)
	case "status":
		return c.bot.status(i)
	default:
		if err := RespondWithError(s, i, "Lệnh không hợp lệ."); err != nil {
			return err
		}
		return ErrUnknownCommand
	}
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func parseCreateOptions(opts map[string]*discordgo.ApplicationCommandInteractionDataOption) createOptions {
	var out createOptions
	out.Title = stringOption(opts, "title")
	if opt, ok := opts["max_players"]; ok && opt.Type == discordgo.ApplicationCommandOptionInteger {
		out.MaxPlayers = int(opt.IntValue())
	}
	out.SkillsEnabled = boolOption(opts, "skills")
	out.BotsEnabled = boolOption(opts, "bots")
	return out
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	opt, ok := opts[name]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionString {
		return ""
	}
	return opt.StringValue()
}

// boolOption returns nil when the option was left out
func boolOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) *bool {
	opt, ok := opts[name]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionBoolean {
		return nil
	}
	v := opt.BoolValue()
	return &v
}

// userOption returns the selected user's ID
func userOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	opt, ok := opts[name]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionUser {
		return ""
	}
	id, _ := opt.Value.(string)
	return id
}
