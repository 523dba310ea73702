package discord

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/bingo/internal/engine"
	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/KirkDiggler/bingo/internal/services/game"
	"github.com/KirkDiggler/bingo/internal/services/messaging"
	"github.com/bwmarrin/discordgo"
)

// createOptions are the optional /bingo create arguments
type createOptions struct {
	Title         string
	MaxPlayers    int
	SkillsEnabled *bool
	BotsEnabled   *bool
}

func (b *Bot) create(i *discordgo.InteractionCreate, opts createOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	c := interactionUser(i)
	out, err := b.gameService.CreateGame(ctx, &game.CreateGameInput{
		HostID:        c.ID,
		HostName:      c.Name,
		HostAvatar:    c.Avatar,
		ChannelID:     i.ChannelID,
		Title:         opts.Title,
		MaxPlayers:    opts.MaxPlayers,
		SkillsEnabled: opts.SkillsEnabled,
		BotsEnabled:   opts.BotsEnabled,
	})
	if err != nil {
		return b.respondError(ctx, i, err)
	}

	embed := renderGameMessage(out.Game, b.statusLine(ctx, out.Game))
	if err := RespondWithEmbedAndButtons(b.session, i, embed, gameComponents(out.Game)); err != nil {
		return fmt.Errorf("failed to send game message: %w", err)
	}

	// The response is the message later events edit
	msg, err := b.session.InteractionResponse(i.Interaction)
	if err != nil {
		return fmt.Errorf("failed to fetch game message: %w", err)
	}
	b.track(out.Game.ID, messageRef{ChannelID: i.ChannelID, MessageID: msg.ID})

	return nil
}

func (b *Bot) join(i *discordgo.InteractionCreate) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	g, err := b.channelGame(ctx, i.ChannelID)
	if err != nil {
		return b.respondError(ctx, i, err)
	}

	c := interactionUser(i)
	out, err := b.gameService.JoinGame(ctx, &game.JoinGameInput{
		GameID:     g.ID,
		PlayerID:   c.ID,
		PlayerName: c.Name,
		Avatar:     c.Avatar,
	})
	if err != nil {
		return b.respondError(ctx, i, err)
	}

	text := "Bạn đã vào phòng!"
	msg, err := b.messaging.GetJoinGameMessage(ctx, &messaging.GetJoinGameMessageInput{
		PlayerName:    c.Name,
		GameStatus:    out.Game.Status,
		AlreadyJoined: out.AlreadyJoined,
	})
	if err == nil {
		text = msg.Message
	}

	return RespondWithEphemeralMessage(b.session, i, text)
}

func (b *Bot) start(i *discordgo.InteractionCreate) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	g, err := b.channelGame(ctx, i.ChannelID)
	if err != nil {
		return b.respondError(ctx, i, err)
	}

	out, err := b.gameService.StartGame(ctx, &game.StartGameInput{
		GameID:   g.ID,
		PlayerID: interactionUser(i).ID,
	})
	if err != nil {
		return b.respondError(ctx, i, err)
	}

	return RespondWithEphemeralMessage(b.session, i, b.statusLine(ctx, out.Game))
}

func (b *Bot) draw(i *discordgo.InteractionCreate) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	g, err := b.channelGame(ctx, i.ChannelID)
	if err != nil {
		return b.respondError(ctx, i, err)
	}

	c := interactionUser(i)
	out, err := b.gameService.DrawNumber(ctx, &game.DrawNumberInput{
		GameID:   g.ID,
		PlayerID: c.ID,
	})
	if err != nil {
		return b.respondError(ctx, i, err)
	}

	player, ok := out.Game.Player(c.ID)
	if !ok {
		return b.respondError(ctx, i, engine.ErrPlayerNotInGame)
	}

	embed := renderCardEmbed(out.Game, player)
	msg, err := b.messaging.GetDrawMessage(ctx, &messaging.GetDrawMessageInput{
		PlayerName: c.Name,
		Number:     out.Drawn.Number,
		Lucky:      player.LuckTurnsLeft > 0,
		Remaining:  len(out.Game.AvailableNumbers),
	})
	if err == nil {
		embed.Description = msg.Message + "\n" + embed.Description
	}

	return RespondWithEphemeralEmbed(b.session, i, embed, gameComponents(out.Game))
}

func (b *Bot) claim(i *discordgo.InteractionCreate) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	g, err := b.channelGame(ctx, i.ChannelID)
	if err != nil {
		return b.respondError(ctx, i, err)
	}

	c := interactionUser(i)
	out, err := b.gameService.ClaimBingo(ctx, &game.ClaimBingoInput{
		GameID:   g.ID,
		PlayerID: c.ID,
	})
	if err != nil {
		return b.respondError(ctx, i, err)
	}

	msg, err := b.messaging.GetResultMessage(ctx, &messaging.GetResultMessageInput{
		WinnerName: c.Name,
		EndReason:  out.Game.EndReason,
	})
	if err != nil {
		return RespondWithEphemeralMessage(b.session, i, "BINGO!")
	}

	return RespondWithEphemeralMessage(b.session, i, fmt.Sprintf("**%s** %s", msg.Title, msg.Message))
}

// useSkill asks for a target first when the skill needs one
func (b *Bot) useSkill(i *discordgo.InteractionCreate, skill models.SkillType, targetID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if !skill.IsValid() {
		return b.respondError(ctx, i, engine.ErrUnknownSkill)
	}

	g, err := b.channelGame(ctx, i.ChannelID)
	if err != nil {
		return b.respondError(ctx, i, err)
	}

	c := interactionUser(i)
	if skill.NeedsTarget() && targetID == "" {
		if g.Status != models.GameStatusSkillPhase {
			return b.respondError(ctx, i, engine.ErrNotSkillPhase)
		}
		label := skillLabels[skill]
		embed := &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("%s %s", label.Emoji, label.Label),
			Description: "Chọn người bạn muốn nhắm tới.",
			Color:       colorSkill,
		}
		return RespondWithEphemeralEmbed(b.session, i, embed, targetMenu(g, skill, c.ID))
	}

	out, err := b.gameService.UseSkill(ctx, &game.UseSkillInput{
		GameID:   g.ID,
		PlayerID: c.ID,
		Skill:    skill,
		TargetID: targetID,
	})
	if err != nil {
		return b.respondError(ctx, i, err)
	}

	targetName := ""
	if target, ok := out.Game.Player(targetID); ok {
		targetName = target.Name
	}

	text := "Đã dùng kỹ năng."
	msg, err := b.messaging.GetSkillMessage(ctx, &messaging.GetSkillMessageInput{
		PlayerName: c.Name,
		Skill:      skill,
		TargetName: targetName,
	})
	if err == nil {
		text = msg.Message
	}

	return RespondWithEphemeralMessage(b.session, i, text)
}

func (b *Bot) skip(i *discordgo.InteractionCreate) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	g, err := b.channelGame(ctx, i.ChannelID)
	if err != nil {
		return b.respondError(ctx, i, err)
	}

	c := interactionUser(i)
	if _, err := b.gameService.SkipSkill(ctx, &game.SkipSkillInput{
		GameID:   g.ID,
		PlayerID: c.ID,
	}); err != nil {
		return b.respondError(ctx, i, err)
	}

	text := "Bạn đã bỏ qua lượt kỹ năng."
	msg, err := b.messaging.GetSkillMessage(ctx, &messaging.GetSkillMessageInput{PlayerName: c.Name})
	if err == nil {
		text = msg.Message
	}

	return RespondWithEphemeralMessage(b.session, i, text)
}

func (b *Bot) leave(i *discordgo.InteractionCreate) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	g, err := b.channelGame(ctx, i.ChannelID)
	if err != nil {
		return b.respondError(ctx, i, err)
	}

	out, err := b.gameService.LeaveGame(ctx, &game.LeaveGameInput{
		GameID:   g.ID,
		PlayerID: interactionUser(i).ID,
	})
	if err != nil {
		return b.respondError(ctx, i, err)
	}

	if out.Closed {
		return RespondWithEphemeralMessage(b.session, i, "Bạn đã rời đi và phòng đã đóng.")
	}
	return RespondWithEphemeralMessage(b.session, i, "Bạn đã rời phòng.")
}

func (b *Bot) kick(i *discordgo.InteractionCreate, targetID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	g, err := b.channelGame(ctx, i.ChannelID)
	if err != nil {
		return b.respondError(ctx, i, err)
	}

	targetName := targetID
	if target, ok := g.Player(targetID); ok {
		targetName = target.Name
	}

	if _, err := b.gameService.KickPlayer(ctx, &game.KickPlayerInput{
		GameID:   g.ID,
		PlayerID: interactionUser(i).ID,
		TargetID: targetID,
	}); err != nil {
		return b.respondError(ctx, i, err)
	}

	return RespondWithEphemeralMessage(b.session, i, fmt.Sprintf("Đã mời %s ra khỏi phòng.", targetName))
}

func (b *Bot) card(i *discordgo.InteractionCreate) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	g, err := b.channelGame(ctx, i.ChannelID)
	if err != nil {
		return b.respondError(ctx, i, err)
	}

	player, ok := g.Player(interactionUser(i).ID)
	if !ok {
		return b.respondError(ctx, i, engine.ErrPlayerNotInGame)
	}

	return RespondWithEphemeralEmbed(b.session, i, renderCardEmbed(g, player), nil)
}

func (b *Bot) status(i *discordgo.InteractionCreate) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	g, err := b.channelGame(ctx, i.ChannelID)
	if err != nil {
		return b.respondError(ctx, i, err)
	}

	return RespondWithEphemeralEmbed(b.session, i, renderGameMessage(g, b.statusLine(ctx, g)), nil)
}

func (b *Bot) channelGame(ctx context.Context, channelID string) (*models.Game, error) {
	out, err := b.gameService.GetGameByChannel(ctx, &game.GetGameByChannelInput{
		ChannelID: channelID,
	})
	if err != nil {
		return nil, err
	}
	return out.Game, nil
}

func (b *Bot) statusLine(ctx context.Context, g *models.Game) string {
	out, err := b.messaging.GetGameStatusMessage(ctx, &messaging.GetGameStatusMessageInput{
		GameStatus:  g.Status,
		PlayerCount: len(g.PlayerOrder),
	})
	if err != nil {
		return ""
	}
	return out.Message
}

// respondError shows the player a friendly message. Only unexpected errors are logged.
func (b *Bot) respondError(ctx context.Context, i *discordgo.InteractionCreate, err error) error {
	text := err.Error()
	out, mErr := b.messaging.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{Err: err})
	if mErr == nil {
		text = out.Message
		if out.Code == messaging.CodeInternal {
			b.log.WithError(err).WithField("channel_id", i.ChannelID).Error("Discord action failed")
		}
	}

	return RespondWithError(b.session, i, text)
}
