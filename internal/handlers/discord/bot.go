package discord

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/KirkDiggler/bingo/internal/services/game"
	"github.com/KirkDiggler/bingo/internal/services/messaging"
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// Button IDs
const (
	ButtonJoin  = "bingo_join"
	ButtonStart = "bingo_start"
	ButtonDraw  = "bingo_draw"
	ButtonClaim = "bingo_claim"
	ButtonCard  = "bingo_card"
	ButtonSkip  = "bingo_skip"

	// ButtonSkillPrefix is followed by the skill type
	ButtonSkillPrefix = "bingo_skill:"

	// SelectTargetPrefix is followed by the skill aimed at the selected player
	SelectTargetPrefix = "bingo_target:"
)

const (
	updateBuffer   = 256
	requestTimeout = 10 * time.Second
)

type messageRef struct {
	ChannelID string
	MessageID string
}

// Bot represents the Discord bot instance
type Bot struct {
	session     Session
	commands    map[string]CommandHandler
	commandIDs  map[string]string // Maps command name to command ID
	gameService game.Service
	messaging   messaging.Service
	log         logrus.FieldLogger
	config      *Config

	mu sync.Mutex
	// messages maps a game ID to the channel message showing it
	messages map[string]messageRef

	updates  chan *game.Event
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	GameService game.Service
	Messaging   messaging.Service

	Logger logrus.FieldLogger

	// Session replaces the gateway session built from Token
	Session Session
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Token == "" && cfg.Session == nil {
		return nil, ErrEmptyToken
	}
	if cfg.GameService == nil {
		return nil, ErrNilGameService
	}
	if cfg.Messaging == nil {
		return nil, ErrNilMessaging
	}

	bot := &Bot{
		session:     cfg.Session,
		commands:    make(map[string]CommandHandler),
		commandIDs:  make(map[string]string),
		gameService: cfg.GameService,
		messaging:   cfg.Messaging,
		log:         cfg.Logger,
		config:      cfg,
		messages:    make(map[string]messageRef),
		updates:     make(chan *game.Event, updateBuffer),
		done:        make(chan struct{}),
	}
	if bot.log == nil {
		bot.log = logrus.StandardLogger()
	}

	if bot.session == nil {
		session, err := discordgo.New("Bot " + cfg.Token)
		if err != nil {
			return nil, fmt.Errorf("failed to create Discord session: %w", err)
		}
		session.AddHandler(bot.onInteraction)
		bot.session = session
	}

	return bot, nil
}

// Start opens the gateway, registers /bingo and starts the message updater
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if err := b.RegisterCommand(NewBingoCommand(b)); err != nil {
		return fmt.Errorf("failed to register bingo command: %w", err)
	}

	b.wg.Add(1)
	go b.run()

	b.log.Info("Discord bot is running")
	return nil
}

// Stop removes the registered commands and closes the gateway
func (b *Bot) Stop() error {
	b.stopOnce.Do(func() {
		close(b.done)
	})
	b.wg.Wait()

	appID, err := b.appID()
	if err == nil {
		for cmdName, cmdID := range b.commandIDs {
			if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
				b.log.WithError(err).WithField("command", cmdName).Warn("Failed to delete command")
				continue
			}
			b.log.WithField("command", cmdName).Debug("Deleted command")
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID, err := b.appID()
	if err != nil {
		return err
	}

	// An empty guild ID registers the command globally
	createdCmd, err := b.session.ApplicationCommandCreate(appID, b.config.GuildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	b.log.WithFields(logrus.Fields{
		"command": cmd.GetName(),
		"id":      createdCmd.ID,
		"guild":   b.config.GuildID,
	}).Info("Registered command")

	return nil
}

func (b *Bot) appID() (string, error) {
	if b.config.ApplicationID != "" {
		return b.config.ApplicationID, nil
	}
	// Fall back to the logged in user once the gateway is open
	if ds, ok := b.session.(*discordgo.Session); ok && ds.State != nil && ds.State.User != nil {
		return ds.State.User.ID, nil
	}
	return "", ErrNoApplicationID
}

// Publish queues a game event for the channel message. Rooms without a
// channel are ignored.
func (b *Bot) Publish(_ context.Context, event *game.Event) {
	if event == nil || event.Game == nil || event.Game.ChannelID == "" {
		return
	}

	select {
	case <-b.done:
	case b.updates <- event:
	default:
		b.log.WithFields(logrus.Fields{
			"game_id": event.GameID,
			"event":   event.Kind,
		}).Warn("Discord update queue is full, dropping event")
	}
}

func (b *Bot) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.done:
			return
		case event := <-b.updates:
			b.apply(event)
		}
	}
}

// apply edits the tracked channel message to match the event's snapshot
func (b *Bot) apply(event *game.Event) {
	ref, ok := b.messageFor(event.GameID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	log := b.log.WithFields(logrus.Fields{
		"game_id": event.GameID,
		"event":   event.Kind,
	})

	line := ""
	if out, err := b.messaging.GetEventMessage(ctx, &messaging.GetEventMessageInput{Event: event}); err != nil {
		log.WithError(err).Debug("No event line")
	} else {
		line = out.Message
	}

	embeds := []*discordgo.MessageEmbed{renderGameMessage(event.Game, line)}
	components := gameComponents(event.Game)

	edit := discordgo.NewMessageEdit(ref.ChannelID, ref.MessageID)
	edit.Embeds = &embeds
	edit.Components = &components
	if _, err := b.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		log.WithError(err).Warn("Failed to update game message")
	}

	switch event.Kind {
	case game.EventGameFinished:
		b.announceResults(ctx, ref.ChannelID, event.Game)
		b.forget(event.GameID)
	case game.EventRoomClosed:
		b.forget(event.GameID)
	}
}

func (b *Bot) announceResults(ctx context.Context, channelID string, g *models.Game) {
	winnerName := ""
	if winner, ok := g.Player(g.WinnerID); ok {
		winnerName = winner.Name
	}

	out, err := b.messaging.GetResultMessage(ctx, &messaging.GetResultMessageInput{
		WinnerName: winnerName,
		EndReason:  g.EndReason,
	})
	if err != nil {
		b.log.WithError(err).Warn("Failed to build result message")
		return
	}

	_, err = b.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{renderResultsEmbed(g, out.Title, out.Message)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		b.log.WithError(err).WithField("game_id", g.ID).Warn("Failed to send results")
	}
}

func (b *Bot) track(gameID string, ref messageRef) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages[gameID] = ref
}

func (b *Bot) forget(gameID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.messages, gameID)
}

func (b *Bot) messageFor(gameID string) (messageRef, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ref, ok := b.messages[gameID]
	return ref, ok
}

func (b *Bot) onInteraction(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	b.handleInteraction(i)
}

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		if h, ok := b.commands[name]; ok {
			if err := h.Handle(b.session, i); err != nil {
				b.log.WithError(err).WithField("command", name).Error("Error handling command")
			}
		}
	case discordgo.InteractionMessageComponent:
		if err := b.handleComponentInteraction(i); err != nil {
			b.log.WithError(err).Error("Error handling component interaction")
		}
	}
}

// handleComponentInteraction handles button clicks and select menus
func (b *Bot) handleComponentInteraction(i *discordgo.InteractionCreate) error {
	data := i.MessageComponentData()

	switch {
	case data.CustomID == ButtonJoin:
		return b.join(i)
	case data.CustomID == ButtonStart:
		return b.start(i)
	case data.CustomID == ButtonDraw:
		return b.draw(i)
	case data.CustomID == ButtonClaim:
		return b.claim(i)
	case data.CustomID == ButtonCard:
		return b.card(i)
	case data.CustomID == ButtonSkip:
		return b.skip(i)
	case strings.HasPrefix(data.CustomID, ButtonSkillPrefix):
		skill := models.SkillType(strings.TrimPrefix(data.CustomID, ButtonSkillPrefix))
		return b.useSkill(i, skill, "")
	case strings.HasPrefix(data.CustomID, SelectTargetPrefix):
		skill := models.SkillType(strings.TrimPrefix(data.CustomID, SelectTargetPrefix))
		if len(data.Values) == 0 {
			return RespondWithEphemeralMessage(b.session, i, "Bạn chưa chọn ai cả.")
		}
		return b.useSkill(i, skill, data.Values[0])
	default:
		return RespondWithError(b.session, i, fmt.Sprintf("Nút không hợp lệ: %s", data.CustomID))
	}
}

type caller struct {
	ID     string
	Name   string
	Avatar string
}

// interactionUser resolves who clicked. Guild interactions carry a member,
// DMs only a user.
func interactionUser(i *discordgo.InteractionCreate) caller {
	user := i.User
	name := ""
	if i.Member != nil && i.Member.User != nil {
		user = i.Member.User
		name = i.Member.Nick
	}
	if user == nil {
		return caller{}
	}

	if name == "" {
		name = user.GlobalName
	}
	if name == "" {
		name = user.Username
	}

	return caller{
		ID:     user.ID,
		Name:   name,
		Avatar: user.AvatarURL("64"),
	}
}
