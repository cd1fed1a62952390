// Package discord serves player cards through a Discord slash command.
package discord

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Command definitions
var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "card",
		Description: "Generate a League of Legends player card",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optGameName,
				Description: "Player's Riot ID name (e.g., 'Faker')",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optTagLine,
				Description: "Player's tagline without the # (e.g., 'KR1')",
				Required:    true,
			},
		},
	},
}

// NewBot creates a bot that answers /card with cards from cards.
func NewBot(cfg Config, cards CardCreator, logger *zap.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, errors.New("discord token is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	bot := &Bot{
		Session: s,
		Config:  cfg,
		Cards:   cards,
		Logger:  logger,
	}
	bot.CommandHandlers = map[string]func(s session, i *discordgo.InteractionCreate){
		"card": bot.handleCardCommand,
	}
	return bot, nil
}

// Start opens the gateway connection and registers the slash commands.
func (b *Bot) Start() error {
	user, err := b.Session.User("@me")
	if err != nil {
		return fmt.Errorf("error getting bot user: %w", err)
	}
	b.BotUserID = user.ID

	b.Session.AddHandler(b.interactionHandler)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening Discord session: %w", err)
	}

	registered, err := b.registerCommands()
	if err != nil {
		return fmt.Errorf("error registering commands: %w", err)
	}
	b.Commands = registered

	b.Logger.Info("discord bot running", zap.String("user", user.Username), zap.Int("commands", len(registered)))
	return nil
}

// Stop removes the registered commands and closes the session.
func (b *Bot) Stop() error {
	for _, cmd := range b.Commands {
		if err := b.Session.ApplicationCommandDelete(b.BotUserID, b.Config.GuildID, cmd.ID); err != nil {
			b.Logger.Warn("error removing command", zap.String("command", cmd.Name), zap.Error(err))
		}
	}
	return b.Session.Close()
}

func (b *Bot) registerCommands() ([]*discordgo.ApplicationCommand, error) {
	registered := make([]*discordgo.ApplicationCommand, len(commands))

	for i, cmd := range commands {
		rc, err := b.Session.ApplicationCommandCreate(b.BotUserID, b.Config.GuildID, cmd)
		if err != nil {
			return nil, fmt.Errorf("error creating command '%s': %w", cmd.Name, err)
		}
		registered[i] = rc
	}

	return registered, nil
}

func (b *Bot) interactionHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.dispatch(s, i)
}

func (b *Bot) dispatch(s session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if handler, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
		handler(s, i)
	}
}

// sendError replaces the deferred reply with a red embed.
func (b *Bot) sendError(s session, i *discordgo.InteractionCreate, title, description string) {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       colorError,
	}

	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}); err != nil {
		b.Logger.Warn("error editing error response", zap.Error(err))
	}
}
