package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/hunterjsb/leaguecard/internal/card"
)

// CardCreator runs the card pipeline.
type CardCreator interface {
	Create(ctx context.Context, gameName, tagLine string) (*card.Card, error)
}

// session is the part of *discordgo.Session the command handlers use.
type session interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Bot serves the /card slash command.
type Bot struct {
	Session         *discordgo.Session
	Config          Config
	Cards           CardCreator
	Logger          *zap.Logger
	BotUserID       string
	Commands        []*discordgo.ApplicationCommand
	CommandHandlers map[string]func(s session, i *discordgo.InteractionCreate)
}

// Config holds Discord bot configuration
type Config struct {
	Token string
	// GuildID scopes command registration to one server; empty registers
	// global commands.
	GuildID string
}
