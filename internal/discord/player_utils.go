package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Option names of the /card command.
const (
	optGameName = "gamename"
	optTagLine  = "tagline"
)

// PlayerParams holds parsed player information from Discord command options
type PlayerParams struct {
	GameName string
	TagLine  string
}

// ParsePlayerParams extracts player information from Discord command options.
// A tagline typed with its leading '#' is accepted. A full "name#tag" in the
// gamename option is split, with an explicit tagline option taking precedence.
func ParsePlayerParams(options []*discordgo.ApplicationCommandInteractionDataOption) PlayerParams {
	params := PlayerParams{}

	for _, opt := range options {
		if opt.Type != discordgo.ApplicationCommandOptionString {
			continue
		}
		switch opt.Name {
		case optGameName:
			params.GameName = strings.TrimSpace(opt.StringValue())
		case optTagLine:
			params.TagLine = strings.TrimPrefix(strings.TrimSpace(opt.StringValue()), "#")
		}
	}

	if name, tag, ok := strings.Cut(params.GameName, "#"); ok {
		params.GameName = strings.TrimSpace(name)
		if params.TagLine == "" {
			params.TagLine = strings.TrimSpace(tag)
		}
	}
	return params
}

// Problem returns a user-facing message for the first missing field, or ""
// when both are set.
func (p PlayerParams) Problem() string {
	if p.GameName == "" {
		return "Player name is required"
	}
	if p.TagLine == "" {
		return "Tagline is required"
	}
	return ""
}

// DisplayName returns the Riot ID as name#tag.
func (p PlayerParams) DisplayName() string {
	return fmt.Sprintf("%s#%s", p.GameName, p.TagLine)
}
