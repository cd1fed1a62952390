package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/hunterjsb/leaguecard/internal/card"
	"github.com/hunterjsb/leaguecard/internal/riot"
)

// cardTimeout bounds one /card invocation. Discord keeps a deferred
// interaction open for 15 minutes.
const cardTimeout = 2 * time.Minute

const cardFileName = "card.jpg"

const (
	colorError   = 0xff0000
	colorDefault = 0x5865f2
)

// Tier colors, roughly matching the in-game emblems.
var tierColors = map[string]int{
	"IRON":        0x5e5352,
	"BRONZE":      0x8c5a3c,
	"SILVER":      0x9aa4af,
	"GOLD":        0xd4a94f,
	"PLATINUM":    0x4e9996,
	"EMERALD":     0x2aa96b,
	"DIAMOND":     0x576bce,
	"MASTER":      0x9d4dc1,
	"GRANDMASTER": 0xcd4545,
	"CHALLENGER":  0xf4c874,
}

// handleCardCommand handles the /card command
func (b *Bot) handleCardCommand(s session, i *discordgo.InteractionCreate) {
	// Generation takes longer than the 3 second interaction deadline.
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		b.Logger.Warn("error acknowledging interaction", zap.Error(err))
		return
	}

	params := ParsePlayerParams(i.ApplicationCommandData().Options)
	if msg := params.Problem(); msg != "" {
		b.sendError(s, i, "Invalid Input", msg)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cardTimeout)
	defer cancel()

	c, err := b.Cards.Create(ctx, params.GameName, params.TagLine)
	if err != nil {
		title, desc := describeError(params, err)
		b.Logger.Warn("card command failed", zap.String("player", params.DisplayName()), zap.Error(err))
		b.sendError(s, i, title, desc)
		return
	}

	embed := formatCardEmbed(c)
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
		Files: []*discordgo.File{{
			Name:        cardFileName,
			ContentType: "image/jpeg",
			Reader:      bytes.NewReader(c.Image),
		}},
	}); err != nil {
		b.Logger.Warn("error editing interaction response", zap.Error(err))
	}
}

// describeError turns a pipeline error into an embed title and description.
func describeError(params PlayerParams, err error) (string, string) {
	var apiErr *riot.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		return "Player Not Found", fmt.Sprintf("Could not find player `%s`", params.DisplayName())
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests:
		return "Rate Limited", "The Riot API is rate limiting requests. Try again in a minute."
	case errors.As(err, &apiErr):
		return "API Error", fmt.Sprintf("Riot API returned %d: %s", apiErr.StatusCode, apiErr.Message)
	case errors.Is(err, context.DeadlineExceeded):
		return "Timed Out", "Generating the card took too long. Please try again."
	default:
		return "Card Error", "Sorry, I couldn't generate this card. Please try again later."
	}
}

// formatCardEmbed builds the embed shown above the attached card image.
func formatCardEmbed(c *card.Card) *discordgo.MessageEmbed {
	s := c.Summary
	stats := s.Stats()

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🃏 %s#%s", s.Account.GameName, s.Account.TagLine),
		Description: fmt.Sprintf("Summoner level **%d**", s.SummonerLevel),
		Color:       colorByTier(s.Ranked),
		Image:       &discordgo.MessageEmbedImage{URL: "attachment://" + cardFileName},
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "🏆 Ranked",
				Value:  formatRanked(s.Ranked),
				Inline: true,
			},
			{
				Name:   "⭐ Top Champions",
				Value:  formatChampions(s.Champions, 3),
				Inline: true,
			},
			{
				Name:   "📈 Recent Form",
				Value:  formatRecentForm(s.Matches, stats),
				Inline: false,
			},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	return embed
}

// colorByTier uses the solo queue tier, falling back to any other queue.
func colorByTier(ranked []card.RankedData) int {
	for _, r := range ranked {
		if r.QueueType == "RANKED_SOLO_5x5" {
			if c, ok := tierColors[r.Tier]; ok {
				return c
			}
		}
	}
	for _, r := range ranked {
		if c, ok := tierColors[r.Tier]; ok {
			return c
		}
	}
	return colorDefault
}

func formatRanked(ranked []card.RankedData) string {
	if len(ranked) == 0 {
		return "Unranked"
	}

	lines := make([]string, 0, len(ranked))
	for _, r := range ranked {
		lines = append(lines, fmt.Sprintf("**%s** %s %s (%dW %dL)",
			card.QueueName(r.QueueType), capitalizeFirst(strings.ToLower(r.Tier)), r.Rank, r.Wins, r.Losses))
	}
	return strings.Join(lines, "\n")
}

func formatChampions(champions []card.ChampionData, limit int) string {
	if len(champions) == 0 {
		return "No data"
	}

	var lines []string
	for i, c := range champions {
		if i >= limit {
			break
		}
		lines = append(lines, fmt.Sprintf("**%s** M%d", c.Name, c.Level))
	}
	return strings.Join(lines, "\n")
}

// formatRecentForm renders wins and losses, most recent first, followed by
// the aggregate line.
func formatRecentForm(matches []card.MatchData, stats card.Stats) string {
	if len(matches) == 0 {
		return "No recent games"
	}

	form := make([]string, 0, len(matches))
	for i, m := range matches {
		// Limit to 10 to fit in embed
		if i >= 10 {
			break
		}
		if m.Win {
			form = append(form, "🟩")
		} else {
			form = append(form, "🟥")
		}
	}

	return fmt.Sprintf("%s\n%dW %dL • %.2f KDA • %s",
		strings.Join(form, ""), stats.Wins, stats.Losses, stats.AverageKDA, capitalizeFirst(stats.Playstyle))
}

// capitalizeFirst capitalizes the first letter of a string
func capitalizeFirst(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
