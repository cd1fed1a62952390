package card

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hunterjsb/leaguecard/internal/imagegen"
)

// MaxPromptChampions is how many mastery entries make it into the prompt.
const MaxPromptChampions = 5

// BuildPrompt renders a Summary as the text prompt for the image model.
// Output depends only on the Summary, so equal summaries give equal prompts.
//
// The scene instruction comes first. Data lines follow in priority order and
// a line that would push the prompt past imagegen.MaxPromptLen is left out;
// the champion list is shortened before it is dropped.
func BuildPrompt(s Summary) string {
	p := promptLines{limit: imagegen.MaxPromptLen}

	p.add(fmt.Sprintf("Collectible fantasy trading card for the League of Legends player %s: "+
		"their top champion in a heroic pose, rank emblem and stats on an ornate card border.",
		riotID(s.Account.GameName, s.Account.TagLine)))
	p.add(fmt.Sprintf("Summoner level %d.", s.SummonerLevel))

	if len(s.Ranked) == 0 {
		p.add("Ranked: unranked.")
	}
	for _, r := range s.Ranked {
		p.add(fmt.Sprintf("Ranked %s: %s %s, %d wins and %d losses.",
			QueueName(r.QueueType), r.Tier, r.Rank, r.Wins, r.Losses))
	}

	for n := min(len(s.Champions), MaxPromptChampions); n > 0; n-- {
		if p.add(championsLine(s.Champions[:n])) {
			break
		}
	}

	if len(s.Matches) > 0 {
		st := s.Stats()
		p.add(fmt.Sprintf("Recent form: %d wins and %d losses in %d games, average KDA %.2f, %s trend.",
			st.Wins, st.Losses, st.Games, st.AverageKDA, st.Trend))
		if st.MainRole != "" {
			p.add(fmt.Sprintf("Main role: %s.", roleName(st.MainRole)))
		}
		p.add(fmt.Sprintf("Playstyle: %s.", st.Playstyle))
		if st.PentaKills > 0 {
			p.add(fmt.Sprintf("Recent pentakills: %d.", st.PentaKills))
		}
	}

	return strings.Join(p.lines, "\n")
}

func championsLine(champs []ChampionData) string {
	parts := make([]string, len(champs))
	for i, c := range champs {
		parts[i] = fmt.Sprintf("%s (mastery level %d)", c.Name, c.Level)
	}
	return fmt.Sprintf("Signature champions: %s.", strings.Join(parts, ", "))
}

// promptLines collects newline-joined lines up to limit runes.
type promptLines struct {
	lines []string
	size  int
	limit int
}

// add appends line and reports whether it fit. The first line is always kept.
func (p *promptLines) add(line string) bool {
	n := utf8.RuneCountInString(line)
	if len(p.lines) > 0 {
		n++
	}
	if len(p.lines) > 0 && p.size+n > p.limit {
		return false
	}
	p.lines = append(p.lines, line)
	p.size += n
	return true
}

func riotID(gameName, tagLine string) string {
	if tagLine == "" {
		return gameName
	}
	return gameName + "#" + tagLine
}

// QueueName is the display name of a league queue type. Unknown types pass
// through unchanged.
func QueueName(queueType string) string {
	switch queueType {
	case "RANKED_SOLO_5x5":
		return "Solo/Duo"
	case "RANKED_FLEX_SR":
		return "Flex"
	case "":
		return "queue"
	default:
		return queueType
	}
}

func roleName(position string) string {
	switch position {
	case "TOP":
		return "top lane"
	case "JUNGLE":
		return "jungle"
	case "MIDDLE":
		return "mid lane"
	case "BOTTOM":
		return "bot lane carry"
	case "UTILITY":
		return "support"
	default:
		return strings.ToLower(position)
	}
}
