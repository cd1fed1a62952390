package card

import "sort"

// Stats is the recent form derived from a player's match lines.
type Stats struct {
	Games      int     `json:"games"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	WinRate    float64 `json:"winRate"` // 0-1
	AverageKDA float64 `json:"averageKda"`
	PentaKills int     `json:"pentaKills"`
	MainRole   string  `json:"mainRole,omitempty"`
	Playstyle  string  `json:"playstyle"` // "aggressive", "supportive", "farmer", "balanced"
	Trend      string  `json:"trend"`     // "climbing", "stable", "declining"
}

// Per-game averages above which a playstyle is assigned.
const (
	aggressiveKillParticipation = 8.0
	supportiveVisionScore       = 40.0
	farmerMinionsPerMinute      = 7.5
)

// Stats summarizes the summary's matches.
func (s Summary) Stats() Stats {
	return ComputeStats(s.Matches)
}

// ComputeStats summarizes matches, which are ordered most recent first.
func ComputeStats(matches []MatchData) Stats {
	st := Stats{Games: len(matches), Playstyle: "balanced", Trend: "stable"}
	if len(matches) == 0 {
		return st
	}

	var kills, deaths, assists, vision, minions, seconds int
	roles := make(map[string]int)
	for _, m := range matches {
		if m.Win {
			st.Wins++
		} else {
			st.Losses++
		}
		kills += m.Kills
		deaths += m.Deaths
		assists += m.Assists
		vision += m.VisionScore
		minions += m.TotalMinionsKilled
		seconds += m.TimePlayed
		st.PentaKills += m.PentaKills
		if m.TeamPosition != "" {
			roles[m.TeamPosition]++
		}
	}

	n := float64(len(matches))
	st.WinRate = float64(st.Wins) / n
	st.AverageKDA = float64(kills+assists) / float64(max(deaths, 1))
	st.MainRole = mostPlayed(roles)

	switch {
	case float64(kills+assists)/n >= aggressiveKillParticipation && float64(kills) >= float64(assists):
		st.Playstyle = "aggressive"
	case float64(vision)/n >= supportiveVisionScore:
		st.Playstyle = "supportive"
	case seconds > 0 && float64(minions)/(float64(seconds)/60) >= farmerMinionsPerMinute:
		st.Playstyle = "farmer"
	}

	st.Trend = trend(matches)
	return st
}

// mostPlayed returns the role with the highest count, breaking ties by name.
func mostPlayed(roles map[string]int) string {
	names := make([]string, 0, len(roles))
	for r := range roles {
		names = append(names, r)
	}
	sort.Slice(names, func(i, j int) bool {
		if roles[names[i]] != roles[names[j]] {
			return roles[names[i]] > roles[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// trend compares the win rate of the newer half of matches to the older half.
func trend(matches []MatchData) string {
	if len(matches) < 4 {
		return "stable"
	}
	half := len(matches) / 2
	recent := winRate(matches[:half])
	older := winRate(matches[half:])

	switch {
	case recent-older >= 0.2:
		return "climbing"
	case older-recent >= 0.2:
		return "declining"
	default:
		return "stable"
	}
}

func winRate(matches []MatchData) float64 {
	wins := 0
	for _, m := range matches {
		if m.Win {
			wins++
		}
	}
	return float64(wins) / float64(len(matches))
}
