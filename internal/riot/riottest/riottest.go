// Package riottest provides an in-process stand-in for the Riot API, for
// tests of code built on the riot client.
package riottest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hunterjsb/leaguecard/internal/riot"
)

// Fixture is the data the stub serves for a single player.
type Fixture struct {
	Account   riot.Account
	Summoner  riot.Summoner
	Masteries []riot.ChampionMastery
	Entries   []riot.LeagueEntry
	MatchIDs  []string
	Matches   map[string]riot.Match
	// Fail maps a path prefix to a status code returned with a Riot error
	// envelope instead of the fixture data.
	Fail map[string]int
}

// Server is a running stub.
type Server struct {
	*httptest.Server
	requests atomic.Int64
}

// Requests reports how many requests the stub has received.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

// Client returns a riot client pointed at the stub for both hosts.
func (s *Server) Client(opts ...riot.Option) *riot.Client {
	opts = append([]riot.Option{riot.WithRegionalURL(s.URL), riot.WithPlatformURL(s.URL)}, opts...)
	return riot.NewClient("test-key", opts...)
}

// NewServer starts a stub serving f and closes it when the test ends.
func NewServer(t testing.TB, f Fixture) *Server {
	t.Helper()
	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		serve(w, r, f)
	}))
	t.Cleanup(s.Close)
	return s
}

// Faker returns the fixture used by end-to-end tests: three masteries,
// two ranked queues and one match the player won.
func Faker() Fixture {
	const puuid = "faker-puuid"
	return Fixture{
		Account:  riot.Account{PUUID: puuid, GameName: "Faker", TagLine: "KR1"},
		Summoner: riot.Summoner{PUUID: puuid, ProfileIconID: 6, SummonerLevel: 873},
		Masteries: []riot.ChampionMastery{
			{PUUID: puuid, ChampionID: 7, ChampionLevel: 42, ChampionPoints: 1203456},
			{PUUID: puuid, ChampionID: 238, ChampionLevel: 37, ChampionPoints: 998877},
			{PUUID: puuid, ChampionID: 4, ChampionLevel: 29, ChampionPoints: 654321},
		},
		Entries: []riot.LeagueEntry{
			{QueueType: "RANKED_SOLO_5x5", Tier: "CHALLENGER", Rank: "I", LeaguePoints: 1432, Wins: 211, Losses: 150},
			{QueueType: "RANKED_FLEX_SR", Tier: "MASTER", Rank: "I", LeaguePoints: 12, Wins: 18, Losses: 9},
		},
		MatchIDs: []string{"KR_7000000001"},
		Matches: map[string]riot.Match{
			"KR_7000000001": {
				Metadata: riot.MatchMetadata{MatchID: "KR_7000000001", Participants: []string{"other-puuid", puuid}},
				Info: riot.MatchInfo{
					GameMode: "CLASSIC",
					QueueID:  420,
					Participants: []riot.Participant{
						{PUUID: "other-puuid", ChampionName: "Syndra", TeamPosition: "MIDDLE", Kills: 2, Deaths: 7, Win: false},
						{
							PUUID: puuid, RiotIDGameName: "Faker", RiotIDTagline: "KR1", SummonerName: "Hide on bush",
							SummonerLevel: 873, ChampionID: 7, ChampionName: "Leblanc", ChampLevel: 18,
							TeamPosition: "MIDDLE", Kills: 11, Deaths: 2, Assists: 7, FirstBloodKill: true,
							GoldEarned: 16250, TotalDamageDealtToChampions: 41200, TotalMinionsKilled: 261,
							VisionScore: 31, WardsPlaced: 14, WardsKilled: 5, TimePlayed: 1835, Win: true,
						},
					},
				},
			},
		},
	}
}

func serve(w http.ResponseWriter, r *http.Request, f Fixture) {
	path := r.URL.Path
	for prefix, code := range f.Fail {
		if strings.HasPrefix(path, prefix) {
			writeError(w, code)
			return
		}
	}

	switch {
	case strings.HasPrefix(path, "/riot/account/v1/accounts/by-riot-id/"):
		writeJSON(w, f.Account)
	case strings.HasPrefix(path, "/lol/summoner/v4/summoners/by-puuid/"):
		writeJSON(w, f.Summoner)
	case strings.HasPrefix(path, "/lol/champion-mastery/v4/champion-masteries/by-puuid/"):
		writeJSON(w, f.Masteries)
	case strings.HasPrefix(path, "/lol/league/v4/entries/by-puuid/"):
		writeJSON(w, f.Entries)
	case strings.HasPrefix(path, "/lol/match/v5/matches/by-puuid/"):
		writeJSON(w, f.MatchIDs)
	case strings.HasPrefix(path, "/lol/match/v5/matches/"):
		id := strings.TrimPrefix(path, "/lol/match/v5/matches/")
		m, ok := f.Matches[id]
		if !ok {
			writeError(w, http.StatusNotFound)
			return
		}
		writeJSON(w, m)
	default:
		writeError(w, http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorMessage is the message the stub puts in error envelopes.
func ErrorMessage(code int) string {
	return fmt.Sprintf("%s - stub", http.StatusText(code))
}

func writeError(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"status":{"message":%q,"status_code":%d}}`, ErrorMessage(code), code)
}
