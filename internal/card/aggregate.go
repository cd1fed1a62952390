// Package card turns a player's Riot data into a prompt and then into a
// generated player card image.
package card

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hunterjsb/leaguecard/internal/champion"
	"github.com/hunterjsb/leaguecard/internal/riot"
)

// Defaults for the match history fan-out. Riot's development key allows 20
// requests per second, so 16 matches at 4 in flight stays well under it.
const (
	DefaultMatchCount  = 16
	DefaultConcurrency = 4
)

// RiotAPI is the subset of the Riot client the aggregator needs.
type RiotAPI interface {
	GetAccountByRiotID(ctx context.Context, gameName, tagLine string) (*riot.Account, error)
	GetChampionMasteriesByPUUID(ctx context.Context, puuid string) ([]riot.ChampionMastery, error)
	GetLeagueEntriesByPUUID(ctx context.Context, puuid string) ([]riot.LeagueEntry, error)
	GetMatchIDsByPUUID(ctx context.Context, puuid string, count int) ([]string, error)
	GetMatchByID(ctx context.Context, matchID string) (*riot.Match, error)
	GetSummonerByPUUID(ctx context.Context, puuid string) (*riot.Summoner, error)
}

// ChampionLookup resolves a numeric champion id to its reference record.
// Unknown ids must return an error wrapping champion.ErrNotFound.
type ChampionLookup interface {
	ByKey(key string) (champion.Champion, error)
}

// ChampionData is one mastery record reduced to what the card shows.
type ChampionData struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// RankedData is the standing in one ranked queue.
type RankedData struct {
	QueueType string `json:"queueType"`
	Tier      string `json:"tier"`
	Rank      string `json:"rank"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
}

// MatchData is the requesting player's line from one recent match.
type MatchData struct {
	Assists                     int    `json:"assists"`
	BaronKills                  int    `json:"baronKills"`
	ChampLevel                  int    `json:"champLevel"`
	ChampionName                string `json:"championName"`
	Deaths                      int    `json:"deaths"`
	DragonKills                 int    `json:"dragonKills"`
	FirstBloodKill              bool   `json:"firstBloodKill"`
	FirstTowerKill              bool   `json:"firstTowerKill"`
	GoldEarned                  int    `json:"goldEarned"`
	Kills                       int    `json:"kills"`
	PentaKills                  int    `json:"pentaKills"`
	SummonerLevel               int    `json:"summonerLevel"`
	SummonerName                string `json:"summonerName"`
	TeamEarlySurrendered        bool   `json:"teamEarlySurrendered"`
	TeamPosition                string `json:"teamPosition"`
	TimePlayed                  int    `json:"timePlayed"`
	TotalDamageDealtToChampions int    `json:"totalDamageDealtToChampions"`
	TotalMinionsKilled          int    `json:"totalMinionsKilled"`
	TurretKills                 int    `json:"turretKills"`
	TurretTakedowns             int    `json:"turretTakedowns"`
	VisionScore                 int    `json:"visionScore"`
	WardsKilled                 int    `json:"wardsKilled"`
	WardsPlaced                 int    `json:"wardsPlaced"`
	Win                         bool   `json:"win"`
}

// Summary is everything the prompt is built from.
type Summary struct {
	Account       riot.Account   `json:"account"`
	SummonerLevel int            `json:"summonerLevel"`
	Champions     []ChampionData `json:"champions"`
	Ranked        []RankedData   `json:"ranked"`
	Matches       []MatchData    `json:"matches"`
}

// Aggregator fetches a player's data and reshapes it into a Summary.
type Aggregator struct {
	Riot      RiotAPI
	Champions ChampionLookup
	// MatchCount bounds how many recent matches are fetched.
	MatchCount int
	// Concurrency bounds how many match details are fetched at once.
	Concurrency int
	Logger      *zap.Logger
}

func (a *Aggregator) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// SummonerLevel returns the player's account level.
func (a *Aggregator) SummonerLevel(ctx context.Context, puuid string) (int, error) {
	summoner, err := a.Riot.GetSummonerByPUUID(ctx, puuid)
	if err != nil {
		return 0, err
	}
	return summoner.SummonerLevel, nil
}

// Champions maps mastery records to champion names, keeping Riot's order.
// Records whose champion id is not in the reference table are dropped.
func (a *Aggregator) Champions(ctx context.Context, puuid string) ([]ChampionData, error) {
	masteries, err := a.Riot.GetChampionMasteriesByPUUID(ctx, puuid)
	if err != nil {
		return nil, err
	}

	out := make([]ChampionData, 0, len(masteries))
	for _, m := range masteries {
		id := strconv.FormatInt(m.ChampionID, 10)
		c, err := a.Champions.ByKey(id)
		if errors.Is(err, champion.ErrNotFound) {
			a.logger().Debug("dropping mastery for unknown champion", zap.String("champion_id", id))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve champion %s: %w", id, err)
		}
		out = append(out, ChampionData{Name: c.Name, Level: m.ChampionLevel})
	}
	return out, nil
}

// Ranked maps league entries one-to-one.
func (a *Aggregator) Ranked(ctx context.Context, puuid string) ([]RankedData, error) {
	entries, err := a.Riot.GetLeagueEntriesByPUUID(ctx, puuid)
	if err != nil {
		return nil, err
	}

	out := make([]RankedData, len(entries))
	for i, e := range entries {
		out[i] = RankedData{
			QueueType: e.QueueType,
			Tier:      e.Tier,
			Rank:      e.Rank,
			Wins:      e.Wins,
			Losses:    e.Losses,
		}
	}
	return out, nil
}

// Matches fetches the most recent matches and projects the player's line
// from each. Details are fetched with at most Concurrency requests in
// flight; the result keeps the order of the match id list. Matches the
// player does not appear in are dropped. The first failed fetch cancels
// the remaining ones.
func (a *Aggregator) Matches(ctx context.Context, puuid string) ([]MatchData, error) {
	count := a.MatchCount
	if count <= 0 {
		count = DefaultMatchCount
	}
	limit := a.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	ids, err := a.Riot.GetMatchIDsByPUUID(ctx, puuid, count)
	if err != nil {
		return nil, err
	}
	if len(ids) > count {
		ids = ids[:count]
	}

	found := make([]*MatchData, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, id := range ids {
		g.Go(func() error {
			match, err := a.Riot.GetMatchByID(gctx, id)
			if err != nil {
				return err
			}
			p, ok := match.Participant(puuid)
			if !ok {
				a.logger().Warn("player missing from match participants",
					zap.String("match_id", id),
					zap.String("puuid", puuid),
				)
				return nil
			}
			md := projectParticipant(p)
			found[i] = &md
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]MatchData, 0, len(found))
	for _, md := range found {
		if md != nil {
			out = append(out, *md)
		}
	}
	return out, nil
}

func projectParticipant(p *riot.Participant) MatchData {
	return MatchData{
		Assists:                     p.Assists,
		BaronKills:                  p.BaronKills,
		ChampLevel:                  p.ChampLevel,
		ChampionName:                p.ChampionName,
		Deaths:                      p.Deaths,
		DragonKills:                 p.DragonKills,
		FirstBloodKill:              p.FirstBloodKill,
		FirstTowerKill:              p.FirstTowerKill,
		GoldEarned:                  p.GoldEarned,
		Kills:                       p.Kills,
		PentaKills:                  p.PentaKills,
		SummonerLevel:               p.SummonerLevel,
		SummonerName:                p.SummonerName,
		TeamEarlySurrendered:        p.TeamEarlySurrendered,
		TeamPosition:                p.TeamPosition,
		TimePlayed:                  p.TimePlayed,
		TotalDamageDealtToChampions: p.TotalDamageDealtToChampions,
		TotalMinionsKilled:          p.TotalMinionsKilled,
		TurretKills:                 p.TurretKills,
		TurretTakedowns:             p.TurretTakedowns,
		VisionScore:                 p.VisionScore,
		WardsKilled:                 p.WardsKilled,
		WardsPlaced:                 p.WardsPlaced,
		Win:                         p.Win,
	}
}

// Summarize runs every aggregation for an already resolved account.
// Calls are sequential except for the match detail fan-out.
func (a *Aggregator) Summarize(ctx context.Context, account *riot.Account) (*Summary, error) {
	level, err := a.SummonerLevel(ctx, account.PUUID)
	if err != nil {
		return nil, err
	}
	champions, err := a.Champions(ctx, account.PUUID)
	if err != nil {
		return nil, err
	}
	ranked, err := a.Ranked(ctx, account.PUUID)
	if err != nil {
		return nil, err
	}
	matches, err := a.Matches(ctx, account.PUUID)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Account:       *account,
		SummonerLevel: level,
		Champions:     champions,
		Ranked:        ranked,
		Matches:       matches,
	}, nil
}
