package riot

import (
	"context"
	"fmt"
	"net/url"
)

// GetChampionMasteriesByPUUID returns every champion mastery record for the
// player, ordered by Riot (highest points first).
func (c *Client) GetChampionMasteriesByPUUID(ctx context.Context, puuid string) ([]ChampionMastery, error) {
	u := fmt.Sprintf("%s/lol/champion-mastery/v4/champion-masteries/by-puuid/%s",
		c.platformURL, url.PathEscape(puuid))
	op := fmt.Sprintf("fetch champion mastery for puuid %s", puuid)

	var masteries []ChampionMastery
	if err := c.makeAPIRequest(ctx, "champion_mastery", op, u, &masteries); err != nil {
		return nil, err
	}

	return masteries, nil
}

// GetLeagueEntriesByPUUID returns the ranked standing for each queue the
// player has placed in. Unranked players get an empty slice.
func (c *Client) GetLeagueEntriesByPUUID(ctx context.Context, puuid string) ([]LeagueEntry, error) {
	u := fmt.Sprintf("%s/lol/league/v4/entries/by-puuid/%s", c.platformURL, url.PathEscape(puuid))
	op := fmt.Sprintf("fetch league ranks for puuid %s", puuid)

	var entries []LeagueEntry
	if err := c.makeAPIRequest(ctx, "league_entries", op, u, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}
