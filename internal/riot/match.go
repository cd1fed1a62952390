package riot

import (
	"context"
	"fmt"
	"net/url"
)

// GetMatchIDsByPUUID gets the most recent match IDs for a player.
// count is clamped to 1..MaxMatchCount.
func (c *Client) GetMatchIDsByPUUID(ctx context.Context, puuid string, count int) ([]string, error) {
	if count < 1 {
		count = 1
	}
	if count > MaxMatchCount {
		count = MaxMatchCount
	}

	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?count=%d",
		c.regionalURL, url.PathEscape(puuid), count)
	op := fmt.Sprintf("fetch match ids for puuid %s", puuid)

	var matchIDs []string
	if err := c.makeAPIRequest(ctx, "match_ids", op, u, &matchIDs); err != nil {
		return nil, err
	}

	return matchIDs, nil
}

// GetMatchByID gets a single match by its ID, e.g. "NA1_5012345678".
func (c *Client) GetMatchByID(ctx context.Context, matchID string) (*Match, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.regionalURL, url.PathEscape(matchID))
	op := fmt.Sprintf("fetch match for match id %s", matchID)

	var match Match
	if err := c.makeAPIRequest(ctx, "match", op, u, &match); err != nil {
		return nil, err
	}

	return &match, nil
}
