package champion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// DataDragonURL is the public static data CDN.
const DataDragonURL = "https://ddragon.leagueoflegends.com/"

// Fetcher downloads champion data from Data Dragon. Used to regenerate the
// bundled champion.json, never on the request path.
type Fetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewFetcher returns a Fetcher against the public CDN.
func NewFetcher() *Fetcher {
	return &Fetcher{BaseURL: DataDragonURL, Client: http.DefaultClient}
}

// LatestVersion returns the newest patch listed in api/versions.json.
func (f *Fetcher) LatestVersion(ctx context.Context) (string, error) {
	var versions []string
	if err := f.getJSON(ctx, f.BaseURL+"api/versions.json", &versions); err != nil {
		return "", fmt.Errorf("couldn't get the current version: %w", err)
	}
	if len(versions) == 0 {
		return "", errors.New("no versions available")
	}
	return versions[0], nil
}

// FetchLatest downloads champion.json for the newest patch in the given
// language, e.g. "en_US".
func (f *Fetcher) FetchLatest(ctx context.Context, language string) (*Dataset, error) {
	version, err := f.LatestVersion(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%scdn/%s/data/%s/champion.json", f.BaseURL, version, language)
	var ds Dataset
	if err := f.getJSON(ctx, url, &ds); err != nil {
		return nil, fmt.Errorf("couldn't get champion data for %s: %w", version, err)
	}

	// Validate before handing it to the caller to write to disk.
	if _, err := NewTable(ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (f *Fetcher) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("couldn't convert the body to json: %w", err)
	}
	return nil
}
