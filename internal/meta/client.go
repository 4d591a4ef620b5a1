// Package meta derives a per-champion patch power signal in [-0.3, 0.3] by
// diffing DDragon champion stats between two patch versions. The draft core
// consumes the signal through an injected lookup and treats 0 as neutral.
package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const DefaultBaseURL = "https://ddragon.leagueoflegends.com"

// Client fetches version and champion data from DDragon.
type Client struct {
	base string
	http *http.Client
	log  *zap.Logger
}

func NewClient(baseURL string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: 15 * time.Second},
		log:  log,
	}
}

// Spell carries the per-rank numbers we diff between patches.
type Spell struct {
	Name     string    `json:"name"`
	Cooldown []float64 `json:"cooldown"`
	Cost     []float64 `json:"cost"`
}

// ChampionDetail is the subset of a DDragon champion document the analyzer
// compares.
type ChampionDetail struct {
	Stats  map[string]float64 `json:"stats"`
	Spells []Spell            `json:"spells"`
}

// Versions returns the published patch versions, newest first.
func (c *Client) Versions(ctx context.Context) ([]string, error) {
	var versions []string
	if err := c.getJSON(ctx, c.base+"/api/versions.json", &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// ChampionIDs returns every champion id present in a patch.
func (c *Client) ChampionIDs(ctx context.Context, version string) ([]string, error) {
	var doc struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	url := fmt.Sprintf("%s/cdn/%s/data/en_US/champion.json", c.base, version)
	if err := c.getJSON(ctx, url, &doc); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(doc.Data))
	for id := range doc.Data {
		ids = append(ids, id)
	}
	return ids, nil
}

// ChampionDetail fetches one champion's stat block for a patch.
func (c *Client) ChampionDetail(ctx context.Context, version, championID string) (*ChampionDetail, error) {
	var doc struct {
		Data map[string]ChampionDetail `json:"data"`
	}
	url := fmt.Sprintf("%s/cdn/%s/data/en_US/champion/%s.json", c.base, version, championID)
	if err := c.getJSON(ctx, url, &doc); err != nil {
		return nil, err
	}
	detail, ok := doc.Data[championID]
	if !ok {
		return nil, fmt.Errorf("champion %s missing from %s", championID, version)
	}
	return &detail, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ddragon get %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ddragon get %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ddragon decode %s: %w", url, err)
	}
	return nil
}
