// Package roster holds the team, player, and opponent profiles that feed
// the scoring engine and are persisted by the store.
package roster

import (
	"time"

	"github.com/LogiStic1207/lol-draft-assistant/internal/catalog"
	"github.com/LogiStic1207/lol-draft-assistant/internal/engine"
)

// Team is our own team's profile.
type Team struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	MainShotcaller string   `json:"main_shotcaller"`
	StyleTags      []string `json:"style_tags"`
	SignaturePicks []string `json:"signature_picks"`
}

// MasteryGame is one entry of a player's recent-results window.
type MasteryGame struct {
	Date time.Time `json:"date"`
	Won  bool      `json:"won"`
}

// Mastery is a player's track record on one champion.
type Mastery struct {
	Games  int           `json:"games"`
	Wins   int           `json:"wins"`
	Recent []MasteryGame `json:"recent"`
}

// WinRate returns wins/games, defaulting to 0.5 before any games.
func (m Mastery) WinRate() float64 {
	if m.Games == 0 {
		return 0.5
	}
	return float64(m.Wins) / float64(m.Games)
}

// Player is one roster member.
type Player struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Role            catalog.Role       `json:"role"`
	SignatureChamps []string           `json:"signature_champs"`
	ComfortChamps   []string           `json:"comfort_champs"`
	AvoidChamps     []string           `json:"avoid_champs"`
	Mastery         map[string]Mastery `json:"mastery"`
}

// Opponent is a scouted enemy team.
type Opponent struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	PickFreq    map[string]int    `json:"pick_freq"`
	StyleTags   []string          `json:"style_tags"`
	Patterns    []string          `json:"patterns"`
	BanReaction map[string]string `json:"ban_reaction"`
}

// Series is an archived (or in-progress) series of games.
type Series struct {
	ID         string              `json:"id"`
	Date       time.Time           `json:"date"`
	OpponentID string              `json:"opponent_id"`
	Format     engine.Format       `json:"format"`
	MatchType  string              `json:"match_type"`
	Patch      string              `json:"patch"`
	Rule       string              `json:"rule"`
	Games      []engine.GameRecord `json:"games"`
	Completed  bool                `json:"completed"`
}

// TeamSignatures collects the team's and every player's signature champions,
// deduplicated in first-seen order.
func TeamSignatures(team *Team, players []Player) []string {
	seen := map[string]bool{}
	sigs := []string{}
	add := func(ids []string) {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				sigs = append(sigs, id)
			}
		}
	}
	if team != nil {
		add(team.SignaturePicks)
	}
	for _, p := range players {
		add(p.SignatureChamps)
	}
	return sigs
}

// SignatureMap keys each player's signature list by player id, the shape
// the draft engine's remaining-signature check consumes.
func SignatureMap(players []Player) map[string][]string {
	out := make(map[string][]string, len(players))
	for _, p := range players {
		out[p.ID] = p.SignatureChamps
	}
	return out
}
