// Package scoring ranks champions for banning, picking, and opponent-pick
// prediction. Every function is pure: same inputs, same ranked output, with
// ties broken by catalog order.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/LogiStic1207/lol-draft-assistant/internal/catalog"
	"github.com/LogiStic1207/lol-draft-assistant/internal/engine"
	"github.com/LogiStic1207/lol-draft-assistant/internal/roster"
)

// MetaSource supplies the per-champion patch power signal in [-0.3, 0.3].
type MetaSource func(championID string) float64

// Neutral is the MetaSource used when no patch data is available.
func Neutral(string) float64 { return 0 }

// Engine evaluates candidates against the catalog and an injected meta
// signal. It never mutates draft state.
type Engine struct {
	cat  *catalog.Catalog
	meta MetaSource
}

func New(cat *catalog.Catalog, meta MetaSource) *Engine {
	if meta == nil {
		meta = Neutral
	}
	return &Engine{cat: cat, meta: meta}
}

// Prediction is one candidate for the opponent's next pick.
type Prediction struct {
	Champion  catalog.Champion `json:"champion"`
	Score     float64          `json:"score"`
	FreqScore float64          `json:"freq_score"`
	RoleNeed  float64          `json:"role_need"`
}

// PredictEnemyPicks scores available champions by historical pick frequency
// weighted by whether they still fill an open role for the opponent.
// Returns the top 5.
func (e *Engine) PredictEnemyPicks(available []catalog.Champion, opp *roster.Opponent, enemyPicks []string) []Prediction {
	freq := map[string]int{}
	if opp != nil && opp.PickFreq != nil {
		freq = opp.PickFreq
	}
	total := 0
	for _, n := range freq {
		total += n
	}
	if total == 0 {
		total = 1
	}

	// Greedy one-role-per-pick assignment: each enemy pick fills the first
	// still-open role on its role list.
	filled := map[catalog.Role]bool{}
	for _, cid := range enemyPicks {
		c, ok := e.cat.ByID(cid)
		if !ok {
			continue
		}
		for _, r := range c.Roles {
			if !filled[r] {
				filled[r] = true
				break
			}
		}
	}

	preds := make([]Prediction, 0, len(available))
	for _, c := range available {
		freqScore := float64(freq[c.ID]) / float64(total)
		roleNeed := 0.3
		for _, r := range c.Roles {
			if !filled[r] {
				roleNeed = 1.0
				break
			}
		}
		preds = append(preds, Prediction{
			Champion:  c,
			Score:     freqScore * roleNeed,
			FreqScore: freqScore,
			RoleNeed:  roleNeed,
		})
	}
	sort.SliceStable(preds, func(i, j int) bool { return preds[i].Score > preds[j].Score })
	return truncate(preds, 5)
}

// BanSuggestion is one ranked ban candidate with its component scores.
type BanSuggestion struct {
	Champion     catalog.Champion `json:"champion"`
	Score        float64          `json:"score"`
	PEnemy       float64          `json:"p_enemy"`
	Threat       float64          `json:"threat"`
	SeriesImpact float64          `json:"series_impact"`
	Reasons      []string         `json:"reasons"`
}

// defaultPEnemy is the floor probability for champions outside the top-5
// prediction list.
const defaultPEnemy = 0.05

// BanScores ranks ban candidates by predicted enemy pick probability,
// threat, and fearless series impact. Returns the top 5.
func (e *Engine) BanScores(available []catalog.Champion, opp *roster.Opponent, st *engine.State, team *roster.Team, players []roster.Player) []BanSuggestion {
	enemyPicks := []string{}
	if st != nil {
		if st.OurSide == engine.SideBlue {
			enemyPicks = st.RedPicks
		} else {
			enemyPicks = st.BluePicks
		}
	}
	predMap := map[string]float64{}
	for _, p := range e.PredictEnemyPicks(available, opp, enemyPicks) {
		predMap[p.Champion.ID] = p.Score
	}
	sigs := roster.TeamSignatures(team, players)

	out := make([]BanSuggestion, 0, len(available))
	for _, c := range available {
		pEnemy, ok := predMap[c.ID]
		if !ok || pEnemy == 0 {
			pEnemy = defaultPEnemy
		}
		threat := e.threat(c, sigs, opp)
		impact := seriesImpact(c, st)
		out = append(out, BanSuggestion{
			Champion:     c,
			Score:        pEnemy * threat * (1 + impact),
			PEnemy:       pEnemy,
			Threat:       threat,
			SeriesImpact: impact,
			Reasons:      banReasons(c, pEnemy, impact, opp),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return truncate(out, 5)
}

func (e *Engine) threat(c catalog.Champion, teamSigs []string, opp *roster.Opponent) float64 {
	t := 0.5
	if len(teamSigs) > 0 {
		t += 0.1
	}
	switch freq := oppFreq(opp, c.ID); {
	case freq >= 3:
		t += 0.2
	case freq >= 1:
		t += 0.1
	}
	t += c.Tags.EngageClarity * 0.05
	t += c.Tags.ObjectiveControl * 0.05
	if meta := e.meta(c.ID); meta > 0 {
		t += meta * 0.5 // a buffed champion is more threatening
	}
	return clamp(t, 0, 1.0)
}

func seriesImpact(c catalog.Champion, st *engine.State) float64 {
	if st == nil {
		return 0
	}
	gameNo := st.CurrentGame
	if gameNo < 1 {
		gameNo = 1
	}
	impact := c.Tags.FlexValue*0.15 + float64(gameNo-1)*0.1
	return clamp(impact, 0, 0.5)
}

func banReasons(c catalog.Champion, pEnemy, impact float64, opp *roster.Opponent) []string {
	reasons := []string{}
	if pEnemy > 0.15 {
		reasons = append(reasons, fmt.Sprintf("favored enemy pick (%.0f%% predicted)", pEnemy*100))
	}
	if freq := oppFreq(opp, c.ID); freq >= 3 {
		reasons = append(reasons, fmt.Sprintf("picked %d times by opponent", freq))
	}
	if c.Tags.EngageClarity >= 2 {
		reasons = append(reasons, "strong engage threat")
	}
	if c.Tags.ObjectiveControl >= 2 {
		reasons = append(reasons, "strong objective control")
	}
	if impact > 0.2 {
		reasons = append(reasons, "high series impact under fearless lock")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "general threat ban")
	}
	return reasons
}

func oppFreq(opp *roster.Opponent, championID string) int {
	if opp == nil || opp.PickFreq == nil {
		return 0
	}
	return opp.PickFreq[championID]
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
