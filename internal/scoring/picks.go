package scoring

import (
	"fmt"
	"sort"

	"github.com/LogiStic1207/lol-draft-assistant/internal/catalog"
	"github.com/LogiStic1207/lol-draft-assistant/internal/engine"
	"github.com/LogiStic1207/lol-draft-assistant/internal/roster"
)

// PickType splits recommendations between the signature lane and the
// safety lane.
type PickType string

const (
	PickSignature PickType = "SIGNATURE"
	PickSafe      PickType = "SAFE"
)

// PickSuggestion is one ranked pick candidate.
type PickSuggestion struct {
	Champion catalog.Champion `json:"champion"`
	Score    float64          `json:"score"`
	Type     PickType         `json:"type"`
	SigScore float64          `json:"sig_score"`
	Reasons  []string         `json:"reasons"`
}

// PickBoard is the scored pick recommendation set: top 3 signature picks,
// top 5 safe picks, and the top 10 overall.
type PickBoard struct {
	Signature []PickSuggestion `json:"signature"`
	Safe      []PickSuggestion `json:"safe"`
	All       []PickSuggestion `json:"all"`
}

// Pick score weights. The sum intentionally rewards signature familiarity
// first, then safety and meta strength.
const (
	wSignature = 0.30
	wSafe      = 0.15
	wMastery   = 0.12
	wTeamGame  = 0.13
	wFlex      = 0.10
	wSeries    = 0.05
	wRisk      = 0.15
	wDraftNeed = 0.05
	wMetaPower = 0.15
)

// PickScores scores every available champion as a weighted sum of
// signature familiarity, safety, mastery, team-game value, flexibility,
// series value, risk, draft need, and meta power.
func (e *Engine) PickScores(available []catalog.Champion, st *engine.State, team *roster.Team, players []roster.Player) PickBoard {
	sigs := map[string]bool{}
	for _, id := range roster.TeamSignatures(team, players) {
		sigs[id] = true
	}
	ourPicks := []string{}
	if st != nil {
		if st.OurSide == engine.SideBlue {
			ourPicks = st.BluePicks
		} else {
			ourPicks = st.RedPicks
		}
	}

	scored := make([]PickSuggestion, 0, len(available))
	for _, c := range available {
		sigScore := 0.0
		if sigs[c.ID] {
			sigScore = 1.0
		}
		safe := safeScore(c)
		mastery := bestMastery(c, players)
		tgv := teamGameValue(c)
		flex := c.Tags.FlexValue / 2
		seriesVal := seriesValue(c, st)
		risk := c.Tags.ExecutionDifficulty / 2 * 0.5
		need := draftNeed(e.cat, c, ourPicks)
		metaPower := e.meta(c.ID)

		score := wSignature*sigScore + wSafe*safe + wMastery*mastery +
			wTeamGame*tgv + wFlex*flex + wSeries*seriesVal - wRisk*risk +
			wDraftNeed*need + wMetaPower*metaPower

		pickType := PickSafe
		if sigScore > 0 {
			pickType = PickSignature
		}
		scored = append(scored, PickSuggestion{
			Champion: c,
			Score:    score,
			Type:     pickType,
			SigScore: sigScore,
			Reasons:  pickReasons(sigScore, safe, mastery, tgv, flex, risk, metaPower),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	board := PickBoard{
		Signature: []PickSuggestion{},
		Safe:      []PickSuggestion{},
		All:       truncate(scored, 10),
	}
	for _, s := range scored {
		switch {
		case s.Type == PickSignature && len(board.Signature) < 3:
			board.Signature = append(board.Signature, s)
		case s.Type == PickSafe && len(board.Safe) < 5:
			board.Safe = append(board.Safe, s)
		}
	}
	return board
}

func safeScore(c catalog.Champion) float64 {
	safe := 0.5 + c.Tags.LaneStability*0.15 + c.Tags.Disengage*0.1 - c.Tags.ExecutionDifficulty*0.1
	return clamp(safe, 0, 1.0)
}

// bestMastery is the best familiarity any roster player has with the
// champion: signature 1.0, comfort 0.7, otherwise the recorded win rate.
// A champion no one has touched scores 0.
func bestMastery(c catalog.Champion, players []roster.Player) float64 {
	best := 0.0
	for _, p := range players {
		if contains(p.SignatureChamps, c.ID) {
			best = max(best, 1.0)
		} else if contains(p.ComfortChamps, c.ID) {
			best = max(best, 0.7)
		}
		if m, ok := p.Mastery[c.ID]; ok {
			best = max(best, m.WinRate())
		}
	}
	return best
}

func teamGameValue(c catalog.Champion) float64 {
	t := c.Tags
	return 0.25*t.ObjectiveControl/2 +
		0.20*t.EngageClarity/2 +
		0.20*t.LaneStability/2 +
		0.15*t.Disengage/2 +
		0.10*t.FlexValue/2 -
		0.20*t.ExecutionDifficulty/2
}

// seriesValue preserves flexible cards for later games: game 1 is a flat
// 0.5, afterwards flexibility and series depth raise the value.
func seriesValue(c catalog.Champion, st *engine.State) float64 {
	if st == nil {
		return 0.5
	}
	gameNo := st.CurrentGame
	maxGames := st.MaxGames
	if maxGames == 0 {
		maxGames = 3
	}
	if gameNo <= 1 {
		return 0.5
	}
	return 0.3 + c.Tags.FlexValue*0.15 + float64(gameNo)/float64(maxGames)*0.2
}

// draftNeed rewards candidates that patch the current composition's damage
// balance or missing engage.
func draftNeed(cat *catalog.Catalog, c catalog.Champion, ourPicks []string) float64 {
	if len(ourPicks) == 0 {
		return 0.3
	}
	ap, ad := 0, 0
	hasEngage := false
	for _, cid := range ourPicks {
		pc, ok := cat.ByID(cid)
		if !ok {
			continue
		}
		switch pc.Dmg {
		case catalog.DamageAP:
			ap++
		case catalog.DamageAD:
			ad++
		}
		if pc.Tags.EngageClarity >= 2 {
			hasEngage = true
		}
	}
	need := 0.0
	if ap >= 2 && c.Dmg == catalog.DamageAD {
		need += 0.3
	}
	if ad >= 2 && c.Dmg == catalog.DamageAP {
		need += 0.3
	}
	if !hasEngage && c.Tags.EngageClarity >= 2 {
		need += 0.2
	}
	return clamp(need, 0, 1.0)
}

func pickReasons(sig, safe, mastery, tgv, flex, risk, metaPower float64) []string {
	r := []string{}
	if sig > 0 {
		r = append(r, "team signature pick")
	}
	if mastery >= 0.8 {
		r = append(r, fmt.Sprintf("high mastery (%.0f%%)", mastery*100))
	}
	if safe >= 0.7 {
		r = append(r, "strong lane stability")
	}
	if tgv >= 0.3 {
		r = append(r, "high teamfight contribution")
	}
	if flex >= 0.4 {
		r = append(r, "flex pick, hides draft intent")
	}
	if risk > 0.3 {
		r = append(r, "high execution difficulty")
	}
	if metaPower > 0.05 {
		r = append(r, "buffed this patch")
	}
	if metaPower < -0.05 {
		r = append(r, "nerfed this patch")
	}
	if len(r) == 0 {
		r = append(r, "general recommendation")
	}
	return r
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
