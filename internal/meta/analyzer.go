package meta

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// statFields are the base stats compared between patches. A higher value is
// a buff for all of them.
var statFields = []string{
	"hp", "hpperlevel", "mp", "mpperlevel",
	"armor", "armorperlevel", "spellblock", "spellblockperlevel",
	"attackdamage", "attackdamageperlevel",
	"attackspeed", "attackspeedperlevel",
	"hpregen", "hpregenperlevel", "mpregen", "mpregenperlevel",
	"movespeed", "attackrange",
}

type ChangeType string

const (
	ChangeBuff ChangeType = "BUFF"
	ChangeNerf ChangeType = "NERF"
)

// Change is one detected stat or spell delta between two patches.
type Change struct {
	ChampionID string     `json:"champion_id"`
	Category   string     `json:"category"` // "stats" | "spell"
	Field      string     `json:"field"`
	Old        float64    `json:"old"`
	New        float64    `json:"new"`
	Delta      float64    `json:"delta"`
	Type       ChangeType `json:"type"`
}

// ChampionMeta aggregates one champion's patch changes into a power score.
type ChampionMeta struct {
	Score   float64  `json:"score"`
	Buffs   int      `json:"buffs"`
	Nerfs   int      `json:"nerfs"`
	Changes []Change `json:"changes"`
}

// Summary lists buffed and nerfed champions for display.
type Summary struct {
	Buffed       []ScoredChampion `json:"buffed"`
	Nerfed       []ScoredChampion `json:"nerfed"`
	TotalChanged int              `json:"total_changed"`
}

type ScoredChampion struct {
	ChampionID string  `json:"champion_id"`
	Score      float64 `json:"score"`
	Buffs      int     `json:"buffs"`
	Nerfs      int     `json:"nerfs"`
}

// Analyzer owns the computed meta scores plus manual adjustments. Reads are
// concurrent (scoring calls PowerScore per champion); Refresh replaces the
// score table atomically.
type Analyzer struct {
	mu     sync.RWMutex
	scores map[string]ChampionMeta
	manual map[string]float64

	client *Client
	log    *zap.Logger
}

func NewAnalyzer(client *Client, log *zap.Logger) *Analyzer {
	return &Analyzer{
		scores: map[string]ChampionMeta{},
		manual: map[string]float64{},
		client: client,
		log:    log,
	}
}

// PowerScore returns the champion's combined auto+manual patch signal,
// clamped to [-0.3, 0.3]. Unknown champions are neutral.
func (a *Analyzer) PowerScore(championID string) float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return clampScore(a.scores[championID].Score + a.manual[championID])
}

// SetManualAdjustment overrides the signal for item or system changes the
// stat diff cannot see.
func (a *Analyzer) SetManualAdjustment(championID string, score float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.manual[championID] = clampScore(score)
}

func (a *Analyzer) RemoveManualAdjustment(championID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.manual, championID)
}

// Refresh diffs every champion between two patch versions and rebuilds the
// score table. Champions that fail to fetch are skipped, not fatal.
func (a *Analyzer) Refresh(ctx context.Context, prevVersion, currVersion string, championIDs []string) ([]Change, error) {
	if prevVersion == "" || currVersion == "" {
		return nil, fmt.Errorf("refresh needs two versions, got %q and %q", prevVersion, currVersion)
	}
	a.log.Info("diffing patches",
		zap.String("prev", prevVersion), zap.String("curr", currVersion),
		zap.Int("champions", len(championIDs)))

	allChanges := []Change{}
	scores := map[string]ChampionMeta{}
	for _, cid := range championIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		oldData, err := a.client.ChampionDetail(ctx, prevVersion, cid)
		if err != nil {
			a.log.Warn("skipping champion", zap.String("champion", cid), zap.Error(err))
			continue
		}
		newData, err := a.client.ChampionDetail(ctx, currVersion, cid)
		if err != nil {
			a.log.Warn("skipping champion", zap.String("champion", cid), zap.Error(err))
			continue
		}
		changes := diffStats(oldData, newData, cid)
		if len(changes) == 0 {
			continue
		}
		allChanges = append(allChanges, changes...)
		buffs, nerfs := 0, 0
		for _, ch := range changes {
			if ch.Type == ChangeBuff {
				buffs++
			} else {
				nerfs++
			}
		}
		scores[cid] = ChampionMeta{
			Score:   clampScore(float64(buffs-nerfs) * 0.1),
			Buffs:   buffs,
			Nerfs:   nerfs,
			Changes: changes,
		}
	}

	a.mu.Lock()
	a.scores = scores
	a.mu.Unlock()

	a.log.Info("patch diff complete",
		zap.Int("changes", len(allChanges)), zap.Int("champions_changed", len(scores)))
	return allChanges, nil
}

// Changes returns the recorded deltas for one champion.
func (a *Analyzer) Changes(championID string) []Change {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.scores[championID].Changes
}

// Summary lists buffed champions by descending score and nerfed champions
// by ascending score.
func (a *Analyzer) Summary() Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := Summary{Buffed: []ScoredChampion{}, Nerfed: []ScoredChampion{}, TotalChanged: len(a.scores)}
	for cid, m := range a.scores {
		sc := ScoredChampion{ChampionID: cid, Score: m.Score, Buffs: m.Buffs, Nerfs: m.Nerfs}
		switch {
		case m.Score > 0:
			s.Buffed = append(s.Buffed, sc)
		case m.Score < 0:
			s.Nerfed = append(s.Nerfed, sc)
		}
	}
	sort.Slice(s.Buffed, func(i, j int) bool {
		if s.Buffed[i].Score != s.Buffed[j].Score {
			return s.Buffed[i].Score > s.Buffed[j].Score
		}
		return s.Buffed[i].ChampionID < s.Buffed[j].ChampionID
	})
	sort.Slice(s.Nerfed, func(i, j int) bool {
		if s.Nerfed[i].Score != s.Nerfed[j].Score {
			return s.Nerfed[i].Score < s.Nerfed[j].Score
		}
		return s.Nerfed[i].ChampionID < s.Nerfed[j].ChampionID
	})
	return s
}

// diffStats compares one champion's base stats plus spell cooldowns and
// costs. For cooldowns and costs a lower value is a buff.
func diffStats(oldData, newData *ChampionDetail, championID string) []Change {
	changes := []Change{}
	if oldData == nil || newData == nil {
		return changes
	}
	for _, field := range statFields {
		ov, okOld := oldData.Stats[field]
		nv, okNew := newData.Stats[field]
		if !okOld || !okNew || ov == nv {
			continue
		}
		delta := nv - ov
		typ := ChangeBuff
		if delta < 0 {
			typ = ChangeNerf
		}
		changes = append(changes, Change{
			ChampionID: championID, Category: "stats", Field: field,
			Old: ov, New: nv, Delta: delta, Type: typ,
		})
	}
	for i := 0; i < min(len(oldData.Spells), len(newData.Spells)); i++ {
		os, ns := oldData.Spells[i], newData.Spells[i]
		name := ns.Name
		if name == "" {
			name = fmt.Sprintf("Spell %d", i)
		}
		changes = append(changes, diffSpellSeries(championID, name+" CD", os.Cooldown, ns.Cooldown)...)
		changes = append(changes, diffSpellSeries(championID, name+" cost", os.Cost, ns.Cost)...)
	}
	return changes
}

func diffSpellSeries(championID, field string, oldVals, newVals []float64) []Change {
	if len(oldVals) == 0 || len(newVals) == 0 {
		return nil
	}
	oldAvg, newAvg := avg(oldVals), avg(newVals)
	if math.Abs(oldAvg-newAvg) <= 0.01 {
		return nil
	}
	delta := newAvg - oldAvg
	typ := ChangeNerf
	if delta < 0 {
		typ = ChangeBuff // lower cooldown/cost is a buff
	}
	return []Change{{
		ChampionID: championID, Category: "spell", Field: field,
		Old: oldAvg, New: newAvg, Delta: delta, Type: typ,
	}}
}

func avg(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func clampScore(v float64) float64 {
	return math.Max(-0.3, math.Min(0.3, v))
}
