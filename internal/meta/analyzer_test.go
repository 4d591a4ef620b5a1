package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDiffStats(t *testing.T) {
	oldData := &ChampionDetail{
		Stats: map[string]float64{"hp": 600, "armor": 30, "movespeed": 335},
		Spells: []Spell{
			{Name: "Orb", Cooldown: []float64{8, 7, 6}, Cost: []float64{60, 60, 60}},
		},
	}
	newData := &ChampionDetail{
		Stats: map[string]float64{"hp": 620, "armor": 27, "movespeed": 335},
		Spells: []Spell{
			{Name: "Orb", Cooldown: []float64{7, 6, 5}, Cost: []float64{60, 60, 60}},
		},
	}

	changes := diffStats(oldData, newData, "Ahri")
	require.Len(t, changes, 3)

	byField := map[string]Change{}
	for _, ch := range changes {
		byField[ch.Field] = ch
	}

	hp := byField["hp"]
	assert.Equal(t, ChangeBuff, hp.Type)
	assert.Equal(t, 20.0, hp.Delta)
	assert.Equal(t, "stats", hp.Category)

	armor := byField["armor"]
	assert.Equal(t, ChangeNerf, armor.Type)

	// Lower cooldown is a buff.
	cd := byField["Orb CD"]
	assert.Equal(t, ChangeBuff, cd.Type)
	assert.Equal(t, "spell", cd.Category)
	assert.InDelta(t, -1.0, cd.Delta, 1e-9)
}

func TestDiffStatsNilAndUnchanged(t *testing.T) {
	assert.Empty(t, diffStats(nil, &ChampionDetail{}, "X"))
	assert.Empty(t, diffStats(&ChampionDetail{}, nil, "X"))

	same := &ChampionDetail{Stats: map[string]float64{"hp": 600}}
	assert.Empty(t, diffStats(same, same, "X"))
}

func TestDiffSpellSeries(t *testing.T) {
	cases := []struct {
		name     string
		oldVals  []float64
		newVals  []float64
		wantType ChangeType
		wantNone bool
	}{
		{name: "lower cost is a buff", oldVals: []float64{80, 80}, newVals: []float64{70, 70}, wantType: ChangeBuff},
		{name: "higher cooldown is a nerf", oldVals: []float64{10, 9}, newVals: []float64{12, 11}, wantType: ChangeNerf},
		{name: "sub-threshold noise ignored", oldVals: []float64{10}, newVals: []float64{10.005}, wantNone: true},
		{name: "missing rank data ignored", oldVals: nil, newVals: []float64{10}, wantNone: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := diffSpellSeries("X", "Q CD", tc.oldVals, tc.newVals)
			if tc.wantNone {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tc.wantType, got[0].Type)
		})
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.3, clampScore(1.5))
	assert.Equal(t, -0.3, clampScore(-1.5))
	assert.Equal(t, 0.1, clampScore(0.1))
}

func TestManualAdjustments(t *testing.T) {
	a := NewAnalyzer(NewClient("", zap.NewNop()), zap.NewNop())

	assert.Zero(t, a.PowerScore("Ahri"), "unknown champion is neutral")

	a.SetManualAdjustment("Ahri", 0.2)
	assert.InDelta(t, 0.2, a.PowerScore("Ahri"), 1e-9)

	// Manual values clamp on the way in and the combined score clamps too.
	a.SetManualAdjustment("Ahri", 5.0)
	assert.Equal(t, 0.3, a.PowerScore("Ahri"))

	a.RemoveManualAdjustment("Ahri")
	assert.Zero(t, a.PowerScore("Ahri"))
}

// ddragonStub serves the three endpoints the client reads, with per-version
// champion stats.
func ddragonStub(t *testing.T, versions []string, stats map[string]map[string]map[string]float64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/versions.json", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(versions)
	})
	for version, champs := range stats {
		mux.HandleFunc("/cdn/"+version+"/data/en_US/champion.json", func(w http.ResponseWriter, r *http.Request) {
			data := map[string]any{}
			for cid := range champs {
				data[cid] = struct{}{}
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
		})
		for cid, st := range champs {
			path := fmt.Sprintf("/cdn/%s/data/en_US/champion/%s.json", version, cid)
			mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"data": map[string]any{cid: ChampionDetail{Stats: st}},
				})
			})
		}
	}
	return httptest.NewServer(mux)
}

func TestRefreshComputesScores(t *testing.T) {
	srv := ddragonStub(t, []string{"15.2.1", "15.1.1"}, map[string]map[string]map[string]float64{
		"15.1.1": {
			"Ahri": {"hp": 600, "armor": 30},
			"Zed":  {"hp": 650, "attackdamage": 63},
		},
		"15.2.1": {
			"Ahri": {"hp": 630, "armor": 32},        // two buffs
			"Zed":  {"hp": 640, "attackdamage": 61}, // two nerfs
		},
	})
	defer srv.Close()

	a := NewAnalyzer(NewClient(srv.URL, zap.NewNop()), zap.NewNop())
	changes, err := a.Refresh(context.Background(), "15.1.1", "15.2.1", []string{"Ahri", "Zed", "Ghost"})
	require.NoError(t, err)
	assert.Len(t, changes, 4)

	assert.InDelta(t, 0.2, a.PowerScore("Ahri"), 1e-9)
	assert.InDelta(t, -0.2, a.PowerScore("Zed"), 1e-9)
	// Unfetchable champions are skipped, not fatal.
	assert.Zero(t, a.PowerScore("Ghost"))

	summary := a.Summary()
	require.Len(t, summary.Buffed, 1)
	require.Len(t, summary.Nerfed, 1)
	assert.Equal(t, "Ahri", summary.Buffed[0].ChampionID)
	assert.Equal(t, "Zed", summary.Nerfed[0].ChampionID)
	assert.Equal(t, 2, summary.TotalChanged)

	assert.Len(t, a.Changes("Ahri"), 2)
}

func TestRefreshRequiresVersions(t *testing.T) {
	a := NewAnalyzer(NewClient("", zap.NewNop()), zap.NewNop())
	_, err := a.Refresh(context.Background(), "", "15.2.1", nil)
	assert.Error(t, err)
}

func TestCheckUpdate(t *testing.T) {
	srv := ddragonStub(t, []string{"15.2.1", "15.1.1"}, map[string]map[string]map[string]float64{
		"15.2.1": {
			"Ahri": {"hp": 600},
			"Mel":  {"hp": 580},
		},
	})
	defer srv.Close()

	a := NewAnalyzer(NewClient(srv.URL, zap.NewNop()), zap.NewNop())
	info, err := a.CheckUpdate(context.Background(), "15.1.1", []string{"Ahri", "OldOne"})
	require.NoError(t, err)

	assert.Equal(t, "15.2.1", info.Latest)
	assert.True(t, info.Outdated)
	assert.Equal(t, []string{"Mel"}, info.NewChampions)
	assert.Equal(t, []string{"OldOne"}, info.RemovedChampions)

	prev, err := a.PreviousVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "15.1.1", prev)
}

func TestClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	_, err := c.Versions(context.Background())
	assert.Error(t, err)
	_, err = c.ChampionDetail(context.Background(), "15.2.1", "Ahri")
	assert.Error(t, err)
}
