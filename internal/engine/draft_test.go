package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LogiStic1207/lol-draft-assistant/internal/catalog"
)

// testCatalog builds a synthetic catalog big enough for multi-game series
// (each game consumes 20 champions, 10 of which lock).
func testCatalog(n int) *catalog.Catalog {
	champs := make([]catalog.Champion, n)
	for i := range champs {
		champs[i] = catalog.Champion{
			ID:    fmt.Sprintf("champ%02d", i),
			Roles: []catalog.Role{catalog.Roles[i%len(catalog.Roles)]},
			Dmg:   catalog.DamageAD,
		}
	}
	return catalog.New(champs)
}

// runFullDraft selects the first available champion for all 20 steps.
func runFullDraft(t *testing.T, d *Draft) {
	t.Helper()
	for {
		if _, ok := d.CurrentTurn(); !ok {
			return
		}
		avail := d.AvailableChampions()
		require.NotEmpty(t, avail)
		_, err := d.Select(avail[0].ID)
		require.NoError(t, err)
	}
}

func TestStartSeriesDefaults(t *testing.T) {
	cases := []struct {
		name         string
		format       Format
		side         Side
		wantFormat   Format
		wantMaxGames int
		wantSide     Side
	}{
		{name: "BO3 blue", format: FormatBO3, side: SideBlue, wantFormat: FormatBO3, wantMaxGames: 3, wantSide: SideBlue},
		{name: "BO5 red", format: FormatBO5, side: SideRed, wantFormat: FormatBO5, wantMaxGames: 5, wantSide: SideRed},
		{name: "unknown format falls back to BO3", format: "BO7", side: SideBlue, wantFormat: FormatBO3, wantMaxGames: 3, wantSide: SideBlue},
		{name: "empty side falls back to blue", format: FormatBO3, side: "", wantFormat: FormatBO3, wantMaxGames: 3, wantSide: SideBlue},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := New(testCatalog(30))
			s := d.StartSeries(tc.format, "opp-1", tc.side)
			assert.Equal(t, tc.wantFormat, s.Format)
			assert.Equal(t, tc.wantMaxGames, s.MaxGames)
			assert.Equal(t, tc.wantSide, s.OurSide)
			assert.Equal(t, 1, s.CurrentGame)
			assert.Equal(t, PhaseBan1, s.Phase)
			assert.False(t, s.IsSeriesComplete)
		})
	}
}

func TestOperationsWithoutSeries(t *testing.T) {
	d := New(testCatalog(30))

	_, err := d.Select("champ00")
	assert.ErrorIs(t, err, ErrNoSeries)
	_, err = d.StartGame(1, SideBlue)
	assert.ErrorIs(t, err, ErrNoSeries)
	_, err = d.Undo()
	assert.ErrorIs(t, err, ErrNoSeries)
	_, err = d.FinishGame(ResultWin, "", "", nil)
	assert.ErrorIs(t, err, ErrNoSeries)

	_, ok := d.CurrentTurn()
	assert.False(t, ok)
	assert.Equal(t, PhaseNone, d.Phase())
	assert.Empty(t, d.OurPicks())
	assert.Len(t, d.AvailableChampions(), 30)
}

func TestSelectFollowsFixedOrder(t *testing.T) {
	d := New(testCatalog(30))
	d.StartSeries(FormatBO3, "opp-1", SideBlue)

	turn, ok := d.CurrentTurn()
	require.True(t, ok)
	assert.Equal(t, TurnStep{Side: SideBlue, Action: ActionBan, Phase: PhaseBan1}, turn)
	assert.True(t, d.IsOurTurn())

	_, err := d.Select("champ00")
	require.NoError(t, err)

	turn, ok = d.CurrentTurn()
	require.True(t, ok)
	assert.Equal(t, SideRed, turn.Side)
	assert.False(t, d.IsOurTurn())
	assert.Equal(t, []string{"champ00"}, d.State().BlueBans)
}

func TestSelectRejectsUnavailable(t *testing.T) {
	cases := []struct {
		name  string
		setup func(d *Draft)
		pick  string
	}{
		{
			name:  "already banned",
			setup: func(d *Draft) { _, _ = d.Select("champ00") },
			pick:  "champ00",
		},
		{
			name: "fearless locked",
			setup: func(d *Draft) {
				d.State().GlobalLocked = append(d.State().GlobalLocked, "champ05")
			},
			pick: "champ05",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := New(testCatalog(30))
			d.StartSeries(FormatBO3, "opp-1", SideBlue)
			tc.setup(d)
			_, err := d.Select(tc.pick)
			assert.ErrorIs(t, err, ErrChampionUnavailable)
		})
	}
}

func TestPhaseProgression(t *testing.T) {
	d := New(testCatalog(30))
	d.StartSeries(FormatBO3, "opp-1", SideBlue)

	wantPhases := []Phase{}
	for _, step := range DraftOrder[1:] {
		wantPhases = append(wantPhases, step.Phase)
	}
	wantPhases = append(wantPhases, PhaseDone)

	for i, want := range wantPhases {
		avail := d.AvailableChampions()
		_, err := d.Select(avail[0].ID)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, want, d.State().Phase, "after step %d", i)
	}
	assert.True(t, d.State().IsComplete)

	_, err := d.Select("champ29")
	assert.ErrorIs(t, err, ErrGameAlreadyCompleted)
}

func TestNoChampionAppearsTwiceWithinGame(t *testing.T) {
	d := New(testCatalog(30))
	d.StartSeries(FormatBO3, "opp-1", SideBlue)
	runFullDraft(t, d)

	s := d.State()
	seen := map[string]bool{}
	for _, list := range [][]string{s.GlobalLocked, s.BlueBans, s.RedBans, s.BluePicks, s.RedPicks} {
		for _, id := range list {
			assert.False(t, seen[id], "champion %s appears twice", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, 20)
}

func TestUndoIsLeftInverseOfSelect(t *testing.T) {
	d := New(testCatalog(30))
	d.StartSeries(FormatBO3, "opp-1", SideBlue)

	// Exercise the inverse at every step of the draft, including the
	// completing one.
	for {
		if _, ok := d.CurrentTurn(); !ok {
			break
		}
		before := d.State().Clone()
		avail := d.AvailableChampions()
		_, err := d.Select(avail[0].ID)
		require.NoError(t, err)

		restored, err := d.Undo()
		require.NoError(t, err)
		assert.Equal(t, before.TurnIndex, restored.TurnIndex)
		assert.Equal(t, before.BlueBans, restored.BlueBans)
		assert.Equal(t, before.RedBans, restored.RedBans)
		assert.Equal(t, before.BluePicks, restored.BluePicks)
		assert.Equal(t, before.RedPicks, restored.RedPicks)
		assert.Equal(t, before.IsComplete, restored.IsComplete)
		assert.Equal(t, before.Phase, restored.Phase)

		// Redo the step so the loop advances.
		_, err = d.Select(avail[0].ID)
		require.NoError(t, err)
	}
}

func TestUndoEmptyStack(t *testing.T) {
	d := New(testCatalog(30))
	d.StartSeries(FormatBO3, "opp-1", SideBlue)
	_, err := d.Undo()
	assert.ErrorIs(t, err, ErrEmptyUndo)
}

func TestUndoDoesNotCrossStartGame(t *testing.T) {
	d := New(testCatalog(60))
	d.StartSeries(FormatBO3, "opp-1", SideBlue)
	runFullDraft(t, d)
	_, err := d.FinishGame(ResultWin, "", "", nil)
	require.NoError(t, err)
	locked := len(d.State().GlobalLocked)

	_, err = d.StartGame(2, SideRed)
	require.NoError(t, err)

	_, err = d.Undo()
	assert.ErrorIs(t, err, ErrEmptyUndo)
	assert.Len(t, d.State().GlobalLocked, locked)
}

func TestFinishGameBuildsRecord(t *testing.T) {
	d := New(testCatalog(30))
	d.StartSeries(FormatBO3, "opp-1", SideBlue)
	runFullDraft(t, d)

	s := d.State().Clone()
	success := true
	rec, err := d.FinishGame(ResultWin, "note", "teamfight", &success)
	require.NoError(t, err)

	assert.Equal(t, 1, rec.GameNo)
	assert.Equal(t, SideBlue, rec.Side)
	assert.Equal(t, s.BluePicks, rec.Picks.Our)
	assert.Equal(t, s.RedPicks, rec.Picks.Enemy)
	assert.Equal(t, s.BlueBans, rec.Bans.Our)
	assert.Equal(t, s.RedBans, rec.Bans.Enemy)
	assert.Equal(t, ResultWin, rec.Result)
	assert.Equal(t, "note", rec.Memo)
	assert.Equal(t, "teamfight", rec.PlanTag)
	require.NotNil(t, rec.PlanSuccess)
	assert.True(t, *rec.PlanSuccess)
	// The record snapshots the lock as it was before this game's growth.
	assert.Empty(t, rec.GlobalLocked)

	assert.Len(t, d.State().GameHistory, 1)
	assert.Len(t, d.State().GlobalLocked, 10)
	assert.Equal(t, 2, d.State().CurrentGame)
	assert.False(t, d.State().IsSeriesComplete)
}

func TestFinishGamePickOrder(t *testing.T) {
	d := New(testCatalog(30))
	d.StartSeries(FormatBO3, "opp-1", SideBlue)
	runFullDraft(t, d)

	s := d.State().Clone()
	rec, err := d.FinishGame(ResultWin, "", "", nil)
	require.NoError(t, err)

	// 1-based positions of the pick steps in the fixed order.
	blueTurns := []int{7, 10, 11, 18, 19}
	redTurns := []int{8, 9, 12, 17, 20}
	for i, cid := range s.BluePicks {
		assert.Equal(t, blueTurns[i], rec.PickOrder[cid], "blue pick %d", i)
	}
	for i, cid := range s.RedPicks {
		assert.Equal(t, redTurns[i], rec.PickOrder[cid], "red pick %d", i)
	}
	assert.Len(t, rec.PickOrder, 10)
}

func TestFinishGameLockGrowthIsExactUnion(t *testing.T) {
	d := New(testCatalog(60))
	d.StartSeries(FormatBO3, "opp-1", SideBlue)
	runFullDraft(t, d)

	s := d.State().Clone()
	_, err := d.FinishGame(ResultLoss, "", "", nil)
	require.NoError(t, err)

	want := append(append([]string{}, s.BluePicks...), s.RedPicks...)
	assert.Equal(t, want, d.State().GlobalLocked)
}

func TestFearlessLockCarriesIntoNextGame(t *testing.T) {
	d := New(testCatalog(60))
	d.StartSeries(FormatBO3, "opp-1", SideBlue)
	runFullDraft(t, d)
	gameOnePicks := append(append([]string{}, d.State().BluePicks...), d.State().RedPicks...)
	_, err := d.FinishGame(ResultLoss, "", "", nil)
	require.NoError(t, err)

	_, err = d.StartGame(2, SideBlue)
	require.NoError(t, err)
	for _, cid := range gameOnePicks {
		assert.False(t, d.IsAvailable(cid), "%s should be fearless locked", cid)
	}
	assert.Len(t, d.AvailableChampions(), 50)
}

func TestSeriesCompletionIsMonotonic(t *testing.T) {
	d := New(testCatalog(90))
	d.StartSeries(FormatBO3, "opp-1", SideBlue)

	playGame := func(result Result) {
		runFullDraft(t, d)
		_, err := d.FinishGame(result, "", "", nil)
		require.NoError(t, err)
	}

	playGame(ResultWin)
	require.False(t, d.State().IsSeriesComplete)
	_, err := d.StartGame(0, "")
	require.NoError(t, err)
	assert.Equal(t, 2, d.State().CurrentGame)

	playGame(ResultWin)
	assert.True(t, d.State().IsSeriesComplete, "2 wins closes a BO3")
	gameNo := d.State().CurrentGame

	// Further records never reopen the series or advance the game counter.
	_, err = d.StartGame(0, "")
	require.NoError(t, err)
	playGame(ResultLoss)
	assert.True(t, d.State().IsSeriesComplete)
	assert.Equal(t, gameNo, d.State().CurrentGame)
}

func TestSideAwareAccessors(t *testing.T) {
	d := New(testCatalog(30))
	d.StartSeries(FormatBO3, "opp-1", SideRed)
	runFullDraft(t, d)

	s := d.State()
	assert.Equal(t, s.RedPicks, d.OurPicks())
	assert.Equal(t, s.BluePicks, d.EnemyPicks())
	assert.Equal(t, s.RedBans, d.OurBans())
	assert.Equal(t, s.BlueBans, d.EnemyBans())
}

func TestRemainingSignatures(t *testing.T) {
	d := New(testCatalog(60))
	d.StartSeries(FormatBO3, "opp-1", SideBlue)
	runFullDraft(t, d)
	_, err := d.FinishGame(ResultWin, "", "", nil)
	require.NoError(t, err)

	locked := d.State().GlobalLocked[0]
	free := "champ59"
	got := d.RemainingSignatures(map[string][]string{
		"p1": {locked, free},
		"p2": {free},
	})
	assert.Equal(t, []string{free}, got["p1"])
	assert.Equal(t, []string{free}, got["p2"])
}

func TestReserveWarningFiresOnceChampionLocks(t *testing.T) {
	d := New(testCatalog(60))
	d.StartSeries(FormatBO3, "opp-1", SideBlue)

	// First pick of the draft goes to blue at step 7; reserve exactly that
	// champion for game 3.
	for i := 0; i < 6; i++ {
		avail := d.AvailableChampions()
		_, err := d.Select(avail[0].ID)
		require.NoError(t, err)
	}
	reserved := d.AvailableChampions()[0].ID
	require.NoError(t, d.SetReserve("player-1", reserved, 3))
	_, err := d.Select(reserved)
	require.NoError(t, err)

	assert.Empty(t, d.ReserveWarnings(), "no warning before the pick locks")

	runFullDraft(t, d)
	_, err = d.FinishGame(ResultWin, "", "", nil)
	require.NoError(t, err)

	warnings := d.ReserveWarnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "player-1", warnings[0].PlayerID)
	assert.Equal(t, reserved, warnings[0].ChampionID)
	assert.Equal(t, "LOCKED", warnings[0].Type)

	// A second finished game does not duplicate the warning.
	_, err = d.StartGame(2, SideBlue)
	require.NoError(t, err)
	runFullDraft(t, d)
	_, err = d.FinishGame(ResultLoss, "", "", nil)
	require.NoError(t, err)
	assert.Len(t, d.ReserveWarnings(), 1)
}

func TestStartSeriesResetsEverything(t *testing.T) {
	d := New(testCatalog(60))
	d.StartSeries(FormatBO3, "opp-1", SideBlue)
	runFullDraft(t, d)
	_, err := d.FinishGame(ResultWin, "", "", nil)
	require.NoError(t, err)
	require.NoError(t, d.SetReserve("p1", "champ00", 2))

	s := d.StartSeries(FormatBO5, "opp-2", SideRed)
	assert.Empty(t, s.GlobalLocked)
	assert.Empty(t, s.GameHistory)
	assert.Empty(t, s.ReservedPicks)
	assert.Equal(t, "opp-2", s.OpponentID)
	assert.Equal(t, 5, s.MaxGames)

	_, err = d.Undo()
	assert.True(t, errors.Is(err, ErrEmptyUndo))
}
