// Package engine owns the authoritative ban/pick state of one fearless
// series: the fixed turn sequence, availability rules, undo history, and
// cross-game lock bookkeeping.
package engine

import (
	"errors"
	"fmt"
	"slices"

	"github.com/LogiStic1207/lol-draft-assistant/internal/catalog"
)

var (
	ErrNoSeries             = errors.New("no active series")
	ErrGameAlreadyCompleted = errors.New("game already completed")
	ErrNoActiveTurn         = errors.New("no active turn")
	ErrChampionUnavailable  = errors.New("champion unavailable")
	ErrEmptyUndo            = errors.New("nothing to undo")
)

// Draft is an owned handle over one series' state. It is not safe for
// concurrent use; callers serialize access (the lobby actor does).
type Draft struct {
	cat   *catalog.Catalog
	state *State
	undo  []snapshot
}

func New(cat *catalog.Catalog) *Draft {
	return &Draft{cat: cat}
}

// Active reports whether a series has been started.
func (d *Draft) Active() bool { return d.state != nil }

// State returns the live state, or nil when no series is active. The lobby
// uses Snapshot for anything that crosses a goroutine boundary.
func (d *Draft) State() *State { return d.state }

// Snapshot returns a deep copy of the current state.
func (d *Draft) Snapshot() (State, bool) {
	if d.state == nil {
		return State{}, false
	}
	return d.state.Clone(), true
}

// StartSeries discards any prior state and begins a fresh series.
func (d *Draft) StartSeries(format Format, opponentID string, side Side) *State {
	if format != FormatBO5 {
		format = FormatBO3
	}
	if side != SideRed {
		side = SideBlue
	}
	maxGames := 3
	if format == FormatBO5 {
		maxGames = 5
	}
	d.state = &State{
		Format:        format,
		MaxGames:      maxGames,
		CurrentGame:   1,
		OpponentID:    opponentID,
		OurSide:       side,
		GlobalLocked:  []string{},
		GameHistory:   []GameRecord{},
		ReservedPicks: map[string][]Reserve{},
		BlueBans:      []string{},
		RedBans:       []string{},
		BluePicks:     []string{},
		RedPicks:      []string{},
		Phase:         DraftOrder[0].Phase,
	}
	d.undo = nil
	return d.state
}

// StartGame resets the game-level fields for the next game of the series.
// A zero gameNo keeps the current game number; an empty side keeps the
// current side (teams often swap colors between games).
func (d *Draft) StartGame(gameNo int, side Side) (*State, error) {
	s := d.state
	if s == nil {
		return nil, ErrNoSeries
	}
	if gameNo > 0 {
		s.CurrentGame = gameNo
	}
	if side == SideBlue || side == SideRed {
		s.OurSide = side
	}
	s.TurnIndex = 0
	s.BlueBans = []string{}
	s.RedBans = []string{}
	s.BluePicks = []string{}
	s.RedPicks = []string{}
	s.Phase = DraftOrder[0].Phase
	s.IsComplete = false
	d.undo = nil
	return s, nil
}

// CurrentTurn returns the step at the turn cursor. ok is false when no
// series is active, the game is complete, or the cursor is past the end.
func (d *Draft) CurrentTurn() (TurnStep, bool) {
	s := d.state
	if s == nil || s.IsComplete || s.TurnIndex >= len(DraftOrder) {
		return TurnStep{}, false
	}
	return DraftOrder[s.TurnIndex], true
}

// Phase returns the current draft phase, PhaseNone before any series.
func (d *Draft) Phase() Phase {
	if d.state == nil {
		return PhaseNone
	}
	if turn, ok := d.CurrentTurn(); ok {
		return turn.Phase
	}
	if d.state.IsComplete {
		return PhaseDone
	}
	return PhaseNone
}

func (d *Draft) IsOurTurn() bool {
	turn, ok := d.CurrentTurn()
	return ok && turn.Side == d.state.OurSide
}

// IsAvailable reports whether a champion may still be selected this game:
// not fearless-locked, not banned, not picked by either side.
func (d *Draft) IsAvailable(championID string) bool {
	s := d.state
	if s == nil {
		return true
	}
	return !slices.Contains(s.GlobalLocked, championID) &&
		!slices.Contains(s.BlueBans, championID) &&
		!slices.Contains(s.RedBans, championID) &&
		!slices.Contains(s.BluePicks, championID) &&
		!slices.Contains(s.RedPicks, championID)
}

// AvailableChampions filters the catalog by IsAvailable, in catalog order.
func (d *Draft) AvailableChampions() []catalog.Champion {
	all := d.cat.All()
	if d.state == nil {
		return slices.Clone(all)
	}
	out := make([]catalog.Champion, 0, len(all))
	for _, c := range all {
		if d.IsAvailable(c.ID) {
			out = append(out, c)
		}
	}
	return out
}

// Select applies the current turn's ban or pick, records an undo snapshot,
// and advances the cursor.
func (d *Draft) Select(championID string) (*State, error) {
	s := d.state
	if s == nil {
		return nil, ErrNoSeries
	}
	if s.IsComplete {
		return nil, ErrGameAlreadyCompleted
	}
	turn, ok := d.CurrentTurn()
	if !ok {
		return nil, ErrNoActiveTurn
	}
	if !d.IsAvailable(championID) {
		return nil, fmt.Errorf("%w: %s", ErrChampionUnavailable, championID)
	}

	d.undo = append(d.undo, takeSnapshot(s))

	switch {
	case turn.Action == ActionBan && turn.Side == SideBlue:
		s.BlueBans = append(s.BlueBans, championID)
	case turn.Action == ActionBan && turn.Side == SideRed:
		s.RedBans = append(s.RedBans, championID)
	case turn.Action == ActionPick && turn.Side == SideBlue:
		s.BluePicks = append(s.BluePicks, championID)
	default:
		s.RedPicks = append(s.RedPicks, championID)
	}

	s.TurnIndex++
	s.Phase = DerivePhase(s.TurnIndex)
	if s.TurnIndex >= len(DraftOrder) {
		s.IsComplete = true
	}
	return s, nil
}

// Undo reverts the most recent Select. It is strictly local to the current
// game: StartGame clears the history, and GlobalLocked is never touched.
func (d *Draft) Undo() (*State, error) {
	s := d.state
	if s == nil {
		return nil, ErrNoSeries
	}
	if len(d.undo) == 0 {
		return nil, ErrEmptyUndo
	}
	prev := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	s.TurnIndex = prev.turnIndex
	s.BlueBans = prev.blueBans
	s.RedBans = prev.redBans
	s.BluePicks = prev.bluePicks
	s.RedPicks = prev.redPicks
	s.IsComplete = false
	s.Phase = DerivePhase(s.TurnIndex)
	return s, nil
}

// FinishGame seals the current game: builds its record, grows the fearless
// lock by this game's picks, and updates series bookkeeping. It does not
// start the next game.
func (d *Draft) FinishGame(result Result, memo, planTag string, planSuccess *bool) (*GameRecord, error) {
	s := d.state
	if s == nil {
		return nil, ErrNoSeries
	}

	rec := GameRecord{
		GameNo:       s.CurrentGame,
		Side:         s.OurSide,
		PickOrder:    d.pickOrderMap(),
		GlobalLocked: slices.Clone(s.GlobalLocked),
		Result:       result,
		Memo:         memo,
		PlanTag:      planTag,
		PlanSuccess:  planSuccess,
	}
	if s.OurSide == SideBlue {
		rec.Bans = SidePair{Our: slices.Clone(s.BlueBans), Enemy: slices.Clone(s.RedBans)}
		rec.Picks = SidePair{Our: slices.Clone(s.BluePicks), Enemy: slices.Clone(s.RedPicks)}
	} else {
		rec.Bans = SidePair{Our: slices.Clone(s.RedBans), Enemy: slices.Clone(s.BlueBans)}
		rec.Picks = SidePair{Our: slices.Clone(s.RedPicks), Enemy: slices.Clone(s.BluePicks)}
	}

	// Lock growth is the exact union of this game's picks.
	for _, id := range append(slices.Clone(s.BluePicks), s.RedPicks...) {
		if !slices.Contains(s.GlobalLocked, id) {
			s.GlobalLocked = append(s.GlobalLocked, id)
		}
	}
	s.GameHistory = append(s.GameHistory, rec)

	winsNeeded := 2
	if s.Format == FormatBO5 {
		winsNeeded = 3
	}
	ourWins, enemyWins := 0, 0
	for _, g := range s.GameHistory {
		switch g.Result {
		case ResultWin:
			ourWins++
		case ResultLoss:
			enemyWins++
		}
	}
	// Completion is monotonic: a finished series never advances CurrentGame.
	if !s.IsSeriesComplete {
		if ourWins >= winsNeeded || enemyWins >= winsNeeded || s.CurrentGame >= s.MaxGames {
			s.IsSeriesComplete = true
		} else {
			s.CurrentGame++
		}
	}
	return &rec, nil
}

// pickOrderMap replays the fixed order and assigns each picked champion its
// 1-based draft-turn number.
func (d *Draft) pickOrderMap() map[string]int {
	s := d.state
	order := make(map[string]int)
	blueCount, redCount := 0, 0
	for i, step := range DraftOrder {
		if step.Action != ActionPick {
			continue
		}
		if step.Side == SideBlue {
			blueCount++
			if blueCount <= len(s.BluePicks) {
				order[s.BluePicks[blueCount-1]] = i + 1
			}
		} else {
			redCount++
			if redCount <= len(s.RedPicks) {
				order[s.RedPicks[redCount-1]] = i + 1
			}
		}
	}
	return order
}

func (d *Draft) OurPicks() []string   { return d.sideList(true, ActionPick) }
func (d *Draft) EnemyPicks() []string { return d.sideList(false, ActionPick) }
func (d *Draft) OurBans() []string    { return d.sideList(true, ActionBan) }
func (d *Draft) EnemyBans() []string  { return d.sideList(false, ActionBan) }

func (d *Draft) sideList(ours bool, action Action) []string {
	s := d.state
	if s == nil {
		return []string{}
	}
	blue := (s.OurSide == SideBlue) == ours
	switch {
	case action == ActionPick && blue:
		return s.BluePicks
	case action == ActionPick:
		return s.RedPicks
	case blue:
		return s.BlueBans
	default:
		return s.RedBans
	}
}

// RemainingSignatures filters each player's signature champions down to
// those not yet fearless-locked, keyed by player id.
func (d *Draft) RemainingSignatures(signatures map[string][]string) map[string][]string {
	out := make(map[string][]string, len(signatures))
	if d.state == nil {
		return out
	}
	for pid, sigs := range signatures {
		remaining := make([]string, 0, len(sigs))
		for _, id := range sigs {
			if !slices.Contains(d.state.GlobalLocked, id) {
				remaining = append(remaining, id)
			}
		}
		out[pid] = remaining
	}
	return out
}

// SetReserve records a player's intent to save a champion for a later game.
func (d *Draft) SetReserve(playerID, championID string, reserveForGame int) error {
	if d.state == nil {
		return ErrNoSeries
	}
	d.state.ReservedPicks[playerID] = append(d.state.ReservedPicks[playerID],
		Reserve{ChampionID: championID, ReserveForGame: reserveForGame})
	return nil
}

func (d *Draft) Reserves() map[string][]Reserve {
	if d.state == nil {
		return map[string][]Reserve{}
	}
	return d.state.ReservedPicks
}

// ReserveWarnings flags reservations broken by the fearless lock. These are
// advisory only and never block further play.
func (d *Draft) ReserveWarnings() []ReserveWarning {
	warnings := []ReserveWarning{}
	if d.state == nil {
		return warnings
	}
	for pid, reserves := range d.state.ReservedPicks {
		for _, r := range reserves {
			if slices.Contains(d.state.GlobalLocked, r.ChampionID) {
				warnings = append(warnings, ReserveWarning{
					PlayerID:   pid,
					ChampionID: r.ChampionID,
					Type:       "LOCKED",
					Text:       fmt.Sprintf("reserved champion %s is already locked", r.ChampionID),
				})
			}
		}
	}
	return warnings
}
