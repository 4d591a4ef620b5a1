package engine

import "slices"

type Side string

const (
	SideBlue Side = "blue"
	SideRed  Side = "red"
)

type Action string

const (
	ActionBan  Action = "ban"
	ActionPick Action = "pick"
)

type Phase string

const (
	PhaseBan1  Phase = "ban1"
	PhasePick1 Phase = "pick1"
	PhaseBan2  Phase = "ban2"
	PhasePick2 Phase = "pick2"
	PhaseDone  Phase = "done"
	PhaseNone  Phase = "none"
)

type Format string

const (
	FormatBO3 Format = "BO3"
	FormatBO5 Format = "BO5"
)

// Result is always relative to our team, regardless of which color we
// played that game.
type Result string

const (
	ResultWin  Result = "W"
	ResultLoss Result = "L"
)

// TurnStep is one entry of the fixed draft order.
type TurnStep struct {
	Side   Side   `json:"side"`
	Action Action `json:"action"`
	Phase  Phase  `json:"phase"`
}

// Reserve marks a champion a player intends to save for a later game.
type Reserve struct {
	ChampionID     string `json:"champion_id"`
	ReserveForGame int    `json:"reserve_for_game"`
}

// ReserveWarning flags a reservation whose champion has since been locked
// by the fearless rule.
type ReserveWarning struct {
	PlayerID   string `json:"player_id"`
	ChampionID string `json:"champion_id"`
	Type       string `json:"type"`
	Text       string `json:"text"`
}

// SidePair splits a ban or pick list between our team and the enemy.
type SidePair struct {
	Our   []string `json:"our"`
	Enemy []string `json:"enemy"`
}

// GameRecord is the immutable summary of a finished game. PickOrder maps
// each picked champion to its 1-based position in the fixed draft order.
type GameRecord struct {
	GameNo       int            `json:"game_no"`
	Side         Side           `json:"side"`
	Bans         SidePair       `json:"bans"`
	Picks        SidePair       `json:"picks"`
	PickOrder    map[string]int `json:"pick_order"`
	GlobalLocked []string       `json:"global_locked"`
	Result       Result         `json:"result"`
	Memo         string         `json:"memo"`
	PlanTag      string         `json:"plan_tag"`
	PlanSuccess  *bool          `json:"plan_success"`
}

// State is the full draft state of one series. Series-level fields survive
// across games; game-level fields are reset by StartGame.
type State struct {
	Format      Format `json:"format"`
	MaxGames    int    `json:"max_games"`
	CurrentGame int    `json:"current_game"`
	OpponentID  string `json:"opponent_id"`
	OurSide     Side   `json:"our_side"`

	GlobalLocked     []string             `json:"global_locked"`
	GameHistory      []GameRecord         `json:"game_history"`
	IsSeriesComplete bool                 `json:"is_series_complete"`
	ReservedPicks    map[string][]Reserve `json:"reserved_picks"`

	TurnIndex  int      `json:"turn_index"`
	BlueBans   []string `json:"blue_bans"`
	RedBans    []string `json:"red_bans"`
	BluePicks  []string `json:"blue_picks"`
	RedPicks   []string `json:"red_picks"`
	Phase      Phase    `json:"phase"`
	IsComplete bool     `json:"is_complete"`
}

// snapshot is the unit of undo: the turn cursor plus the four selection
// lists, deep-copied before every mutation.
type snapshot struct {
	turnIndex int
	blueBans  []string
	redBans   []string
	bluePicks []string
	redPicks  []string
}

func takeSnapshot(s *State) snapshot {
	return snapshot{
		turnIndex: s.TurnIndex,
		blueBans:  slices.Clone(s.BlueBans),
		redBans:   slices.Clone(s.RedBans),
		bluePicks: slices.Clone(s.BluePicks),
		redPicks:  slices.Clone(s.RedPicks),
	}
}

// Clone returns a deep copy safe to hand to other goroutines (snapshot
// broadcasts, HTTP responses).
func (s *State) Clone() State {
	out := *s
	out.GlobalLocked = slices.Clone(s.GlobalLocked)
	out.BlueBans = slices.Clone(s.BlueBans)
	out.RedBans = slices.Clone(s.RedBans)
	out.BluePicks = slices.Clone(s.BluePicks)
	out.RedPicks = slices.Clone(s.RedPicks)
	out.GameHistory = slices.Clone(s.GameHistory)
	out.ReservedPicks = make(map[string][]Reserve, len(s.ReservedPicks))
	for pid, rs := range s.ReservedPicks {
		out.ReservedPicks[pid] = slices.Clone(rs)
	}
	return out
}
