// Package types defines the websocket wire protocol between draft clients
// and the server.
package types

import "github.com/LogiStic1207/lol-draft-assistant/internal/engine"

// ClientMessage is what a draft client sends. Type selects the command;
// the remaining fields are read per command.
type ClientMessage struct {
	Type string `json:"type"` // StartSeries | StartGame | SelectChampion | Undo | FinishGame | SetReserve

	// StartSeries
	Format     string `json:"format,omitempty"` // "BO3" | "BO5"
	OpponentID string `json:"opponent_id,omitempty"`
	Side       string `json:"side,omitempty"` // "blue" | "red"

	// StartGame
	GameNo int `json:"game_no,omitempty"`

	// SelectChampion / SetReserve
	ChampionID string `json:"champion_id,omitempty"`

	// FinishGame
	Result      string `json:"result,omitempty"` // "W" | "L"
	Memo        string `json:"memo,omitempty"`
	PlanTag     string `json:"plan_tag,omitempty"`
	PlanSuccess *bool  `json:"plan_success,omitempty"`

	// SetReserve
	PlayerID       string `json:"player_id,omitempty"`
	ReserveForGame int    `json:"reserve_for_game,omitempty"`
}

// ServerMessage is what the server sends back.
type ServerMessage struct {
	Type    string        `json:"type"` // "StateSnapshot" | "Error"
	Version int           `json:"version,omitempty"`
	State   *engine.State `json:"state,omitempty"`
	Error   string        `json:"error,omitempty"`
}
