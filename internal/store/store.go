// Package store persists team, player, opponent, and series records. Two
// backends exist: an in-memory store (default, and the test backend) and a
// Postgres-backed store. Both expose the same key-value document shape the
// rest of the system reads.
package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/LogiStic1207/lol-draft-assistant/internal/catalog"
	"github.com/LogiStic1207/lol-draft-assistant/internal/engine"
	"github.com/LogiStic1207/lol-draft-assistant/internal/roster"
)

var ErrNotFound = errors.New("record not found")

// Store is the persistence contract consumed by the transport layer. The
// draft core itself never performs storage I/O.
type Store interface {
	Team(ctx context.Context) (roster.Team, error)
	SaveTeam(ctx context.Context, t roster.Team) error

	Players(ctx context.Context) ([]roster.Player, error)
	SavePlayer(ctx context.Context, p roster.Player) (roster.Player, error)
	RemovePlayer(ctx context.Context, id string) error
	PlayerByRole(ctx context.Context, role catalog.Role) (roster.Player, error)

	Opponents(ctx context.Context) ([]roster.Opponent, error)
	Opponent(ctx context.Context, id string) (roster.Opponent, error)
	SaveOpponent(ctx context.Context, o roster.Opponent) (roster.Opponent, error)
	RemoveOpponent(ctx context.Context, id string) error

	Series(ctx context.Context) ([]roster.Series, error)
	AddSeries(ctx context.Context, s roster.Series) (roster.Series, error)
	AppendGame(ctx context.Context, seriesID string, g engine.GameRecord) error

	// IncrementPickFreq bumps an opponent's pick count for a champion,
	// called once per enemy pick of a finished game.
	IncrementPickFreq(ctx context.Context, opponentID, championID string) error
	// RecordMastery appends a game to a player's record for a champion,
	// keeping a 20-entry recent window.
	RecordMastery(ctx context.Context, playerID, championID string, won bool) error
}

// recentWindow caps the per-champion recent results kept on a player.
const recentWindow = 20

func newID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
