package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/LogiStic1207/lol-draft-assistant/internal/roster"
)

// exportDoc is the full-backup JSON shape.
type exportDoc struct {
	Team       roster.Team       `json:"team"`
	Players    []roster.Player   `json:"players"`
	Opponents  []roster.Opponent `json:"opponents"`
	Series     []roster.Series   `json:"series"`
	ExportedAt time.Time         `json:"exported_at"`
}

// ExportJSON dumps every record as one JSON document.
func ExportJSON(ctx context.Context, s Store) ([]byte, error) {
	doc := exportDoc{ExportedAt: time.Now()}
	var err error
	if doc.Team, err = s.Team(ctx); err != nil {
		return nil, err
	}
	if doc.Players, err = s.Players(ctx); err != nil {
		return nil, err
	}
	if doc.Opponents, err = s.Opponents(ctx); err != nil {
		return nil, err
	}
	if doc.Series, err = s.Series(ctx); err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ImportJSON restores records from an ExportJSON document.
func ImportJSON(ctx context.Context, s Store, data []byte) error {
	var doc exportDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode backup: %w", err)
	}
	if doc.Team.ID != "" {
		if err := s.SaveTeam(ctx, doc.Team); err != nil {
			return err
		}
	}
	for _, p := range doc.Players {
		if _, err := s.SavePlayer(ctx, p); err != nil {
			return err
		}
	}
	for _, o := range doc.Opponents {
		if _, err := s.SaveOpponent(ctx, o); err != nil {
			return err
		}
	}
	for _, sr := range doc.Series {
		if _, err := s.AddSeries(ctx, sr); err != nil {
			return err
		}
	}
	return nil
}

var csvHeader = []string{
	"series_id", "date", "opponent", "format", "game_no", "side",
	"global_locked_count", "our_bans", "enemy_bans", "our_picks",
	"enemy_picks", "result", "key_reason_tag", "key_reason_memo",
}

// ExportCSV flattens the series archive into one row per game.
func ExportCSV(ctx context.Context, s Store) ([]byte, error) {
	series, err := s.Series(ctx)
	if err != nil {
		return nil, err
	}
	opponents, err := s.Opponents(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(opponents))
	for _, o := range opponents {
		names[o.ID] = o.Name
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, sr := range series {
		opponent := names[sr.OpponentID]
		if opponent == "" {
			opponent = sr.OpponentID
		}
		for _, g := range sr.Games {
			row := []string{
				sr.ID,
				sr.Date.Format("2006-01-02"),
				opponent,
				string(sr.Format),
				strconv.Itoa(g.GameNo),
				string(g.Side),
				strconv.Itoa(len(g.GlobalLocked)),
				strings.Join(g.Bans.Our, "|"),
				strings.Join(g.Bans.Enemy, "|"),
				strings.Join(g.Picks.Our, "|"),
				strings.Join(g.Picks.Enemy, "|"),
				string(g.Result),
				g.PlanTag,
				g.Memo,
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
