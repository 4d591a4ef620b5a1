package store

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/LogiStic1207/lol-draft-assistant/internal/catalog"
	"github.com/LogiStic1207/lol-draft-assistant/internal/engine"
	"github.com/LogiStic1207/lol-draft-assistant/internal/roster"
)

// Memory is the in-memory Store. Safe for concurrent use.
type Memory struct {
	mu        sync.Mutex
	team      *roster.Team
	players   []roster.Player
	opponents []roster.Opponent
	series    []roster.Series
	now       func() time.Time
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) Team(ctx context.Context) (roster.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.team == nil {
		// Same default shape the UI expects before any profile is saved.
		return roster.Team{ID: newID(), StyleTags: []string{}, SignaturePicks: []string{}}, nil
	}
	return cloneTeam(*m.team), nil
}

func (m *Memory) SaveTeam(ctx context.Context, t roster.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		t.ID = newID()
	}
	t = cloneTeam(t)
	m.team = &t
	return nil
}

func (m *Memory) Players(ctx context.Context) ([]roster.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]roster.Player, len(m.players))
	for i, p := range m.players {
		out[i] = clonePlayer(p)
	}
	return out, nil
}

func (m *Memory) SavePlayer(ctx context.Context, p roster.Player) (roster.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = newID()
	}
	p = clonePlayer(p)
	for i, cur := range m.players {
		if cur.ID == p.ID {
			m.players[i] = p
			return clonePlayer(p), nil
		}
	}
	m.players = append(m.players, p)
	return clonePlayer(p), nil
}

func (m *Memory) RemovePlayer(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players = slices.DeleteFunc(m.players, func(p roster.Player) bool { return p.ID == id })
	return nil
}

func (m *Memory) PlayerByRole(ctx context.Context, role catalog.Role) (roster.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.Role == role {
			return clonePlayer(p), nil
		}
	}
	return roster.Player{}, ErrNotFound
}

func (m *Memory) Opponents(ctx context.Context) ([]roster.Opponent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]roster.Opponent, len(m.opponents))
	for i, o := range m.opponents {
		out[i] = cloneOpponent(o)
	}
	return out, nil
}

func (m *Memory) Opponent(ctx context.Context, id string) (roster.Opponent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.opponents {
		if o.ID == id {
			return cloneOpponent(o), nil
		}
	}
	return roster.Opponent{}, ErrNotFound
}

func (m *Memory) SaveOpponent(ctx context.Context, o roster.Opponent) (roster.Opponent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == "" {
		o.ID = newID()
	}
	o = cloneOpponent(o)
	if o.PickFreq == nil {
		o.PickFreq = map[string]int{}
	}
	if o.StyleTags == nil {
		o.StyleTags = []string{}
	}
	if o.Patterns == nil {
		o.Patterns = []string{}
	}
	for i, cur := range m.opponents {
		if cur.ID == o.ID {
			m.opponents[i] = o
			return cloneOpponent(o), nil
		}
	}
	m.opponents = append(m.opponents, o)
	return cloneOpponent(o), nil
}

func (m *Memory) RemoveOpponent(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opponents = slices.DeleteFunc(m.opponents, func(o roster.Opponent) bool { return o.ID == id })
	return nil
}

func (m *Memory) Series(ctx context.Context) ([]roster.Series, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]roster.Series, len(m.series))
	for i, s := range m.series {
		out[i] = cloneSeries(s)
	}
	return out, nil
}

func (m *Memory) AddSeries(ctx context.Context, s roster.Series) (roster.Series, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == "" {
		s.ID = newID()
	}
	if s.Date.IsZero() {
		s.Date = m.now()
	}
	s = cloneSeries(s)
	if s.Games == nil {
		s.Games = []engine.GameRecord{}
	}
	m.series = append(m.series, s)
	return cloneSeries(s), nil
}

func (m *Memory) AppendGame(ctx context.Context, seriesID string, g engine.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.series {
		if m.series[i].ID == seriesID {
			m.series[i].Games = append(m.series[i].Games, g)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) IncrementPickFreq(ctx context.Context, opponentID, championID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.opponents {
		if m.opponents[i].ID == opponentID {
			if m.opponents[i].PickFreq == nil {
				m.opponents[i].PickFreq = map[string]int{}
			}
			m.opponents[i].PickFreq[championID]++
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) RecordMastery(ctx context.Context, playerID, championID string, won bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.players {
		if m.players[i].ID != playerID {
			continue
		}
		if m.players[i].Mastery == nil {
			m.players[i].Mastery = map[string]roster.Mastery{}
		}
		rec := m.players[i].Mastery[championID]
		rec.Games++
		if won {
			rec.Wins++
		}
		rec.Recent = append(rec.Recent, roster.MasteryGame{Date: m.now(), Won: won})
		if len(rec.Recent) > recentWindow {
			rec.Recent = rec.Recent[len(rec.Recent)-recentWindow:]
		}
		m.players[i].Mastery[championID] = rec
		return nil
	}
	return ErrNotFound
}

func cloneTeam(t roster.Team) roster.Team {
	t.StyleTags = slices.Clone(t.StyleTags)
	t.SignaturePicks = slices.Clone(t.SignaturePicks)
	return t
}

func clonePlayer(p roster.Player) roster.Player {
	p.SignatureChamps = slices.Clone(p.SignatureChamps)
	p.ComfortChamps = slices.Clone(p.ComfortChamps)
	p.AvoidChamps = slices.Clone(p.AvoidChamps)
	if p.Mastery != nil {
		mastery := make(map[string]roster.Mastery, len(p.Mastery))
		for id, rec := range p.Mastery {
			rec.Recent = slices.Clone(rec.Recent)
			mastery[id] = rec
		}
		p.Mastery = mastery
	}
	return p
}

func cloneOpponent(o roster.Opponent) roster.Opponent {
	o.PickFreq = maps.Clone(o.PickFreq)
	o.StyleTags = slices.Clone(o.StyleTags)
	o.Patterns = slices.Clone(o.Patterns)
	o.BanReaction = maps.Clone(o.BanReaction)
	return o
}

func cloneSeries(s roster.Series) roster.Series {
	s.Games = slices.Clone(s.Games)
	return s
}
