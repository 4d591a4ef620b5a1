package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/LogiStic1207/lol-draft-assistant/internal/catalog"
	"github.com/LogiStic1207/lol-draft-assistant/internal/engine"
	"github.com/LogiStic1207/lol-draft-assistant/internal/roster"
)

// Gorm is the Postgres-backed Store. Records are stored as JSON documents
// keyed by id; the nested maps and slices never need relational queries.
type Gorm struct {
	db  *gorm.DB
	log *zap.Logger
}

var _ Store = (*Gorm)(nil)

type teamRow struct {
	ID   string      `gorm:"primaryKey"`
	Data roster.Team `gorm:"serializer:json"`
}

type playerRow struct {
	ID   string        `gorm:"primaryKey"`
	Data roster.Player `gorm:"serializer:json"`
}

type opponentRow struct {
	ID   string          `gorm:"primaryKey"`
	Data roster.Opponent `gorm:"serializer:json"`
}

type seriesRow struct {
	ID   string        `gorm:"primaryKey"`
	Data roster.Series `gorm:"serializer:json"`
}

// teamRowID pins the single team profile row.
const teamRowID = "team"

func NewGorm(dsn string, log *zap.Logger) (*Gorm, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&teamRow{}, &playerRow{}, &opponentRow{}, &seriesRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info("store connected", zap.String("backend", "postgres"))
	return &Gorm{db: db, log: log}, nil
}

func (g *Gorm) Team(ctx context.Context) (roster.Team, error) {
	var row teamRow
	err := g.db.WithContext(ctx).First(&row, "id = ?", teamRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return roster.Team{ID: newID(), StyleTags: []string{}, SignaturePicks: []string{}}, nil
	}
	if err != nil {
		return roster.Team{}, err
	}
	return row.Data, nil
}

func (g *Gorm) SaveTeam(ctx context.Context, t roster.Team) error {
	if t.ID == "" {
		t.ID = newID()
	}
	return g.db.WithContext(ctx).Save(&teamRow{ID: teamRowID, Data: t}).Error
}

func (g *Gorm) Players(ctx context.Context) ([]roster.Player, error) {
	var rows []playerRow
	if err := g.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]roster.Player, len(rows))
	for i, r := range rows {
		out[i] = r.Data
	}
	return out, nil
}

func (g *Gorm) SavePlayer(ctx context.Context, p roster.Player) (roster.Player, error) {
	if p.ID == "" {
		p.ID = newID()
	}
	if err := g.db.WithContext(ctx).Save(&playerRow{ID: p.ID, Data: p}).Error; err != nil {
		return roster.Player{}, err
	}
	return p, nil
}

func (g *Gorm) RemovePlayer(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Delete(&playerRow{}, "id = ?", id).Error
}

func (g *Gorm) PlayerByRole(ctx context.Context, role catalog.Role) (roster.Player, error) {
	players, err := g.Players(ctx)
	if err != nil {
		return roster.Player{}, err
	}
	for _, p := range players {
		if p.Role == role {
			return p, nil
		}
	}
	return roster.Player{}, ErrNotFound
}

func (g *Gorm) Opponents(ctx context.Context) ([]roster.Opponent, error) {
	var rows []opponentRow
	if err := g.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]roster.Opponent, len(rows))
	for i, r := range rows {
		out[i] = r.Data
	}
	return out, nil
}

func (g *Gorm) Opponent(ctx context.Context, id string) (roster.Opponent, error) {
	var row opponentRow
	err := g.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return roster.Opponent{}, ErrNotFound
	}
	if err != nil {
		return roster.Opponent{}, err
	}
	return row.Data, nil
}

func (g *Gorm) SaveOpponent(ctx context.Context, o roster.Opponent) (roster.Opponent, error) {
	if o.ID == "" {
		o.ID = newID()
	}
	if o.PickFreq == nil {
		o.PickFreq = map[string]int{}
	}
	if o.StyleTags == nil {
		o.StyleTags = []string{}
	}
	if o.Patterns == nil {
		o.Patterns = []string{}
	}
	if err := g.db.WithContext(ctx).Save(&opponentRow{ID: o.ID, Data: o}).Error; err != nil {
		return roster.Opponent{}, err
	}
	return o, nil
}

func (g *Gorm) RemoveOpponent(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Delete(&opponentRow{}, "id = ?", id).Error
}

func (g *Gorm) Series(ctx context.Context) ([]roster.Series, error) {
	var rows []seriesRow
	if err := g.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]roster.Series, len(rows))
	for i, r := range rows {
		out[i] = r.Data
	}
	return out, nil
}

func (g *Gorm) AddSeries(ctx context.Context, s roster.Series) (roster.Series, error) {
	if s.ID == "" {
		s.ID = newID()
	}
	if s.Date.IsZero() {
		s.Date = time.Now()
	}
	if s.Games == nil {
		s.Games = []engine.GameRecord{}
	}
	if err := g.db.WithContext(ctx).Create(&seriesRow{ID: s.ID, Data: s}).Error; err != nil {
		return roster.Series{}, err
	}
	return s, nil
}

func (g *Gorm) AppendGame(ctx context.Context, seriesID string, game engine.GameRecord) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row seriesRow
		err := tx.First(&row, "id = ?", seriesID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		row.Data.Games = append(row.Data.Games, game)
		return tx.Save(&row).Error
	})
}

func (g *Gorm) IncrementPickFreq(ctx context.Context, opponentID, championID string) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row opponentRow
		err := tx.First(&row, "id = ?", opponentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if row.Data.PickFreq == nil {
			row.Data.PickFreq = map[string]int{}
		}
		row.Data.PickFreq[championID]++
		return tx.Save(&row).Error
	})
}

func (g *Gorm) RecordMastery(ctx context.Context, playerID, championID string, won bool) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row playerRow
		err := tx.First(&row, "id = ?", playerID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if row.Data.Mastery == nil {
			row.Data.Mastery = map[string]roster.Mastery{}
		}
		rec := row.Data.Mastery[championID]
		rec.Games++
		if won {
			rec.Wins++
		}
		rec.Recent = append(rec.Recent, roster.MasteryGame{Date: time.Now(), Won: won})
		if len(rec.Recent) > recentWindow {
			rec.Recent = rec.Recent[len(rec.Recent)-recentWindow:]
		}
		row.Data.Mastery[championID] = rec
		return tx.Save(&row).Error
	})
}
