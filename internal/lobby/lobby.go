// Package lobby runs one draft session as an actor: a single goroutine owns
// the Draft handle, applies client commands in arrival order, and broadcasts
// versioned snapshots. All engine access is serialized by construction.
package lobby

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/LogiStic1207/lol-draft-assistant/internal/catalog"
	"github.com/LogiStic1207/lol-draft-assistant/internal/engine"
	"github.com/LogiStic1207/lol-draft-assistant/internal/roster"
	"github.com/LogiStic1207/lol-draft-assistant/internal/scoring"
	"github.com/LogiStic1207/lol-draft-assistant/internal/store"
)

type Msg interface{ isLobbyMsg() }

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

type Leave struct{ ClientID string }

type FromClient struct{ Cmd Command }

type GetState struct{ Reply chan View }

type GetAdvice struct{ Reply chan Advice }

type Shutdown struct{}

func (Join) isLobbyMsg()       {}
func (Leave) isLobbyMsg()      {}
func (FromClient) isLobbyMsg() {}
func (GetState) isLobbyMsg()   {}
func (GetAdvice) isLobbyMsg()  {}
func (Shutdown) isLobbyMsg()   {}

type CommandType string

const (
	CmdStartSeries    CommandType = "StartSeries"
	CmdStartGame      CommandType = "StartGame"
	CmdSelectChampion CommandType = "SelectChampion"
	CmdUndo           CommandType = "Undo"
	CmdFinishGame     CommandType = "FinishGame"
	CmdSetReserve     CommandType = "SetReserve"
)

// Command is one client-driven mutation of the draft.
type Command struct {
	Type CommandType

	Format     engine.Format
	OpponentID string
	Side       engine.Side

	GameNo     int
	ChampionID string

	Result      engine.Result
	Memo        string
	PlanTag     string
	PlanSuccess *bool

	PlayerID       string
	ReserveForGame int
}

// Snapshot is a broadcast state copy.
type Snapshot struct {
	Version int
	State   engine.State
}

// View reflects internal state for tests and HTTP queries.
type View struct {
	Version    int
	NumClients int
	State      engine.State
	Active     bool
}

// Advice bundles every scoring output for the current draft position.
type Advice struct {
	Predictions         []scoring.Prediction    `json:"predictions"`
	Bans                []scoring.BanSuggestion `json:"bans"`
	Picks               scoring.PickBoard       `json:"picks"`
	Radar               scoring.Radar           `json:"radar"`
	Warnings            []scoring.Warning       `json:"warnings"`
	ReserveWarnings     []engine.ReserveWarning `json:"reserve_warnings"`
	RemainingSignatures map[string][]string     `json:"remaining_signatures"`
}

// Deps are the collaborators a lobby needs; the hub carries one set for
// every lobby it creates.
type Deps struct {
	Catalog *catalog.Catalog
	Store   store.Store
	Scorer  *scoring.Engine
	Log     *zap.Logger
}

type Lobby struct {
	inbox    chan Msg
	draft    *engine.Draft
	catalog  *catalog.Catalog
	scorer   *scoring.Engine
	store    store.Store
	log      *zap.Logger
	version  int
	seriesID string // archive row, created on first FinishGame
	clients  map[string]chan Snapshot
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewLobby(parent context.Context, deps Deps) *Lobby {
	ctx, cancel := context.WithCancel(parent)
	l := &Lobby{
		inbox:   make(chan Msg, 64),
		draft:   engine.New(deps.Catalog),
		catalog: deps.Catalog,
		scorer:  deps.Scorer,
		store:   deps.Store,
		log:     deps.Log,
		clients: make(map[string]chan Snapshot),
		ctx:     ctx,
		cancel:  cancel,
	}
	go l.loop()
	return l
}

// Inbox is where the WS layer and tests send messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

func (l *Lobby) loop() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				l.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- l.snapshot()

			case Leave:
				delete(l.clients, msg.ClientID)

			case FromClient:
				if err := l.apply(msg.Cmd); err != nil {
					l.log.Debug("command rejected",
						zap.String("type", string(msg.Cmd.Type)), zap.Error(err))
					break
				}
				l.version++
				l.broadcast(l.snapshot())

			case GetState:
				view := View{Version: l.version, NumClients: len(l.clients), Active: l.draft.Active()}
				if st, ok := l.draft.Snapshot(); ok {
					view.State = st
				}
				msg.Reply <- view

			case GetAdvice:
				msg.Reply <- l.advice()

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

func (l *Lobby) apply(cmd Command) error {
	switch cmd.Type {
	case CmdStartSeries:
		l.draft.StartSeries(cmd.Format, cmd.OpponentID, cmd.Side)
		l.seriesID = ""
		return nil
	case CmdStartGame:
		_, err := l.draft.StartGame(cmd.GameNo, cmd.Side)
		return err
	case CmdSelectChampion:
		_, err := l.draft.Select(cmd.ChampionID)
		return err
	case CmdUndo:
		_, err := l.draft.Undo()
		return err
	case CmdFinishGame:
		return l.finishGame(cmd)
	case CmdSetReserve:
		return l.draft.SetReserve(cmd.PlayerID, cmd.ChampionID, cmd.ReserveForGame)
	default:
		return errors.New("unsupported command")
	}
}

// finishGame seals the game in the engine, then applies the record-store
// bookkeeping: enemy picks feed the opponent's pick frequency, our picks
// feed the mastery of the first role-matching player, and the record is
// archived under the running series.
func (l *Lobby) finishGame(cmd Command) error {
	st := l.draft.State()
	rec, err := l.draft.FinishGame(cmd.Result, cmd.Memo, cmd.PlanTag, cmd.PlanSuccess)
	if err != nil {
		return err
	}

	if st.OpponentID != "" {
		for _, cid := range rec.Picks.Enemy {
			if err := l.store.IncrementPickFreq(l.ctx, st.OpponentID, cid); err != nil {
				l.log.Warn("pick freq update failed", zap.String("champion", cid), zap.Error(err))
			}
		}
	}

	won := cmd.Result == engine.ResultWin
	players, err := l.store.Players(l.ctx)
	if err != nil {
		l.log.Warn("player load failed", zap.Error(err))
		players = nil
	}
	for _, cid := range rec.Picks.Our {
		if pid := l.matchPlayer(players, cid); pid != "" {
			if err := l.store.RecordMastery(l.ctx, pid, cid, won); err != nil {
				l.log.Warn("mastery update failed", zap.String("champion", cid), zap.Error(err))
			}
		}
	}

	l.archive(st, rec)
	return nil
}

func (l *Lobby) archive(st *engine.State, rec *engine.GameRecord) {
	if st.OpponentID == "" {
		return
	}
	if l.seriesID == "" {
		series, err := l.store.AddSeries(l.ctx, roster.Series{
			OpponentID: st.OpponentID,
			Format:     st.Format,
			MatchType:  "scrim",
			Rule:       "HARD_FEARLESS_GLOBAL",
			Games:      []engine.GameRecord{*rec},
		})
		if err != nil {
			l.log.Warn("series archive failed", zap.Error(err))
			return
		}
		l.seriesID = series.ID
		return
	}
	if err := l.store.AppendGame(l.ctx, l.seriesID, *rec); err != nil {
		l.log.Warn("game archive failed", zap.Error(err))
	}
}

// matchPlayer assigns a pick to the first roster player whose role the
// champion can play.
func (l *Lobby) matchPlayer(players []roster.Player, championID string) string {
	champ, ok := l.catalog.ByID(championID)
	if !ok {
		return ""
	}
	for _, p := range players {
		for _, r := range champ.Roles {
			if r == p.Role {
				return p.ID
			}
		}
	}
	return ""
}

func (l *Lobby) advice() Advice {
	adv := Advice{
		Predictions:         []scoring.Prediction{},
		Bans:                []scoring.BanSuggestion{},
		Warnings:            []scoring.Warning{},
		ReserveWarnings:     l.draft.ReserveWarnings(),
		RemainingSignatures: map[string][]string{},
	}
	st := l.draft.State()
	available := l.draft.AvailableChampions()

	var opp *roster.Opponent
	if st != nil && st.OpponentID != "" {
		if o, err := l.store.Opponent(l.ctx, st.OpponentID); err == nil {
			opp = &o
		}
	}
	team, err := l.store.Team(l.ctx)
	if err != nil {
		l.log.Warn("team load failed", zap.Error(err))
	}
	players, err := l.store.Players(l.ctx)
	if err != nil {
		l.log.Warn("player load failed", zap.Error(err))
	}

	adv.Predictions = l.scorer.PredictEnemyPicks(available, opp, l.draft.EnemyPicks())
	adv.Bans = l.scorer.BanScores(available, opp, st, &team, players)
	adv.Picks = l.scorer.PickScores(available, st, &team, players)
	adv.Radar = l.scorer.CompRadar(l.draft.OurPicks())
	adv.Warnings = l.scorer.CompWarnings(l.draft.OurPicks())
	adv.RemainingSignatures = l.draft.RemainingSignatures(roster.SignatureMap(players))
	return adv
}

func (l *Lobby) snapshot() Snapshot {
	snap := Snapshot{Version: l.version}
	if st, ok := l.draft.Snapshot(); ok {
		snap.State = st
	}
	return snap
}

func (l *Lobby) shutdown() {
	for id, ch := range l.clients {
		close(ch) // tell client no more snapshots
		delete(l.clients, id)
	}
	l.cancel()
}

func (l *Lobby) broadcast(snap Snapshot) {
	for id, ch := range l.clients {
		select {
		case ch <- snap:
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(l.clients, id)
		}
	}
}
