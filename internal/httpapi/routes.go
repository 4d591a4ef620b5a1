// Package httpapi exposes the REST surface: lobby management, roster and
// opponent records, exports, and advice queries.
package httpapi

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/LogiStic1207/lol-draft-assistant/internal/catalog"
	"github.com/LogiStic1207/lol-draft-assistant/internal/hub"
	"github.com/LogiStic1207/lol-draft-assistant/internal/meta"
	"github.com/LogiStic1207/lol-draft-assistant/internal/store"
	"github.com/LogiStic1207/lol-draft-assistant/internal/ws"
)

type Server struct {
	hub     *hub.Hub
	store   store.Store
	catalog *catalog.Catalog
	meta    *meta.Analyzer
	log     *zap.Logger
}

func NewServer(h *hub.Hub, st store.Store, cat *catalog.Catalog, analyzer *meta.Analyzer, log *zap.Logger) *Server {
	return &Server{hub: h, store: st, catalog: cat, meta: analyzer, log: log}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Post("/lobbies", s.createLobby)
	r.Get("/lobbies/{code}", s.lobbyState)
	r.Get("/lobbies/{code}/advice", s.lobbyAdvice)
	r.Get("/healthz", s.healthz)
	r.Get("/ws", ws.Handler(s.hub, s.log))

	r.Get("/champions", s.listChampions)
	r.Get("/meta", s.metaSummary)

	r.Get("/team", s.getTeam)
	r.Put("/team", s.putTeam)

	r.Get("/players", s.listPlayers)
	r.Post("/players", s.savePlayer)
	r.Delete("/players/{id}", s.removePlayer)

	r.Get("/opponents", s.listOpponents)
	r.Post("/opponents", s.saveOpponent)
	r.Get("/opponents/{id}", s.getOpponent)
	r.Delete("/opponents/{id}", s.removeOpponent)

	r.Get("/export.json", s.exportJSON)
	r.Get("/export.csv", s.exportCSV)
	r.Post("/import", s.importJSON)

	return r
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(io.LimitReader(r.Body, 8<<20))
}
