package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/LogiStic1207/lol-draft-assistant/internal/hub"
	"github.com/LogiStic1207/lol-draft-assistant/internal/lobby"
	"github.com/LogiStic1207/lol-draft-assistant/internal/roster"
	"github.com/LogiStic1207/lol-draft-assistant/internal/store"
)

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

func (s *Server) createLobby(w http.ResponseWriter, r *http.Request) {
	var code string
	for {
		c, err := GenerateCode()
		if err != nil {
			http.Error(w, "failed to generate code", http.StatusInternalServerError)
			return
		}
		reply := make(chan *lobby.Lobby, 1)
		s.hub.Inbox() <- hub.GetLobby{Code: c, Reply: reply}
		if <-reply == nil {
			code = c
			break
		}
		s.log.Debug("collision on code, regenerating")
	}

	reply := make(chan *lobby.Lobby, 1)
	s.hub.Inbox() <- hub.EnsureLobby{Code: code, Reply: reply}
	if <-reply == nil {
		http.Error(w, "failed to create lobby", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusCreated, struct {
		Code string `json:"code"`
	}{Code: code})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) listChampions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.catalog.All())
}

func (s *Server) lobbyState(w http.ResponseWriter, r *http.Request) {
	lb, ok := s.lobby(w, r)
	if !ok {
		return
	}
	reply := make(chan lobby.View, 1)
	lb.Inbox() <- lobby.GetState{Reply: reply}
	s.writeJSON(w, http.StatusOK, <-reply)
}

func (s *Server) lobbyAdvice(w http.ResponseWriter, r *http.Request) {
	lb, ok := s.lobby(w, r)
	if !ok {
		return
	}
	reply := make(chan lobby.Advice, 1)
	lb.Inbox() <- lobby.GetAdvice{Reply: reply}
	s.writeJSON(w, http.StatusOK, <-reply)
}

func (s *Server) lobby(w http.ResponseWriter, r *http.Request) (*lobby.Lobby, bool) {
	code := chi.URLParam(r, "code")
	reply := make(chan *lobby.Lobby, 1)
	s.hub.Inbox() <- hub.GetLobby{Code: code, Reply: reply}
	lb := <-reply
	if lb == nil {
		http.Error(w, "lobby not found", http.StatusNotFound)
		return nil, false
	}
	return lb, true
}

func (s *Server) getTeam(w http.ResponseWriter, r *http.Request) {
	team, err := s.store.Team(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, team)
}

func (s *Server) putTeam(w http.ResponseWriter, r *http.Request) {
	var team roster.Team
	if err := json.NewDecoder(r.Body).Decode(&team); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := s.store.SaveTeam(r.Context(), team); err != nil {
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, team)
}

func (s *Server) listPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.store.Players(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, players)
}

func (s *Server) savePlayer(w http.ResponseWriter, r *http.Request) {
	var p roster.Player
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	saved, err := s.store.SavePlayer(r.Context(), p)
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) removePlayer(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemovePlayer(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.serverError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listOpponents(w http.ResponseWriter, r *http.Request) {
	opponents, err := s.store.Opponents(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, opponents)
}

func (s *Server) getOpponent(w http.ResponseWriter, r *http.Request) {
	o, err := s.store.Opponent(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "opponent not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, o)
}

func (s *Server) saveOpponent(w http.ResponseWriter, r *http.Request) {
	var o roster.Opponent
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	saved, err := s.store.SaveOpponent(r.Context(), o)
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) removeOpponent(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveOpponent(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.serverError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) exportJSON(w http.ResponseWriter, r *http.Request) {
	data, err := store.ExportJSON(r.Context(), s.store)
	if err != nil {
		s.serverError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := store.ExportCSV(r.Context(), s.store)
	if err != nil {
		s.serverError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="series.csv"`)
	_, _ = w.Write(data)
}

func (s *Server) importJSON(w http.ResponseWriter, r *http.Request) {
	var buf []byte
	var err error
	if buf, err = readBody(r); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}
	if err := store.ImportJSON(r.Context(), s.store, buf); err != nil {
		http.Error(w, "bad backup: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) metaSummary(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.meta.Summary())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("response encode failed", zap.Error(err))
	}
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.log.Error("request failed", zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}
