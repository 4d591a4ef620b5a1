// Package ws bridges websocket clients to their draft lobby.
package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/LogiStic1207/lol-draft-assistant/internal/engine"
	"github.com/LogiStic1207/lol-draft-assistant/internal/hub"
	"github.com/LogiStic1207/lol-draft-assistant/internal/lobby"
	"github.com/LogiStic1207/lol-draft-assistant/pkg/types"
)

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *lobby.Lobby, 1)
		h.Inbox() <- hub.GetLobby{Code: code, Reply: reply}
		lb := <-reply
		if lb == nil {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan lobby.Snapshot, 8)
		clientID := randID(6)

		lb.Inbox() <- lobby.Join{ClientID: clientID, Outbox: out}
		defer func() { lb.Inbox() <- lobby.Leave{ClientID: clientID} }()

		log.Debug("client joined", zap.String("code", code), zap.String("client", clientID))

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				state := snap.State
				msg := types.ServerMessage{Type: "StateSnapshot", Version: snap.Version, State: &state}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}

			cmd, ok := toCommand(cm)
			if !ok {
				writeError(r.Context(), conn, "unknown type")
				continue
			}

			lb.Inbox() <- lobby.FromClient{Cmd: cmd}
		}
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, text string) {
	payload, _ := json.Marshal(types.ServerMessage{Type: "Error", Error: text})
	_ = conn.Write(ctx, websocket.MessageText, payload)
}

func toCommand(m types.ClientMessage) (lobby.Command, bool) {
	switch m.Type {
	case "StartSeries":
		return lobby.Command{
			Type:       lobby.CmdStartSeries,
			Format:     engine.Format(m.Format),
			OpponentID: m.OpponentID,
			Side:       engine.Side(m.Side),
		}, true
	case "StartGame":
		return lobby.Command{
			Type:   lobby.CmdStartGame,
			GameNo: m.GameNo,
			Side:   engine.Side(m.Side),
		}, true
	case "SelectChampion":
		return lobby.Command{Type: lobby.CmdSelectChampion, ChampionID: m.ChampionID}, true
	case "Undo":
		return lobby.Command{Type: lobby.CmdUndo}, true
	case "FinishGame":
		return lobby.Command{
			Type:        lobby.CmdFinishGame,
			Result:      engine.Result(m.Result),
			Memo:        m.Memo,
			PlanTag:     m.PlanTag,
			PlanSuccess: m.PlanSuccess,
		}, true
	case "SetReserve":
		return lobby.Command{
			Type:           lobby.CmdSetReserve,
			PlayerID:       m.PlayerID,
			ChampionID:     m.ChampionID,
			ReserveForGame: m.ReserveForGame,
		}, true
	default:
		return lobby.Command{}, false
	}
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
