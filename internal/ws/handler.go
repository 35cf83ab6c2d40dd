package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/arjunkx/live-auction-backend/internal/engine"
	"github.com/arjunkx/live-auction-backend/internal/hub"
	"github.com/arjunkx/live-auction-backend/internal/room"
	"github.com/arjunkx/live-auction-backend/internal/types"
	"github.com/coder/websocket"
	"go.uber.org/zap"
)

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("auction")
		if code == "" {
			http.Error(w, "missing auction", http.StatusBadRequest)
			return
		}

		// Joining lazily creates the room; it lives for the process.
		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.EnsureRoom{Code: code, Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "room unavailable", http.StatusInternalServerError)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan room.Notice, 8)
		clientID := randID(6)

		rm.Inbox() <- room.Join{ClientID: clientID, Outbox: out}
		defer func() { rm.Inbox() <- room.Leave{ClientID: clientID} }()

		log.Debug("viewer joined",
			zap.String("room", code),
			zap.String("client", clientID))

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for n := range out {
				payload, _ := json.Marshal(toServerMessage(n))
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
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise, just exit (room.Leave in defer):
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"bad json"}`))
				continue
			}

			cmd, ok := toCommand(cm)
			if !ok {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"unknown type"}`))
				continue
			}

			rm.Inbox() <- room.FromClient{Cmd: cmd}
		}
	}
}

func toServerMessage(n room.Notice) types.ServerMessage {
	if n.Kind == room.NoticeDataUpdate {
		return types.ServerMessage{Type: "DataUpdate"}
	}
	snap := n.Snapshot
	return types.ServerMessage{
		Type:    "AuctionState",
		Version: snap.Version,
		Commit:  string(snap.Commit),
		State:   &snap.State,
	}
}

// toCommand maps a wire message onto an engine command. Only shape is
// checked here; precondition failures stay silent inside the room.
func toCommand(m types.ClientMessage) (engine.Command, bool) {
	switch m.Type {
	case "StartPlayer":
		return engine.Command{Type: engine.CmdStartPlayer, PlayerID: m.PlayerID, Amount: m.BasePrice}, true
	case "PlaceBid":
		return engine.Command{Type: engine.CmdPlaceBid, TeamID: m.TeamID, Amount: m.Amount}, true
	case "UndoBid":
		return engine.Command{Type: engine.CmdUndoBid}, true
	case "TogglePause":
		return engine.Command{Type: engine.CmdTogglePause}, true
	case "SellPlayer":
		return engine.Command{Type: engine.CmdSellPlayer}, true
	case "UnsellPlayer":
		return engine.Command{Type: engine.CmdUnsellPlayer}, true
	case "ResetRound":
		return engine.Command{Type: engine.CmdResetRound}, true
	default:
		return engine.Command{}, false
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
