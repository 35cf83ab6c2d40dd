package httpapi

import (
	"net/http"

	"github.com/arjunkx/live-auction-backend/internal/hub"
	"github.com/arjunkx/live-auction-backend/internal/store"
	"github.com/arjunkx/live-auction-backend/internal/ws"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func SetupRoutes(h *hub.Hub, st *store.Store, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/auctions", CreateAuction(st, log))
	r.Post("/auctions/{code}/teams", CreateTeam(st, log))
	r.Post("/auctions/{code}/players", CreatePlayer(st, log))
	r.Get("/auctions/{code}/teams", ListTeams(st, log))
	r.Get("/auctions/{code}/players", ListPlayers(st, log))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))
	return r
}
