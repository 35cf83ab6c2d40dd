package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/arjunkx/live-auction-backend/internal/store"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func GenerateCode(length int) (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, length)
	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

func CreateAuction(st *store.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}

		var code string
		for {
			c, err := GenerateCode(6)
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			_, err = st.AuctionByCode(r.Context(), c)
			if errors.Is(err, store.ErrNotFound) {
				code = c
				break
			}
			if err != nil {
				http.Error(w, "storage error", http.StatusInternalServerError)
				return
			}
			log.Warn("collision on auction code, regenerating", zap.String("code", c))
		}

		admin, err := GenerateCode(10)
		if err != nil {
			http.Error(w, "failed to generate code", http.StatusInternalServerError)
			return
		}

		a := store.Auction{Code: code, Name: body.Name, AdminCode: admin}
		if err := st.CreateAuction(r.Context(), &a); err != nil {
			log.Error("create auction", zap.Error(err))
			http.Error(w, "failed to create auction", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, struct {
			Code      string `json:"code"`
			AdminCode string `json:"admin_code"`
		}{Code: code, AdminCode: admin})
	}
}

func CreateTeam(st *store.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := requireAdmin(w, r, st)
		if !ok {
			return
		}

		var body struct {
			Name   string `json:"name"`
			Budget int64  `json:"budget"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" || body.Budget < 0 {
			http.Error(w, "name and non-negative budget required", http.StatusBadRequest)
			return
		}

		t := store.Team{AuctionID: a.ID, Name: body.Name, Budget: body.Budget}
		if err := st.CreateTeam(r.Context(), &t); err != nil {
			log.Error("create team", zap.Error(err))
			http.Error(w, "failed to create team", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func CreatePlayer(st *store.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := requireAdmin(w, r, st)
		if !ok {
			return
		}

		var body struct {
			Name      string `json:"name"`
			BasePrice int64  `json:"base_price"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" || body.BasePrice < 0 {
			http.Error(w, "name and non-negative base_price required", http.StatusBadRequest)
			return
		}

		p := store.Player{AuctionID: a.ID, Name: body.Name, BasePrice: body.BasePrice}
		if err := st.CreatePlayer(r.Context(), &p); err != nil {
			log.Error("create player", zap.Error(err))
			http.Error(w, "failed to create player", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func ListTeams(st *store.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := lookupAuction(w, r, st)
		if !ok {
			return
		}
		teams, err := st.TeamsByAuction(r.Context(), a.ID)
		if err != nil {
			log.Error("list teams", zap.Error(err))
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, teams)
	}
}

func ListPlayers(st *store.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := lookupAuction(w, r, st)
		if !ok {
			return
		}
		players, err := st.PlayersByAuction(r.Context(), a.ID)
		if err != nil {
			log.Error("list players", zap.Error(err))
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func lookupAuction(w http.ResponseWriter, r *http.Request, st *store.Store) (*store.Auction, bool) {
	code := chi.URLParam(r, "code")
	a, err := st.AuctionByCode(r.Context(), code)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "auction not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return nil, false
	}
	return a, true
}

func requireAdmin(w http.ResponseWriter, r *http.Request, st *store.Store) (*store.Auction, bool) {
	a, ok := lookupAuction(w, r, st)
	if !ok {
		return nil, false
	}
	if r.Header.Get("X-Admin-Code") != a.AdminCode {
		http.Error(w, "forbidden", http.StatusForbidden)
		return nil, false
	}
	return a, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
