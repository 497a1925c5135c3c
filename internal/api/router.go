package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tictacgame-go/internal/services/account"
	"github.com/mcoot/tictacgame-go/internal/services/match"
	"github.com/mcoot/tictacgame-go/internal/services/replay"
	"github.com/mcoot/tictacgame-go/internal/services/session"
)

// RouterConfig holds configuration for the admin router
type RouterConfig struct {
	Logger     *slog.Logger
	Accounts   *account.Service
	Registry   *session.Registry
	Matchmaker *match.Service
	Replays    *replay.Service
}

// NewRouter creates the admin router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	h := &handlers{
		accounts:   cfg.Accounts,
		registry:   cfg.Registry,
		matchmaker: cfg.Matchmaker,
		replays:    cfg.Replays,
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recovery(cfg.Logger))
	api.Use(logging(cfg.Logger))

	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	api.HandleFunc("/stats", h.Stats).Methods(http.MethodGet)
	api.HandleFunc("/sessions", h.Sessions).Methods(http.MethodGet)
	api.HandleFunc("/replays/{index}", h.Replay).Methods(http.MethodGet)

	return r
}
