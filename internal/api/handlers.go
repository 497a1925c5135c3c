package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/services/account"
	"github.com/mcoot/tictacgame-go/internal/services/match"
	"github.com/mcoot/tictacgame-go/internal/services/replay"
	"github.com/mcoot/tictacgame-go/internal/services/session"
)

type handlers struct {
	accounts   *account.Service
	registry   *session.Registry
	matchmaker *match.Service
	replays    *replay.Service
}

// Health handles GET /api/v1/health
func (h *handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statsResponse summarizes live server state
type statsResponse struct {
	Accounts      int  `json:"accounts"`
	LiveSessions  int  `json:"live_sessions"`
	PlayerWaiting bool `json:"player_waiting"`
}

// Stats handles GET /api/v1/stats
func (h *handlers) Stats(w http.ResponseWriter, r *http.Request) {
	_, waiting := h.matchmaker.Waiting()
	writeJSON(w, http.StatusOK, statsResponse{
		Accounts:      h.accounts.Count(),
		LiveSessions:  h.registry.Count(),
		PlayerWaiting: waiting,
	})
}

// sessionResponse is one live session in API responses. Connection ids are
// opaque transport identities; they are exposed for debugging only.
type sessionResponse struct {
	ID         string       `json:"id"`
	PlayerA    int          `json:"player_a"`
	PlayerB    int          `json:"player_b"`
	MoveCount  int          `json:"move_count"`
	Spectators int          `json:"spectators"`
	Moves      []model.Move `json:"moves"`
}

// Sessions handles GET /api/v1/sessions
func (h *handlers) Sessions(w http.ResponseWriter, r *http.Request) {
	live := h.registry.Snapshot()

	out := make([]sessionResponse, 0, len(live))
	for _, s := range live {
		out = append(out, sessionResponse{
			ID:         string(s.ID),
			PlayerA:    int(s.PlayerA),
			PlayerB:    int(s.PlayerB),
			MoveCount:  len(s.Moves),
			Spectators: len(s.Spectators),
			Moves:      s.Moves,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// replayResponse is a persisted replay in API responses
type replayResponse struct {
	Index int          `json:"index"`
	Moves []model.Move `json:"moves"`
}

// Replay handles GET /api/v1/replays/{index}
func (h *handlers) Replay(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}

	moves, err := h.replays.Load(r.Context(), index)
	if err != nil {
		if errors.Is(err, model.ErrReplayNotFound) {
			writeError(w, http.StatusNotFound, "replay not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load replay")
		return
	}

	writeJSON(w, http.StatusOK, replayResponse{Index: index, Moves: moves})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
