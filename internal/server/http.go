package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Pavantej-HH/AI-Interview/internal/domain"
	"github.com/Pavantej-HH/AI-Interview/internal/session"
)

// NewRouter wires the HTTP surface: the websocket endpoint, health, and a
// session debug view.
func NewRouter(registry *session.Registry, ws *WSHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/ws", ws.ServeHTTP)
	r.Get("/health", healthHandler(registry))
	r.Get("/debug/sessions/{id}", debugSessionHandler(registry, logger))

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func healthHandler(registry *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"sessions": registry.Count(),
		})
	}
}

// debugEntry summarizes one history entry without dumping full payloads.
type debugEntry struct {
	Index          int    `json:"index"`
	Type           string `json:"type"`
	HasScore       bool   `json:"has_score"`
	Score          int    `json:"score,omitempty"`
	HasEvaluation  bool   `json:"has_evaluation"`
	EvalLength     int    `json:"eval_length"`
	ContentPreview string `json:"content_preview"`
}

func debugSessionHandler(registry *session.Registry, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		sess, ok := registry.Get(id)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Session not found"})
			return
		}

		hist := sess.Orchestrator().History()
		entries := make([]debugEntry, 0, len(hist))
		for idx, entry := range hist {
			entries = append(entries, describeEntry(idx, entry))
		}

		logger.Debug("debug session dump", "session_id", id, "entries", len(entries))
		writeJSON(w, http.StatusOK, map[string]any{
			"session_id":    id,
			"state":         sess.Orchestrator().State(),
			"total_entries": len(hist),
			"entries":       entries,
		})
	}
}

func describeEntry(idx int, entry domain.HistoryEntry) debugEntry {
	out := debugEntry{Index: idx}
	switch e := entry.(type) {
	case domain.SessionMetadata:
		out.Type = "METADATA"
		out.ContentPreview = preview(fmt.Sprintf("type=%s resume=%d chars jd=%d chars", e.QuestionType, len(e.Resume), len(e.JobDescription)))
	case domain.InterviewerTurn:
		out.Type = "INTERVIEWER"
		out.HasScore = e.Score != 0
		out.Score = e.Score
		out.HasEvaluation = e.Evaluation != ""
		out.EvalLength = len(e.Evaluation)
		out.ContentPreview = preview(e.Question)
	case domain.CandidateTurn:
		out.Type = "CANDIDATE"
		out.ContentPreview = preview(e.Text)
	default:
		out.Type = "UNKNOWN"
	}
	return out
}

func preview(s string) string {
	if len(s) > 100 {
		return s[:100] + "..."
	}
	return s
}
