package server

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Pavantej-HH/AI-Interview/internal/domain"
	"github.com/Pavantej-HH/AI-Interview/internal/ports"
	"github.com/Pavantej-HH/AI-Interview/internal/session"
)

// SessionFactory builds one full interview pipeline bound to a connection's
// event sink.
type SessionFactory interface {
	NewSession(sink ports.EventSink) (*session.Session, error)
}

// WSHandler upgrades connections and runs the per-connection read loop.
type WSHandler struct {
	registry *session.Registry
	factory  SessionFactory
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(registry *session.Registry, factory SessionFactory, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		registry: registry,
		factory:  factory,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	cl := newClient(conn, h.logger)
	go cl.writePump()

	sess, err := h.factory.NewSession(cl)
	if err != nil {
		h.logger.Error("session setup failed", "error", err)
		cl.Error(domain.ErrorCodeStartup, "Failed to initialize session")
		cl.close()
		return
	}
	h.registry.Add(sess)
	sess.Start()
	cl.Info("Connected to server")
	h.logger.Info("client connected", "session_id", sess.ID, "remote", r.RemoteAddr)

	defer func() {
		h.registry.Remove(sess.ID)
		cl.close()
		h.logger.Info("client disconnected", "session_id", sess.ID)
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("websocket read failed", "session_id", sess.ID, "error", err)
			}
			return
		}
		var frame inboundFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			h.logger.Debug("dropping malformed frame", "session_id", sess.ID, "error", err)
			continue
		}
		h.dispatch(sess, frame)
	}
}

func (h *WSHandler) dispatch(sess *session.Session, frame inboundFrame) {
	switch frame.Type {
	case frameStartInterview:
		meta := domain.SessionMetadata{
			Resume:         frame.Resume,
			JobDescription: frame.JobDesc,
			QuestionType:   frame.QuestionType,
		}
		if meta.QuestionType == "" {
			meta.QuestionType = "technical"
		}
		// The opening question needs a backend round trip; keep the read
		// loop free for audio frames meanwhile.
		go sess.Orchestrator().StartInterview(sess.Context(), meta)

	case frameAudioChunk:
		if frame.Audio == "" {
			return
		}
		chunk, err := base64.StdEncoding.DecodeString(frame.Audio)
		if err != nil {
			h.logger.Debug("dropping undecodable audio chunk", "session_id", sess.ID, "error", err)
			return
		}
		sess.Speech().AddAudio(chunk)

	case frameAISpeechEnded:
		sess.Orchestrator().AISpeechEnded(sess.Context())

	case frameStopInterview:
		sess.Orchestrator().StopInterview()

	default:
		h.logger.Debug("ignoring unknown frame type", "session_id", sess.ID, "type", frame.Type)
	}
}
