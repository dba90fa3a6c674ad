package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Pavantej-HH/AI-Interview/internal/interview"
	"github.com/Pavantej-HH/AI-Interview/internal/stt"
)

// Session ties one client connection to its interview pipeline. Its context
// is the lifetime anchor for everything spawned on the session's behalf,
// including deferred report delivery.
type Session struct {
	ID        string
	CreatedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc

	orch   *interview.Orchestrator
	speech *stt.Processor

	closeOnce sync.Once
}

// New allocates a session with a fresh id and lifetime context. The pipeline
// is attached afterwards with Bind, since its parts need the session context
// during construction.
func New() *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Context returns the session lifetime context.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Bind attaches the dialogue orchestrator and transcription processor.
func (s *Session) Bind(orch *interview.Orchestrator, speech *stt.Processor) {
	s.orch = orch
	s.speech = speech
}

// Orchestrator returns the session's dialogue state machine.
func (s *Session) Orchestrator() *interview.Orchestrator {
	return s.orch
}

// Speech returns the session's transcription processor.
func (s *Session) Speech() *stt.Processor {
	return s.speech
}

// Start launches the utterance pump that feeds segmented transcripts into
// the orchestrator until the session ends.
func (s *Session) Start() {
	go func() {
		for {
			select {
			case <-s.ctx.Done():
				return
			case text := <-s.speech.Utterances():
				s.orch.HandleUtterance(s.ctx, text)
			}
		}
	}()
}

// Close tears the session down: capture stops and the lifetime context ends,
// abandoning any pending report delivery. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.speech != nil {
			s.speech.Close()
		}
		s.cancel()
	})
}
