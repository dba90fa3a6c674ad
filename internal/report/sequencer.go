package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Pavantej-HH/AI-Interview/internal/domain"
	"github.com/Pavantej-HH/AI-Interview/internal/ports"
)

// Sequencer runs the end-of-interview sequence: it speaks the closing
// message immediately, assembles the report in the background, and delays
// delivery until the closing speech has had time to finish playing.
type Sequencer struct {
	builder  *Builder
	tts      ports.Synthesizer
	events   ports.EventSink
	logger   *slog.Logger
	lifetime context.Context

	wordsPerMinute float64
	speechScale    time.Duration
	buffer         time.Duration
}

// NewSequencer binds the sequencer to a session lifetime; the deferred
// report delivery is abandoned when that context ends.
func NewSequencer(builder *Builder, tts ports.Synthesizer, events ports.EventSink, logger *slog.Logger, lifetime context.Context) *Sequencer {
	return &Sequencer{
		builder:        builder,
		tts:            tts,
		events:         events,
		logger:         logger,
		lifetime:       lifetime,
		wordsPerMinute: 150,
		speechScale:    30 * time.Second,
		buffer:         3 * time.Second,
	}
}

func closingMessage(questionsAsked int, userInitiated bool) string {
	if userInitiated {
		return fmt.Sprintf("Thank you for your time and responses today. We've discussed %d questions, "+
			"which provides valuable insight into your capabilities. I appreciate your openness in sharing "+
			"your experience. This concludes our technical interview session.", questionsAsked)
	}
	return fmt.Sprintf("Thank you for this comprehensive discussion. We've thoroughly covered %d questions "+
		"across various technical domains, and I have a clear understanding of your expertise and approach "+
		"to problem-solving. This concludes our technical interview session.", questionsAsked)
}

// speechWait estimates how long the closing message takes to play.
func (s *Sequencer) speechWait(message string) time.Duration {
	words := float64(len(strings.Fields(message)))
	return time.Duration(words/s.wordsPerMinute*float64(s.speechScale)) + s.buffer
}

// Finish implements the orchestrator's end-of-interview hook.
func (s *Sequencer) Finish(ctx context.Context, hist domain.History, questionsAsked int, userInitiated bool) {
	message := closingMessage(questionsAsked, userInitiated)

	audio, err := s.tts.Synthesize(ctx, message)
	if err != nil {
		s.logger.Warn("closing message synthesis failed", "error", err)
	}
	s.events.AIMessage(domain.AIMessage{Text: message, Audio: audio, IsFinal: true})

	wait := s.speechWait(message)
	s.logger.Info("interview closing", "questions_asked", questionsAsked,
		"user_initiated", userInitiated, "report_delay", wait)

	// The delivery timer runs against wall time from now, while the report
	// is assembled concurrently; delivery happens at whichever is later.
	timer := time.NewTimer(wait)
	go func() {
		defer timer.Stop()

		report := s.builder.Build(s.lifetime, hist)
		if report == nil {
			s.logger.Warn("no report produced, skipping delivery")
			return
		}
		select {
		case <-timer.C:
		case <-s.lifetime.Done():
			return
		}
		s.events.InterviewComplete(*report)
		s.logger.Info("interview report delivered", "questions", report.Statistics.TotalQuestions,
			"overall_score", report.Statistics.OverallScore)
	}()
}
