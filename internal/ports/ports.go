package ports

import (
	"context"

	"github.com/Pavantej-HH/AI-Interview/internal/domain"
)

// StreamingConfig describes provider-agnostic recognition stream settings.
type StreamingConfig struct {
	SampleRate     int
	Channels       int
	Encoding       string
	LanguageCode   string
	InterimResults bool
	HintPhrases    []string
}

// SpeechSession is one live recognition stream. SendAudio and Events may be
// used from different goroutines; Wait blocks until the stream ends and
// returns its terminal error, if any.
type SpeechSession interface {
	SendAudio(chunk []byte) error
	CloseSend() error
	Events() <-chan domain.TranscriptEvent
	Wait() error
	Close() error
}

// SpeechProvider opens recognition streams against a speech backend.
type SpeechProvider interface {
	StartStreaming(ctx context.Context, cfg StreamingConfig) (SpeechSession, error)
}

// Synthesizer converts text to base64-encoded audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// DialogueBackend answers a single free-form prompt with raw reply text.
// Structured replies are parsed by the caller, leniently.
type DialogueBackend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EventSink delivers outbound session events to the connected client.
type EventSink interface {
	Info(message string)
	Error(code domain.ErrorCode, message string)
	InterimTranscript(text string)
	FinalTranscriptPart(text string)
	UserTranscript(text string)
	AIMessage(msg domain.AIMessage)
	InterviewComplete(report domain.Report)
}
