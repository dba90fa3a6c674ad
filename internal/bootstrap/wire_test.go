package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Pavantej-HH/AI-Interview/internal/config"
	"github.com/Pavantej-HH/AI-Interview/internal/domain"
	"github.com/Pavantej-HH/AI-Interview/internal/ports"
	"github.com/Pavantej-HH/AI-Interview/internal/rules"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeStream struct {
	events chan domain.TranscriptEvent
	done   chan struct{}
	once   sync.Once
}

func newFakeStream() *fakeStream {
	return &fakeStream{
		events: make(chan domain.TranscriptEvent, 16),
		done:   make(chan struct{}),
	}
}

func (f *fakeStream) finish() {
	f.once.Do(func() {
		close(f.events)
		close(f.done)
	})
}

func (f *fakeStream) SendAudio([]byte) error                  { return nil }
func (f *fakeStream) CloseSend() error                        { return nil }
func (f *fakeStream) Events() <-chan domain.TranscriptEvent   { return f.events }
func (f *fakeStream) Wait() error                             { <-f.done; return nil }
func (f *fakeStream) Close() error                            { f.finish(); return nil }

type fakeProvider struct {
	mu     sync.Mutex
	stream *fakeStream
}

func (f *fakeProvider) StartStreaming(context.Context, ports.StreamingConfig) (ports.SpeechSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stream = newFakeStream()
	return f.stream, nil
}

func (f *fakeProvider) current() *fakeStream {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stream
}

type fakeBackend struct{}

func (fakeBackend) Generate(context.Context, string) (string, error) {
	return `{"evaluation":"","score":0,"next_question":"What is a channel?","should_continue":true,"interview_stage":"early"}`, nil
}

type fakeTTS struct{}

func (fakeTTS) Synthesize(_ context.Context, text string) (string, error) { return "audio", nil }

type captureSink struct {
	mu       sync.Mutex
	messages []domain.AIMessage
}

func (c *captureSink) Info(string)                        {}
func (c *captureSink) Error(domain.ErrorCode, string)     {}
func (c *captureSink) InterimTranscript(string)           {}
func (c *captureSink) FinalTranscriptPart(string)         {}
func (c *captureSink) UserTranscript(string)              {}
func (c *captureSink) InterviewComplete(domain.Report)    {}
func (c *captureSink) AIMessage(msg domain.AIMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

func (c *captureSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func testConfig() config.Config {
	return config.Config{
		STT: config.STTConfig{
			Provider:          config.ProviderDeepgram,
			SampleRate:        16000,
			Channels:          1,
			LanguageCode:      "en-US",
			SilenceThreshold:  30 * time.Millisecond,
			KeepAliveInterval: time.Hour,
			QueueCapacity:     16,
			MaxRestarts:       2,
			RestartCooldown:   time.Millisecond,
		},
		Interview: config.InterviewConfig{
			MinQuestions:   4,
			IdealQuestions: 8,
			MaxQuestions:   10,
		},
	}
}

func newTestFactory(t *testing.T) (*Factory, *fakeProvider, *captureSink) {
	t.Helper()
	cleaner, err := rules.NewEngine(nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	provider := &fakeProvider{}
	return NewFactory(testConfig(), provider, fakeTTS{}, fakeBackend{}, cleaner, testLogger()),
		provider, &captureSink{}
}

func TestFactoryBuildsBoundSessions(t *testing.T) {
	t.Parallel()

	factory, _, sink := newTestFactory(t)

	sess, err := factory.NewSession(sink)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer sess.Close()

	if sess.ID == "" {
		t.Fatal("session has no id")
	}
	if sess.Orchestrator() == nil || sess.Speech() == nil {
		t.Fatal("session is missing pipeline components")
	}
}

func TestFactorySessionsAreIndependent(t *testing.T) {
	t.Parallel()

	factory, _, sink := newTestFactory(t)

	first, err := factory.NewSession(sink)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer first.Close()
	second, err := factory.NewSession(sink)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer second.Close()

	if first.ID == second.ID {
		t.Fatal("sessions share an id")
	}
	if first.Orchestrator() == second.Orchestrator() {
		t.Fatal("sessions share an orchestrator")
	}
}

func TestFactoryWiredPipelineRunsAnInterviewTurn(t *testing.T) {
	t.Parallel()

	factory, provider, sink := newTestFactory(t)

	sess, err := factory.NewSession(sink)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer sess.Close()
	sess.Start()

	ctx := context.Background()
	sess.Orchestrator().StartInterview(ctx, domain.SessionMetadata{QuestionType: "technical"})
	if sink.count() != 1 {
		t.Fatalf("expected opening message, got %d", sink.count())
	}

	sess.Orchestrator().AISpeechEnded(sess.Context())

	deadline := time.Now().Add(2 * time.Second)
	for provider.current() == nil && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	stream := provider.current()
	if stream == nil {
		t.Fatal("speech stream never opened")
	}
	stream.events <- domain.TranscriptEvent{
		Kind: domain.TranscriptKindFinal,
		Text: "Channels pass values between goroutines.",
	}

	for sink.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if sink.count() < 2 {
		t.Fatal("follow-up question never arrived")
	}
	sink.mu.Lock()
	followUp := sink.messages[1]
	sink.mu.Unlock()
	if !strings.HasSuffix(followUp.Text, "What is a channel?") {
		t.Fatalf("unexpected follow-up: %q", followUp.Text)
	}
	if followUp.QuestionNumber != 2 {
		t.Fatalf("QuestionNumber = %d, want 2", followUp.QuestionNumber)
	}
}
