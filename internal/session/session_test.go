package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Pavantej-HH/AI-Interview/internal/domain"
	"github.com/Pavantej-HH/AI-Interview/internal/interview"
	"github.com/Pavantej-HH/AI-Interview/internal/ports"
	"github.com/Pavantej-HH/AI-Interview/internal/stt"
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
	return &fakeStream{events: make(chan domain.TranscriptEvent, 16), done: make(chan struct{})}
}

func (f *fakeStream) finish() {
	f.once.Do(func() {
		close(f.events)
		close(f.done)
	})
}

func (f *fakeStream) SendAudio([]byte) error                { return nil }
func (f *fakeStream) CloseSend() error                      { f.finish(); return nil }
func (f *fakeStream) Events() <-chan domain.TranscriptEvent { return f.events }
func (f *fakeStream) Wait() error                           { <-f.done; return nil }
func (f *fakeStream) Close() error                          { f.finish(); return nil }

type fakeProvider struct {
	mu     sync.Mutex
	stream *fakeStream
	calls  int
}

func (f *fakeProvider) StartStreaming(context.Context, ports.StreamingConfig) (ports.SpeechSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.stream == nil {
		return nil, errors.New("no stream configured")
	}
	return f.stream, nil
}

type fakeBackend struct {
	mu      sync.Mutex
	replies []string
}

func (f *fakeBackend) Generate(context.Context, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.replies) == 0 {
		return "", errors.New("no reply queued")
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

type fakeTTS struct{}

func (fakeTTS) Synthesize(context.Context, string) (string, error) { return "audio", nil }

type captureSink struct {
	mu       sync.Mutex
	messages []domain.AIMessage
}

func (c *captureSink) Info(string)                     {}
func (c *captureSink) Error(domain.ErrorCode, string)  {}
func (c *captureSink) InterimTranscript(string)        {}
func (c *captureSink) FinalTranscriptPart(string)      {}
func (c *captureSink) UserTranscript(string)           {}
func (c *captureSink) InterviewComplete(domain.Report) {}

func (c *captureSink) AIMessage(msg domain.AIMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

func (c *captureSink) messageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

type noopFinisher struct{}

func (noopFinisher) Finish(context.Context, domain.History, int, bool) {}

func TestSessionPumpsUtterancesIntoInterview(t *testing.T) {
	t.Parallel()

	stream := newFakeStream()
	provider := &fakeProvider{stream: stream}
	sink := &captureSink{}

	sess := New()
	speech := stt.NewProcessor(sess.ID, provider, sink, testLogger(), stt.Config{
		SilenceThreshold:  20 * time.Millisecond,
		KeepAliveInterval: time.Hour,
	})
	orch := interview.NewOrchestrator(sess.ID, interview.Policy{}, speech, &fakeBackend{
		replies: []string{
			"Welcome. Please introduce yourself.",
			`{"evaluation":"good answer","score":7,"next_question":"What about testing?","should_continue":true,"interview_stage":"early"}`,
		},
	}, fakeTTS{}, sink, noopFinisher{}, testLogger(), interview.Options{Pick: func(int) int { return 0 }})
	sess.Bind(orch, speech)
	sess.Start()
	defer sess.Close()

	orch.StartInterview(context.Background(), domain.SessionMetadata{QuestionType: "technical"})
	if sink.messageCount() != 1 {
		t.Fatalf("expected opening message, got %d", sink.messageCount())
	}

	// Client reports playback finished; capture starts.
	orch.AISpeechEnded(context.Background())
	deadline := time.Now().Add(time.Second)
	for !speech.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}

	stream.events <- domain.TranscriptEvent{Kind: domain.TranscriptKindFinal, Text: "I build streaming backends in production"}

	for sink.messageCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if sink.messageCount() != 2 {
		t.Fatalf("expected the follow-up question, got %d messages", sink.messageCount())
	}

	sink.mu.Lock()
	text := sink.messages[1].Text
	sink.mu.Unlock()
	if text != "Excellent. What about testing?" {
		t.Fatalf("unexpected follow-up: %q", text)
	}
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	sess := New()
	sess.Close()
	sess.Close()

	select {
	case <-sess.Context().Done():
	default:
		t.Fatalf("close must cancel the session context")
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	t.Parallel()

	a, b := New(), New()
	defer a.Close()
	defer b.Close()
	if a.ID == b.ID || a.ID == "" {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
}

func TestRegistryLifecycle(t *testing.T) {
	t.Parallel()

	r := NewRegistry(testLogger())
	s := New()
	r.Add(s)

	if got, ok := r.Get(s.ID); !ok || got != s {
		t.Fatalf("expected to find the registered session")
	}
	if r.Count() != 1 {
		t.Fatalf("expected count 1, got %d", r.Count())
	}

	r.Remove(s.ID)
	if _, ok := r.Get(s.ID); ok {
		t.Fatalf("removed session must be gone")
	}
	select {
	case <-s.Context().Done():
	default:
		t.Fatalf("remove must close the session")
	}

	r.Remove("unknown")
	if r.Count() != 0 {
		t.Fatalf("expected empty registry")
	}
}

func TestRegistryCloseAll(t *testing.T) {
	t.Parallel()

	r := NewRegistry(testLogger())
	a, b := New(), New()
	r.Add(a)
	r.Add(b)

	r.CloseAll()
	if r.Count() != 0 {
		t.Fatalf("expected empty registry after close all")
	}
	for _, s := range []*Session{a, b} {
		select {
		case <-s.Context().Done():
		default:
			t.Fatalf("close all must cancel every session")
		}
	}
}
