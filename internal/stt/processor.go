package stt

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Pavantej-HH/AI-Interview/internal/audio"
	"github.com/Pavantej-HH/AI-Interview/internal/domain"
	"github.com/Pavantej-HH/AI-Interview/internal/ports"
)

// Config controls one session's recognition stream lifecycle.
type Config struct {
	SampleRate   int
	Channels     int
	LanguageCode string
	HintPhrases  []string

	SilenceThreshold    time.Duration
	KeepAliveInterval   time.Duration
	QueueCapacity       int
	MaxRestarts         int
	RestartCooldown     time.Duration
	BackoffCeiling      time.Duration
	MaxConsecutiveFails int
	StopTimeout         time.Duration
}

func (c Config) withDefaults() Config {
	if c.SampleRate <= 0 {
		c.SampleRate = 16000
	}
	if c.Channels <= 0 {
		c.Channels = 1
	}
	if c.LanguageCode == "" {
		c.LanguageCode = "en-US"
	}
	if c.SilenceThreshold <= 0 {
		c.SilenceThreshold = 3 * time.Second
	}
	if c.KeepAliveInterval <= 0 {
		c.KeepAliveInterval = 8 * time.Second
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = 100
	}
	if c.MaxRestarts <= 0 {
		c.MaxRestarts = 10
	}
	if c.RestartCooldown <= 0 {
		c.RestartCooldown = 2 * time.Second
	}
	if c.BackoffCeiling <= 0 {
		c.BackoffCeiling = 5 * time.Second
	}
	if c.MaxConsecutiveFails <= 0 {
		c.MaxConsecutiveFails = 3
	}
	if c.StopTimeout <= 0 {
		c.StopTimeout = 3 * time.Second
	}
	return c
}

// Processor owns one session's long-lived recognition stream: it feeds queued
// audio in, surfaces partial and final transcripts while listening, restarts
// the stream on transient failures, and segments utterances by silence.
type Processor struct {
	sessionID string
	provider  ports.SpeechProvider
	events    ports.EventSink
	logger    *slog.Logger
	cfg       Config

	buffer *audio.Buffer
	seg    *segmenter

	listening atomic.Bool

	mu           sync.Mutex
	running      bool
	stopc        chan struct{}
	done         chan struct{}
	restartCount int
	lastRestart  time.Time
}

func NewProcessor(sessionID string, provider ports.SpeechProvider, events ports.EventSink, logger *slog.Logger, cfg Config) *Processor {
	cfg = cfg.withDefaults()
	p := &Processor{
		sessionID: sessionID,
		provider:  provider,
		events:    events,
		logger:    logger,
		cfg:       cfg,
		buffer:    audio.NewBuffer(cfg.QueueCapacity),
	}
	p.seg = newSegmenter(cfg.SilenceThreshold, p.IsListening)
	return p
}

// Utterances delivers silence-segmented candidate utterances, exactly once
// each, in the order they were spoken.
func (p *Processor) Utterances() <-chan string {
	return p.seg.Utterances()
}

// Start launches the streaming worker. It is idempotent: a running processor
// is left untouched.
func (p *Processor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.listening.Store(true)
	p.restartCount = 0
	p.lastRestart = time.Time{}
	p.stopc = make(chan struct{})
	p.done = make(chan struct{})
	go p.run(ctx, p.stopc, p.done)
	p.logger.Info("stt started", "session_id", p.sessionID)
}

// Stop signals the worker, discards buffered audio, and waits for the worker
// to exit, bounded by the stop timeout. Safe to call from any goroutine and
// idempotent.
func (p *Processor) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.listening.Store(false)
	close(p.stopc)
	done := p.done
	p.mu.Unlock()

	p.buffer.Drain()
	p.seg.Reset()

	select {
	case <-done:
	case <-time.After(p.cfg.StopTimeout):
		p.logger.Warn("stt worker did not exit before timeout", "session_id", p.sessionID)
	}
	p.logger.Info("stt stopped", "session_id", p.sessionID)
}

// Mute stops surfacing transcripts without tearing down the stream. Any
// partially accumulated utterance is discarded. Mutually exclusive with
// Start, Stop and Unmute.
func (p *Processor) Mute() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listening.Store(false)
	p.seg.Reset()
	p.logger.Debug("stt muted", "session_id", p.sessionID)
}

// Unmute resumes transcript emission on the already-warm stream. Holding the
// lock through the store keeps a concurrent Stop from leaving a stopped
// processor marked listening.
func (p *Processor) Unmute() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.seg.Reset()
	p.listening.Store(true)
	p.logger.Debug("stt unmuted", "session_id", p.sessionID)
}

// Close stops the worker and abandons any utterance emission still pending
// on the full channel. Unlike Stop, a closed processor cannot be restarted;
// call it only when the session is torn down.
func (p *Processor) Close() {
	p.Stop()
	p.seg.close()
}

// AddAudio enqueues a chunk without blocking. Chunks are dropped when the
// processor is not running, and accepted even while muted so the remote
// stream stays warm.
func (p *Processor) AddAudio(chunk []byte) {
	if !p.IsRunning() {
		return
	}
	p.buffer.Push(chunk)
}

func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Processor) IsListening() bool {
	return p.listening.Load()
}

// Restarts reports how many automatic stream restarts this run has used.
func (p *Processor) Restarts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.restartCount
}

func (p *Processor) run(ctx context.Context, stopc chan struct{}, done chan struct{}) {
	defer close(done)

	consecutive := 0
	lastKind := errKindBenign

	for {
		select {
		case <-stopc:
			return
		default:
		}

		err := p.streamOnce(ctx, stopc)

		select {
		case <-stopc:
			// Explicit stop; whatever the stream returned is noise.
			return
		default:
		}

		kind := classifyStreamError(err)
		if kind == errKindBenign {
			consecutive = 0
			lastKind = errKindBenign
			continue
		}
		if !kind.transient() {
			p.logger.Error("stt stream failed", "session_id", p.sessionID, "error", err)
			return
		}

		if kind == lastKind {
			consecutive++
		} else {
			consecutive = 1
			lastKind = kind
		}
		if consecutive >= p.cfg.MaxConsecutiveFails {
			p.logger.Warn("stt giving up after repeated failures",
				"session_id", p.sessionID, "kind", kind.String(), "consecutive", consecutive)
			return
		}
		if !p.allowRestart(kind) {
			return
		}

		backoff := p.cfg.RestartCooldown << (consecutive - 1)
		if backoff > p.cfg.BackoffCeiling {
			backoff = p.cfg.BackoffCeiling
		}
		select {
		case <-stopc:
			return
		case <-time.After(backoff):
		}
	}
}

// allowRestart checks eligibility and, when granted, charges the restart
// budget and clears stale audio.
func (p *Processor) allowRestart(kind errorKind) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return false
	}
	if p.restartCount >= p.cfg.MaxRestarts {
		p.logger.Warn("stt restart ceiling reached", "session_id", p.sessionID, "restarts", p.restartCount)
		return false
	}
	if !p.lastRestart.IsZero() && time.Since(p.lastRestart) < p.cfg.RestartCooldown {
		return false
	}
	p.restartCount++
	p.lastRestart = time.Now()
	dropped := p.buffer.Drain()
	p.logger.Info("stt restarting stream",
		"session_id", p.sessionID, "restart", p.restartCount, "kind", kind.String(), "dropped_chunks", dropped)
	return true
}

// streamOnce runs one stream attempt to completion and returns its terminal
// error. Responses are always drained, even while muted, so the remote stream
// never stalls on an unread result.
func (p *Processor) streamOnce(ctx context.Context, stopc chan struct{}) error {
	session, err := p.provider.StartStreaming(ctx, ports.StreamingConfig{
		SampleRate:     p.cfg.SampleRate,
		Channels:       p.cfg.Channels,
		Encoding:       "linear16",
		LanguageCode:   p.cfg.LanguageCode,
		InterimResults: true,
		HintPhrases:    p.cfg.HintPhrases,
	})
	if err != nil {
		return err
	}

	attemptDone := make(chan struct{})
	feedDone := make(chan struct{})
	go p.feed(session, stopc, attemptDone, feedDone)

	for event := range session.Events() {
		if !p.listening.Load() {
			continue
		}
		text := strings.TrimSpace(event.Text)
		switch event.Kind {
		case domain.TranscriptKindPartial:
			if text != "" {
				p.events.InterimTranscript(text)
			}
		case domain.TranscriptKindFinal:
			if len(text) > 1 {
				p.seg.AddFinal(text)
				p.events.FinalTranscriptPart(text)
			}
		}
	}

	// Join the feeder before tearing the session down so no SendAudio call
	// is in flight when Close runs.
	close(attemptDone)
	<-feedDone
	streamErr := session.Wait()
	_ = session.Close()
	return streamErr
}

// feed forwards buffered audio to the stream, injecting a silence chunk when
// the queue stays empty past the keep-alive interval.
func (p *Processor) feed(session ports.SpeechSession, stopc, attemptDone, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-stopc:
			_ = session.CloseSend()
			return
		case <-attemptDone:
			return
		case chunk := <-p.buffer.C():
			if err := session.SendAudio(chunk); err != nil {
				return
			}
		case <-time.After(p.cfg.KeepAliveInterval):
			if err := session.SendAudio(audio.SilenceChunk(p.cfg.SampleRate)); err != nil {
				return
			}
		}
	}
}
