package stt

import (
	"strings"
	"sync"
	"time"
)

// segmenter groups finalized recognition fragments into one utterance using
// trailing silence. Every final fragment re-arms a single debounce timer;
// when it fires with no newer fragment, the buffered text is emitted exactly
// once on the utterance channel.
type segmenter struct {
	threshold time.Duration
	listening func() bool
	out       chan string
	quit      chan struct{}
	quitOnce  sync.Once

	mu        sync.Mutex
	parts     []string
	lastFinal time.Time
	timer     *time.Timer
}

func newSegmenter(threshold time.Duration, listening func() bool) *segmenter {
	return &segmenter{
		threshold: threshold,
		listening: listening,
		out:       make(chan string, 4),
		quit:      make(chan struct{}),
	}
}

// AddFinal appends a finalized fragment and schedules a silence check.
func (s *segmenter) AddFinal(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.parts = append(s.parts, text)
	s.lastFinal = time.Now()
	if s.timer == nil {
		s.timer = time.AfterFunc(s.threshold, s.fire)
	} else {
		s.timer.Reset(s.threshold)
	}
}

func (s *segmenter) fire() {
	s.mu.Lock()
	if s.lastFinal.IsZero() || time.Since(s.lastFinal) < s.threshold {
		// A newer fragment re-armed the timer; this check is stale.
		s.mu.Unlock()
		return
	}
	if !s.listening() {
		s.parts = nil
		s.lastFinal = time.Time{}
		s.mu.Unlock()
		return
	}
	text := strings.TrimSpace(strings.Join(s.parts, " "))
	s.parts = nil
	s.lastFinal = time.Time{}
	s.mu.Unlock()

	if len(text) <= 2 {
		return
	}
	// Abandon the emission when the session is gone and nobody drains the
	// channel; otherwise the timer goroutine would block forever.
	select {
	case s.out <- text:
	case <-s.quit:
	}
}

// close releases any emission still blocked on a full channel. The segmenter
// must not be used afterwards.
func (s *segmenter) close() {
	s.quitOnce.Do(func() {
		close(s.quit)
	})
}

// Reset discards any partially accumulated utterance and its pending check.
func (s *segmenter) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parts = nil
	s.lastFinal = time.Time{}
	if s.timer != nil {
		s.timer.Stop()
	}
}

// Utterances is the channel on which completed utterances are delivered.
func (s *segmenter) Utterances() <-chan string {
	return s.out
}
