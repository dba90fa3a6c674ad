package googlespeech

import (
	"errors"
	"io"
	"testing"
	"time"
)

func TestStreamingSessionSendAudioClosed(t *testing.T) {
	t.Parallel()

	s := newStreamingSession(nil)
	if err := s.CloseSend(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SendAudio([]byte("x")); err == nil {
		t.Fatalf("expected closed error")
	}
}

func TestStreamingSessionCloseSendIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newStreamingSession(nil)
	if err := s.CloseSend(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.CloseSend(); err != nil {
		t.Fatalf("unexpected second error: %v", err)
	}
}

func TestStreamingSessionCloseSendUnblocksPendingSend(t *testing.T) {
	t.Parallel()

	s := newStreamingSession(nil)

	// Fill the audio buffer so the next send has to wait.
	for i := 0; i < cap(s.audio); i++ {
		if err := s.SendAudio([]byte("x")); err != nil {
			t.Fatalf("unexpected error filling buffer: %v", err)
		}
	}

	blocked := make(chan error, 1)
	go func() {
		blocked <- s.SendAudio([]byte("overflow"))
	}()

	select {
	case err := <-blocked:
		t.Fatalf("send returned before buffer had room: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	if err := s.CloseSend(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case err := <-blocked:
		if err == nil {
			t.Fatalf("expected closed error from pending send")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("pending send never unblocked after CloseSend")
	}
}

func TestStreamingSessionSetErrIgnoresEOF(t *testing.T) {
	t.Parallel()

	s := newStreamingSession(nil)
	s.setErr(io.EOF)
	if s.waitErr() != nil {
		t.Fatalf("expected EOF to be ignored")
	}

	s.setErr(errors.New("boom"))
	if s.waitErr() == nil || s.waitErr().Error() != "boom" {
		t.Fatalf("expected first real error to stick")
	}

	s.setErr(errors.New("later"))
	if s.waitErr().Error() != "boom" {
		t.Fatalf("expected later errors to be ignored")
	}
}
