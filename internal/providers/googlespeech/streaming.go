package googlespeech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	speech "cloud.google.com/go/speech/apiv2"
	"cloud.google.com/go/speech/apiv2/speechpb"

	"github.com/Pavantej-HH/AI-Interview/internal/domain"
	"github.com/Pavantej-HH/AI-Interview/internal/ports"
)

const hintBoost = 10

// Config controls the Speech-to-Text v2 streaming recognizer.
type Config struct {
	ProjectID string
	Model     string
}

// Provider implements ports.SpeechProvider on Google Cloud Speech-to-Text
// v2. One grpc client is shared across all sessions.
type Provider struct {
	client *speech.Client
	cfg    Config
}

func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("GOOGLE_CLOUD_PROJECT is not configured")
	}
	if cfg.Model == "" {
		cfg.Model = "latest_long"
	}
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return &Provider{client: client, cfg: cfg}, nil
}

// Close releases the shared grpc client.
func (p *Provider) Close() error {
	return p.client.Close()
}

func (p *Provider) recognizer() string {
	return fmt.Sprintf("projects/%s/locations/global/recognizers/_", p.cfg.ProjectID)
}

func (p *Provider) StartStreaming(ctx context.Context, cfg ports.StreamingConfig) (ports.SpeechSession, error) {
	stream, err := p.client.StreamingRecognize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open recognition stream: %w", err)
	}

	if err := stream.Send(&speechpb.StreamingRecognizeRequest{
		Recognizer: p.recognizer(),
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: p.streamingConfig(cfg),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to send recognition config: %w", err)
	}

	session := newStreamingSession(stream)

	session.wg.Add(2)
	go session.readLoop()
	go session.writeLoop()
	go func() {
		session.wg.Wait()
		close(session.events)
		close(session.done)
	}()

	go func() {
		<-ctx.Done()
		_ = session.Close()
	}()

	return session, nil
}

func (p *Provider) streamingConfig(cfg ports.StreamingConfig) *speechpb.StreamingRecognitionConfig {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	languages := []string{"en-US"}
	if cfg.LanguageCode != "" {
		languages = []string{cfg.LanguageCode}
	}

	recognition := &speechpb.RecognitionConfig{
		DecodingConfig: &speechpb.RecognitionConfig_ExplicitDecodingConfig{
			ExplicitDecodingConfig: &speechpb.ExplicitDecodingConfig{
				Encoding:          speechpb.ExplicitDecodingConfig_LINEAR16,
				SampleRateHertz:   int32(cfg.SampleRate),
				AudioChannelCount: int32(cfg.Channels),
			},
		},
		Model:         p.cfg.Model,
		LanguageCodes: languages,
		Features: &speechpb.RecognitionFeatures{
			EnableAutomaticPunctuation: true,
		},
	}

	if len(cfg.HintPhrases) > 0 {
		phrases := make([]*speechpb.PhraseSet_Phrase, 0, len(cfg.HintPhrases))
		for _, hint := range cfg.HintPhrases {
			phrases = append(phrases, &speechpb.PhraseSet_Phrase{Value: hint, Boost: hintBoost})
		}
		recognition.Adaptation = &speechpb.SpeechAdaptation{
			PhraseSets: []*speechpb.SpeechAdaptation_AdaptationPhraseSet{{
				Value: &speechpb.SpeechAdaptation_AdaptationPhraseSet_InlinePhraseSet{
					InlinePhraseSet: &speechpb.PhraseSet{Phrases: phrases},
				},
			}},
		}
	}

	return &speechpb.StreamingRecognitionConfig{
		Config: recognition,
		StreamingFeatures: &speechpb.StreamingRecognitionFeatures{
			InterimResults: cfg.InterimResults,
		},
	}
}

type streamingSession struct {
	stream speechpb.Speech_StreamingRecognizeClient

	events   chan domain.TranscriptEvent
	audio    chan []byte
	sendDone chan struct{}
	done     chan struct{}

	wg sync.WaitGroup

	errMu sync.Mutex
	err   error

	closeSendOnce sync.Once
	closeOnce     sync.Once
}

func newStreamingSession(stream speechpb.Speech_StreamingRecognizeClient) *streamingSession {
	return &streamingSession{
		stream:   stream,
		events:   make(chan domain.TranscriptEvent, 64),
		audio:    make(chan []byte, 32),
		sendDone: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// SendAudio never touches a closed channel: the audio channel stays open for
// the session's lifetime and CloseSend is signalled through sendDone, so a
// sender blocked on a full buffer unblocks cleanly instead of panicking.
func (s *streamingSession) SendAudio(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}

	select {
	case <-s.sendDone:
		return errors.New("audio stream is already closed")
	default:
	}

	copied := append([]byte(nil), chunk...)
	select {
	case s.audio <- copied:
		return nil
	case <-s.sendDone:
		return errors.New("audio stream is already closed")
	case <-s.done:
		if err := s.waitErr(); err != nil {
			return err
		}
		return errors.New("session closed")
	}
}

func (s *streamingSession) CloseSend() error {
	s.closeSendOnce.Do(func() {
		close(s.sendDone)
	})
	return nil
}

func (s *streamingSession) Events() <-chan domain.TranscriptEvent {
	return s.events
}

func (s *streamingSession) Wait() error {
	<-s.done
	return s.waitErr()
}

func (s *streamingSession) Close() error {
	s.closeOnce.Do(func() {
		_ = s.CloseSend()
	})
	<-s.done
	return s.waitErr()
}

func (s *streamingSession) waitErr() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *streamingSession) setErr(err error) {
	if err == nil || errors.Is(err, io.EOF) {
		return
	}
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *streamingSession) writeLoop() {
	defer s.wg.Done()

	for {
		select {
		case chunk := <-s.audio:
			if err := s.sendChunk(chunk); err != nil {
				s.setErr(err)
				return
			}
		case <-s.sendDone:
			// Flush whatever was queued before the close signal.
			for {
				select {
				case chunk := <-s.audio:
					if err := s.sendChunk(chunk); err != nil {
						s.setErr(err)
						return
					}
				default:
					if err := s.stream.CloseSend(); err != nil {
						s.setErr(fmt.Errorf("failed to close audio stream: %w", err))
					}
					return
				}
			}
		}
	}
}

func (s *streamingSession) sendChunk(chunk []byte) error {
	err := s.stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_Audio{Audio: chunk},
	})
	if err != nil {
		return fmt.Errorf("failed to send audio: %w", err)
	}
	return nil
}

func (s *streamingSession) readLoop() {
	defer s.wg.Done()

	for {
		resp, err := s.stream.Recv()
		if err != nil {
			s.setErr(err)
			return
		}
		for _, result := range resp.GetResults() {
			alternatives := result.GetAlternatives()
			if len(alternatives) == 0 {
				continue
			}
			text := strings.TrimSpace(alternatives[0].GetTranscript())
			if text == "" {
				continue
			}
			event := domain.TranscriptEvent{Kind: domain.TranscriptKindPartial, Text: text}
			if result.GetIsFinal() {
				event.Kind = domain.TranscriptKindFinal
			}
			s.emit(event)
		}
	}
}

func (s *streamingSession) emit(event domain.TranscriptEvent) {
	select {
	case s.events <- event:
	case <-s.done:
	default:
	}
}
