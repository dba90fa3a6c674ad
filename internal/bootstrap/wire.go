package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Pavantej-HH/AI-Interview/internal/config"
	"github.com/Pavantej-HH/AI-Interview/internal/interview"
	"github.com/Pavantej-HH/AI-Interview/internal/ports"
	"github.com/Pavantej-HH/AI-Interview/internal/providers/deepgram"
	"github.com/Pavantej-HH/AI-Interview/internal/providers/gemini"
	"github.com/Pavantej-HH/AI-Interview/internal/providers/googlespeech"
	"github.com/Pavantej-HH/AI-Interview/internal/providers/googletts"
	"github.com/Pavantej-HH/AI-Interview/internal/report"
	"github.com/Pavantej-HH/AI-Interview/internal/rules"
	"github.com/Pavantej-HH/AI-Interview/internal/session"
	"github.com/Pavantej-HH/AI-Interview/internal/stt"
)

// App is the assembled runtime graph.
type App struct {
	Config   config.Config
	Registry *session.Registry
	Factory  *Factory

	closers []io.Closer
}

// Close releases shared provider clients after the registry is drained.
func (a *App) Close() {
	a.Registry.CloseAll()
	for _, closer := range a.closers {
		_ = closer.Close()
	}
}

// Build wires all backend dependencies for the current runtime.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	cleaner, err := rules.NewEngine(cfg.Rules)
	if err != nil {
		return nil, fmt.Errorf("invalid transcript corrections: %w", err)
	}

	app := &App{
		Config:   cfg,
		Registry: session.NewRegistry(logger),
	}

	var provider ports.SpeechProvider
	switch cfg.STT.Provider {
	case config.ProviderDeepgram:
		provider = deepgram.NewProvider(deepgram.Config{
			APIKey:     cfg.Deepgram.APIKey,
			APIBaseURL: cfg.Deepgram.APIBaseURL,
			Model:      cfg.Deepgram.Model,
		})
	default:
		googleProvider, err := googlespeech.NewProvider(ctx, googlespeech.Config{
			ProjectID: cfg.Google.ProjectID,
			Model:     cfg.Google.SpeechModel,
		})
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, googleProvider)
		provider = googleProvider
	}

	synthesizer, err := googletts.NewSynthesizer(ctx, googletts.Config{
		LanguageCode: cfg.TTS.LanguageCode,
		VoiceName:    cfg.TTS.VoiceName,
		SpeakingRate: cfg.TTS.SpeakingRate,
	})
	if err != nil {
		app.Close()
		return nil, err
	}
	app.closers = append(app.closers, synthesizer)

	backend := gemini.NewClient(gemini.Config{
		APIKey:   cfg.Gemini.APIKey,
		Endpoint: cfg.Gemini.Endpoint,
		Timeout:  cfg.Gemini.Timeout,
	})

	app.Factory = NewFactory(cfg, provider, synthesizer, backend, cleaner, logger)
	return app, nil
}

// Factory builds one interview pipeline per websocket connection.
type Factory struct {
	cfg      config.Config
	provider ports.SpeechProvider
	tts      ports.Synthesizer
	backend  ports.DialogueBackend
	cleaner  *rules.Engine
	logger   *slog.Logger
}

func NewFactory(cfg config.Config, provider ports.SpeechProvider, tts ports.Synthesizer,
	backend ports.DialogueBackend, cleaner *rules.Engine, logger *slog.Logger) *Factory {
	return &Factory{
		cfg:      cfg,
		provider: provider,
		tts:      tts,
		backend:  backend,
		cleaner:  cleaner,
		logger:   logger,
	}
}

// NewSession assembles the processor, orchestrator and closing sequence for
// one connection, all bound to the session's lifetime.
func (f *Factory) NewSession(sink ports.EventSink) (*session.Session, error) {
	sess := session.New()

	speech := stt.NewProcessor(sess.ID, f.provider, sink, f.logger, stt.Config{
		SampleRate:        f.cfg.STT.SampleRate,
		Channels:          f.cfg.STT.Channels,
		LanguageCode:      f.cfg.STT.LanguageCode,
		HintPhrases:       f.cfg.STT.HintPhrases,
		SilenceThreshold:  f.cfg.STT.SilenceThreshold,
		KeepAliveInterval: f.cfg.STT.KeepAliveInterval,
		QueueCapacity:     f.cfg.STT.QueueCapacity,
		MaxRestarts:       f.cfg.STT.MaxRestarts,
		RestartCooldown:   f.cfg.STT.RestartCooldown,
	})

	builder := report.NewBuilder(f.backend, f.cfg.Interview.IdealQuestions, f.logger)
	sequencer := report.NewSequencer(builder, f.tts, sink, f.logger, sess.Context())

	orch := interview.NewOrchestrator(sess.ID, interview.Policy{
		MinQuestions:   f.cfg.Interview.MinQuestions,
		IdealQuestions: f.cfg.Interview.IdealQuestions,
		MaxQuestions:   f.cfg.Interview.MaxQuestions,
		StopPhrases:    f.cfg.Interview.StopPhrases,
	}, speech, f.backend, f.tts, sink, sequencer, f.logger, interview.Options{
		Clean: f.cleaner.Apply,
	})

	sess.Bind(orch, speech)
	return sess, nil
}
