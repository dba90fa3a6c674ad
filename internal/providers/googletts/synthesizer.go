package googletts

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
)

// Config selects the synthesis voice.
type Config struct {
	LanguageCode string
	VoiceName    string
	SpeakingRate float64
	Pitch        float64
}

func (c Config) withDefaults() Config {
	if c.LanguageCode == "" {
		c.LanguageCode = "en-IN"
	}
	if c.VoiceName == "" {
		c.VoiceName = "en-IN-Chirp3-HD-Erinome"
	}
	if c.SpeakingRate == 0 {
		c.SpeakingRate = 1.0
	}
	return c
}

// Synthesizer implements ports.Synthesizer on Google Cloud Text-to-Speech.
// Output is base64-encoded LINEAR16 audio, ready for the websocket payload.
type Synthesizer struct {
	client *texttospeech.Client
	cfg    Config
}

func NewSynthesizer(ctx context.Context, cfg Config) (*Synthesizer, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create text-to-speech client: %w", err)
	}
	return &Synthesizer{client: client, cfg: cfg.withDefaults()}, nil
}

// Close releases the underlying client.
func (s *Synthesizer) Close() error {
	return s.client.Close()
}

func (s *Synthesizer) Synthesize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	resp, err := s.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: s.cfg.LanguageCode,
			Name:         s.cfg.VoiceName,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_LINEAR16,
			SpeakingRate:  s.cfg.SpeakingRate,
			Pitch:         s.cfg.Pitch,
		},
	})
	if err != nil {
		return "", fmt.Errorf("speech synthesis failed: %w", err)
	}
	return base64.StdEncoding.EncodeToString(resp.GetAudioContent()), nil
}
