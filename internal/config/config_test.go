package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("INTERVIEW_POLICY_FILE", "")
	t.Setenv("STT_PROVIDER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Addr != ":5050" {
		t.Fatalf("unexpected addr: %q", cfg.Server.Addr)
	}
	if cfg.STT.Provider != ProviderGoogle {
		t.Fatalf("expected google provider default, got %q", cfg.STT.Provider)
	}
	if cfg.STT.SilenceThreshold != 3*time.Second {
		t.Fatalf("unexpected silence threshold: %v", cfg.STT.SilenceThreshold)
	}
	if cfg.Interview.MinQuestions != 4 || cfg.Interview.IdealQuestions != 8 || cfg.Interview.MaxQuestions != 10 {
		t.Fatalf("unexpected question thresholds: %+v", cfg.Interview)
	}
	if len(cfg.Interview.StopPhrases) == 0 || len(cfg.Rules) == 0 || len(cfg.STT.HintPhrases) == 0 {
		t.Fatalf("expected built-in phrase and rule defaults")
	}
	hints := make(map[string]bool, len(cfg.STT.HintPhrases))
	for _, hint := range cfg.STT.HintPhrases {
		hints[hint] = true
	}
	if !hints["stop the interview"] || !hints["end the interview"] {
		t.Fatalf("expected stop phrases among default hints: %v", cfg.STT.HintPhrases)
	}
}

func TestLoadRespectsEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("STT_PROVIDER", "DEEPGRAM")
	t.Setenv("STT_SILENCE_THRESHOLD_MS", "1500")
	t.Setenv("DEEPGRAM_API_KEY", "dg-key")
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("GEMINI_API_URL", "https://example.com/generate")
	t.Setenv("INTERVIEW_MAX_QUESTIONS", "12")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("unexpected addr: %q", cfg.Server.Addr)
	}
	if cfg.STT.Provider != ProviderDeepgram {
		t.Fatalf("provider must lowercase, got %q", cfg.STT.Provider)
	}
	if cfg.STT.SilenceThreshold != 1500*time.Millisecond {
		t.Fatalf("unexpected silence threshold: %v", cfg.STT.SilenceThreshold)
	}
	if cfg.Deepgram.APIKey != "dg-key" || cfg.Gemini.APIKey != "gm-key" {
		t.Fatalf("api keys not picked up")
	}
	if cfg.Gemini.Endpoint != "https://example.com/generate" {
		t.Fatalf("unexpected gemini endpoint: %q", cfg.Gemini.Endpoint)
	}
	if cfg.Interview.MaxQuestions != 12 {
		t.Fatalf("unexpected max questions: %d", cfg.Interview.MaxQuestions)
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("STT_PROVIDER", "whisper")

	if _, err := Load(); err == nil {
		t.Fatalf("expected unknown provider error")
	}
}

func TestLoadRejectsInvertedQuestionBounds(t *testing.T) {
	t.Setenv("INTERVIEW_MIN_QUESTIONS", "9")
	t.Setenv("INTERVIEW_IDEAL_QUESTIONS", "9")
	t.Setenv("INTERVIEW_MAX_QUESTIONS", "5")

	if _, err := Load(); err == nil {
		t.Fatalf("expected inverted bounds error")
	}
}

func TestLoadAppliesPolicyFile(t *testing.T) {
	policy := filepath.Join(t.TempDir(), "policy.yaml")
	body := `
interview:
  min_questions: 3
  ideal_questions: 5
  max_questions: 6
  stop_phrases: ["wrap it up"]
stt:
  silence_threshold_ms: 2000
  hint_phrases: ["Terraform"]
corrections:
  - pattern: '\bkafka\b'
    replacement: Kafka
`
	if err := os.WriteFile(policy, []byte(body), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	t.Setenv("INTERVIEW_POLICY_FILE", policy)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Interview.MinQuestions != 3 || cfg.Interview.MaxQuestions != 6 {
		t.Fatalf("policy thresholds not applied: %+v", cfg.Interview)
	}
	if len(cfg.Interview.StopPhrases) != 1 || cfg.Interview.StopPhrases[0] != "wrap it up" {
		t.Fatalf("policy stop phrases not applied: %v", cfg.Interview.StopPhrases)
	}
	if cfg.STT.SilenceThreshold != 2*time.Second {
		t.Fatalf("policy silence threshold not applied: %v", cfg.STT.SilenceThreshold)
	}
	if len(cfg.STT.HintPhrases) != 1 || cfg.STT.HintPhrases[0] != "Terraform" {
		t.Fatalf("policy hint phrases not applied: %v", cfg.STT.HintPhrases)
	}
	if len(cfg.Rules) != 1 || cfg.Rules[0].Replacement != "Kafka" {
		t.Fatalf("policy corrections not applied: %v", cfg.Rules)
	}
}

func TestLoadRejectsMalformedPolicyFile(t *testing.T) {
	policy := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(policy, []byte("interview: ["), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	t.Setenv("INTERVIEW_POLICY_FILE", policy)

	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}
