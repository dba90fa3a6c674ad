package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Pavantej-HH/AI-Interview/internal/interview"
	"github.com/Pavantej-HH/AI-Interview/internal/rules"
)

// STT provider selectors.
const (
	ProviderGoogle   = "google"
	ProviderDeepgram = "deepgram"
)

// Config stores the assembled runtime configuration.
type Config struct {
	Server    ServerConfig
	STT       STTConfig
	Google    GoogleConfig
	Deepgram  DeepgramConfig
	TTS       TTSConfig
	Gemini    GeminiConfig
	Interview InterviewConfig
	Rules     []rules.Rule
}

type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type STTConfig struct {
	Provider          string
	SampleRate        int
	Channels          int
	LanguageCode      string
	SilenceThreshold  time.Duration
	KeepAliveInterval time.Duration
	QueueCapacity     int
	MaxRestarts       int
	RestartCooldown   time.Duration
	HintPhrases       []string
}

type GoogleConfig struct {
	ProjectID   string
	SpeechModel string
}

type DeepgramConfig struct {
	APIKey     string
	APIBaseURL string
	Model      string
}

type TTSConfig struct {
	LanguageCode string
	VoiceName    string
	SpeakingRate float64
}

type GeminiConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

type InterviewConfig struct {
	MinQuestions   int
	IdealQuestions int
	MaxQuestions   int
	StopPhrases    []string
}

// policyFile is the optional yaml overlay for tunable interview behavior.
type policyFile struct {
	Interview struct {
		MinQuestions   int      `yaml:"min_questions"`
		IdealQuestions int      `yaml:"ideal_questions"`
		MaxQuestions   int      `yaml:"max_questions"`
		StopPhrases    []string `yaml:"stop_phrases"`
	} `yaml:"interview"`
	STT struct {
		SilenceThresholdMS int      `yaml:"silence_threshold_ms"`
		HintPhrases        []string `yaml:"hint_phrases"`
	} `yaml:"stt"`
	Corrections []rules.Rule `yaml:"corrections"`
}

// Load resolves configuration from .env, environment variables and the
// optional policy file named by INTERVIEW_POLICY_FILE.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Server: ServerConfig{
			Addr:            envOrDefault("SERVER_ADDR", ":5050"),
			ShutdownTimeout: envOrDefaultDuration("SERVER_SHUTDOWN_TIMEOUT_MS", 10*time.Second),
		},
		STT: STTConfig{
			Provider:          strings.ToLower(envOrDefault("STT_PROVIDER", ProviderGoogle)),
			SampleRate:        envOrDefaultInt("STT_SAMPLE_RATE", 16000),
			Channels:          envOrDefaultInt("STT_CHANNELS", 1),
			LanguageCode:      envOrDefault("STT_LANGUAGE", "en-US"),
			SilenceThreshold:  envOrDefaultDuration("STT_SILENCE_THRESHOLD_MS", 3*time.Second),
			KeepAliveInterval: envOrDefaultDuration("STT_KEEPALIVE_INTERVAL_MS", 8*time.Second),
			QueueCapacity:     envOrDefaultInt("STT_QUEUE_CAPACITY", 100),
			MaxRestarts:       envOrDefaultInt("STT_MAX_RESTARTS", 10),
			RestartCooldown:   envOrDefaultDuration("STT_RESTART_COOLDOWN_MS", 2*time.Second),
			HintPhrases:       defaultHintPhrases(),
		},
		Google: GoogleConfig{
			ProjectID:   strings.TrimSpace(os.Getenv("GOOGLE_CLOUD_PROJECT")),
			SpeechModel: envOrDefault("GOOGLE_SPEECH_MODEL", "latest_long"),
		},
		Deepgram: DeepgramConfig{
			APIKey:     strings.TrimSpace(os.Getenv("DEEPGRAM_API_KEY")),
			APIBaseURL: envOrDefault("DEEPGRAM_API_BASE", "https://api.deepgram.com/v1"),
			Model:      envOrDefault("DEEPGRAM_MODEL", "nova-2"),
		},
		TTS: TTSConfig{
			LanguageCode: envOrDefault("TTS_LANGUAGE", "en-IN"),
			VoiceName:    envOrDefault("TTS_VOICE", "en-IN-Chirp3-HD-Erinome"),
			SpeakingRate: envOrDefaultFloat("TTS_SPEAKING_RATE", 1.0),
		},
		Gemini: GeminiConfig{
			APIKey:   strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
			Endpoint: strings.TrimSpace(os.Getenv("GEMINI_API_URL")),
			Timeout:  envOrDefaultDuration("GEMINI_TIMEOUT_MS", 45*time.Second),
		},
		Interview: InterviewConfig{
			MinQuestions:   envOrDefaultInt("INTERVIEW_MIN_QUESTIONS", 4),
			IdealQuestions: envOrDefaultInt("INTERVIEW_IDEAL_QUESTIONS", 8),
			MaxQuestions:   envOrDefaultInt("INTERVIEW_MAX_QUESTIONS", 10),
			StopPhrases:    interview.DefaultStopPhrases(),
		},
		Rules: rules.DefaultRules(),
	}

	if path := strings.TrimSpace(os.Getenv("INTERVIEW_POLICY_FILE")); path != "" {
		if err := cfg.applyPolicyFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyPolicyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read policy file %s: %w", path, err)
	}
	var policy policyFile
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return fmt.Errorf("could not parse policy file %s: %w", path, err)
	}

	if policy.Interview.MinQuestions > 0 {
		c.Interview.MinQuestions = policy.Interview.MinQuestions
	}
	if policy.Interview.IdealQuestions > 0 {
		c.Interview.IdealQuestions = policy.Interview.IdealQuestions
	}
	if policy.Interview.MaxQuestions > 0 {
		c.Interview.MaxQuestions = policy.Interview.MaxQuestions
	}
	if len(policy.Interview.StopPhrases) > 0 {
		c.Interview.StopPhrases = policy.Interview.StopPhrases
	}
	if policy.STT.SilenceThresholdMS > 0 {
		c.STT.SilenceThreshold = time.Duration(policy.STT.SilenceThresholdMS) * time.Millisecond
	}
	if len(policy.STT.HintPhrases) > 0 {
		c.STT.HintPhrases = policy.STT.HintPhrases
	}
	if len(policy.Corrections) > 0 {
		c.Rules = policy.Corrections
	}
	return nil
}

func (c *Config) validate() error {
	switch c.STT.Provider {
	case ProviderGoogle, ProviderDeepgram:
	default:
		return fmt.Errorf("unknown STT_PROVIDER %q", c.STT.Provider)
	}
	if c.Interview.MinQuestions > c.Interview.MaxQuestions {
		return fmt.Errorf("INTERVIEW_MIN_QUESTIONS %d exceeds INTERVIEW_MAX_QUESTIONS %d",
			c.Interview.MinQuestions, c.Interview.MaxQuestions)
	}
	if c.Interview.IdealQuestions < c.Interview.MinQuestions || c.Interview.IdealQuestions > c.Interview.MaxQuestions {
		return fmt.Errorf("INTERVIEW_IDEAL_QUESTIONS %d is outside [%d, %d]",
			c.Interview.IdealQuestions, c.Interview.MinQuestions, c.Interview.MaxQuestions)
	}
	return nil
}

// defaultHintPhrases boosts recognition of terms candidates actually say,
// including the stop phrases so an early-termination request is heard.
func defaultHintPhrases() []string {
	phrases := []string{
		"React", "Node.js", "MongoDB", "PostgreSQL", "MySQL",
		"REST API", "GraphQL", "CI/CD", "Kubernetes", "Docker",
		"microservices", "self introduction",
	}
	return append(phrases, interview.DefaultStopPhrases()...)
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return time.Duration(parsed) * time.Millisecond
}
