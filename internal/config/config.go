package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Configuration is the process configuration, read from the environment.
type Configuration struct {
	Service       ServiceConfig
	Generator     GeneratorConfig
	Classifier    ClassifierConfig
	Spelling      SpellingConfig
	STT           STTConfig
	Kafka         KafkaConfig
	Store         StoreConfig
	Observability ObservabilityConfig
	Dialogue      DialogueConfig
}

type ServiceConfig struct {
	Principal string
	GRPCPort  string
	HTTPPort  string
}

// GeneratorConfig selects and tunes the text generation backend.
type GeneratorConfig struct {
	Provider      string // ollama, openai, gemini, mock
	BaseURL       string
	Model         string
	APIKey        string
	Timeout       time.Duration
	MaxLength     int
	ContextTokens int // 0 disables the token budget
	Temperature   float64
	TopP          float64
	TopK          int
	RepeatPenalty float64
}

type ClassifierConfig struct {
	Provider string // http, mock
	BaseURL  string
	Timeout  time.Duration
}

type SpellingConfig struct {
	Depth       int
	LexiconPath string
}

type STTConfig struct {
	Provider      string // google, mock
	LanguageCode  string
	SampleRateHz  int
	AudioEncoding string
}

type KafkaConfig struct {
	Enabled    bool
	Brokers    []string
	TopicRaw   string
	TopicFinal string
	Principal  string
}

type StoreConfig struct {
	Path string // empty disables persistence
}

type ObservabilityConfig struct {
	LogLevel    string
	LogFormat   string
	MetricsPort string
}

// DialogueConfig drives prompt construction and interactive sessions.
type DialogueConfig struct {
	Turns       int
	Emotion     string
	CatalogPath string
	Seed        uint64

	// SessionIdleTTL evicts server-side session counters after inactivity.
	SessionIdleTTL time.Duration
}

// Load reads the configuration. Invalid values fall back to defaults.
func Load() *Configuration {
	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-medi-response")

	return &Configuration{
		Service: ServiceConfig{
			Principal: principal,
			GRPCPort:  envOrDefault("GRPC_PORT", "50051"),
			HTTPPort:  envOrDefault("HTTP_PORT", "8080"),
		},
		Generator: GeneratorConfig{
			Provider:      envOrDefault("GENERATOR_PROVIDER", "ollama"),
			BaseURL:       envOrDefault("GENERATOR_BASE_URL", "http://localhost:11434"),
			Model:         envOrDefault("GENERATOR_MODEL", "medi-relative"),
			APIKey:        os.Getenv("GENERATOR_API_KEY"),
			Timeout:       envOrDefaultDuration("GENERATOR_TIMEOUT", 60*time.Second),
			MaxLength:     envOrDefaultInt("GENERATOR_MAX_LENGTH", 60),
			ContextTokens: envOrDefaultInt("GENERATOR_CONTEXT_TOKENS", 1024),
			Temperature:   envOrDefaultFloat("GENERATOR_TEMPERATURE", 0.2),
			TopP:          envOrDefaultFloat("GENERATOR_TOP_P", 0.88),
			TopK:          envOrDefaultInt("GENERATOR_TOP_K", 56),
			RepeatPenalty: envOrDefaultFloat("GENERATOR_REPEAT_PENALTY", 1.005),
		},
		Classifier: ClassifierConfig{
			Provider: envOrDefault("CLASSIFIER_PROVIDER", "http"),
			BaseURL:  envOrDefault("CLASSIFIER_BASE_URL", "http://localhost:8000"),
			Timeout:  envOrDefaultDuration("CLASSIFIER_TIMEOUT", 10*time.Second),
		},
		Spelling: SpellingConfig{
			Depth:       envOrDefaultInt("SPELLING_DEPTH", 2),
			LexiconPath: os.Getenv("LEXICON_PATH"),
		},
		STT: STTConfig{
			Provider:      envOrDefault("STT_PROVIDER", "mock"),
			LanguageCode:  envOrDefault("STT_LANGUAGE_CODE", "en-US"),
			SampleRateHz:  envOrDefaultInt("STT_SAMPLE_RATE_HZ", 16000),
			AudioEncoding: envOrDefault("STT_AUDIO_ENCODING", "LINEAR16"),
		},
		Kafka: KafkaConfig{
			Enabled:    envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:    envOrDefaultList("KAFKA_BROKERS", []string{"localhost:9092"}),
			TopicRaw:   envOrDefault("KAFKA_TOPIC_RAW", "dialogue.generation.raw"),
			TopicFinal: envOrDefault("KAFKA_TOPIC_FINAL", "dialogue.response.final"),
			Principal:  envOrDefault("KAFKA_PRINCIPAL", principal),
		},
		Store: StoreConfig{
			Path: envOrDefault("STORE_PATH", "medi-response.db"),
		},
		Observability: ObservabilityConfig{
			LogLevel:    envOrDefault("LOG_LEVEL", "info"),
			LogFormat:   envOrDefault("LOG_FORMAT", "json"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
		Dialogue: DialogueConfig{
			Turns:          envOrDefaultInt("DIALOGUE_TURNS", 4),
			Emotion:        os.Getenv("DIALOGUE_EMOTION"),
			CatalogPath:    os.Getenv("DIALOGUE_CATALOG"),
			Seed:           uint64(envOrDefaultInt("DIALOGUE_SEED", 0)),
			SessionIdleTTL: envOrDefaultDuration("SESSION_IDLE_TTL", 30*time.Minute),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// envOrDefaultList splits a comma separated value, dropping blanks.
func envOrDefaultList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
