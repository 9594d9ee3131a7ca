package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Log       LogConfig       `koanf:"log"`
	LLM       LLMConfig       `koanf:"llm"`
	Corpus    CorpusConfig    `koanf:"corpus"`
	Session   SessionConfig   `koanf:"session"`
	Timeouts  TimeoutConfig   `koanf:"timeouts"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type LLMConfig struct {
	Provider        string  `koanf:"provider"` // ollama, mock
	Model           string  `koanf:"model"`
	BaseURL         string  `koanf:"base_url"`
	Temperature     float64 `koanf:"temperature"`
	MaxOutputTokens int     `koanf:"max_output_tokens"`
}

type CorpusConfig struct {
	Name string `koanf:"name"`
	Path string `koanf:"path"`
}

type SessionConfig struct {
	Backend    string `koanf:"backend"` // memory, sqlite
	SQLitePath string `koanf:"sqlite_path"`
}

type TimeoutConfig struct {
	ModelCall     time.Duration `koanf:"model_call"`
	ContextLookup time.Duration `koanf:"context_lookup"`
}

type TelemetryConfig struct {
	Exporter     string `koanf:"exporter"` // stdout, otlp
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	OTLPInsecure bool   `koanf:"otlp_insecure"`
}

// Global k instance
var k = koanf.New(".")

func Load(path string) (*Config, error) {
	// Defaults
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("llm.provider", "ollama")
	k.Set("llm.model", "qwen2.5-coder:7b-instruct-q5_K_M")
	k.Set("llm.base_url", "http://localhost:11434")
	k.Set("llm.temperature", 0.2)
	k.Set("llm.max_output_tokens", 512)

	k.Set("corpus.name", "company-database")
	k.Set("corpus.path", "data/company_data.json")

	k.Set("session.backend", "memory")
	k.Set("session.sqlite_path", "agentlink.db")

	k.Set("timeouts.model_call", "5s")
	k.Set("timeouts.context_lookup", "3s")

	k.Set("telemetry.exporter", "stdout")

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 2. Load from ENV (AGENTLINK_LLM_PROVIDER -> llm.provider)
	if err := k.Load(env.Provider("AGENTLINK_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "AGENTLINK_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
