package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "LAW_EXPORTER_CONFIG"
	logLevelEnv     = "LOG_LEVEL"
	databaseDSNEnv  = "DATABASE_DSN"
	ollamaURLEnv    = "OLLAMA_API_URL"
	ollamaModelEnv  = "OLLAMA_MODEL"
	openAIKeyEnv    = "OPENAI_API_KEY"
	openAIModelEnv  = "OPENAI_MODEL"
	openAIURLEnv    = "OPENAI_API_URL"
	defaultTimeout  = 2 * time.Minute
	defaultIndexTbl = "exported_articles"
)

// Provider kinds understood by the translation registry.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config holds every setting of an export run.
type Config struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Input       InputConfig       `yaml:"input"`
	Output      OutputConfig      `yaml:"output"`
	Export      ExportConfig      `yaml:"export"`
	Translation TranslationConfig `yaml:"translation"`
	Database    DatabaseConfig    `yaml:"database"`
}

// LoggingConfig selects verbosity and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// InputConfig locates the source documents.
type InputConfig struct {
	Dir      string   `yaml:"dir"`
	Patterns []string `yaml:"patterns"`
}

// OutputConfig locates the artifact tree.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// ExportConfig tunes identity resolution and rendering.
type ExportConfig struct {
	IDAttribute    string `yaml:"idAttribute"`
	IncludeContext bool   `yaml:"includeContext"`
	SourceLanguage string `yaml:"sourceLanguage"`
	TargetLanguage string `yaml:"targetLanguage"`
}

// TranslationConfig enables the translation layer and lists providers by priority.
type TranslationConfig struct {
	Enabled   bool             `yaml:"enabled"`
	CacheDir  string           `yaml:"cacheDir"`
	Prompt    string           `yaml:"prompt"`
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig describes one translation backend.
type ProviderConfig struct {
	Name     string        `yaml:"name"`
	Kind     string        `yaml:"kind"`
	Endpoint string        `yaml:"endpoint"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"apiKey"`
	Timeout  time.Duration `yaml:"timeout"`
}

// DisplayName falls back to the kind when no name is configured.
func (p ProviderConfig) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Kind
}

// Ready reports whether the provider has what it needs to be called.
func (p ProviderConfig) Ready() bool {
	if strings.TrimSpace(p.Endpoint) == "" || strings.TrimSpace(p.Model) == "" {
		return false
	}
	if p.Kind == ProviderOpenAI && strings.TrimSpace(p.APIKey) == "" {
		return false
	}
	return true
}

// DatabaseConfig enables the optional Postgres artifact index.
type DatabaseConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
// An empty path falls back to LAW_EXPORTER_CONFIG.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Validate reports misconfiguration that must stop the run before any document is read.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Input.Dir) == "" {
		errs = append(errs, errors.New("input directory is required"))
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Translation.Enabled {
		if strings.TrimSpace(c.Translation.CacheDir) == "" {
			errs = append(errs, errors.New("translation cache directory is required"))
		}
		if len(c.ReadyProviders()) == 0 {
			errs = append(errs, fmt.Errorf("translation enabled but no provider is configured (set %s or %s)", ollamaURLEnv, openAIKeyEnv))
		}
	}
	return errors.Join(errs...)
}

// ReadyProviders returns the providers that have an endpoint, model and credential.
func (c Config) ReadyProviders() []ProviderConfig {
	var ready []ProviderConfig
	for _, p := range c.Translation.Providers {
		if p.Ready() {
			ready = append(ready, p)
		}
	}
	return ready
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	for i := range c.Translation.Providers {
		p := &c.Translation.Providers[i]
		switch p.Kind {
		case ProviderOllama:
			if v := os.Getenv(ollamaURLEnv); v != "" {
				p.Endpoint = v
			}
			if v := os.Getenv(ollamaModelEnv); v != "" {
				p.Model = v
			}
		case ProviderOpenAI:
			if v := os.Getenv(openAIKeyEnv); v != "" {
				p.APIKey = v
			}
			if v := os.Getenv(openAIModelEnv); v != "" {
				p.Model = v
			}
			if v := os.Getenv(openAIURLEnv); v != "" {
				p.Endpoint = v
			}
		}
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Input.Dir != "" {
		base.Input.Dir = override.Input.Dir
	}
	if len(override.Input.Patterns) > 0 {
		base.Input.Patterns = override.Input.Patterns
	}

	if override.Output.Dir != "" {
		base.Output.Dir = override.Output.Dir
	}

	if override.Export.IDAttribute != "" {
		base.Export.IDAttribute = override.Export.IDAttribute
	}
	if override.Export.IncludeContext {
		base.Export.IncludeContext = true
	}
	if override.Export.SourceLanguage != "" {
		base.Export.SourceLanguage = override.Export.SourceLanguage
	}
	if override.Export.TargetLanguage != "" {
		base.Export.TargetLanguage = override.Export.TargetLanguage
	}

	if override.Translation.Enabled {
		base.Translation.Enabled = true
	}
	if override.Translation.CacheDir != "" {
		base.Translation.CacheDir = override.Translation.CacheDir
	}
	if override.Translation.Prompt != "" {
		base.Translation.Prompt = override.Translation.Prompt
	}
	if len(override.Translation.Providers) > 0 {
		base.Translation.Providers = override.Translation.Providers
		for i := range base.Translation.Providers {
			if base.Translation.Providers[i].Timeout == 0 {
				base.Translation.Providers[i].Timeout = defaultTimeout
			}
		}
	}

	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}
	if override.Database.Table != "" {
		base.Database.Table = override.Database.Table
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Input:   InputConfig{Dir: "xml", Patterns: []string{"*.xml", "*.xml.gz"}},
		Output:  OutputConfig{Dir: "txt"},
		Export: ExportConfig{
			IDAttribute:    "cid",
			SourceLanguage: "French",
			TargetLanguage: "English",
		},
		Translation: TranslationConfig{
			CacheDir: "translations",
			Providers: []ProviderConfig{
				{Name: "ollama", Kind: ProviderOllama, Model: "mistral", Timeout: defaultTimeout},
				{
					Name:     "openai",
					Kind:     ProviderOpenAI,
					Endpoint: "https://api.openai.com/v1/chat/completions",
					Model:    "gpt-4o-mini",
					Timeout:  defaultTimeout,
				},
			},
		},
		Database: DatabaseConfig{Table: defaultIndexTbl},
	}
}
