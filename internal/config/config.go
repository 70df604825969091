package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Gemini   GeminiConfig
	Upload   UploadConfig
	Session  SessionConfig
	Pipeline PipelineConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type LogConfig struct {
	Level  string
	Format string
}

type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

type UploadConfig struct {
	MaxFileSize int64
}

type SessionConfig struct {
	TTL time.Duration
}

// PipelineConfig drives the cosmetic progress display only.
type PipelineConfig struct {
	Enabled      bool
	StepInterval time.Duration
}

var defaults = map[string]any{
	"PORT":                   "3000",
	"ENV":                    "development",
	"LOG_LEVEL":              "info",
	"LOG_FORMAT":             "console",
	"GEMINI_API_KEY":         "",
	"GEMINI_MODEL":           "gemini-2.5-flash",
	"GEMINI_TEMPERATURE":     0.4,
	"GEMINI_TIMEOUT":         "90s",
	"MAX_FILE_SIZE":          10485760,
	"SESSION_TTL":            "1h",
	"PIPELINE_ENABLED":       true,
	"PIPELINE_STEP_INTERVAL": "1800ms",
}

// Load reads .env (if present) and the process environment on top of defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found. Using environment and default values.")
	}

	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		Gemini: GeminiConfig{
			APIKey:      v.GetString("GEMINI_API_KEY"),
			Model:       v.GetString("GEMINI_MODEL"),
			Temperature: float32(v.GetFloat64("GEMINI_TEMPERATURE")),
			Timeout:     v.GetDuration("GEMINI_TIMEOUT"),
		},
		Upload: UploadConfig{
			MaxFileSize: v.GetInt64("MAX_FILE_SIZE"),
		},
		Session: SessionConfig{
			TTL: v.GetDuration("SESSION_TTL"),
		},
		Pipeline: PipelineConfig{
			Enabled:      v.GetBool("PIPELINE_ENABLED"),
			StepInterval: v.GetDuration("PIPELINE_STEP_INTERVAL"),
		},
	}

	applyDefaults(cfg)
	return cfg
}

// applyDefaults repairs values that parsed to zero from malformed env input.
func applyDefaults(cfg *Config) {
	if cfg.Gemini.Timeout <= 0 {
		cfg.Gemini.Timeout = 90 * time.Second
	}
	if cfg.Upload.MaxFileSize <= 0 {
		cfg.Upload.MaxFileSize = 10485760
	}
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = time.Hour
	}
	if cfg.Pipeline.StepInterval <= 0 {
		cfg.Pipeline.StepInterval = 1800 * time.Millisecond
	}
}

// Validate checks the settings needed to call the analysis service.
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.Gemini.Model == "" {
		return fmt.Errorf("GEMINI_MODEL is required")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}
