package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pathprep/pathprep-backend/internal/logger"
	"github.com/pathprep/pathprep-backend/internal/utils"
)

type Config struct {
	Port            string
	AllowOrigins    []string
	StalenessWindow time.Duration
}

// configOverlay is the optional YAML tuning file pointed at by CONFIG_FILE.
// Fields left empty keep their env-derived values.
type configOverlay struct {
	Port            string   `yaml:"port"`
	AllowOrigins    []string `yaml:"allowOrigins"`
	StalenessDays   int      `yaml:"stalenessDays"`
	GroqModel       string   `yaml:"groqModel"`
	GroqTimeoutSecs int      `yaml:"groqTimeoutSeconds"`
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:            utils.GetEnv("PORT", "8080", log),
		StalenessWindow: utils.GetEnvAsDuration("STALENESS_WINDOW", 30*24*time.Hour, log),
	}
	if origins := strings.TrimSpace(os.Getenv("CORS_ALLOW_ORIGINS")); origins != "" {
		cfg.AllowOrigins = strings.Split(origins, ",")
	}

	path := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	}
	var overlay configOverlay
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	applyOverlay(&cfg, overlay, log)
	return cfg, nil
}

// applyOverlay merges the YAML file over the env-derived config. Model tuning
// values flow through the env so the groq client picks them up unchanged.
func applyOverlay(cfg *Config, overlay configOverlay, log *logger.Logger) {
	if overlay.Port != "" {
		cfg.Port = overlay.Port
	}
	if len(overlay.AllowOrigins) > 0 {
		cfg.AllowOrigins = overlay.AllowOrigins
	}
	if overlay.StalenessDays > 0 {
		cfg.StalenessWindow = time.Duration(overlay.StalenessDays) * 24 * time.Hour
	}
	if overlay.GroqModel != "" {
		if err := os.Setenv("GROQ_MODEL", overlay.GroqModel); err != nil {
			log.Warn("Failed to apply groqModel overlay", "error", err.Error())
		}
	}
	if overlay.GroqTimeoutSecs > 0 {
		if err := os.Setenv("GROQ_TIMEOUT_SECONDS", fmt.Sprintf("%d", overlay.GroqTimeoutSecs)); err != nil {
			log.Warn("Failed to apply groqTimeoutSeconds overlay", "error", err.Error())
		}
	}
}
