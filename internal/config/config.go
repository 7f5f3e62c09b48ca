// Package config loads process configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the inkstory binaries need at startup. Empty
// AWS resource names disable the corresponding integration: no table
// means in-memory story state, no bucket means no image cache, no bus
// means no story-started events.
type Config struct {
	Port       int    `env:"INKSTORY_PORT" envDefault:"8080"`
	TableName  string `env:"INKSTORY_TABLE_NAME"`
	Bucket     string `env:"INKSTORY_IMAGE_BUCKET"`
	EventBus   string `env:"INKSTORY_EVENT_BUS"`
	SceneCount int    `env:"INKSTORY_SCENE_COUNT" envDefault:"6"`

	// GeminiAPIKey takes precedence over GeminiKeyParam when both are set.
	GeminiAPIKey   string `env:"GEMINI_API_KEY"`
	GeminiKeyParam string `env:"INKSTORY_GEMINI_KEY_PARAM" envDefault:"/inkstory/gemini-api-key"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
