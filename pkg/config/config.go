package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

const (
	// DefaultAPIBase is the built-in voice synthesis endpoint.
	DefaultAPIBase = "https://kurausuai-voice.ngrok.app"

	// DefaultModel is the voice model used when neither the --model
	// flag nor VOICE_MODEL is set.
	DefaultModel = "zingai_1"

	dictFileName = "custom_words.csv"
)

// Config holds the runtime configuration. Resolution order is
// explicit flag > environment variable > built-in default; flags are
// applied by the command layer after Load.
type Config struct {
	Model    string `env:"VOICE_MODEL"`
	APIBase  string `env:"VOICE_API_BASE"`
	DictPath string `env:"VOICE_DICT_PATH"`
	LogFile  string `env:"KANAVOICE_LOG_FILE"`
	Verbose  bool   `env:"KANAVOICE_VERBOSE"`
}

// Load builds a Config from defaults overlaid with environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Model:    DefaultModel,
		APIBase:  DefaultAPIBase,
		DictPath: defaultDictPath(),
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// defaultDictPath places the shared dictionary under the user config
// directory so independently launched instances see the same file.
func defaultDictPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return dictFileName
	}
	return filepath.Join(base, "kanavoice", dictFileName)
}
