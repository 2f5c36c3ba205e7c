// Package config loads settings from the environment, optionally seeded
// by a .env file next to the executable.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPathVar points at an alternative config file when no .env sits next
// to the executable.
const EnvPathVar = "SCREEN_SNIP_ENV"

type Config struct {
	// CaptureHotkey triggers a new capture session (system-wide).
	CaptureHotkey string
	// SaveHotkey saves the committed selection (system-wide).
	SaveHotkey string
	// OutputDir is the root the W{w}H{h} directories are created under.
	OutputDir string
	// TargetFPS caps the overlay presentation rate.
	TargetFPS int
	// InstancePort is the loopback port claimed as a single-instance guard.
	InstancePort int
	// EnableFileLogging routes debug logs to a rotating file.
	EnableFileLogging bool
}

func Load() (*Config, error) {
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	cfg := &Config{
		CaptureHotkey:     getEnvWithDefault("HOTKEY_CAPTURE", "Ctrl+Alt+D"),
		SaveHotkey:        getEnvWithDefault("HOTKEY_SAVE", "Ctrl+S"),
		OutputDir:         getEnvWithDefault("OUTPUT_DIR", "."),
		TargetFPS:         getEnvInt("TARGET_FPS", 60, 1, 240),
		InstancePort:      getEnvInt("INSTANCE_PORT", 47603, 1024, 65535),
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
	}
	return cfg, nil
}

// resolveEnvPath prefers a .env in the executable's directory, then the
// path named by SCREEN_SNIP_ENV.
func resolveEnvPath() string {
	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}
	if alt := os.Getenv(EnvPathVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}
	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue, lo, hi int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lo || n > hi {
		return defaultValue
	}
	return n
}
