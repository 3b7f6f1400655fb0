// Package config loads environment configuration for the roomwire
// client.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath = "./data/roomwire.yaml"
	defaultEnvPath    = "./data/.env"
	defaultTrackName  = "video"
	defaultRTPPort    = 5004
)

// Config holds runtime configuration values. File values are applied
// first, environment variables override them.
type Config struct {
	// ServerURL is the base address of the session server, e.g.
	// wss://media.example.com.
	ServerURL string `yaml:"server_url"`
	// Token is the opaque access credential presented on join.
	Token string `yaml:"token"`
	// AutoSubscribe, when set in the file or env, is passed through on
	// join; unset leaves the server default.
	AutoSubscribe *bool `yaml:"auto_subscribe"`
	// TrackName names the published local track.
	TrackName string `yaml:"track_name"`
	// RTPPort is the local UDP port the engine ingests RTP from.
	RTPPort int `yaml:"rtp_port"`
}

// Load reads configuration from the YAML config file, ./data/.env, and
// environment variables, in increasing precedence.
func Load() (Config, error) {
	cfg := Config{
		TrackName: defaultTrackName,
		RTPPort:   defaultRTPPort,
	}

	path := envString("ROOMWIRE_CONFIG", defaultConfigPath)
	if err := loadFile(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := loadEnvFile(defaultEnvPath); err != nil {
		return Config{}, err
	}

	cfg.ServerURL = envString("ROOMWIRE_URL", cfg.ServerURL)
	cfg.Token = envString("ROOMWIRE_TOKEN", cfg.Token)
	cfg.TrackName = envString("ROOMWIRE_TRACK_NAME", cfg.TrackName)

	port, err := envInt("ROOMWIRE_RTP_PORT", cfg.RTPPort)
	if err != nil {
		return Config{}, err
	}
	if port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("ROOMWIRE_RTP_PORT must be 1-65535")
	}
	cfg.RTPPort = port

	if raw := strings.TrimSpace(os.Getenv("ROOMWIRE_AUTO_SUBSCRIBE")); raw != "" {
		v, err := parseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("ROOMWIRE_AUTO_SUBSCRIBE: %w", err)
		}
		cfg.AutoSubscribe = &v
	}

	if cfg.ServerURL == "" {
		return Config{}, errors.New("ROOMWIRE_URL is required")
	}
	if cfg.Token == "" {
		return Config{}, errors.New("ROOMWIRE_TOKEN is required")
	}

	return cfg, nil
}

// loadFile merges a YAML config file into cfg. A missing file is fine.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns an int env override when present, otherwise a default.
func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

// parseBool accepts the usual truthy/falsy spellings.
func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q", raw)
	}
}

// loadEnvFile loads KEY=VALUE pairs from a .env file without
// overriding variables already set in the environment.
func loadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			if err := os.Setenv(key, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseEnvLine parses a single .env line into key/value.
func parseEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	if strings.HasPrefix(line, "export ") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	}
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	value = strings.Trim(strings.TrimSpace(value), `"'`)
	return key, value, true
}
