// Package config holds runtime settings for the vaultctl CLI.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime settings.
//
// Fields:
//   - ServerEndpoint: base URL of the backend REST API.
//   - TokenFile: path where the session token is persisted between runs.
//   - RequestTimeout: per-request HTTP timeout.
//   - CaptchaToken: pre-issued captcha token forwarded on auth requests.
//   - LogLevel: slog level name (debug, info, warn, error).
type Config struct {
	ServerEndpoint string
	TokenFile      string
	RequestTimeout time.Duration
	CaptchaToken   string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpoint = "http://127.0.0.1:8000"
	c.TokenFile = defaultTokenFile()
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vaultctl-token"
	}
	return filepath.Join(home, ".vaultctl", "token")
}

// Load constructs a Config: defaults first, then an optional config file,
// then environment variables. Later sources take precedence.
//
// The config file is .vaultctl.yaml in the current directory or the home
// directory; environment variables use the VAULTCTL_ prefix
// (VAULTCTL_SERVER_ENDPOINT and so on).
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	v := viper.New()
	v.SetConfigName(".vaultctl")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.SetEnvPrefix("VAULTCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	overlay(cfg, v)
	return cfg, nil
}

func overlay(cfg *Config, v *viper.Viper) {
	if s := v.GetString("server_endpoint"); s != "" {
		cfg.ServerEndpoint = s
	}
	if s := v.GetString("token_file"); s != "" {
		cfg.TokenFile = s
	}
	if d := v.GetDuration("request_timeout"); d > 0 {
		cfg.RequestTimeout = d
	}
	if s := v.GetString("captcha_token"); s != "" {
		cfg.CaptchaToken = s
	}
	if s := v.GetString("log_level"); s != "" {
		cfg.LogLevel = s
	}
}
