/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config loads the user configuration of screenpress.
//
// The file is YAML at ConfigPath. Environment variables override file values at runtime.
// The stats database DSN may carry credentials and can live in the OS keychain instead of the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"screenpress/internal/export"
	applog "screenpress/internal/log"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

// LoggingConfig mirrors the logger options.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// StatsConfig locates the line-map store.
type StatsConfig struct {
	// DSN is a SQLite file path or a postgres:// URL. Leave it empty to use the keychain entry.
	DSN string `yaml:"dsn"`
}

// AppConfig is the user-editable configuration.
type AppConfig struct {
	ConfigVersion int                 `yaml:"config_version"`
	Profile       string              `yaml:"profile"` // print profile preset
	ProfileFile   string              `yaml:"profile_file"`
	FontDirs      []string            `yaml:"font_dirs"`
	Render        export.RenderConfig `yaml:"render"`
	Logging       LoggingConfig       `yaml:"logging"`
	Stats         StatsConfig         `yaml:"stats"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Profile:       "usletter",
		Render:        export.DefaultRenderConfig(),
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfig       = "SCREENPRESS_CONFIG"
	EnvProfile      = "SCREENPRESS_PROFILE"
	EnvFont         = "SCREENPRESS_FONT"
	EnvFontDirs     = "SCREENPRESS_FONT_DIRS"
	EnvSceneNumbers = "SCREENPRESS_SCENE_NUMBERS"
	EnvStatsDSN     = "SCREENPRESS_STATS_DSN"
)

// Service/keys for OS keyring.
const (
	keyringService = "screenpress"
	keyringDSN     = "stats_dsn"
)

// tokenStore abstracts the keyring so tests can stub it.
var tokenStore TokenStore = osKeyring{}

// TokenStore keeps secrets outside the config file.
type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// osKeyring implements TokenStore using the OS keyring.
type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) { return keyring.Get(service, key) }
func (osKeyring) Set(service, key, value string) error    { return keyring.Set(service, key, value) }
func (osKeyring) Delete(service, key string) error        { return keyring.Delete(service, key) }

// Dir returns the per-user configuration directory.
func Dir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "screenpress")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "screenpress")
	default:
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "screenpress")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "screenpress")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the config file path. SCREENPRESS_CONFIG wins over the per-user location.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file at path (ConfigPath when empty), layers it over the defaults
// and applies environment overrides. A missing file is not an error.
func Load(path string) (AppConfig, error) {
	cfg := Defaults()
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Defaults(), fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}
	applyEnvOverrides(&cfg)
	if err := normalize(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg as YAML to path (ConfigPath when empty).
func Save(cfg AppConfig, path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// StoreStatsDSN keeps dsn in the OS keychain. An empty dsn removes the entry.
func StoreStatsDSN(dsn string) error {
	if strings.TrimSpace(dsn) == "" {
		if err := tokenStore.Delete(keyringService, keyringDSN); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("delete keychain entry: %w", err)
		}
		return nil
	}
	if err := tokenStore.Set(keyringService, keyringDSN, dsn); err != nil {
		return fmt.Errorf("store keychain entry: %w", err)
	}
	return nil
}

// StatsDSN resolves the line-map store location: environment, then file, then keychain.
// It returns "" when none is set.
func (c AppConfig) StatsDSN() string {
	if v := strings.TrimSpace(os.Getenv(EnvStatsDSN)); v != "" {
		return v
	}
	if v := strings.TrimSpace(c.Stats.DSN); v != "" {
		return v
	}
	v, err := tokenStore.Get(keyringService, keyringDSN)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			applog.WithOperation(applog.WithComponent("config"), "stats_dsn").Debug("keychain lookup failed", "err", err)
		}
		return ""
	}
	return strings.TrimSpace(v)
}

func normalize(cfg *AppConfig) error {
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	cfg.Logging.File = strings.TrimSpace(cfg.Logging.File)
	sn, err := export.ParseSceneNumbers(string(cfg.Render.SceneNumbers))
	if err != nil {
		return err
	}
	cfg.Render.SceneNumbers = sn
	return nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvProfile)); v != "" {
		cfg.Profile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFont)); v != "" {
		cfg.Render.Font = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFontDirs)); v != "" {
		cfg.FontDirs = filepath.SplitList(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvSceneNumbers)); v != "" {
		cfg.Render.SceneNumbers = export.SceneNumbers(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvStatsDSN)); v != "" {
		cfg.Stats.DSN = v
	}
	// logging overrides share the logger's variable names
	if v := strings.TrimSpace(os.Getenv(applog.EnvLevel)); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(applog.EnvFormat)); v != "" {
		cfg.Logging.Format = v
	}
	if v := strings.TrimSpace(os.Getenv(applog.EnvSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(applog.EnvFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	names := map[string]string{
		"profile":               EnvProfile,
		"font_dirs":             EnvFontDirs,
		"render.font":           EnvFont,
		"render.scenes_numbers": EnvSceneNumbers,
		"stats.dsn":             EnvStatsDSN,
		"logging.level":         applog.EnvLevel,
		"logging.format":        applog.EnvFormat,
		"logging.source":        applog.EnvSource,
		"logging.file":          applog.EnvFile,
	}
	if env, ok := names[key]; ok && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}

// LogOptions converts the logging section for applog.Init.
func (c AppConfig) LogOptions() applog.Options {
	return applog.Options{Level: c.Logging.Level, Format: c.Logging.Format, AddSource: c.Logging.Source, File: c.Logging.File}
}
