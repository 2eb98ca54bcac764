/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"versecast/internal/domain"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type DisplayConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Background is an optional image file drawn behind the text.
	Background string `yaml:"background"`
}

type FontsConfig struct {
	// Dirs are searched for .ttf/.otf files in addition to the built-in Go fonts.
	Dirs []string `yaml:"dirs"`
	// CacheTTLSeconds bounds how long the system font index is reused.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

type ScriptureConfig struct {
	// DSN is a SQLite file path or a postgres:// URL.
	DSN string `yaml:"dsn"`
}

type RenderConfig struct {
	PrefetchAhead int `yaml:"prefetch_ahead"`
	Workers       int `yaml:"workers"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int              `yaml:"config_version"`
	Display       DisplayConfig    `yaml:"display"`
	Theme         domain.ThemeSpec `yaml:"theme"`
	Fonts         FontsConfig      `yaml:"fonts"`
	Scripture     ScriptureConfig  `yaml:"scripture"`
	Render        RenderConfig     `yaml:"render"`
	Logging       LoggingConfig    `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Display:       DisplayConfig{Width: 1920, Height: 1080},
		Theme:         domain.DefaultTheme(),
		Fonts:         FontsConfig{CacheTTLSeconds: 600},
		Scripture:     ScriptureConfig{DSN: defaultDSN()},
		Render:        RenderConfig{PrefetchAhead: 2, Workers: 2},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvDisplayWidth  = "VC_DISPLAY_WIDTH"
	EnvDisplayHeight = "VC_DISPLAY_HEIGHT"
	EnvBackground    = "VC_BACKGROUND"
	EnvFontDirs      = "VC_FONT_DIRS"
	EnvScriptureDSN  = "VC_SCRIPTURE_DSN"
	EnvPrefetchAhead = "VC_PREFETCH_AHEAD"
	EnvRenderWorkers = "VC_RENDER_WORKERS"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "VC_LOG_LEVEL"
	EnvLogFormat = "VC_LOG_FORMAT"
	EnvLogSource = "VC_LOG_SOURCE"
	EnvLogFile   = "VC_LOG_FILE"
)

// configDir returns the per-user directory holding config and data files.
func configDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Versecast")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Versecast")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "versecast")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func defaultDSN() string {
	dir, err := configDir()
	if err != nil {
		return "verses.sqlite"
	}
	return filepath.Join(dir, "verses.sqlite")
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path. A missing file yields the defaults.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// decoding over the defaults keeps every key the file leaves out
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Defaults(), fmt.Errorf("parse %s: %w", path, err)
		}
		normalize(&cfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	return cfg, cfg.Validate()
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

func SaveFile(path string, cfg AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks the parts the renderer depends on.
func (c AppConfig) Validate() error {
	if err := c.Canvas().Validate(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	if err := c.Theme.Validate(); err != nil {
		return fmt.Errorf("theme: %w", err)
	}
	if c.Render.PrefetchAhead < 0 || c.Render.Workers < 0 {
		return fmt.Errorf("render: prefetch_ahead and workers must not be negative")
	}
	return nil
}

// Canvas is the configured display size.
func (c AppConfig) Canvas() domain.CanvasSize {
	return domain.CanvasSize{Width: c.Display.Width, Height: c.Display.Height}
}

// Request builds the generation request for ref with the configured theme and canvas.
func (c AppConfig) Request(ref domain.ScriptureReference) domain.GenerationRequest {
	return domain.GenerationRequest{Reference: ref, Theme: c.Theme, Canvas: c.Canvas()}
}

// FontCacheTTL returns the font index lifetime, falling back to the default.
func (f FontsConfig) FontCacheTTL() time.Duration {
	if f.CacheTTLSeconds <= 0 {
		return time.Duration(Defaults().Fonts.CacheTTLSeconds) * time.Second
	}
	return time.Duration(f.CacheTTLSeconds) * time.Second
}

func normalize(cfg *AppConfig) {
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	cfg.Logging.File = strings.TrimSpace(cfg.Logging.File)
	cfg.Display.Background = strings.TrimSpace(cfg.Display.Background)
	cfg.Scripture.DSN = strings.TrimSpace(cfg.Scripture.DSN)
	if cfg.Scripture.DSN == "" {
		cfg.Scripture.DSN = defaultDSN()
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvDisplayWidth)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Display.Width = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvDisplayHeight)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Display.Height = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackground)); v != "" {
		cfg.Display.Background = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFontDirs)); v != "" {
		cfg.Fonts.Dirs = filepath.SplitList(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvScriptureDSN)); v != "" {
		cfg.Scripture.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPrefetchAhead)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Render.PrefetchAhead = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvRenderWorkers)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Render.Workers = n
		}
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var envKeys = map[string]string{
	"display.width":         EnvDisplayWidth,
	"display.height":        EnvDisplayHeight,
	"display.background":    EnvBackground,
	"fonts.dirs":            EnvFontDirs,
	"scripture.dsn":         EnvScriptureDSN,
	"render.prefetch_ahead": EnvPrefetchAhead,
	"render.workers":        EnvRenderWorkers,
	"logging.level":         EnvLogLevel,
	"logging.format":        EnvLogFormat,
	"logging.source":        EnvLogSource,
	"logging.file":          EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := envKeys[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}
