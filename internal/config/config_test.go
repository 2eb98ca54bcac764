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
	"os"
	"path/filepath"
	"testing"

	"versecast/internal/domain"
)

func TestEnvOverridesDisplay(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AppData", t.TempDir())
	old := os.Getenv(EnvDisplayWidth)
	_ = os.Setenv(EnvDisplayWidth, "1280")
	t.Cleanup(func() { _ = os.Setenv(EnvDisplayWidth, old) })
	t.Setenv(EnvDisplayHeight, "720")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Canvas(), (domain.CanvasSize{Width: 1280, Height: 720}); got != want {
		t.Fatalf("Canvas() = %v, want %v", got, want)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	want := Defaults()
	if cfg.Theme != want.Theme || cfg.Display != want.Display || cfg.Render != want.Render {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
display:
  width: 1280
theme:
  font:
    size: 48
    color: "#ff0000"
  position: top
scripture:
  dsn: "postgres://vc@localhost/verses"
logging:
  level: " DEBUG "
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	def := Defaults()
	if cfg.Display.Width != 1280 || cfg.Display.Height != def.Display.Height {
		t.Fatalf("display not merged: %#v", cfg.Display)
	}
	if cfg.Theme.Font.Size != 48 || cfg.Theme.Font.Color != (domain.Color{R: 255, A: 255}) {
		t.Fatalf("theme font not merged: %#v", cfg.Theme.Font)
	}
	if cfg.Theme.Font.Family != def.Theme.Font.Family || cfg.Theme.HorizontalAlignment != domain.AlignRight {
		t.Fatalf("unset theme fields lost their defaults: %#v", cfg.Theme)
	}
	if cfg.Theme.Position != domain.PositionTop {
		t.Fatalf("position = %q", cfg.Theme.Position)
	}
	if cfg.Scripture.DSN != "postgres://vc@localhost/verses" {
		t.Fatalf("dsn = %q", cfg.Scripture.DSN)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("logging level not normalized: %q", cfg.Logging.Level)
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("display: [1, 2"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Fatalf("expected parse error")
	}
	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("theme:\n  position: sideways\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(invalid); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := Defaults()
	cfg.Theme.DropShadow.Enabled = true
	cfg.Theme.HorizontalAlignment = domain.AlignCenter
	cfg.Fonts.Dirs = []string{"/usr/share/fonts"}
	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("SaveFile() error: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if got.Theme != cfg.Theme {
		t.Fatalf("theme changed on round trip: %#v", got.Theme)
	}
	if len(got.Fonts.Dirs) != 1 || got.Fonts.Dirs[0] != "/usr/share/fonts" {
		t.Fatalf("font dirs = %v", got.Fonts.Dirs)
	}

	cfg.Display.Width = 0
	if err := SaveFile(path, cfg); err == nil {
		t.Fatalf("expected invalid config to be rejected")
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	oldLevel := os.Getenv(EnvLogLevel)
	oldFmt := os.Getenv(EnvLogFormat)
	oldSrc := os.Getenv(EnvLogSource)
	oldFile := os.Getenv(EnvLogFile)
	_ = os.Setenv(EnvLogLevel, "error")
	_ = os.Setenv(EnvLogFormat, "json")
	_ = os.Setenv(EnvLogSource, "1")
	_ = os.Setenv(EnvLogFile, "X:/vc.log")
	t.Cleanup(func() {
		_ = os.Setenv(EnvLogLevel, oldLevel)
		_ = os.Setenv(EnvLogFormat, oldFmt)
		_ = os.Setenv(EnvLogSource, oldSrc)
		_ = os.Setenv(EnvLogFile, oldFile)
	})
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/vc.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestEnvOverridesRenderAndFonts(t *testing.T) {
	t.Setenv(EnvPrefetchAhead, "5")
	t.Setenv(EnvRenderWorkers, "3")
	t.Setenv(EnvFontDirs, "/a"+string(os.PathListSeparator)+"/b")
	t.Setenv(EnvScriptureDSN, "/tmp/kjv.sqlite")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Render.PrefetchAhead != 5 || cfg.Render.Workers != 3 {
		t.Fatalf("render overrides not applied: %#v", cfg.Render)
	}
	if len(cfg.Fonts.Dirs) != 2 || cfg.Scripture.DSN != "/tmp/kjv.sqlite" {
		t.Fatalf("fonts/scripture overrides not applied: %#v %#v", cfg.Fonts, cfg.Scripture)
	}
}

func TestEnvOverrideFor(t *testing.T) {
	t.Setenv(EnvScriptureDSN, "x.sqlite")
	if env, ok := EnvOverrideFor("scripture.dsn"); !ok || env != EnvScriptureDSN {
		t.Fatalf("EnvOverrideFor(scripture.dsn) = %q, %v", env, ok)
	}
	t.Setenv(EnvLogFile, "")
	if _, ok := EnvOverrideFor("logging.file"); ok {
		t.Fatalf("empty env must not count as override")
	}
	if _, ok := EnvOverrideFor("no.such.key"); ok {
		t.Fatalf("unknown key reported as overridden")
	}
}

func TestRequestAndFontTTL(t *testing.T) {
	cfg := Defaults()
	ref := domain.ScriptureReference{Book: 43, Chapter: 3, StartVerse: 16, EndVerse: 17}
	req := cfg.Request(ref)
	if req.Reference != ref || req.Theme != cfg.Theme || req.Canvas != cfg.Canvas() {
		t.Fatalf("unexpected request %#v", req)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("default request invalid: %v", err)
	}
	if (FontsConfig{}).FontCacheTTL() <= 0 {
		t.Fatalf("expected default ttl")
	}
}
