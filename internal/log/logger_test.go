/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func lastJSON(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var last string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines found")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log: %v (%q)", err, last)
	}
	return m
}

func TestInitWritesRotatedJSONFile(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "versecast.log")
	Init(Options{Level: "debug", Format: "json", File: fpath})
	t.Cleanup(func() { Init(Options{Level: "info"}) })

	l := WithOperation(WithComponent("slidecache"), "render")
	l.Info("slide rendered", slog.Int("slide", 2))

	b, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	m := lastJSON(t, b)
	if m["app"] != "versecast" {
		t.Fatalf("missing app attr: %v", m["app"])
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr")
	}
	if m[KeyComponent] != "slidecache" || m[KeyOperation] != "render" {
		t.Fatalf("component/op mismatch: %v", m)
	}
	if m["slide"] != float64(2) {
		t.Fatalf("slide attr mismatch: %v", m["slide"])
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("VC_LOG_LEVEL", "warn")
	t.Setenv("VC_LOG_FORMAT", "json")
	t.Setenv("VC_LOG_SOURCE", "true")
	t.Setenv("VC_LOG_FILE", "")

	opts := FromEnv()
	if opts.Level != "warn" || opts.Format != "json" || !opts.AddSource || opts.File != "" {
		t.Fatalf("FromEnv mismatch: %+v", opts)
	}

	t.Setenv("VC_LOG_LEVEL", "  ")
	if got := FromEnv().Level; got != "info" {
		t.Fatalf("blank level should fall back to info, got %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug, " WARNING ": slog.LevelWarn, "error": slog.LevelError, "bogus": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "warn"}, &buf).With(slog.String(KeyComponent, "compositor"))

	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info must be filtered at warn level: %q", buf.String())
	}

	l.WithGroup("font").Warn("font fallback", slog.String("requested", "Open Sans"), slog.Float64("size", 32.5))
	out := buf.String()
	for _, want := range []string{" WRN [compositor] font fallback", `font.requested="Open Sans"`, "font.size=32.5"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
	if strings.Contains(out, "app=") || strings.Contains(out, "ts_init") {
		t.Fatalf("static attrs should stay out of the console: %q", out)
	}
}

func TestRenderContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", Format: "json"}, &buf)
	ctx := SlideContext(context.Background(), 7, "John 3:16–17", 1)
	l.DebugContext(ctx, "rendered")

	m := lastJSON(t, buf.Bytes())
	if m[KeyGeneration] != float64(7) || m[KeyReference] != "John 3:16–17" || m[KeySlide] != float64(1) {
		t.Fatalf("context attrs missing: %v", m)
	}

	buf.Reset()
	l.Debug("no context")
	if m := lastJSON(t, buf.Bytes()); m[KeyGeneration] != nil {
		t.Fatalf("attrs leaked into plain record: %v", m)
	}
}

func TestConsoleShowsContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug"}, &buf)
	l.InfoContext(RequestContext(context.Background(), 3, "Ps 23"), "request set")
	out := buf.String()
	if !strings.Contains(out, "generation=3") || !strings.Contains(out, `ref="Ps 23"`) {
		t.Fatalf("console output missing context attrs: %q", out)
	}
}

func TestNewDoesNotReplaceDefault(t *testing.T) {
	Init(Options{Level: "info"})
	before := L()
	var buf bytes.Buffer
	_ = New(Options{Level: "debug"}, &buf)
	if L() != before {
		t.Fatalf("New must not change the global logger")
	}
}
