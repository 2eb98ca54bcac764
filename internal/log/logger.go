/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log sets up the slog logger shared by all versecast components.
//
// Records written through the *Context methods of a logger carry the render
// attributes stored on the context (cache generation, reference, slide index), so a
// slow or discarded render can be traced back to the request that caused it.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"versecast/internal/version"

	// lumberjack is optional; used only if file logging is enabled
	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization.
// Values can be provided directly or via environment variables:
//   - VC_LOG_LEVEL=debug|info|warn|error
//   - VC_LOG_FORMAT=console|json
//   - VC_LOG_FILE=<path> (enables file logging with rotation)
//   - VC_LOG_SOURCE=true|false (include source)
type Options struct {
	Level     string
	Format    string // "console" or "json"
	AddSource bool
	File      string // optional path for file logging (rotated)
}

// Attribute keys set by the context helpers.
const (
	KeyComponent  = "component"
	KeyOperation  = "op"
	KeyGeneration = "generation"
	KeyReference  = "ref"
	KeySlide      = "slide"
)

var (
	mu     sync.RWMutex
	global *slog.Logger
)

// L returns the application logger, initializing it from the environment on first use.
func L() *slog.Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Init replaces the application logger and slog.Default.
func Init(opts Options) {
	l := New(opts, os.Stderr)
	mu.Lock()
	global = l
	mu.Unlock()
	slog.SetDefault(l)
}

// New builds a logger writing console output to w without touching the global default.
// A rotated JSON file is added when opts.File is set.
func New(opts Options, w io.Writer) *slog.Logger {
	lvl := parseLevel(opts.Level)
	ho := &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}

	var console slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		console = slog.NewJSONHandler(w, ho)
	} else {
		console = newConsoleHandler(w, ho)
	}
	hs := []slog.Handler{console}
	if f := strings.TrimSpace(opts.File); f != "" {
		rot := &lj.Logger{Filename: f, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		hs = append(hs, slog.NewJSONHandler(rot, ho))
	}

	var h slog.Handler = fanout(hs)
	if len(hs) == 1 {
		h = hs[0]
	}
	return slog.New(contextHandler{h}).With(
		slog.String("app", "versecast"),
		slog.String("ver", version.Version),
		slog.Time("ts_init", time.Now()),
	)
}

// FromEnv builds Options from environment variables.
func FromEnv() Options {
	return Options{
		Level:     envOr("VC_LOG_LEVEL", "info"),
		Format:    envOr("VC_LOG_FORMAT", "console"),
		AddSource: strings.EqualFold(os.Getenv("VC_LOG_SOURCE"), "true"),
		File:      os.Getenv("VC_LOG_FILE"),
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent returns the application logger tagged with a component name.
func WithComponent(name string) *slog.Logger { return L().With(slog.String(KeyComponent, name)) }

// WithOperation annotates the logger with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger {
	return l.With(slog.String(KeyOperation, op))
}

type ctxKey struct{}

// ContextWith returns a context whose records logged through *Context methods
// carry attrs in addition to the ones already stored on ctx.
func ContextWith(ctx context.Context, attrs ...slog.Attr) context.Context {
	prev := attrsFrom(ctx)
	all := make([]slog.Attr, 0, len(prev)+len(attrs))
	all = append(all, prev...)
	all = append(all, attrs...)
	return context.WithValue(ctx, ctxKey{}, all)
}

// RequestContext tags ctx with a cache generation and the reference it renders.
func RequestContext(ctx context.Context, gen uint64, ref string) context.Context {
	return ContextWith(ctx, slog.Uint64(KeyGeneration, gen), slog.String(KeyReference, ref))
}

// SlideContext is RequestContext plus the slide index.
func SlideContext(ctx context.Context, gen uint64, ref string, index int) context.Context {
	return ContextWith(RequestContext(ctx, gen, ref), slog.Int(KeySlide, index))
}

func attrsFrom(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	a, _ := ctx.Value(ctxKey{}).([]slog.Attr)
	return a
}

// contextHandler appends the attributes stored on the record's context.
type contextHandler struct{ next slog.Handler }

func (h contextHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := attrsFrom(ctx); len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.next.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.next.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.next.WithGroup(name)}
}

// fanout sends every record to all handlers and reports the first error.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
