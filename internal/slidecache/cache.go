/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package slidecache owns the slides of one generation request and navigates them.
//
// A Cache moves from empty to ready when a request is set. Every change of request
// or background starts a new generation: cached bitmaps are dropped and renders still
// running for an older generation are discarded when they finish. Bitmaps are
// rendered lazily on first access, optionally prefetched ahead of the current slide,
// and can be requested asynchronously with results delivered on Completions.
package slidecache

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"versecast/internal/compositor"
	"versecast/internal/domain"
	applog "versecast/internal/log"
	"versecast/internal/pagination"
	"versecast/internal/scripture"
)

// Renderer draws one slide, logging through ctx. *compositor.Compositor satisfies it.
type Renderer interface {
	RenderContext(ctx context.Context, chunk domain.TextChunk, caption string, theme domain.ThemeSpec, bg image.Image, canvas domain.CanvasSize) (compositor.Result, error)
}

// Options configures a Cache. Source is required.
type Options struct {
	Source    scripture.Source
	Paginator *pagination.Paginator
	Renderer  Renderer
	// PrefetchAhead is the number of slides after the current one rendered in the
	// background. Zero disables prefetch.
	PrefetchAhead int
	// Workers bounds parallel prefetch renders; defaults to 2.
	Workers int
	// CompletionBuffer sizes the Completions channel; defaults to 16.
	CompletionBuffer int
}

// Completion is the outcome of RequestAsync. Completions of superseded generations
// are never delivered.
type Completion struct {
	Index      int
	Generation uint64
	Bitmap     *Bitmap
	Err        error
}

type slide struct {
	chunk  domain.TextChunk
	bitmap *Bitmap
}

// Slide is a snapshot of one slide. Bitmap is nil until the slide has been rendered.
type Slide struct {
	Index  int
	Chunk  domain.TextChunk
	Bitmap *Bitmap
	Canvas domain.CanvasSize
}

// Cache is safe for use from several goroutines, but navigation is meant to be driven
// by a single owner.
type Cache struct {
	src      scripture.Source
	pag      *pagination.Paginator
	render   Renderer
	ahead    int
	workers  int
	log      *slog.Logger
	complete chan Completion
	done     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup

	mu       sync.Mutex
	ready    bool
	req      domain.GenerationRequest
	gen      uint64
	bg       image.Image
	slides   []slide
	current  int
	inflight map[int]bool
	stop     context.CancelFunc
	pctx     context.Context
}

func New(opts Options) *Cache {
	if opts.Paginator == nil {
		opts.Paginator = pagination.New(nil)
	}
	if opts.Renderer == nil {
		opts.Renderer = compositor.New(nil)
	}
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.CompletionBuffer <= 0 {
		opts.CompletionBuffer = 16
	}
	c := &Cache{
		src:      opts.Source,
		pag:      opts.Paginator,
		render:   opts.Renderer,
		ahead:    max(opts.PrefetchAhead, 0),
		workers:  opts.Workers,
		log:      applog.WithComponent("slidecache"),
		complete: make(chan Completion, opts.CompletionBuffer),
		done:     make(chan struct{}),
		inflight: make(map[int]bool),
	}
	c.pctx, c.stop = context.WithCancel(context.Background())
	return c
}

// SetRequest paginates req and makes it current. An identical request is a no-op.
// On error the cache keeps its previous state.
func (c *Cache) SetRequest(ctx context.Context, req domain.GenerationRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	if c.ready && c.req == req {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if c.src == nil {
		return errors.New("slidecache: no verse source configured")
	}
	verses, err := c.src.Verses(ctx, req.Reference)
	if err != nil {
		return fmt.Errorf("fetch verses %s: %w", scripture.FormatReference(req.Reference), err)
	}
	ref := scripture.FormatReference(req.Reference)
	text, bounds := pagination.JoinVerses(verses)
	if text == "" {
		c.log.WarnContext(applog.ContextWith(ctx, slog.String(applog.KeyReference, ref)), "empty reference",
			slog.Any("warning", &domain.EmptyReferenceResult{Reference: req.Reference}))
	}
	chunks, err := c.pag.Paginate(text, bounds, req.Theme.Font, req.Canvas)
	if err != nil {
		return fmt.Errorf("paginate: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked()
	c.req = req
	c.ready = true
	c.slides = make([]slide, len(chunks))
	for i, ch := range chunks {
		c.slides[i] = slide{chunk: ch}
	}
	c.current = 0
	c.log.InfoContext(applog.RequestContext(ctx, c.gen, ref), "request set", slog.Int("slides", len(chunks)))
	c.prefetchLocked()
	return nil
}

// SetBackground replaces the background. Slides are kept, bitmaps re-render on demand.
func (c *Cache) SetBackground(bg image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked()
	c.bg = bg
	for i := range c.slides {
		c.slides[i].bitmap = nil
	}
	c.prefetchLocked()
}

// Clear returns the cache to the empty state. The background is kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked()
	c.ready = false
	c.req = domain.GenerationRequest{}
	c.slides = nil
	c.current = 0
}

// invalidateLocked starts a new generation and stops prefetch of the old one.
func (c *Cache) invalidateLocked() {
	c.gen++
	c.stop()
	c.pctx, c.stop = context.WithCancel(context.Background())
	c.inflight = make(map[int]bool)
	for i := range c.slides {
		c.slides[i].bitmap = nil
	}
}

// Request returns the current request, if any.
func (c *Cache) Request() (domain.GenerationRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.req, c.ready
}

func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *Cache) SlideCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.slides)
}

func (c *Cache) CurrentIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Chunk returns the text of slide i.
func (c *Cache) Chunk(i int) (domain.TextChunk, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkLocked(i); err != nil {
		return domain.TextChunk{}, err
	}
	return c.slides[i].chunk, nil
}

// Slide returns a snapshot of slide i without rendering it.
func (c *Cache) Slide(i int) (Slide, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkLocked(i); err != nil {
		return Slide{}, err
	}
	s := c.slides[i]
	return Slide{Index: i, Chunk: s.chunk, Bitmap: s.bitmap, Canvas: c.req.Canvas}, nil
}

// CurrentCaption is the verse range of the current slide, e.g. "16–17". An empty slide
// shows the range of the request. The empty cache has no caption.
func (c *Cache) CurrentCaption() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready || len(c.slides) == 0 {
		return ""
	}
	if caption := c.slides[c.current].chunk.Caption(); caption != "" {
		return caption
	}
	return c.req.Reference.VerseCaption()
}

func (c *Cache) checkLocked(i int) error {
	if i < 0 || i >= len(c.slides) {
		return &domain.IndexOutOfRangeError{Index: i, Count: len(c.slides)}
	}
	return nil
}

// Next moves to the following slide and reports whether it moved.
func (c *Cache) Next() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current+1 >= len(c.slides) {
		return false
	}
	c.current++
	c.prefetchLocked()
	return true
}

// Previous moves to the preceding slide and reports whether it moved.
func (c *Cache) Previous() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == 0 {
		return false
	}
	c.current--
	c.prefetchLocked()
	return true
}

// GoTo selects slide i.
func (c *Cache) GoTo(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkLocked(i); err != nil {
		return err
	}
	c.current = i
	c.prefetchLocked()
	return nil
}

// Bitmap returns slide i, rendering it synchronously when it is not cached yet.
// It never waits for prefetch. If the generation changes while rendering, the result
// is discarded and ErrSuperseded returned.
func (c *Cache) Bitmap(ctx context.Context, i int) (*Bitmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	if !c.ready {
		c.mu.Unlock()
		return nil, domain.ErrNoRequest
	}
	if err := c.checkLocked(i); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	gen := c.gen
	c.mu.Unlock()
	return c.renderGen(ctx, gen, i)
}

// CurrentBitmap is Bitmap for the current index.
func (c *Cache) CurrentBitmap(ctx context.Context) (*Bitmap, error) {
	return c.Bitmap(ctx, c.CurrentIndex())
}

// renderGen renders slide i for generation gen and stores it if gen is still current.
// A bitmap stored in the meantime wins over the fresh render.
func (c *Cache) renderGen(ctx context.Context, gen uint64, i int) (*Bitmap, error) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return nil, domain.ErrSuperseded
	}
	if err := c.checkLocked(i); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if bm := c.slides[i].bitmap; bm != nil {
		c.mu.Unlock()
		return bm, nil
	}
	chunk := c.slides[i].chunk
	req, bg := c.req, c.bg
	c.mu.Unlock()

	ctx = applog.SlideContext(ctx, gen, scripture.FormatReference(req.Reference), i)
	caption := scripture.FormatReference(captionRef(req.Reference, chunk))
	res, err := c.render.RenderContext(ctx, chunk, caption, req.Theme, bg, req.Canvas)
	if err != nil {
		return nil, fmt.Errorf("render slide %d: %w", i, err)
	}
	bm := &Bitmap{img: res.Image, generation: gen, index: i, warnings: res.Warnings}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.log.DebugContext(ctx, "discarding superseded render", slog.Uint64("current", c.gen))
		return nil, domain.ErrSuperseded
	}
	if existing := c.slides[i].bitmap; existing != nil {
		return existing, nil
	}
	c.slides[i].bitmap = bm
	return bm, nil
}

func captionRef(ref domain.ScriptureReference, chunk domain.TextChunk) domain.ScriptureReference {
	if chunk.FirstVerse() > 0 {
		ref.StartVerse, ref.EndVerse = chunk.FirstVerse(), max(chunk.LastVerse(), chunk.FirstVerse())
	}
	return ref
}

// Completions delivers RequestAsync results. It has a single consumer.
func (c *Cache) Completions() <-chan Completion { return c.complete }

// RequestAsync renders slide i on a worker goroutine and delivers the result on
// Completions, unless the generation changes first.
func (c *Cache) RequestAsync(i int) error {
	c.mu.Lock()
	if !c.ready {
		c.mu.Unlock()
		return domain.ErrNoRequest
	}
	if err := c.checkLocked(i); err != nil {
		c.mu.Unlock()
		return err
	}
	gen := c.gen
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		bm, err := c.renderGen(context.Background(), gen, i)
		if errors.Is(err, domain.ErrSuperseded) {
			return
		}
		c.mu.Lock()
		stale := gen != c.gen
		c.mu.Unlock()
		if stale {
			return
		}
		select {
		case c.complete <- Completion{Index: i, Generation: gen, Bitmap: bm, Err: err}:
		case <-c.done:
		}
	}()
	return nil
}

// prefetchLocked renders the slides after the current one in the background.
func (c *Cache) prefetchLocked() {
	if c.ahead == 0 || !c.ready {
		return
	}
	select {
	case <-c.done:
		return
	default:
	}
	var todo []int
	for i := c.current + 1; i <= c.current+c.ahead && i < len(c.slides); i++ {
		if c.slides[i].bitmap == nil && !c.inflight[i] {
			c.inflight[i] = true
			todo = append(todo, i)
		}
	}
	if len(todo) == 0 {
		return
	}
	gen, ctx := c.gen, c.pctx
	ref := scripture.FormatReference(c.req.Reference)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.workers)
		for _, i := range todo {
			g.Go(func() error {
				defer c.settle(gen, i)
				if gctx.Err() != nil {
					return nil
				}
				if _, err := c.renderGen(gctx, gen, i); err != nil && !errors.Is(err, domain.ErrSuperseded) {
					c.log.WarnContext(applog.SlideContext(gctx, gen, ref, i), "prefetch failed", slog.Any("err", err))
				}
				return nil
			})
		}
		_ = g.Wait()
	}()
}

func (c *Cache) settle(gen uint64, i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.gen {
		delete(c.inflight, i)
	}
}

// Close stops prefetch and waits for outstanding workers. Undelivered completions are dropped.
func (c *Cache) Close() {
	c.once.Do(func() {
		close(c.done)
		c.mu.Lock()
		c.stop()
		c.mu.Unlock()
	})
	c.wg.Wait()
}
