/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package compositor renders one text chunk onto a background to produce a slide bitmap.
//
// Rendering order: background cover-fit, block placement, optional blurred drop shadow,
// text, optional caption. Render has no shared mutable state and may be called from
// several goroutines at once.
package compositor

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"
	"time"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"versecast/internal/domain"
	applog "versecast/internal/log"
	"versecast/internal/textlayout"
)

// MinCaptionSize is the smallest pixel size used for captions.
const MinCaptionSize = 12

// Placement is the geometry computed for a slide, in canvas coordinates, before any shadow offset.
type Placement struct {
	Block image.Rectangle
	Lines []image.Rectangle
	// Caption is empty when no caption was drawn.
	Caption image.Rectangle
}

// Result is a rendered slide.
type Result struct {
	Image     *image.RGBA
	Placement Placement
	// Warnings holds non-fatal conditions such as *domain.FontFallbackWarning.
	Warnings []error
}

// Compositor draws slides with faces from Fonts.
type Compositor struct {
	Fonts textlayout.Provider
	log   *slog.Logger
}

func New(fonts textlayout.Provider) *Compositor {
	if fonts == nil {
		fonts = textlayout.NewProvider(nil)
	}
	return &Compositor{Fonts: fonts, log: applog.WithComponent("compositor")}
}

// run is one string set in one face at a fixed dot position.
type run struct {
	text string
	face font.Face
	dot  fixed.Point26_6
}

// Render draws chunk with the chunk's own verse range as caption.
func (c *Compositor) Render(chunk domain.TextChunk, theme domain.ThemeSpec, bg image.Image, canvas domain.CanvasSize) (Result, error) {
	return c.RenderCaptioned(chunk, chunk.Caption(), theme, bg, canvas)
}

// RenderCaptioned is Render with an explicit caption string. The caption is only drawn
// when theme.ShowCaption is set and caption is not empty.
func (c *Compositor) RenderCaptioned(chunk domain.TextChunk, caption string, theme domain.ThemeSpec, bg image.Image, canvas domain.CanvasSize) (Result, error) {
	return c.RenderContext(context.Background(), chunk, caption, theme, bg, canvas)
}

// RenderContext is RenderCaptioned logging through ctx, so records carry the
// attributes the caller stored with applog.ContextWith. Rendering itself ignores ctx.
func (c *Compositor) RenderContext(ctx context.Context, chunk domain.TextChunk, caption string, theme domain.ThemeSpec, bg image.Image, canvas domain.CanvasSize) (Result, error) {
	if err := theme.Validate(); err != nil {
		return Result{}, err
	}
	if err := canvas.Validate(); err != nil {
		return Result{}, err
	}
	start := time.Now()

	var res Result
	res.Image = coverFit(bg, canvas)

	text := c.Fonts.Resolve(theme.Font)
	if text.Fallback != nil {
		res.Warnings = append(res.Warnings, text.Fallback)
		c.log.WarnContext(ctx, "font fallback",
			slog.String("requested", text.Fallback.Requested),
			slog.String("used", text.Fallback.Used))
	}

	lines := chunk.Lines()
	runs := make([]run, 0, len(lines)+1)
	res.Placement = layoutBlock(text, lines, theme, canvas)
	for i, ln := range lines {
		r := res.Placement.Lines[i]
		runs = append(runs, run{text: ln, face: text.Face, dot: fixed.P(r.Min.X, r.Min.Y+text.Metrics.Ascent)})
	}

	if theme.ShowCaption && caption != "" {
		capSpec := theme.Font
		capSpec.Size = max(theme.Font.Size/2, MinCaptionSize)
		capRes := c.Fonts.Resolve(capSpec)
		rect := layoutCaption(capRes, caption, theme, canvas)
		res.Placement.Caption = rect
		runs = append(runs, run{text: caption, face: capRes.Face, dot: fixed.P(rect.Min.X, rect.Min.Y+capRes.Metrics.Ascent)})
	}

	if theme.DropShadow.Enabled {
		drawShadow(res.Image, runs, theme.DropShadow)
	}
	src := image.NewUniform(theme.Font.Color.ToNRGBA())
	for _, r := range runs {
		drawRun(res.Image, src, r, 0, 0)
	}

	c.log.DebugContext(ctx, "rendered",
		slog.Int("lines", len(lines)),
		slog.String("canvas", canvas.String()),
		slog.Bool("shadow", theme.DropShadow.Enabled),
		slog.Duration("took", time.Since(start)))
	return res, nil
}

// coverFit scales bg to cover the canvas, keeping its aspect ratio, and crops the centre.
// A nil or empty background yields a black canvas.
func coverFit(bg image.Image, canvas domain.CanvasSize) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, canvas.Width, canvas.Height))
	if bg == nil || bg.Bounds().Empty() {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
		return dst
	}
	b := bg.Bounds()
	var fitted image.Image
	if b.Dx() == canvas.Width && b.Dy() == canvas.Height {
		fitted = clone.AsRGBA(bg)
	} else {
		scale := math.Max(float64(canvas.Width)/float64(b.Dx()), float64(canvas.Height)/float64(b.Dy()))
		w := max(int(math.Ceil(float64(b.Dx())*scale)), canvas.Width)
		h := max(int(math.Ceil(float64(b.Dy())*scale)), canvas.Height)
		resized := transform.Resize(bg, w, h, transform.Linear)
		x0 := (w - canvas.Width) / 2
		y0 := (h - canvas.Height) / 2
		fitted = transform.Crop(resized, image.Rect(x0, y0, x0+canvas.Width, y0+canvas.Height))
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), fitted, fitted.Bounds().Min, draw.Over)
	return dst
}

// alignX places a span of width w according to the alignment within the usable width.
func alignX(a domain.HorizontalAlignment, w int, canvas domain.CanvasSize) int {
	usable := textlayout.UsableRect(canvas)
	switch a {
	case domain.AlignLeft:
		return usable.Min.X
	case domain.AlignCenter:
		return usable.Min.X + (usable.Dx()-w)/2
	default:
		return canvas.Width - textlayout.SideMargin - w
	}
}

func layoutBlock(res textlayout.Resolution, lines []string, theme domain.ThemeSpec, canvas domain.CanvasSize) Placement {
	blockW, blockH := textlayout.BlockSize(res, lines)
	var y int
	switch theme.Position {
	case domain.PositionTop:
		y = textlayout.TopMargin
	case domain.PositionMiddle:
		y = (canvas.Height - blockH) / 2
	default:
		y = canvas.Height - textlayout.BottomMargin - blockH
	}
	x := alignX(theme.HorizontalAlignment, blockW, canvas)
	p := Placement{Block: image.Rect(x, y, x+blockW, y+blockH)}
	lineH := res.Metrics.LineHeight()
	for i, ln := range lines {
		w := textlayout.Advance(res.Face, ln)
		lx := alignX(theme.HorizontalAlignment, w, canvas)
		ly := y + i*lineH
		p.Lines = append(p.Lines, image.Rect(lx, ly, lx+w, ly+lineH))
	}
	return p
}

// layoutCaption centres the caption in the margin band away from the text: the top band
// when the text sits at the bottom, the bottom band otherwise.
func layoutCaption(res textlayout.Resolution, caption string, theme domain.ThemeSpec, canvas domain.CanvasSize) image.Rectangle {
	w := textlayout.Advance(res.Face, caption)
	h := res.Metrics.LineHeight()
	bandTop, bandH := canvas.Height-textlayout.BottomMargin, textlayout.BottomMargin
	if theme.Position == domain.PositionBottom {
		bandTop, bandH = 0, textlayout.TopMargin
	}
	y := bandTop + (bandH-h)/2
	x := alignX(theme.HorizontalAlignment, w, canvas)
	return image.Rect(x, y, x+w, y+h)
}

func drawShadow(dst *image.RGBA, runs []run, s domain.DropShadowSpec) {
	layer := image.NewRGBA(dst.Bounds())
	src := image.NewUniform(s.Color.ToNRGBA())
	for _, r := range runs {
		drawRun(layer, src, r, s.OffsetX, s.OffsetY)
	}
	var shadow image.Image = layer
	if s.BlurRadius > 0 {
		shadow = blur.Gaussian(layer, float64(s.BlurRadius))
	}
	draw.Draw(dst, dst.Bounds(), shadow, shadow.Bounds().Min, draw.Over)
}

func drawRun(dst draw.Image, src image.Image, r run, dx, dy int) {
	d := font.Drawer{
		Dst:  dst,
		Src:  src,
		Face: r.face,
		Dot:  r.dot.Add(fixed.P(dx, dy)),
	}
	d.DrawString(r.text)
}

// String describes a placement for logs and test failures.
func (p Placement) String() string {
	return fmt.Sprintf("block=%v lines=%d caption=%v", p.Block, len(p.Lines), p.Caption)
}
