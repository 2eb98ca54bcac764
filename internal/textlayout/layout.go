/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Shared text geometry for the paginator and the compositor.
// Both sides measure with the same faces and the same margins so that a line
// accepted by pagination is never wider than the space the compositor gives it.

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"versecast/internal/domain"
)

// Fixed slide margins in pixels. The top and bottom bands are reserved for captions.
const (
	SideMargin   = 96
	TopMargin    = 72
	BottomMargin = 72
)

// UsableRect is the canvas area available to the text block.
// A canvas smaller than its margins still yields a one pixel wide/high area.
func UsableRect(c domain.CanvasSize) image.Rectangle {
	r := image.Rect(SideMargin, TopMargin, c.Width-SideMargin, c.Height-BottomMargin)
	if r.Dx() < 1 {
		r.Max.X = r.Min.X + 1
	}
	if r.Dy() < 1 {
		r.Max.Y = r.Min.Y + 1
	}
	return r
}

// Metrics provides font metrics in whole pixels for the resolved face.
type Metrics struct {
	Ascent, Descent, LineGap int
}

// LineHeight is the baseline-to-baseline distance.
func (m Metrics) LineHeight() int { return m.Ascent + m.Descent + m.LineGap }

func metricsOf(f font.Face) Metrics {
	m := f.Metrics()
	return Metrics{
		Ascent:  m.Ascent.Round(),
		Descent: m.Descent.Round(),
		LineGap: m.Height.Round() - m.Ascent.Round() - m.Descent.Round(),
	}
}

// Resolution is a face ready for measuring and drawing. Faces are not safe for
// concurrent use; every Resolve call returns a fresh one.
type Resolution struct {
	Face    font.Face
	Metrics Metrics
	// Family is the family actually used.
	Family string
	// Fallback is set when the requested family could not be found.
	Fallback *domain.FontFallbackWarning
}

// Provider maps a FontSpec to a concrete face.
type Provider interface {
	Resolve(spec domain.FontSpec) Resolution
}

// BasicProvider uses x/image/basicfont Face7x13 regardless of the request.
// Its fixed advances make it handy for tests that count characters.
type BasicProvider struct{}

func (BasicProvider) Resolve(domain.FontSpec) Resolution {
	f := basicfont.Face7x13
	return Resolution{Face: f, Metrics: metricsOf(f), Family: "basic"}
}

// Advance returns the pixel width of s set in face, kerning included, rounded up.
func Advance(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// BlockSize measures a block of lines: the widest line and the total height.
func BlockSize(res Resolution, lines []string) (w, h int) {
	for _, ln := range lines {
		if a := Advance(res.Face, ln); a > w {
			w = a
		}
	}
	return w, len(lines) * res.Metrics.LineHeight()
}
