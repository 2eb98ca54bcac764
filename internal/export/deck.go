/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes rendered slide decks as PNG files, ZIP archives and PDF handouts.
package export

import (
	"context"
	"fmt"
	"image"
	"strings"
	"unicode"

	"versecast/internal/domain"
	"versecast/internal/slidecache"
)

// Slide is one rendered slide of a deck.
type Slide struct {
	Index   int
	Caption string
	Text    string
	Image   image.Image
}

// Deck is an ordered set of slides sharing a canvas.
type Deck struct {
	Title  string
	Canvas domain.CanvasSize
	Slides []Slide
}

// FromCache renders every slide of c, in order.
func FromCache(ctx context.Context, c *slidecache.Cache, title string) (Deck, error) {
	req, ok := c.Request()
	if !ok {
		return Deck{}, domain.ErrNoRequest
	}
	d := Deck{Title: title, Canvas: req.Canvas}
	for i := 0; i < c.SlideCount(); i++ {
		bm, err := c.Bitmap(ctx, i)
		if err != nil {
			return Deck{}, fmt.Errorf("slide %d: %w", i+1, err)
		}
		ch, err := c.Chunk(i)
		if err != nil {
			return Deck{}, err
		}
		d.Slides = append(d.Slides, Slide{Index: i, Caption: ch.Caption(), Text: strings.Join(ch.Lines(), " "), Image: bm})
	}
	return d, nil
}

// Slug turns a deck title into a file name stem, e.g. "John 3:16–17" becomes "john-3-16-17".
func Slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "deck"
	}
	return s
}

// padWidth is the zero padding used for slide file names.
func padWidth(n int) int {
	switch {
	case n >= 1000:
		return 4
	case n >= 100:
		return 3
	default:
		return 2
	}
}

func slideName(i, n int) string { return fmt.Sprintf("slide-%0*d.png", padWidth(n), i+1) }
