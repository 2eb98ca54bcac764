/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package pagination splits verse text into slide-sized chunks.
//
// Words are packed greedily into lines no wider than the canvas's usable width
// and lines into chunks no taller than its usable height, using the same faces
// and margins as the compositor. The result depends only on (text, boundaries,
// font, canvas), which the slide cache relies on.
package pagination

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"versecast/internal/domain"
	applog "versecast/internal/log"
	"versecast/internal/textlayout"
)

// VerseBoundary marks the byte offset in the raw text where a verse starts. Through is
// the last verse of a span; zero means the single verse.
type VerseBoundary struct {
	Verse   int
	Through int
	Offset  int
}

func (b VerseBoundary) last() int { return max(b.Verse, b.Through) }

// JoinVerses builds the raw text of a range: each verse NFC-normalized, trimmed and
// separated by one space, with the offset of every verse recorded.
func JoinVerses(verses []domain.Verse) (string, []VerseBoundary) {
	var b strings.Builder
	bounds := make([]VerseBoundary, 0, len(verses))
	for _, v := range verses {
		txt := strings.TrimSpace(norm.NFC.String(v.Text))
		if b.Len() > 0 && txt != "" {
			b.WriteByte(' ')
		}
		bounds = append(bounds, VerseBoundary{Verse: v.Number, Through: v.Through, Offset: b.Len()})
		b.WriteString(txt)
	}
	return b.String(), bounds
}

// Paginator measures with Fonts; it holds no per-call state.
type Paginator struct {
	Fonts textlayout.Provider
	log   *slog.Logger
}

func New(fonts textlayout.Provider) *Paginator {
	if fonts == nil {
		fonts = textlayout.NewProvider(nil)
	}
	return &Paginator{Fonts: fonts, log: applog.WithComponent("pagination")}
}

type word struct {
	text        string
	first, last int
}

type line struct {
	text        string
	first, last int
}

// Paginate returns the ordered chunks for text. Empty text yields exactly one empty chunk.
// A word wider than the usable width sits alone on its line and overflows it; a chunk
// always holds at least one line.
func (p *Paginator) Paginate(text string, boundaries []VerseBoundary, font domain.FontSpec, canvas domain.CanvasSize) ([]domain.TextChunk, error) {
	if err := canvas.Validate(); err != nil {
		return nil, err
	}
	if font.Size <= 0 {
		return nil, &domain.InvalidThemeError{Field: "font.size", Reason: "must be positive"}
	}

	words := tokenize(text, boundaries)
	if len(words) == 0 {
		first, last := 0, 0
		if n := len(boundaries); n > 0 {
			first, last = boundaries[0].Verse, boundaries[n-1].last()
		}
		return []domain.TextChunk{domain.NewTextChunk(nil, first, last)}, nil
	}

	res := p.Fonts.Resolve(font)
	usable := textlayout.UsableRect(canvas)
	lines := breakLines(words, res, usable.Dx())

	lineH := res.Metrics.LineHeight()
	if lineH <= 0 {
		lineH = 1
	}
	perChunk := usable.Dy() / lineH
	if perChunk < 1 {
		perChunk = 1
	}

	chunks := make([]domain.TextChunk, 0, (len(lines)+perChunk-1)/perChunk)
	for start := 0; start < len(lines); start += perChunk {
		end := min(start+perChunk, len(lines))
		group := lines[start:end]
		texts := make([]string, len(group))
		for i, ln := range group {
			texts[i] = ln.text
		}
		chunks = append(chunks, domain.NewTextChunk(texts, group[0].first, group[len(group)-1].last))
	}
	p.log.Debug("paginated",
		slog.Int("words", len(words)),
		slog.Int("lines", len(lines)),
		slog.Int("chunks", len(chunks)),
		slog.Int("lines_per_chunk", perChunk),
		slog.String("canvas", canvas.String()))
	return chunks, nil
}

func breakLines(words []word, res textlayout.Resolution, maxW int) []line {
	var (
		lines []line
		cur   line
		open  bool
	)
	for _, w := range words {
		if !open {
			cur = line{text: w.text, first: w.first, last: w.last}
			open = true
			continue
		}
		cand := cur.text + " " + w.text
		if textlayout.Advance(res.Face, cand) <= maxW {
			cur.text = cand
			cur.last = w.last
			continue
		}
		lines = append(lines, cur)
		cur = line{text: w.text, first: w.first, last: w.last}
	}
	if open {
		lines = append(lines, cur)
	}
	return lines
}

// tokenize splits on Unicode white space and tags each word with the verse whose
// boundary offset precedes the word's first byte.
func tokenize(text string, boundaries []VerseBoundary) []word {
	var words []word
	bi := -1
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		for bi+1 < len(boundaries) && boundaries[bi+1].Offset <= start {
			bi++
		}
		w := word{text: text[start:end]}
		switch {
		case bi >= 0:
			w.first, w.last = boundaries[bi].Verse, boundaries[bi].last()
		case len(boundaries) > 0:
			w.first, w.last = boundaries[0].Verse, boundaries[0].last()
		}
		words = append(words, w)
		start = -1
	}
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			flush(i)
		} else if start < 0 {
			start = i
		}
		i += size
	}
	flush(len(text))
	return words
}
