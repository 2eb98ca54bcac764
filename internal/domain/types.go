/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the value types shared by the slide generation packages:
// scripture references, verses, canvas sizes, text chunks and generation requests.
// Theme styling lives in theme.go.

import (
	"fmt"
	"strconv"
	"strings"
)

// ScriptureReference identifies a contiguous verse range inside one chapter.
// EndVerse is inclusive. Two references are equal iff all fields are equal.
type ScriptureReference struct {
	Book       int `json:"book" yaml:"book"`
	Chapter    int `json:"chapter" yaml:"chapter"`
	StartVerse int `json:"startVerse" yaml:"start_verse"`
	EndVerse   int `json:"endVerse" yaml:"end_verse"`
}

// Validate checks that the reference describes a non-empty, ordered range.
func (r ScriptureReference) Validate() error {
	switch {
	case r.Book <= 0:
		return fmt.Errorf("%w: book must be positive, got %d", ErrInvalidReference, r.Book)
	case r.Chapter <= 0:
		return fmt.Errorf("%w: chapter must be positive, got %d", ErrInvalidReference, r.Chapter)
	case r.StartVerse <= 0:
		return fmt.Errorf("%w: start verse must be positive, got %d", ErrInvalidReference, r.StartVerse)
	case r.EndVerse < r.StartVerse:
		return fmt.Errorf("%w: end verse %d before start verse %d", ErrInvalidReference, r.EndVerse, r.StartVerse)
	}
	return nil
}

// VerseCaption formats the verse range as shown under a slide, e.g. "16–17" or "16".
func (r ScriptureReference) VerseCaption() string { return VerseRangeCaption(r.StartVerse, r.EndVerse) }

// VerseRangeCaption formats first..last with an en dash. A zero or inverted range
// collapses to the first verse; zero for both yields an empty string.
func VerseRangeCaption(first, last int) string {
	if first <= 0 {
		return ""
	}
	if last <= first {
		return strconv.Itoa(first)
	}
	return strconv.Itoa(first) + "–" + strconv.Itoa(last)
}

// Verse is a numbered verse of extracted plain text. Through is set when Text spans
// Number..Through; zero means the single verse Number.
type Verse struct {
	Number  int    `json:"verse"`
	Through int    `json:"through,omitempty"`
	Text    string `json:"text"`
}

// Last is the last verse covered by v.
func (v Verse) Last() int { return max(v.Number, v.Through) }

// CanvasSize is the pixel size of the rendering surface.
type CanvasSize struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Validate rejects non-positive dimensions.
func (c CanvasSize) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidCanvas, c.Width, c.Height)
	}
	return nil
}

func (c CanvasSize) String() string { return fmt.Sprintf("%dx%d", c.Width, c.Height) }

// TextChunk is the text content of exactly one slide. It is immutable: the
// constructor copies the lines and accessors hand out copies.
type TextChunk struct {
	lines      []string
	firstVerse int
	lastVerse  int
}

// NewTextChunk builds a chunk covering verses first..last.
func NewTextChunk(lines []string, first, last int) TextChunk {
	cp := make([]string, len(lines))
	copy(cp, lines)
	return TextChunk{lines: cp, firstVerse: first, lastVerse: last}
}

// Lines returns a copy of the chunk's lines.
func (c TextChunk) Lines() []string {
	cp := make([]string, len(c.lines))
	copy(cp, c.lines)
	return cp
}

func (c TextChunk) LineCount() int { return len(c.lines) }

// Line returns line i; callers must stay within LineCount.
func (c TextChunk) Line(i int) string { return c.lines[i] }

// Text joins the lines with newlines.
func (c TextChunk) Text() string { return strings.Join(c.lines, "\n") }

func (c TextChunk) FirstVerse() int { return c.firstVerse }
func (c TextChunk) LastVerse() int { return c.lastVerse }

// IsEmpty reports whether the chunk carries no text.
func (c TextChunk) IsEmpty() bool { return len(c.lines) == 0 }

// Caption is the verse range covered by the chunk, e.g. "16–17".
func (c TextChunk) Caption() string { return VerseRangeCaption(c.firstVerse, c.lastVerse) }

// GenerationRequest is the cache key of a slide deck. Any field change starts a new generation.
type GenerationRequest struct {
	Reference ScriptureReference `json:"reference"`
	Theme     ThemeSpec          `json:"theme"`
	Canvas    CanvasSize         `json:"canvas"`
}

// Validate checks all three parts of the request.
func (g GenerationRequest) Validate() error {
	if err := g.Reference.Validate(); err != nil {
		return err
	}
	if err := g.Theme.Validate(); err != nil {
		return err
	}
	return g.Canvas.Validate()
}
