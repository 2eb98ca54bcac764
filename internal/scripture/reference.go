/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scripture resolves scripture references to verse text.
//
// It parses human references such as "John 3:16-17", stores verses in SQL
// (SQLite or PostgreSQL) and exposes them through the Source interface consumed
// by the slide cache.
package scripture

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"versecast/internal/domain"
)

// ChapterEnd is the EndVerse of a whole-chapter reference. Sources return whatever
// verses exist up to it.
const ChapterEnd = 999

var reRef = regexp.MustCompile(`^\s*([1-3]?\s*[^\d\s:][^\d:]*?)\.?\s*(\d+)(?:\s*:\s*(\d+)(?:\s*[-–]\s*(\d+))?)?\s*$`)

// ParseReference parses "Book chapter[:verse[-verse]]". A reference without verses
// covers the whole chapter.
func ParseReference(s string) (domain.ScriptureReference, error) {
	m := reRef.FindStringSubmatch(s)
	if m == nil {
		return domain.ScriptureReference{}, fmt.Errorf("%w: cannot parse %q", domain.ErrInvalidReference, s)
	}
	book, ok := LookupBook(m[1])
	if !ok {
		return domain.ScriptureReference{}, fmt.Errorf("%w: unknown book %q", domain.ErrInvalidReference, strings.TrimSpace(m[1]))
	}
	chapter, _ := strconv.Atoi(m[2])
	if chapter < 1 || chapter > book.Chapters {
		return domain.ScriptureReference{}, fmt.Errorf("%w: %s has %d chapters, got %d", domain.ErrInvalidReference, book.Name, book.Chapters, chapter)
	}
	ref := domain.ScriptureReference{Book: book.Number, Chapter: chapter, StartVerse: 1, EndVerse: ChapterEnd}
	if m[3] != "" {
		ref.StartVerse, _ = strconv.Atoi(m[3])
		ref.EndVerse = ref.StartVerse
		if m[4] != "" {
			ref.EndVerse, _ = strconv.Atoi(m[4])
		}
	}
	if err := ref.Validate(); err != nil {
		return domain.ScriptureReference{}, err
	}
	return ref, nil
}

// FormatReference renders ref the way slide captions show it, e.g. "John 3:16–17" or "Psalms 23".
func FormatReference(ref domain.ScriptureReference) string {
	name := "Book " + strconv.Itoa(ref.Book)
	if b, ok := BookByNumber(ref.Book); ok {
		name = b.Name
	}
	if ref.StartVerse <= 1 && ref.EndVerse >= ChapterEnd {
		return fmt.Sprintf("%s %d", name, ref.Chapter)
	}
	return fmt.Sprintf("%s %d:%s", name, ref.Chapter, ref.VerseCaption())
}
