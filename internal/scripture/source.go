/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scripture

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"versecast/internal/domain"
)

// Source supplies the verses of a reference in ascending verse order.
// An empty result is not an error; callers render one empty slide for it.
type Source interface {
	Verses(ctx context.Context, ref domain.ScriptureReference) ([]domain.Verse, error)
}

// ExtractFunc adapts a plain text extractor that returns the whole range as one string.
// The text is reported as a single verse spanning the requested range; a whole-chapter
// reference spans the start verse only.
type ExtractFunc func(book, chapter, startVerse, endVerse int) string

func (f ExtractFunc) Verses(ctx context.Context, ref domain.ScriptureReference) ([]domain.Verse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	txt := strings.TrimSpace(f(ref.Book, ref.Chapter, ref.StartVerse, ref.EndVerse))
	if txt == "" {
		return nil, nil
	}
	v := domain.Verse{Number: ref.StartVerse, Text: norm.NFC.String(txt)}
	if ref.EndVerse > ref.StartVerse && ref.EndVerse != ChapterEnd {
		v.Through = ref.EndVerse
	}
	return []domain.Verse{v}, nil
}

type chapterKey struct{ book, chapter int }

// Memory is an in-process Source, mainly for tests and small embedded passages.
type Memory struct {
	mu       sync.RWMutex
	chapters map[chapterKey]map[int]string
}

func NewMemory() *Memory { return &Memory{chapters: make(map[chapterKey]map[int]string)} }

// Put stores or replaces verse texts of one chapter.
func (m *Memory) Put(book, chapter int, verses ...domain.Verse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := chapterKey{book, chapter}
	if m.chapters[k] == nil {
		m.chapters[k] = make(map[int]string)
	}
	for _, v := range verses {
		m.chapters[k][v.Number] = norm.NFC.String(v.Text)
	}
}

func (m *Memory) Verses(ctx context.Context, ref domain.ScriptureReference) ([]domain.Verse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Verse
	for n, txt := range m.chapters[chapterKey{ref.Book, ref.Chapter}] {
		if n >= ref.StartVerse && n <= ref.EndVerse {
			out = append(out, domain.Verse{Number: n, Text: txt})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}
