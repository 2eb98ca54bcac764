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
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	applog "versecast/internal/log"
)

// bollsVerse is one element of a bolls.life translation dump.
type bollsVerse struct {
	Book    int    `json:"book"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`
}

var (
	reStrong = regexp.MustCompile(`(?i)<S>\s*\d+\s*</S>`)
	reTag    = regexp.MustCompile(`<[^>]*>`)
	reSpace  = regexp.MustCompile(`[\s\p{Z}]+`)
)

// CleanText strips markup, Strong's numbers and redundant white space and returns NFC text.
func CleanText(s string) string {
	s = reStrong.ReplaceAllString(s, "")
	s = reTag.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = reSpace.ReplaceAllString(s, " ")
	return norm.NFC.String(strings.TrimSpace(s))
}

// ImportJSON reads a bolls.life style JSON array of verses and stores it.
// Rows with a non-positive book, chapter or verse are skipped. It returns the number stored.
func (s *Store) ImportJSON(ctx context.Context, r io.Reader) (int, error) {
	l := applog.WithOperation(applog.WithComponent("scripture"), "import")
	var in []bollsVerse
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return 0, fmt.Errorf("decode verses: %w", err)
	}
	recs := make([]Record, 0, len(in))
	skipped := 0
	for _, v := range in {
		if v.Book <= 0 || v.Chapter <= 0 || v.Verse <= 0 {
			skipped++
			continue
		}
		recs = append(recs, Record{Book: v.Book, Chapter: v.Chapter, Verse: v.Verse, Text: CleanText(v.Text)})
	}
	if err := s.Put(ctx, recs); err != nil {
		return 0, err
	}
	l.Info("imported verses", slog.Int("stored", len(recs)), slog.Int("skipped", skipped))
	return len(recs), nil
}
