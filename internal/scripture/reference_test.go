/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scripture

import (
	"errors"
	"testing"

	"versecast/internal/domain"
)

func TestParseReference(t *testing.T) {
	cases := []struct {
		in   string
		want domain.ScriptureReference
	}{
		{"John 3:16-17", domain.ScriptureReference{Book: 43, Chapter: 3, StartVerse: 16, EndVerse: 17}},
		{"John 3:16–17", domain.ScriptureReference{Book: 43, Chapter: 3, StartVerse: 16, EndVerse: 17}},
		{"1 Cor 13:4", domain.ScriptureReference{Book: 46, Chapter: 13, StartVerse: 4, EndVerse: 4}},
		{"1 Cor. 13:4 - 8", domain.ScriptureReference{Book: 46, Chapter: 13, StartVerse: 4, EndVerse: 8}},
		{"Ps 23", domain.ScriptureReference{Book: 19, Chapter: 23, StartVerse: 1, EndVerse: ChapterEnd}},
		{"song of solomon 2:1", domain.ScriptureReference{Book: 22, Chapter: 2, StartVerse: 1, EndVerse: 1}},
		{"  rev 22:21 ", domain.ScriptureReference{Book: 66, Chapter: 22, StartVerse: 21, EndVerse: 21}},
		{"Gen1:1", domain.ScriptureReference{Book: 1, Chapter: 1, StartVerse: 1, EndVerse: 1}},
	}
	for _, c := range cases {
		got, err := ParseReference(c.in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("%q: got %+v want %+v", c.in, got, c.want)
		}
	}
}

func TestParseReferenceErrors(t *testing.T) {
	for _, in := range []string{"", "John", "Nowhere 3:1", "Jo 3:16", "John 22:1", "John 3:17-16", "John 0:1"} {
		if _, err := ParseReference(in); !errors.Is(err, domain.ErrInvalidReference) {
			t.Fatalf("%q: expected ErrInvalidReference, got %v", in, err)
		}
	}
}

func TestLookupBook(t *testing.T) {
	if len(Books()) != 66 {
		t.Fatalf("expected 66 books, got %d", len(Books()))
	}
	for i, b := range Books() {
		if b.Number != i+1 {
			t.Fatalf("book %s out of order", b.Name)
		}
		got, ok := LookupBook(b.Name)
		if !ok || got.Number != b.Number {
			t.Fatalf("lookup of %q failed", b.Name)
		}
	}
	if b, ok := LookupBook("phil"); !ok || b.Name != "Philippians" {
		t.Fatalf("phil resolved to %+v", b)
	}
	if b, ok := LookupBook("Lev"); !ok || b.Number != 3 {
		t.Fatalf("Lev resolved to %+v", b)
	}
	if _, ok := LookupBook("Jo"); ok {
		t.Fatalf("ambiguous prefix must not resolve")
	}
}

func TestFormatReference(t *testing.T) {
	if s := FormatReference(domain.ScriptureReference{Book: 43, Chapter: 3, StartVerse: 16, EndVerse: 17}); s != "John 3:16–17" {
		t.Fatalf("got %q", s)
	}
	if s := FormatReference(domain.ScriptureReference{Book: 19, Chapter: 23, StartVerse: 1, EndVerse: ChapterEnd}); s != "Psalms 23" {
		t.Fatalf("got %q", s)
	}
	if s := FormatReference(domain.ScriptureReference{Book: 46, Chapter: 13, StartVerse: 4, EndVerse: 4}); s != "1 Corinthians 13:4" {
		t.Fatalf("got %q", s)
	}
}
