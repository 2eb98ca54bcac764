/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scripture

import (
	"strings"
)

// Book is one entry of the 66-book canon. Number is 1-based in canonical order.
type Book struct {
	Number   int
	Name     string
	Chapters int
	aliases  []string
}

var canon = []Book{
	{1, "Genesis", 50, []string{"gen", "gn", "ge"}},
	{2, "Exodus", 40, []string{"exod", "exo", "ex"}},
	{3, "Leviticus", 27, []string{"lev", "lv"}},
	{4, "Numbers", 36, []string{"num", "nm", "nb"}},
	{5, "Deuteronomy", 34, []string{"deut", "dt"}},
	{6, "Joshua", 24, []string{"josh", "jos"}},
	{7, "Judges", 21, []string{"judg", "jdg"}},
	{8, "Ruth", 4, []string{"rth", "ru"}},
	{9, "1 Samuel", 31, []string{"1sam", "1sa", "1sm"}},
	{10, "2 Samuel", 24, []string{"2sam", "2sa", "2sm"}},
	{11, "1 Kings", 22, []string{"1kgs", "1ki", "1kg"}},
	{12, "2 Kings", 25, []string{"2kgs", "2ki", "2kg"}},
	{13, "1 Chronicles", 29, []string{"1chr", "1ch"}},
	{14, "2 Chronicles", 36, []string{"2chr", "2ch"}},
	{15, "Ezra", 10, []string{"ezr"}},
	{16, "Nehemiah", 13, []string{"neh", "ne"}},
	{17, "Esther", 10, []string{"esth", "est"}},
	{18, "Job", 42, []string{"jb"}},
	{19, "Psalms", 150, []string{"ps", "psa", "psalm", "pss"}},
	{20, "Proverbs", 31, []string{"prov", "pr", "prv"}},
	{21, "Ecclesiastes", 12, []string{"eccl", "ecc", "qoh"}},
	{22, "Song of Solomon", 8, []string{"song", "sos", "songofsongs", "canticles"}},
	{23, "Isaiah", 66, []string{"isa", "is"}},
	{24, "Jeremiah", 52, []string{"jer", "jr"}},
	{25, "Lamentations", 5, []string{"lam", "la"}},
	{26, "Ezekiel", 48, []string{"ezek", "eze", "ezk"}},
	{27, "Daniel", 12, []string{"dan", "dn"}},
	{28, "Hosea", 14, []string{"hos", "ho"}},
	{29, "Joel", 3, []string{"jl"}},
	{30, "Amos", 9, []string{"am"}},
	{31, "Obadiah", 1, []string{"obad", "ob"}},
	{32, "Jonah", 4, []string{"jon", "jnh"}},
	{33, "Micah", 7, []string{"mic", "mc"}},
	{34, "Nahum", 3, []string{"nah", "na"}},
	{35, "Habakkuk", 3, []string{"hab", "hb"}},
	{36, "Zephaniah", 3, []string{"zeph", "zep", "zp"}},
	{37, "Haggai", 2, []string{"hag", "hg"}},
	{38, "Zechariah", 14, []string{"zech", "zec", "zc"}},
	{39, "Malachi", 4, []string{"mal", "ml"}},
	{40, "Matthew", 28, []string{"matt", "mat", "mt"}},
	{41, "Mark", 16, []string{"mrk", "mk", "mr"}},
	{42, "Luke", 24, []string{"luk", "lk"}},
	{43, "John", 21, []string{"jhn", "jn"}},
	{44, "Acts", 28, []string{"act", "ac"}},
	{45, "Romans", 16, []string{"rom", "rm"}},
	{46, "1 Corinthians", 16, []string{"1cor", "1co"}},
	{47, "2 Corinthians", 13, []string{"2cor", "2co"}},
	{48, "Galatians", 6, []string{"gal", "ga"}},
	{49, "Ephesians", 6, []string{"eph", "ephes"}},
	{50, "Philippians", 4, []string{"phil", "php", "pp"}},
	{51, "Colossians", 4, []string{"col", "co"}},
	{52, "1 Thessalonians", 5, []string{"1thess", "1th"}},
	{53, "2 Thessalonians", 3, []string{"2thess", "2th"}},
	{54, "1 Timothy", 6, []string{"1tim", "1ti"}},
	{55, "2 Timothy", 4, []string{"2tim", "2ti"}},
	{56, "Titus", 3, []string{"tit", "ti"}},
	{57, "Philemon", 1, []string{"phlm", "philem", "phm"}},
	{58, "Hebrews", 13, []string{"heb"}},
	{59, "James", 5, []string{"jas", "jm"}},
	{60, "1 Peter", 5, []string{"1pet", "1pe", "1pt"}},
	{61, "2 Peter", 3, []string{"2pet", "2pe", "2pt"}},
	{62, "1 John", 5, []string{"1jn", "1jhn", "1jo"}},
	{63, "2 John", 1, []string{"2jn", "2jhn", "2jo"}},
	{64, "3 John", 1, []string{"3jn", "3jhn", "3jo"}},
	{65, "Jude", 1, []string{"jud", "jd"}},
	{66, "Revelation", 22, []string{"rev", "re", "apocalypse"}},
}

// Books returns the canon in order.
func Books() []Book {
	out := make([]Book, len(canon))
	copy(out, canon)
	return out
}

// BookByNumber returns the book with the given canonical number.
func BookByNumber(n int) (Book, bool) {
	if n < 1 || n > len(canon) {
		return Book{}, false
	}
	return canon[n-1], true
}

func normName(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '.' || r == '\t' {
			return -1
		}
		return r
	}, s)
}

// LookupBook resolves a book name or abbreviation, e.g. "1 Cor", "Ps", "song of solomon".
// Exact names and aliases win; otherwise the input must be a prefix of exactly one name.
func LookupBook(name string) (Book, bool) {
	key := normName(name)
	if key == "" {
		return Book{}, false
	}
	for _, b := range canon {
		if normName(b.Name) == key {
			return b, true
		}
		for _, a := range b.aliases {
			if a == key {
				return b, true
			}
		}
	}
	var hit *Book
	for i := range canon {
		if strings.HasPrefix(normName(canon[i].Name), key) {
			if hit != nil {
				return Book{}, false
			}
			hit = &canon[i]
		}
	}
	if hit == nil {
		return Book{}, false
	}
	return *hit, true
}
