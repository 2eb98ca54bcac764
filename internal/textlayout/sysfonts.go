/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	applog "versecast/internal/log"
)

const indexKey = "index"

// SystemFonts resolves family names against font files installed on the host.
// The directory scan and parsed fonts are kept in a TTL cache so that fonts
// installed while the application runs are picked up after expiry.
type SystemFonts struct {
	Dirs  []string
	cache *gocache.Cache
	mu    sync.Mutex // serializes rescans
	log   *slog.Logger
}

// NewSystemFonts indexes the given directories lazily. ttl <= 0 means ten minutes.
func NewSystemFonts(dirs []string, ttl time.Duration) *SystemFonts {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SystemFonts{
		Dirs:  dirs,
		cache: gocache.New(ttl, 2*ttl),
		log:   applog.WithComponent("fonts"),
	}
}

// DefaultFontDirs returns the usual font directories of the host platform.
func DefaultFontDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		dirs := []string{filepath.Join(os.Getenv("WINDIR"), "Fonts")}
		if la := os.Getenv("LOCALAPPDATA"); la != "" {
			dirs = append(dirs, filepath.Join(la, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	case "darwin":
		return []string{"/System/Library/Fonts", "/Library/Fonts", filepath.Join(home, "Library", "Fonts")}
	default:
		return []string{"/usr/share/fonts", "/usr/local/share/fonts", filepath.Join(home, ".local", "share", "fonts"), filepath.Join(home, ".fonts")}
	}
}

// Find returns the best installed match for family or nil. Style matching
// falls back to the regular face, then to any face of the family.
func (s *SystemFonts) Find(family string, bold, italic bool) *opentype.Font {
	if s == nil {
		return nil
	}
	idx := s.index()
	for _, k := range []fontKey{keyFor(family, bold, italic), keyFor(family, false, false)} {
		if p, ok := idx[k]; ok {
			return s.load(p)
		}
	}
	want := keyFor(family, false, false).family
	for k, p := range idx {
		if k.family == want {
			return s.load(p)
		}
	}
	return nil
}

// Invalidate drops the index and parsed fonts.
func (s *SystemFonts) Invalidate() { s.cache.Flush() }

func (s *SystemFonts) index() map[fontKey]string {
	if v, ok := s.cache.Get(indexKey); ok {
		return v.(map[fontKey]string)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.cache.Get(indexKey); ok {
		return v.(map[fontKey]string)
	}
	start := time.Now()
	idx := map[fontKey]string{}
	var buf sfnt.Buffer
	for _, dir := range s.Dirs {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// unreadable or missing directories are skipped
				return nil
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".ttf" && ext != ".otf" {
				return nil
			}
			f := s.parse(path, false)
			if f == nil {
				return nil
			}
			family, style := names(f, &buf)
			if family == "" {
				return nil
			}
			ls := strings.ToLower(style)
			k := keyFor(family, strings.Contains(ls, "bold"), strings.Contains(ls, "italic") || strings.Contains(ls, "oblique"))
			if _, dup := idx[k]; !dup {
				idx[k] = path
			}
			return nil
		})
	}
	s.cache.Set(indexKey, idx, gocache.DefaultExpiration)
	s.log.Debug("font index built", slog.Int("faces", len(idx)), slog.Duration("took", time.Since(start)))
	return idx
}

func names(f *opentype.Font, buf *sfnt.Buffer) (family, style string) {
	family, _ = f.Name(buf, sfnt.NameIDTypographicFamily)
	if family == "" {
		family, _ = f.Name(buf, sfnt.NameIDFamily)
	}
	style, _ = f.Name(buf, sfnt.NameIDTypographicSubfamily)
	if style == "" {
		style, _ = f.Name(buf, sfnt.NameIDSubfamily)
	}
	return family, style
}

func (s *SystemFonts) load(path string) *opentype.Font {
	if v, ok := s.cache.Get("font:" + path); ok {
		return v.(*opentype.Font)
	}
	return s.parse(path, true)
}

// parse reads a font file; keep stores the result in the cache. The index scan passes false.
func (s *SystemFonts) parse(path string, keep bool) *opentype.Font {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	f, err := opentype.Parse(data)
	if err != nil {
		s.log.Debug("skip unparsable font", slog.String("path", path), slog.Any("err", err))
		return nil
	}
	if keep {
		s.cache.Set("font:"+path, f, gocache.DefaultExpiration)
	}
	return f
}
