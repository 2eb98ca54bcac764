/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"versecast/internal/domain"
)

// FontLibrary stores parsed OpenType fonts mapped by family/bold/italic.
// Parsed fonts are safe for concurrent use; faces created from them are not.
type FontLibrary struct {
	mu    sync.RWMutex
	fonts map[fontKey]*opentype.Font
}

type fontKey struct {
	family string
	bold   bool
	italic bool
}

func keyFor(family string, bold, italic bool) fontKey {
	return fontKey{family: strings.ToLower(strings.TrimSpace(family)), bold: bold, italic: italic}
}

func NewFontLibrary() *FontLibrary { return &FontLibrary{fonts: make(map[fontKey]*opentype.Font)} }

// NewDefaultLibrary returns a library preloaded with the embedded Go fonts under
// the families "Go" and "Go Mono".
func NewDefaultLibrary() *FontLibrary {
	fl := NewFontLibrary()
	builtin := []struct {
		family       string
		bold, italic bool
		data         []byte
	}{
		{domain.DefaultFamily, false, false, goregular.TTF},
		{domain.DefaultFamily, true, false, gobold.TTF},
		{domain.DefaultFamily, false, true, goitalic.TTF},
		{domain.DefaultFamily, true, true, gobolditalic.TTF},
		{"Go Mono", false, false, gomono.TTF},
	}
	for _, b := range builtin {
		// embedded fonts always parse
		_ = fl.LoadBytes(b.family, b.bold, b.italic, b.data)
	}
	return fl
}

// LoadTTF loads a font file into the library under the given family/bold/italic.
func (fl *FontLibrary) LoadTTF(family string, bold, italic bool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	if err := fl.LoadBytes(family, bold, italic, data); err != nil {
		return fmt.Errorf("font %s: %w", path, err)
	}
	return nil
}

// LoadBytes parses TTF/OTF data and registers it.
func (fl *FontLibrary) LoadBytes(family string, bold, italic bool, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.fonts == nil {
		fl.fonts = make(map[fontKey]*opentype.Font)
	}
	fl.fonts[keyFor(family, bold, italic)] = f
	return nil
}

// Families lists the registered family names (lower-cased), unordered.
func (fl *FontLibrary) Families() []string {
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	seen := map[string]struct{}{}
	var out []string
	for k := range fl.fonts {
		if _, ok := seen[k.family]; !ok {
			seen[k.family] = struct{}{}
			out = append(out, k.family)
		}
	}
	return out
}

func (fl *FontLibrary) find(family string, bold, italic bool) *opentype.Font {
	if fl == nil {
		return nil
	}
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	// Exact match first
	if f, ok := fl.fonts[keyFor(family, bold, italic)]; ok {
		return f
	}
	// Same family, regular style, then any style of the family.
	if f, ok := fl.fonts[keyFor(family, false, false)]; ok {
		return f
	}
	want := keyFor(family, false, false).family
	for k, f := range fl.fonts {
		if k.family == want {
			return f
		}
	}
	return nil
}

// OTProvider resolves FontSpecs from a FontLibrary, then from the host's installed
// fonts, and finally falls back to the Go font with a FontFallbackWarning.
type OTProvider struct {
	Lib    *FontLibrary
	System *SystemFonts // optional
	DPI    float64      // default 72 if zero, which makes Size pixels
}

// NewProvider returns a provider backed by the embedded Go fonts and the given system index.
func NewProvider(sys *SystemFonts) *OTProvider {
	return &OTProvider{Lib: NewDefaultLibrary(), System: sys}
}

var (
	defaultFontOnce sync.Once
	defaultFont     *opentype.Font
)

func goRegular() *opentype.Font {
	defaultFontOnce.Do(func() {
		defaultFont, _ = opentype.Parse(goregular.TTF)
	})
	return defaultFont
}

func (p *OTProvider) Resolve(spec domain.FontSpec) Resolution {
	size := spec.Size
	if size <= 0 {
		size = domain.DefaultTheme().Font.Size
	}
	family := spec.Family
	if strings.TrimSpace(family) == "" {
		family = domain.DefaultFamily
	}

	f := p.Lib.find(family, spec.Bold, spec.Italic)
	if f == nil && p.System != nil {
		f = p.System.Find(family, spec.Bold, spec.Italic)
	}
	var warn *domain.FontFallbackWarning
	used := family
	if f == nil {
		used = domain.DefaultFamily
		warn = &domain.FontFallbackWarning{Requested: family, Used: used}
		f = p.Lib.find(used, spec.Bold, spec.Italic)
		if f == nil {
			f = goRegular()
		}
	}
	face, err := p.newFace(f, size)
	if err != nil {
		// A parsed font that cannot produce a face is treated like a missing one.
		used = domain.DefaultFamily
		warn = &domain.FontFallbackWarning{Requested: family, Used: used}
		face, _ = p.newFace(goRegular(), size)
	}
	return Resolution{Face: face, Metrics: metricsOf(face), Family: used, Fallback: warn}
}

func (p *OTProvider) newFace(f *opentype.Font, size int) (font.Face, error) {
	dpi := p.DPI
	if dpi <= 0 {
		dpi = 72
	}
	return opentype.NewFace(f, &opentype.FaceOptions{Size: float64(size), DPI: dpi, Hinting: font.HintingFull})
}
