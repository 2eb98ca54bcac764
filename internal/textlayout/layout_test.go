/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/goregular"

	"versecast/internal/domain"
)

func TestUsableRect(t *testing.T) {
	r := UsableRect(domain.CanvasSize{Width: 1920, Height: 1080})
	if r.Min.X != SideMargin || r.Max.X != 1920-SideMargin {
		t.Fatalf("unexpected horizontal bounds: %v", r)
	}
	if r.Min.Y != TopMargin || r.Max.Y != 1080-BottomMargin {
		t.Fatalf("unexpected vertical bounds: %v", r)
	}
	tiny := UsableRect(domain.CanvasSize{Width: 100, Height: 100})
	if tiny.Dx() < 1 || tiny.Dy() < 1 {
		t.Fatalf("expected at least 1px usable area, got %v", tiny)
	}
}

func TestBasicProviderIsFixedWidth(t *testing.T) {
	res := BasicProvider{}.Resolve(domain.FontSpec{})
	if a := Advance(res.Face, "ABCD"); a != 4*7 {
		t.Fatalf("expected 28px, got %d", a)
	}
	if res.Metrics.LineHeight() <= 0 {
		t.Fatalf("expected positive line height: %+v", res.Metrics)
	}
}

func TestOTProviderResolvesBuiltinGo(t *testing.T) {
	p := NewProvider(nil)
	res := p.Resolve(domain.FontSpec{Family: "Go", Size: 64})
	if res.Fallback != nil {
		t.Fatalf("unexpected fallback: %v", res.Fallback)
	}
	if res.Metrics.LineHeight() < 64 {
		t.Fatalf("line height should be at least the pixel size, got %d", res.Metrics.LineHeight())
	}
	small := p.Resolve(domain.FontSpec{Family: "go", Size: 32})
	if Advance(small.Face, "Hello") >= Advance(res.Face, "Hello") {
		t.Fatalf("smaller size should measure narrower")
	}
}

func TestOTProviderFallbackWarning(t *testing.T) {
	p := NewProvider(NewSystemFonts([]string{t.TempDir()}, time.Minute))
	res := p.Resolve(domain.FontSpec{Family: "Nonexistent Sans", Size: 24})
	if res.Fallback == nil {
		t.Fatalf("expected fallback warning")
	}
	if res.Fallback.Requested != "Nonexistent Sans" || res.Fallback.Used != domain.DefaultFamily {
		t.Fatalf("unexpected warning: %+v", res.Fallback)
	}
	if Advance(res.Face, "Hello") <= 0 {
		t.Fatalf("fallback face should still measure text")
	}
}

func TestOTProviderNilLibrary(t *testing.T) {
	p := &OTProvider{}
	res := p.Resolve(domain.FontSpec{Size: 20})
	if res.Face == nil || res.Fallback == nil {
		t.Fatalf("expected fallback face with warning, got %+v", res)
	}
}

func TestFontLibraryStyleFallback(t *testing.T) {
	fl := NewFontLibrary()
	if err := fl.LoadBytes("Body", false, false, goregular.TTF); err != nil {
		t.Fatalf("load: %v", err)
	}
	if fl.find("body", true, true) == nil {
		t.Fatalf("expected bold italic request to fall back to the regular face")
	}
	if fl.find("Other", false, false) != nil {
		t.Fatalf("unknown family should not resolve")
	}
	if err := fl.LoadBytes("Broken", false, false, []byte("not a font")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFontLibraryLoadTTF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "body.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fl := NewFontLibrary()
	if err := fl.LoadTTF("Body", false, false, path); err != nil {
		t.Fatalf("LoadTTF: %v", err)
	}
	if err := fl.LoadTTF("Missing", false, false, filepath.Join(dir, "nope.ttf")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if len(fl.Families()) != 1 {
		t.Fatalf("expected one family, got %v", fl.Families())
	}
}

func TestSystemFontsIndexesDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "GoRegular.ttf"), goregular.TTF, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	sys := NewSystemFonts([]string{dir, filepath.Join(dir, "missing")}, time.Minute)
	// The embedded Go Regular names its family "Go".
	if sys.Find("Go", false, false) == nil {
		t.Fatalf("expected installed Go font to be found")
	}
	if sys.Find("Nope", false, false) != nil {
		t.Fatalf("unexpected match")
	}
	p := &OTProvider{Lib: NewFontLibrary(), System: sys}
	if res := p.Resolve(domain.FontSpec{Family: "Go", Size: 16}); res.Fallback != nil {
		t.Fatalf("system font should resolve without fallback: %v", res.Fallback)
	}
}

func TestResolveConcurrent(t *testing.T) {
	p := NewProvider(nil)
	var wg sync.WaitGroup
	widths := make([]int, 8)
	for i := range widths {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res := p.Resolve(domain.FontSpec{Family: "Go", Size: 40})
			widths[i] = Advance(res.Face, "For God so loved the world")
		}(i)
	}
	wg.Wait()
	for _, w := range widths[1:] {
		if w != widths[0] {
			t.Fatalf("concurrent measurements disagree: %v", widths)
		}
	}
}

func TestBlockSize(t *testing.T) {
	res := BasicProvider{}.Resolve(domain.FontSpec{})
	w, h := BlockSize(res, []string{"ab", "abcd"})
	if w != 28 || h != 2*res.Metrics.LineHeight() {
		t.Fatalf("unexpected block %dx%d", w, h)
	}
}
