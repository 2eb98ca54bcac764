/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package slidecache

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/anthonynsimon/bild/clone"
)

// Bitmap is a read-only rendered slide. It implements image.Image; use Clone for a
// mutable copy. A new Bitmap is produced for every render, so callers can detect
// invalidation by identity.
type Bitmap struct {
	img        *image.RGBA
	generation uint64
	index      int
	warnings   []error
}

func (b *Bitmap) ColorModel() color.Model { return b.img.ColorModel() }
func (b *Bitmap) Bounds() image.Rectangle { return b.img.Bounds() }
func (b *Bitmap) At(x, y int) color.Color { return b.img.At(x, y) }
func (b *Bitmap) RGBAAt(x, y int) color.RGBA { return b.img.RGBAAt(x, y) }

// Generation is the cache generation the bitmap was rendered for.
func (b *Bitmap) Generation() uint64 { return b.generation }

// Index is the slide index within its generation.
func (b *Bitmap) Index() int { return b.index }

// Warnings returns non-fatal render conditions, e.g. a font fallback.
func (b *Bitmap) Warnings() []error {
	out := make([]error, len(b.warnings))
	copy(out, b.warnings)
	return out
}

// Clone returns a private copy of the pixels.
func (b *Bitmap) Clone() *image.RGBA { return clone.AsRGBA(b.img) }

// EncodePNG writes the bitmap as PNG.
func (b *Bitmap) EncodePNG(w io.Writer) error { return png.Encode(w, b.img) }
