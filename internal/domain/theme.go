/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// HorizontalAlignment places each line inside the usable width.
type HorizontalAlignment string

const (
	AlignLeft   HorizontalAlignment = "left"
	AlignCenter HorizontalAlignment = "center"
	AlignRight  HorizontalAlignment = "right"
)

// Valid reports whether a is one of the enumerated alignments.
func (a HorizontalAlignment) Valid() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight:
		return true
	}
	return false
}

// Position anchors the text block vertically.
type Position string

const (
	PositionTop    Position = "top"
	PositionMiddle Position = "middle"
	PositionBottom Position = "bottom"
)

func (p Position) Valid() bool {
	switch p {
	case PositionTop, PositionMiddle, PositionBottom:
		return true
	}
	return false
}

// Color is a non-premultiplied RGBA colour. In JSON and YAML it is written as
// "#rrggbb" or "#rrggbbaa".
type Color struct {
	R, G, B, A uint8
}

// ToNRGBA converts to the image/color representation used for drawing.
func (c Color) ToNRGBA() color.NRGBA { return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A} }

// Hex formats the colour, omitting alpha when fully opaque.
func (c Color) Hex() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor accepts "#rgb", "#rrggbb" and "#rrggbbaa" (the leading # is optional).
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("color %q: expected #rgb, #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// FontSpec describes the font used for slide text. Size is in pixels.
type FontSpec struct {
	Family string `json:"family" yaml:"family"`
	Size   int    `json:"size" yaml:"size"`
	Color  Color  `json:"color" yaml:"color"`
	Bold   bool   `json:"bold,omitempty" yaml:"bold"`
	Italic bool   `json:"italic,omitempty" yaml:"italic"`
}

// DropShadowSpec configures the shadow drawn beneath the text. Offsets and blur are pixels.
type DropShadowSpec struct {
	Enabled    bool  `json:"enabled" yaml:"enabled"`
	Color      Color `json:"color" yaml:"color"`
	OffsetX    int   `json:"offsetX" yaml:"offset_x"`
	OffsetY    int   `json:"offsetY" yaml:"offset_y"`
	BlurRadius int   `json:"blurRadius" yaml:"blur_radius"`
}

// ThemeSpec is the complete styling of a slide's text block. It is a comparable
// value type: two themes are equal iff all fields are equal, which is what the
// slide cache relies on for its key.
type ThemeSpec struct {
	Font                FontSpec            `json:"font" yaml:"font"`
	HorizontalAlignment HorizontalAlignment `json:"horizontalAlignment" yaml:"horizontal_alignment"`
	Position            Position            `json:"position" yaml:"position"`
	DropShadow          DropShadowSpec      `json:"dropShadow" yaml:"drop_shadow"`
	// ShowCaption draws the verse caption in the margin band opposite the text block.
	ShowCaption bool `json:"showCaption,omitempty" yaml:"show_caption"`
}

// DefaultFamily is the family rendered when no other font can be resolved.
const DefaultFamily = "Go"

// DefaultTheme returns the stock title style: near-white 64px text, right aligned
// at the bottom of the slide, no shadow.
func DefaultTheme() ThemeSpec {
	return ThemeSpec{
		Font: FontSpec{
			Family: DefaultFamily,
			Size:   64,
			Color:  Color{R: 0xfb, G: 0xfb, B: 0xff, A: 0xff},
		},
		HorizontalAlignment: AlignRight,
		Position:            PositionBottom,
		DropShadow: DropShadowSpec{
			Enabled:    false,
			Color:      Color{A: 0xff},
			OffsetX:    4,
			OffsetY:    4,
			BlurRadius: 3,
		},
	}
}

// NewThemeSpec validates the parts and assembles a theme.
func NewThemeSpec(font FontSpec, align HorizontalAlignment, pos Position, shadow DropShadowSpec) (ThemeSpec, error) {
	t := ThemeSpec{Font: font, HorizontalAlignment: align, Position: pos, DropShadow: shadow}
	if err := t.Validate(); err != nil {
		return ThemeSpec{}, err
	}
	return t, nil
}

// Validate returns an *InvalidThemeError for the first malformed field.
func (t ThemeSpec) Validate() error {
	if t.Font.Size <= 0 {
		return &InvalidThemeError{Field: "font.size", Reason: fmt.Sprintf("must be positive, got %d", t.Font.Size)}
	}
	if !t.HorizontalAlignment.Valid() {
		return &InvalidThemeError{Field: "horizontalAlignment", Reason: fmt.Sprintf("unknown value %q", t.HorizontalAlignment)}
	}
	if !t.Position.Valid() {
		return &InvalidThemeError{Field: "position", Reason: fmt.Sprintf("unknown value %q", t.Position)}
	}
	ds := t.DropShadow
	if ds.OffsetX < 0 {
		return &InvalidThemeError{Field: "dropShadow.offsetX", Reason: "must not be negative"}
	}
	if ds.OffsetY < 0 {
		return &InvalidThemeError{Field: "dropShadow.offsetY", Reason: "must not be negative"}
	}
	if ds.BlurRadius < 0 {
		return &InvalidThemeError{Field: "dropShadow.blurRadius", Reason: "must not be negative"}
	}
	return nil
}
