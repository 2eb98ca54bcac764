/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"errors"
	"testing"
)

func TestDefaultThemeIsValid(t *testing.T) {
	th := DefaultTheme()
	if err := th.Validate(); err != nil {
		t.Fatalf("default theme invalid: %v", err)
	}
	if th.Font.Size != 64 || th.HorizontalAlignment != AlignRight || th.Position != PositionBottom {
		t.Fatalf("unexpected defaults: %+v", th)
	}
	if th.Font.Color.Hex() != "#fbfbff" {
		t.Fatalf("expected #fbfbff, got %s", th.Font.Color.Hex())
	}
	if th.DropShadow.Enabled {
		t.Fatalf("shadow should be off by default")
	}
}

func TestThemeValidateRejectsBadFields(t *testing.T) {
	cases := map[string]func(*ThemeSpec){
		"font.size":             func(th *ThemeSpec) { th.Font.Size = 0 },
		"horizontalAlignment":   func(th *ThemeSpec) { th.HorizontalAlignment = "justify" },
		"position":              func(th *ThemeSpec) { th.Position = "" },
		"dropShadow.offsetX":    func(th *ThemeSpec) { th.DropShadow.OffsetX = -1 },
		"dropShadow.offsetY":    func(th *ThemeSpec) { th.DropShadow.OffsetY = -2 },
		"dropShadow.blurRadius": func(th *ThemeSpec) { th.DropShadow.BlurRadius = -3 },
	}
	for field, mutate := range cases {
		th := DefaultTheme()
		mutate(&th)
		err := th.Validate()
		var ite *InvalidThemeError
		if !errors.As(err, &ite) {
			t.Fatalf("%s: expected InvalidThemeError, got %v", field, err)
		}
		if ite.Field != field {
			t.Fatalf("expected field %s, got %s", field, ite.Field)
		}
	}
}

func TestNewThemeSpecValidates(t *testing.T) {
	if _, err := NewThemeSpec(FontSpec{Size: -5}, AlignLeft, PositionTop, DropShadowSpec{}); err == nil {
		t.Fatalf("expected error for negative size")
	}
	th, err := NewThemeSpec(FontSpec{Family: "Go", Size: 48}, AlignCenter, PositionMiddle, DropShadowSpec{Enabled: true, OffsetX: 2, OffsetY: 2, BlurRadius: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if th.HorizontalAlignment != AlignCenter || !th.DropShadow.Enabled {
		t.Fatalf("fields not carried: %+v", th)
	}
}

func TestThemeEquality(t *testing.T) {
	a := DefaultTheme()
	b := DefaultTheme()
	if a != b {
		t.Fatalf("identical themes should compare equal")
	}
	b.Font.Size *= 2
	if a == b {
		t.Fatalf("themes with different sizes should differ")
	}
	b = DefaultTheme()
	b.DropShadow.Color = Color{R: 1, A: 255}
	if a == b {
		t.Fatalf("themes with different shadow colours should differ")
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]Color{
		"#fbfbff":   {0xfb, 0xfb, 0xff, 0xff},
		"fff":       {0xff, 0xff, 0xff, 0xff},
		"#00000080": {0, 0, 0, 0x80},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if got != want {
			t.Fatalf("%s: got %+v want %+v", in, got, want)
		}
	}
	if _, err := ParseColor("#12345"); err == nil {
		t.Fatalf("expected error for 5 digit colour")
	}
	if _, err := ParseColor("#gggggg"); err == nil {
		t.Fatalf("expected error for non-hex colour")
	}
}

func TestDecodeThemeRoundTrip(t *testing.T) {
	th := DefaultTheme()
	th.HorizontalAlignment = AlignCenter
	th.DropShadow.Enabled = true
	data, err := EncodeTheme(th)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeTheme(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != th {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, th)
	}
}

func TestDecodeThemeSchemaErrors(t *testing.T) {
	docs := []string{
		`{"font":{"size":0},"horizontalAlignment":"left","position":"top"}`,
		`{"font":{"size":12},"horizontalAlignment":"justify","position":"top"}`,
		`{"font":{"size":12},"horizontalAlignment":"left","position":"top","dropShadow":{"offsetX":-1}}`,
		`{"font":{"size":12,"color":"blue"},"horizontalAlignment":"left","position":"top"}`,
	}
	for _, d := range docs {
		_, err := DecodeTheme([]byte(d))
		var ite *InvalidThemeError
		if !errors.As(err, &ite) {
			t.Fatalf("expected InvalidThemeError for %s, got %v", d, err)
		}
	}
}

func TestDecodeThemeFillsDefaults(t *testing.T) {
	got, err := DecodeTheme([]byte(`{"font":{"size":40},"horizontalAlignment":"left","position":"top"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Font.Family != DefaultFamily || got.Font.Size != 40 {
		t.Fatalf("unexpected font: %+v", got.Font)
	}
	if got.Font.Color != DefaultTheme().Font.Color {
		t.Fatalf("expected default colour, got %s", got.Font.Color.Hex())
	}
}
