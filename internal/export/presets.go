/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls batch export across multiple formats.
//
// Path semantics:
//   - An empty OutDir becomes the preset name.
//   - PNG files land in <OutDir>/png/<slug>/slide-NN.png.
//   - ZIP and PDF are single files named <slug>.zip / <slug>.pdf in <OutDir>/zip and <OutDir>/pdf.
type BatchOptions struct {
	Preset  PresetName
	Formats []string // allowed: png, zip, pdf; empty means preset defaults
	Handout *bool    // when set, overrides the preset's PDF layout
	OutDir  string
}

// BatchExport writes d in every requested format and returns the created paths.
func BatchExport(d Deck, opt BatchOptions) ([]string, error) {
	if len(d.Slides) == 0 {
		return nil, fmt.Errorf("deck has no slides")
	}
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	base := opt.OutDir
	if base == "" {
		base = string(opt.Preset)
		if base == "" {
			base = "export"
		}
	}
	handout := presetHandout(opt.Preset)
	if opt.Handout != nil {
		handout = *opt.Handout
	}
	slug := Slug(d.Title)

	var out []string
	for _, f := range formats {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "png":
			paths, err := WritePNGs(d, filepath.Join(base, "png", slug))
			if err != nil {
				return out, fmt.Errorf("png: %w", err)
			}
			out = append(out, paths...)
		case "zip":
			p, err := WriteZIP(d, filepath.Join(base, "zip", slug+".zip"))
			if err != nil {
				return out, fmt.Errorf("zip: %w", err)
			}
			out = append(out, p)
		case "pdf":
			p := filepath.Join(base, "pdf", slug+".pdf")
			if err := WritePDF(d, p, PDFOptions{Handout: handout}); err != nil {
				return out, fmt.Errorf("pdf: %w", err)
			}
			out = append(out, p)
		default:
			return out, fmt.Errorf("unknown format: %s", f)
		}
	}
	return out, nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"png", "zip"}
	case PresetPrint:
		return []string{"pdf"}
	default:
		return []string{"png"}
	}
}

func presetHandout(p PresetName) bool { return p == PresetPrint }
