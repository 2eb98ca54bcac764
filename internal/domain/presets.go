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
	"strings"
)

// Preset is a named display canvas.
type Preset struct {
	Name   string
	Canvas CanvasSize
}

var presets = []Preset{
	{Name: "720p", Canvas: CanvasSize{Width: 1280, Height: 720}},
	{Name: "1080p", Canvas: CanvasSize{Width: 1920, Height: 1080}},
	{Name: "4k", Canvas: CanvasSize{Width: 3840, Height: 2160}},
}

// Presets lists the built-in display presets, smallest first.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetByName finds a preset case-insensitively ("4K", "1080p").
func PresetByName(name string) (Preset, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, p := range presets {
		if p.Name == n {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown display preset %q", name)
}
