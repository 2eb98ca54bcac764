/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	applog "versecast/internal/log"
)

// WritePNGs writes each slide to outDir as slide-NN.png and returns the paths in order.
func WritePNGs(d Deck, outDir string) ([]string, error) {
	l := applog.WithOperation(applog.WithComponent("export"), "png")
	if len(d.Slides) == 0 {
		return nil, fmt.Errorf("deck has no slides")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure out dir: %w", err)
	}
	paths := make([]string, 0, len(d.Slides))
	for i, s := range d.Slides {
		data, err := encodePNG(s)
		if err != nil {
			return nil, err
		}
		name := filepath.Join(outDir, slideName(i, len(d.Slides)))
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return nil, fmt.Errorf("write png: %w", err)
		}
		paths = append(paths, name)
	}
	l.Info("slides written", slog.Int("count", len(paths)), slog.String("dir", outDir))
	return paths, nil
}

func encodePNG(s Slide) ([]byte, error) {
	if s.Image == nil {
		return nil, fmt.Errorf("slide %d has no image", s.Index+1)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.Image); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
