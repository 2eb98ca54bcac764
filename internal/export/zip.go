/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ManifestName is the JSON index stored next to the images in a deck archive.
const ManifestName = "manifest.json"

// Manifest describes the archive content.
type Manifest struct {
	Title  string          `json:"title"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Slides []ManifestSlide `json:"slides"`
}

type ManifestSlide struct {
	File    string `json:"file"`
	Caption string `json:"caption,omitempty"`
	Text    string `json:"text"`
}

// WriteZIP packages the slides as PNG images plus a manifest into one archive.
// A missing .zip extension is added; the final path is returned.
func WriteZIP(d Deck, outPath string) (string, error) {
	if len(d.Slides) == 0 {
		return "", fmt.Errorf("deck has no slides")
	}
	if !strings.HasSuffix(strings.ToLower(outPath), ".zip") {
		outPath += ".zip"
	}
	zw, f, err := createZip(outPath)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	man := Manifest{Title: d.Title, Width: d.Canvas.Width, Height: d.Canvas.Height}
	for i, s := range d.Slides {
		data, err := encodePNG(s)
		if err != nil {
			return "", err
		}
		name := slideName(i, len(d.Slides))
		if err := addZipFile(zw, name, data); err != nil {
			return "", fmt.Errorf("zip add image: %w", err)
		}
		man.Slides = append(man.Slides, ManifestSlide{File: name, Caption: s.Caption, Text: s.Text})
	}
	mb, err := json.MarshalIndent(man, "", "  ")
	if err != nil {
		return "", fmt.Errorf("build manifest: %w", err)
	}
	if err := addZipFile(zw, ManifestName, mb); err != nil {
		return "", fmt.Errorf("zip add manifest: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("close zip: %w", err)
	}
	return outPath, nil
}

func createZip(outPath string) (*zip.Writer, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, fmt.Errorf("create zip: %w", err)
	}
	return zip.NewWriter(f), f, nil
}

func addZipFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
