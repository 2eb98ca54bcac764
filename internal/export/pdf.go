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
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
)

// PDFOptions controls PDF export behavior.
//
// Slides are placed one per page. Without Handout each page has the slide's aspect
// ratio (1px = 0.75pt) and the image fills it. With Handout pages are A4 portrait with
// the image at the top and the caption and text printed below it.
type PDFOptions struct {
	Handout bool
	Author  string
}

const pxToPt = 0.75

// WritePDF writes the deck to outPath.
func WritePDF(d Deck, outPath string, opt PDFOptions) error {
	if len(d.Slides) == 0 {
		return fmt.Errorf("deck has no slides")
	}
	var pdf *gofpdf.Fpdf
	pageW, pageH := float64(d.Canvas.Width)*pxToPt, float64(d.Canvas.Height)*pxToPt
	if opt.Handout {
		pdf = gofpdf.New("P", "pt", "A4", "")
	} else {
		pdf = gofpdf.NewCustom(&gofpdf.InitType{
			UnitStr: "pt",
			Size:    gofpdf.SizeType{Wd: pageW, Ht: pageH},
		})
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(d.Title, true)
	author := opt.Author
	if author == "" {
		author = "Versecast"
	}
	pdf.SetAuthor(author, true)
	pdf.SetAutoPageBreak(false, 0)

	for i, s := range d.Slides {
		data, err := encodePNG(s)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("slide-%d", i+1)
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(data))
		if !opt.Handout {
			pdf.AddPageFormat("", gofpdf.SizeType{Wd: pageW, Ht: pageH})
			pdf.ImageOptions(name, 0, 0, pageW, pageH, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
			continue
		}

		pdf.AddPage()
		const margin = 36.0
		w, _ := pdf.GetPageSize()
		imgW := w - 2*margin
		imgH := imgW * float64(d.Canvas.Height) / float64(d.Canvas.Width)
		pdf.ImageOptions(name, margin, margin, imgW, imgH, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.SetXY(margin, margin+imgH+18)
		pdf.SetFont("Helvetica", "B", 14)
		head := d.Title
		if s.Caption != "" && s.Caption != d.Title {
			head = fmt.Sprintf("%s (%s)", d.Title, s.Caption)
		}
		pdf.CellFormat(imgW, 18, tr(head), "", 1, "L", false, 0, "")
		pdf.SetX(margin)
		pdf.SetFont("Helvetica", "", 12)
		pdf.MultiCell(imgW, 16, tr(s.Text), "", "L", false)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(margin, pdf.GetY()+8)
		pdf.CellFormat(imgW, 12, fmt.Sprintf("%d / %d", i+1, len(d.Slides)), "", 0, "R", false, 0, "")
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
