/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"

	"screenpress/internal/fonts"
	applog "screenpress/internal/log"
	"screenpress/internal/markup"
	"screenpress/internal/profile"
)

// ErrFinalized is returned when a document is output a second time.
var ErrFinalized = errors.New("document already finalized")

// ascent approximates the baseline offset of the script faces as a share of the font size.
const ascent = 0.8

// PDFWriter draws onto a gofpdf document. Units are inches, margins are zero
// and page breaks only happen through AddPage.
type PDFWriter struct {
	pdf       *gofpdf.Fpdf
	fonts     fonts.Set
	size      float64
	tr        func(string) string
	finalized bool
}

// NewPDFWriter creates a document sized to the profile with its first page.
// Faces that fail to register are replaced by the bundled set.
func NewPDFWriter(p *profile.Profile, set fonts.Set) (*PDFWriter, error) {
	pdf, err := newPDF(p, set)
	if err != nil {
		applog.WithComponent("export").Debug("font registration failed, using bundled family", "err", err)
		set = fonts.Bundled()
		if pdf, err = newPDF(p, set); err != nil {
			return nil, fmt.Errorf("create pdf: %w", err)
		}
	}
	w := &PDFWriter{pdf: pdf, fonts: set, size: p.FontSize}
	w.tr = pdf.UnicodeTranslatorFromDescriptor("")
	w.useFace(markup.Normal, false)
	pdf.AddPage()
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("create pdf: %w", err)
	}
	return w, nil
}

func newPDF(p *profile.Profile, set fonts.Set) (*gofpdf.Fpdf, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "in",
		Size:    gofpdf.SizeType{Wd: p.PageWidth, Ht: p.PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	// AddUTF8Font resolves paths against the font dir, so absolute paths are read here.
	for _, f := range set.Faces() {
		if !f.Embedded() {
			continue
		}
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", f.Path, err)
		}
		pdf.AddUTF8FontFromBytes(f.Family, f.Style, data)
	}
	return pdf, pdf.Error()
}

func (w *PDFWriter) useFace(f markup.Font, underline bool) fonts.Face {
	face := w.fonts.Face(f)
	style := face.Style
	if underline {
		style += "U"
	}
	w.pdf.SetFont(face.Family, style, w.size)
	return face
}

func (w *PDFWriter) encode(face fonts.Face, s string) string {
	if face.Embedded() {
		return s
	}
	return w.tr(s)
}

func (w *PDFWriter) SetFontSize(pt float64) {
	w.size = pt
	w.pdf.SetFontSize(pt)
}

func (w *PDFWriter) FontSize() float64   { return w.size }
func (w *PDFWriter) LineHeight() float64 { return w.size / 72 }

func (w *PDFWriter) WidthOfString(s string, f markup.Font) float64 {
	face := w.useFace(f, false)
	return w.pdf.GetStringWidth(w.encode(face, s))
}

func (w *PDFWriter) DrawText(s string, x, y float64, st TextStyle) {
	face := w.useFace(st.Font, st.Underline)
	txt := w.encode(face, s)
	w.pdf.SetTextColor(int(st.Color.R), int(st.Color.G), int(st.Color.B))
	w.pdf.Text(x, y+w.size/72*ascent, txt)
	if st.Link != "" {
		w.pdf.LinkString(x, y, w.pdf.GetStringWidth(txt), w.LineHeight(), st.Link)
	}
}

func (w *PDFWriter) Highlight(x, y, width, height float64, c RGB) {
	w.pdf.SetAlpha(1, "Multiply")
	w.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	w.pdf.Rect(x, y, width, height, "F")
	w.pdf.SetAlpha(1, "Normal")
}

func (w *PDFWriter) AddPage() { w.pdf.AddPage() }

func (w *PDFWriter) Bookmark(title string, level int, y float64) {
	w.pdf.Bookmark(title, level, y)
}

func (w *PDFWriter) RotateBegin(angle, x, y float64) {
	w.pdf.TransformBegin()
	w.pdf.TransformRotate(-angle, x, y)
}

func (w *PDFWriter) RotateEnd() { w.pdf.TransformEnd() }

func (w *PDFWriter) SetInfo(info Info) {
	w.pdf.SetTitle(info.Title, true)
	w.pdf.SetAuthor(info.Author, true)
	w.pdf.SetCreator(info.Creator, true)
}

// Output writes the finished document. It may be called once.
func (w *PDFWriter) Output(out io.Writer) error {
	if w.finalized {
		return ErrFinalized
	}
	w.finalized = true
	if err := w.pdf.Output(out); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
