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
	"io"
	"strings"
	"unicode/utf8"

	"screenpress/internal/markup"
)

// op is one recorded writer call.
type op struct {
	Kind  string // text, highlight, page, bookmark, rotate, unrotate, size
	Page  int
	Text  string
	X, Y  float64
	W, H  float64
	Level int
	Size  float64
	Style TextStyle
	Color RGB
}

// recorder is a DocumentWriter keeping every call. Glyphs are fixed pitch:
// one character is a tenth of an inch at 12pt.
type recorder struct {
	ops     []op
	page    int
	size    float64
	info    Info
	outputs int
}

func newRecorder() *recorder { return &recorder{page: 1, size: 12} }

func (r *recorder) SetFontSize(pt float64) {
	r.size = pt
	r.ops = append(r.ops, op{Kind: "size", Page: r.page, Size: pt})
}

func (r *recorder) FontSize() float64   { return r.size }
func (r *recorder) LineHeight() float64 { return r.size / 72 }

func (r *recorder) WidthOfString(s string, _ markup.Font) float64 {
	return float64(utf8.RuneCountInString(s)) * r.size / 120
}

func (r *recorder) DrawText(s string, x, y float64, st TextStyle) {
	r.ops = append(r.ops, op{Kind: "text", Page: r.page, Text: s, X: x, Y: y, Style: st, Size: r.size})
}

func (r *recorder) Highlight(x, y, w, h float64, c RGB) {
	r.ops = append(r.ops, op{Kind: "highlight", Page: r.page, X: x, Y: y, W: w, H: h, Color: c})
}

func (r *recorder) AddPage() {
	r.page++
	r.ops = append(r.ops, op{Kind: "page", Page: r.page})
}

func (r *recorder) Bookmark(title string, level int, y float64) {
	r.ops = append(r.ops, op{Kind: "bookmark", Page: r.page, Text: title, Level: level, Y: y})
}

func (r *recorder) RotateBegin(angle, x, y float64) {
	r.ops = append(r.ops, op{Kind: "rotate", Page: r.page, Size: angle, X: x, Y: y})
}

func (r *recorder) RotateEnd() { r.ops = append(r.ops, op{Kind: "unrotate", Page: r.page}) }

func (r *recorder) SetInfo(info Info) { r.info = info }

func (r *recorder) Output(w io.Writer) error {
	r.outputs++
	if r.outputs > 1 {
		return ErrFinalized
	}
	_, err := fmt.Fprintf(w, "%%PDF-recorded pages=%d", r.page)
	return err
}

func (r *recorder) kind(k string) []op {
	var out []op
	for _, o := range r.ops {
		if o.Kind == k {
			out = append(out, o)
		}
	}
	return out
}

// texts returns drawn strings on a page, or all pages when page is 0.
func (r *recorder) texts(page int) []op {
	var out []op
	for _, o := range r.kind("text") {
		if page == 0 || o.Page == page {
			out = append(out, o)
		}
	}
	return out
}

func (r *recorder) find(text string) (op, bool) {
	for _, o := range r.kind("text") {
		if o.Text == text {
			return o, true
		}
	}
	return op{}, false
}

// lineText joins the pieces drawn at one y on a page.
func (r *recorder) lineText(page int, y float64) string {
	var b strings.Builder
	for _, o := range r.texts(page) {
		if near(o.Y, y) {
			b.WriteString(o.Text)
		}
	}
	return b.String()
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}
