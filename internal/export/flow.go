/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"strings"

	"screenpress/internal/markup"
)

// Align is the horizontal alignment inside a text box.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// measurer is the part of a DocumentWriter text flow needs.
type measurer interface {
	WidthOfString(s string, f markup.Font) float64
}

// piece is text placed on the page with a single style.
type piece struct {
	Text  string
	X, Y  float64
	Style TextStyle
}

type fragment struct {
	text  string
	style TextStyle
	width float64
	blank bool
}

type flowLine struct {
	frags []fragment
	soft  bool // started by wrapping rather than '\n'
}

func (l *flowLine) width() float64 {
	w := 0.0
	for _, f := range l.frags {
		w += f.width
	}
	return w
}

func (l *flowLine) trimTrailing() {
	for len(l.frags) > 0 && l.frags[len(l.frags)-1].blank {
		l.frags = l.frags[:len(l.frags)-1]
	}
}

func (l *flowLine) hasWord() bool {
	for _, f := range l.frags {
		if !f.blank {
			return true
		}
	}
	return false
}

// flow lays styled runs into a box starting at (x, y). A width of zero or
// less disables wrapping and alignment; '\n' always starts a new line.
// It returns the placed pieces and the height used.
func flow(m measurer, runs []markup.Run, styles []TextStyle, x, y, width, lineHeight float64, align Align) ([]piece, float64) {
	cur := &flowLine{}
	lines := []*flowLine{cur}
	next := func(soft bool) {
		cur.trimTrailing()
		cur = &flowLine{soft: soft}
		lines = append(lines, cur)
	}
	for i, r := range runs {
		st := styles[i]
		for _, tok := range splitWords(r.Text) {
			if tok == "\n" {
				next(false)
				continue
			}
			blank := strings.TrimLeft(tok, " \t") == ""
			if blank && cur.soft && len(cur.frags) == 0 {
				continue
			}
			w := m.WidthOfString(tok, st.Font)
			if !blank && width > 0 && cur.hasWord() && cur.width()+w > width+1e-9 {
				next(true)
			}
			cur.frags = append(cur.frags, fragment{text: tok, style: st, width: w, blank: blank})
		}
	}
	cur.trimTrailing()

	var out []piece
	for i, l := range lines {
		lx := x
		if width > 0 {
			switch align {
			case AlignCenter:
				lx += (width - l.width()) / 2
			case AlignRight:
				lx += width - l.width()
			}
		}
		out = append(out, merge(l.frags, lx, y+float64(i)*lineHeight)...)
	}
	return out, float64(len(lines)) * lineHeight
}

// merge joins neighbouring fragments of equal style into pieces.
func merge(frags []fragment, x, y float64) []piece {
	var out []piece
	for _, f := range frags {
		if n := len(out); n > 0 && out[n-1].Style == f.style {
			out[n-1].Text += f.text
		} else {
			out = append(out, piece{Text: f.text, X: x, Y: y, Style: f.style})
		}
		x += f.width
	}
	return out
}

// splitWords cuts s into words, blank runs and single newlines.
func splitWords(s string) []string {
	var out []string
	start := 0
	kind := func(c byte) int {
		switch c {
		case '\n':
			return 2
		case ' ', '\t':
			return 1
		default:
			return 0
		}
	}
	for i := 0; i < len(s); i++ {
		if i == start {
			continue
		}
		k := kind(s[i])
		if k != kind(s[start]) || k == 2 {
			out = append(out, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
