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

	"screenpress/internal/markup"
	"screenpress/internal/profile"
)

// textProps are the explicit options of one text call.
type textProps struct {
	Color          string // base colour, black when empty
	Bold           bool   // force the bold face
	Highlight      bool
	HighlightColor RGB
	AsteriskMargin bool
	Width          float64 // box width for wrapping, zero for none
	Align          Align
}

// spanRenderer turns marked-up text into writer calls. It owns the
// formatting state that carries across calls within the main text flow.
type spanRenderer struct {
	w     DocumentWriter
	prof  *profile.Profile
	state markup.State
}

func (r *spanRenderer) options(p textProps) markup.Options {
	return markup.Options{
		BaseColor:  p.Color,
		NoteColor:  r.prof.Note.Color,
		NoteItalic: r.prof.Note.Italic,
		ForceBold:  p.Bold,
	}
}

// layout tokenizes text with the current state and places it at (x, y).
func (r *spanRenderer) layout(text string, x, y float64, p textProps) ([]piece, float64, error) {
	runs, err := r.state.Tokenize(text, r.options(p))
	if err != nil {
		return nil, 0, fmt.Errorf("tokenize %q: %w", text, err)
	}
	styles := make([]TextStyle, len(runs))
	for i, run := range runs {
		styles[i] = TextStyle{Font: run.Font, Color: hexOrBlack(run.Color), Underline: run.Underline, Link: run.Link}
	}
	pieces, h := flow(r.w, runs, styles, x, y, p.Width, r.w.LineHeight(), p.Align)
	return pieces, h, nil
}

// text draws marked-up text; formatting toggled but not closed carries over
// to the next call.
func (r *spanRenderer) text(text string, x, y float64, p textProps) error {
	if p.Highlight {
		width := r.w.WidthOfString(markup.Clear(text), markup.Normal)
		r.w.Highlight(x, y, width, r.w.LineHeight(), p.HighlightColor)
	}
	if p.AsteriskMargin {
		r.simple(" *", r.prof.PageWidth-r.prof.RightMargin, y)
	}
	pieces, _, err := r.layout(text, x, y, p)
	if err != nil {
		return err
	}
	for _, pc := range pieces {
		r.w.DrawText(pc.Text, pc.X, pc.Y, pc.Style)
	}
	return nil
}

// formatText draws text with a fresh formatting state and restores the
// ambient state afterwards.
func (r *spanRenderer) formatText(text string, x, y float64, p textProps) error {
	var err error
	r.state.Scoped(func() { err = r.text(text, x, y, p) })
	return err
}

// height measures text as formatText would lay it out.
func (r *spanRenderer) height(text string, width float64, align Align) (float64, error) {
	if text == "" {
		return 0, nil
	}
	var (
		h   float64
		err error
	)
	r.state.Scoped(func() {
		_, h, err = r.layout(text, 0, 0, textProps{Width: width, Align: align})
	})
	return h, err
}

// simple draws unformatted text in the regular face.
func (r *spanRenderer) simple(text string, x, y float64) {
	r.w.DrawText(text, x, y, TextStyle{Font: markup.Normal})
}
