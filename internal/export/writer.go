/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"io"

	"screenpress/internal/markup"
)

// TextStyle is the style of one drawn piece of text.
type TextStyle struct {
	Font      markup.Font
	Color     RGB
	Underline bool
	Link      string
}

// Info is the document metadata written on finalize.
type Info struct {
	Title   string
	Author  string
	Creator string
}

// DocumentWriter is the drawing surface the engine renders onto.
//
// Coordinates are inches from the top-left corner of the current page and y
// is the top of the text line. A new writer already has its first page.
// Calls must come in document order and Output is valid exactly once.
type DocumentWriter interface {
	SetFontSize(pt float64)
	FontSize() float64
	// LineHeight is the advance of one text line at the current size, in inches.
	LineHeight() float64
	WidthOfString(s string, f markup.Font) float64
	DrawText(s string, x, y float64, st TextStyle)
	Highlight(x, y, w, h float64, c RGB)
	AddPage()
	// Bookmark adds an outline entry at level (0 is top) pointing at y on the current page.
	Bookmark(title string, level int, y float64)
	// RotateBegin rotates following drawing clockwise by angle degrees around (x, y).
	RotateBegin(angle, x, y float64)
	RotateEnd()
	SetInfo(info Info)
	Output(w io.Writer) error
}
