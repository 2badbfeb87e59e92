/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"math"
	"strings"
	"unicode/utf8"
)

// overlays draws the watermark, then header and footer.
func (e *engine) overlays(continuation string) error {
	if err := e.watermark(); err != nil {
		return err
	}
	return e.headerFooter(continuation)
}

// watermark draws the configured text diagonally across the page, sized to
// fill the diagonal.
func (e *engine) watermark() error {
	p := e.prof
	wm := strings.ReplaceAll(e.cfg.Watermark, "_", "")
	n := utf8.RuneCountInString(strings.ReplaceAll(wm, "*", ""))
	if n == 0 {
		return nil
	}
	angle := math.Atan(p.PageHeight/p.PageWidth) * 180 / math.Pi
	diagonal := math.Hypot(p.PageWidth, p.PageHeight) - 4
	size := 1.667 * diagonal / float64(n) * 72

	e.w.SetFontSize(size)
	e.w.RotateBegin(angle, 0, 0)
	err := e.span.formatText(wm, 2, -(size/2)/72, textProps{Color: watermarkColor})
	e.w.RotateEnd()
	e.w.SetFontSize(p.FontSize)
	return err
}

// headerFooter draws header and footer. A pending continuation header is
// reserved in front of the header unless the header is already indented far
// enough to clear it.
func (e *engine) headerFooter(continuation string) error {
	p := e.prof
	if h := e.cfg.Header; h != "" {
		n := utf8.RuneCountInString(continuation)
		offset := strings.Repeat(" ", n)
		if len(indentation(h)) >= n {
			offset = ""
		}
		if offset != "" {
			offset += " "
		}
		if err := e.span.formatText(offset+h, p.LeftMargin, p.PageNumberTopMargin-0.1, textProps{Color: headerColor}); err != nil {
			return err
		}
	}
	if f := e.cfg.Footer; f != "" {
		if err := e.span.formatText(f, p.LeftMargin, p.PageHeight-0.5, textProps{Color: headerColor}); err != nil {
			return err
		}
	}
	return nil
}

func indentation(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}
