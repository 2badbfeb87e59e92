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

	"screenpress/internal/domain"
	"screenpress/internal/markup"
)

const titleJoin = "\n\n"

type titleRegion struct {
	slot  domain.TitleSlot
	x     float64
	width float64
	align Align
}

// titlePage lays out the six title regions. Top regions share the writable
// width in thirds, bottom regions in halves, and the centre block sits
// midway between the tallest top and the tallest bottom region.
func (e *engine) titlePage(tp domain.TitlePage) error {
	p := e.prof
	innerW := p.PageWidth - 2*p.RightMargin
	innerH := p.PageHeight - p.TopMargin
	third, half := innerW/3, innerW/2

	top := []titleRegion{
		{domain.TopLeft, p.RightMargin, third, AlignLeft},
		{domain.TopCenter, p.RightMargin + third, third, AlignCenter},
		{domain.TopRight, p.RightMargin + 2*third, third, AlignRight},
	}
	bottom := []titleRegion{
		{domain.BottomLeft, p.RightMargin, half, AlignLeft},
		{domain.BottomRight, p.RightMargin + half, half, AlignRight},
	}

	var topH, bottomH float64
	for _, r := range top {
		txt := titleText(tp, r.slot)
		h, err := e.span.height(txt, r.width, r.align)
		if err != nil {
			return err
		}
		topH = math.Max(topH, h)
		if err := e.titleBlock(txt, r, p.TopMargin); err != nil {
			return err
		}
	}
	for _, r := range bottom {
		txt := titleText(tp, r.slot)
		h, err := e.span.height(txt, r.width, r.align)
		if err != nil {
			return err
		}
		bottomH = math.Max(bottomH, h)
		if err := e.titleBlock(txt, r, innerH-h); err != nil {
			return err
		}
	}

	center := titleRegion{domain.Center, p.RightMargin, innerW, AlignCenter}
	txt := titleText(tp, center.slot)
	h, err := e.span.height(txt, center.width, center.align)
	if err != nil {
		return err
	}
	return e.titleBlock(txt, center, (innerH-topH-bottomH)/2-h/2)
}

func (e *engine) titleBlock(txt string, r titleRegion, y float64) error {
	if txt == "" {
		return nil
	}
	return e.span.text(txt, r.x, y, textProps{Width: r.width, Align: r.align})
}

// titleText joins the slot's entries in index order.
func titleText(tp domain.TitlePage, slot domain.TitleSlot) string {
	entries := tp.Sorted(slot)
	texts := make([]string, len(entries))
	for i, en := range entries {
		texts[i] = en.Text
	}
	return strings.Join(texts, titleJoin)
}

// documentInfo takes title and author from the title page.
func documentInfo(tp domain.TitlePage) Info {
	info := Info{Creator: "screenpress"}
	if t, ok := tp.Find("title"); ok {
		info.Title = markup.Clear(markup.Inline(t.Text))
	}
	a, ok := tp.Find("author")
	if !ok {
		a, ok = tp.Find("authors")
	}
	if ok {
		info.Author = markup.Clear(markup.Inline(a.Text))
	}
	return info
}
