/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the parsed screenplay model consumed by the renderer.
// The markup parser is an external collaborator; it hands over an ordered
// line stream (already wrapped to column widths) plus the title page slots.

import (
	"sort"
)

// LineType is the kind of a printable line.
type LineType string

const (
	SceneHeading  LineType = "scene_heading"
	Action        LineType = "action"
	Character     LineType = "character"
	Parenthetical LineType = "parenthetical"
	Dialogue      LineType = "dialogue"
	Transition    LineType = "transition"
	Centered      LineType = "centered"
	Section       LineType = "section"
	Synopsis      LineType = "synopsis"
	Separator     LineType = "separator"
	PageBreak     LineType = "page_break"
)

// Token references the source token a line was produced from.
// Several lines may share one *Token: a section wrapped over a page break
// repeats the same token, and the renderer compares tokens by identity.
type Token struct {
	// ID identifies the token across lines in the serialized form; lines with
	// the same non-zero ID share one *Token after decoding.
	ID           int     `json:"id,omitempty"`
	Line         int     `json:"line,omitempty"`          // source line number, diagnostics key
	OriginalLine int     `json:"original_line,omitempty"` // line number before edits, for change highlighting
	Time         float64 `json:"time,omitempty"`          // estimated seconds
	Dual         bool    `json:"dual,omitempty"`

	// Section tokens carry their own title and 1-based nesting level.
	Text  string `json:"text,omitempty"`
	Level int    `json:"level,omitempty"`

	InvisibleSections []*Token `json:"invisibleSections,omitempty"`
}

// Line is one printable row (or a page break / separator event).
type Line struct {
	Type        LineType `json:"type"`
	Text        string   `json:"text"`
	Token       *Token   `json:"token,omitempty"`
	RightColumn []Line   `json:"right_column,omitempty"`
	Number      string   `json:"number,omitempty"`
	LineDiff    int      `json:"linediff,omitempty"`
	SceneSplit  bool     `json:"scene_split,omitempty"`
}

// TitleSlot names one of the six title page regions.
type TitleSlot string

const (
	TopLeft     TitleSlot = "tl"
	TopCenter   TitleSlot = "tc"
	TopRight    TitleSlot = "tr"
	BottomLeft  TitleSlot = "bl"
	BottomRight TitleSlot = "br"
	Center      TitleSlot = "cc"
)

// TitleSlots lists the regions in a fixed order.
var TitleSlots = []TitleSlot{TopLeft, TopCenter, TopRight, BottomLeft, BottomRight, Center}

// TitleEntry is a title page key/value in source order.
type TitleEntry struct {
	Type  string `json:"type"` // title, credit, author, source, draft_date, contact ...
	Text  string `json:"text"`
	Index int    `json:"index"`
}

// TitlePage holds the entries of every region.
type TitlePage map[TitleSlot][]TitleEntry

// Sorted returns a copy of the slot's entries ordered by ascending Index.
func (tp TitlePage) Sorted(slot TitleSlot) []TitleEntry {
	out := append([]TitleEntry(nil), tp[slot]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Find returns the last entry of the given type, scanning slots in TitleSlots order.
func (tp TitlePage) Find(typ string) (TitleEntry, bool) {
	var (
		found TitleEntry
		ok    bool
	)
	for _, slot := range TitleSlots {
		for _, e := range tp[slot] {
			if e.Type == typ {
				found, ok = e, true
			}
		}
	}
	return found, ok
}

// Empty reports whether no slot holds any entry.
func (tp TitlePage) Empty() bool {
	for _, entries := range tp {
		if len(entries) > 0 {
			return false
		}
	}
	return true
}

// Document is the parser output the renderer consumes.
type Document struct {
	TitlePage TitlePage `json:"title_page,omitempty"`
	Lines     []Line    `json:"lines"`
}
