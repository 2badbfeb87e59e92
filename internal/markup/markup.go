/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package markup turns one line of screenplay text into styled text runs.
//
// Inline syntax: *italic*, **bold**, ***bold italic***, _underline_,
// [[note]] (note colour), \* and \_ for literal characters, and
// [visible text](url) links. Unmatched delimiters are not an error: the
// toggled state simply lasts until the next matching delimiter or the end
// of the call.
package markup

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Font is the face selected by the bold/italic flags.
type Font int

const (
	Normal Font = iota
	Bold
	Italic
	BoldItalic
)

func (f Font) String() string {
	switch f {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case BoldItalic:
		return "bolditalic"
	default:
		return "normal"
	}
}

// FontFor resolves the face for the given flags.
func FontFor(bold, italic bool) Font {
	switch {
	case bold && italic:
		return BoldItalic
	case bold:
		return Bold
	case italic:
		return Italic
	default:
		return Normal
	}
}

// State is the inline formatting state carried across tokens.
// It is owned by one renderer and threaded explicitly through Tokenize.
type State struct {
	Bold          bool
	Italic        bool
	Underline     bool
	OverrideColor string // note colour while inside [[ ]], empty otherwise
}

// Scoped runs fn with a reset state and restores the previous state afterwards.
func (s *State) Scoped(fn func()) {
	saved := *s
	*s = State{}
	defer func() { *s = saved }()
	fn()
}

// Run is a styled piece of text ready for the document writer.
type Run struct {
	Text      string
	Font      Font
	Underline bool
	Color     string
	Link      string // target url, empty when not a link
}

// Options are per-call inputs of Tokenize.
type Options struct {
	BaseColor  string // used when no note colour is active; defaults to black
	NoteColor  string // colour applied by [[; defaults to black
	NoteItalic bool   // render notes in italics
	ForceBold  bool   // select a bold face regardless of ** state
}

// ErrLinkRange reports a link offset that does not line up with the text it
// was recorded for. It signals a bug in the extractor, not bad input.
var ErrLinkRange = errors.New("link range mismatch")

var delimiterRe = regexp.MustCompile(`\\\*|\\_|\*{1,3}|_|\[\[|\]\]`)

type token struct {
	text  string
	start int // byte offset in the link-collapsed text
}

// Tokenize converts text into runs, updating s as delimiters toggle.
func (s *State) Tokenize(text string, opts Options) ([]Run, error) {
	base := opts.BaseColor
	if base == "" {
		base = "#000000"
	}
	if opts.NoteItalic {
		text = strings.ReplaceAll(text, "[[", "*[[")
		text = strings.ReplaceAll(text, "]]", "]]*")
	}
	text, links := ExtractLinks(text)
	segs, err := segments(text, links)
	if err != nil {
		return nil, err
	}

	var runs []Run
	for _, seg := range segs {
		for _, tk := range splitDelimiters(seg.text, seg.start) {
			switch tk.text {
			case "***":
				s.Bold = !s.Bold
				s.Italic = !s.Italic
			case "**":
				s.Bold = !s.Bold
			case "*":
				s.Italic = !s.Italic
			case "_":
				s.Underline = !s.Underline
			case "[[":
				s.OverrideColor = opts.NoteColor
				if s.OverrideColor == "" {
					s.OverrideColor = "#000000"
				}
			case "]]":
				s.OverrideColor = ""
			default:
				lit := tk.text
				if lit == `\*` || lit == `\_` {
					lit = lit[1:]
				}
				url := linkAt(links, tk.start, tk.start+len(tk.text))
				if seg.link != nil && url != seg.link.URL {
					return nil, fmt.Errorf("%w: token %q at %d outside link %+v", ErrLinkRange, tk.text, tk.start, *seg.link)
				}
				color := base
				if s.OverrideColor != "" {
					color = s.OverrideColor
				}
				runs = append(runs, Run{
					Text:      lit,
					Font:      FontFor(s.Bold || opts.ForceBold, s.Italic),
					Underline: url != "" || s.Underline,
					Color:     color,
					Link:      url,
				})
			}
		}
	}
	return runs, nil
}

// splitDelimiters splits text into delimiter and literal tokens, dropping empties.
func splitDelimiters(text string, offset int) []token {
	var out []token
	prev := 0
	for _, m := range delimiterRe.FindAllStringIndex(text, -1) {
		if m[0] > prev {
			out = append(out, token{text: text[prev:m[0]], start: offset + prev})
		}
		out = append(out, token{text: text[m[0]:m[1]], start: offset + m[0]})
		prev = m[1]
	}
	if prev < len(text) {
		out = append(out, token{text: text[prev:], start: offset + prev})
	}
	return out
}

// Clear removes the emphasis characters * and _.
func Clear(text string) string {
	return strings.NewReplacer("*", "", "_", "").Replace(text)
}

// VisibleLen is the character count of text without emphasis characters.
func VisibleLen(text string) int { return utf8.RuneCountInString(Clear(text)) }

// Inline joins multi-line text into one line.
func Inline(text string) string { return strings.ReplaceAll(text, "\n", " ") }
