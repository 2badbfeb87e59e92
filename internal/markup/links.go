/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package markup

import (
	"fmt"
	"regexp"
)

// Link is a link recorded against the collapsed text: Start and Length are
// byte offsets of the visible text.
type Link struct {
	Start  int
	Length int
	URL    string
}

// [visible](url) with an optional quoted title.
var linkRe = regexp.MustCompile(`\[([^\[\]]*)\]\((\S+?)(?:\s+["'][^"']*["'])?\)`)

// ExtractLinks replaces every link with its visible text and returns the
// collapsed text together with the recorded link ranges in order.
func ExtractLinks(text string) (string, []Link) {
	var links []Link
	pos := 0
	for pos <= len(text) {
		m := linkRe.FindStringSubmatchIndex(text[pos:])
		if m == nil {
			break
		}
		start, end := pos+m[0], pos+m[1]
		visible := text[pos+m[2] : pos+m[3]]
		url := text[pos+m[4] : pos+m[5]]
		links = append(links, Link{Start: start, Length: len(visible), URL: url})
		text = text[:start] + visible + text[end:]
		pos = start + len(visible)
	}
	return text, links
}

type segment struct {
	text  string
	start int
	link  *Link
}

// segments splits text into alternating plain and link pieces.
func segments(text string, links []Link) ([]segment, error) {
	var out []segment
	prev := 0
	for i := range links {
		l := &links[i]
		if l.Start < prev || l.Start+l.Length > len(text) {
			return nil, fmt.Errorf("%w: %+v in %d bytes after offset %d", ErrLinkRange, *l, len(text), prev)
		}
		if l.Start > prev {
			out = append(out, segment{text: text[prev:l.Start], start: prev})
		}
		if l.Length > 0 {
			out = append(out, segment{text: text[l.Start : l.Start+l.Length], start: l.Start, link: l})
		}
		prev = l.Start + l.Length
	}
	if prev < len(text) {
		out = append(out, segment{text: text[prev:], start: prev})
	}
	return out, nil
}

// linkAt returns the url of the link intersecting [start, end).
func linkAt(links []Link, start, end int) string {
	for _, l := range links {
		if start < l.Start+l.Length && l.Start < end {
			return l.URL
		}
	}
	return ""
}
