/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"strconv"
	"strings"
)

// outlineNode is one navigation entry. The root has no title.
type outlineNode struct {
	title    string
	children []*outlineNode
}

// outline mirrors the bookmarks handed to the writer so the depth of every
// new entry is known.
type outline struct {
	root outlineNode
	w    DocumentWriter
}

// at walks from the root towards depth by always taking the last child and
// stops early when a node has no children. It returns the node and its depth.
func (o *outline) at(depth int) (*outlineNode, int) {
	n, d := &o.root, 0
	for d < depth && len(n.children) > 0 {
		n = n.children[len(n.children)-1]
		d++
	}
	return n, d
}

// add appends title under the node at depth and emits the bookmark.
func (o *outline) add(depth int, title string, y float64) {
	parent, d := o.at(depth)
	parent.children = append(parent.children, &outlineNode{title: title})
	o.w.Bookmark(title, d, y)
}

// numberGenerator produces hierarchical section numbers: 1, 1.1, 1.2, 2 ...
type numberGenerator struct {
	parts []int
}

// next returns the number for a new section at level (1-based).
func (g *numberGenerator) next(level int) string {
	if level < 1 {
		level = 1
	}
	for len(g.parts) < level {
		g.parts = append(g.parts, 0)
	}
	g.parts = g.parts[:level]
	g.parts[level-1]++
	s := make([]string, len(g.parts))
	for i, p := range g.parts {
		s[i] = strconv.Itoa(p)
	}
	return strings.Join(s, ".")
}
