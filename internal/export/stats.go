/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import "sort"

// LineStruct is the position of a source line in the rendered document.
type LineStruct struct {
	Page               int      `json:"page"`
	Scene              string   `json:"scene"`
	Sections           []string `json:"sections"`
	CumulativeDuration float64  `json:"cumulativeDuration"`
}

// Stats summarises a render.
type Stats struct {
	// PageCount estimates pages from the line count.
	PageCount float64 `json:"pagecount"`
	// PageCountReal counts the pages actually emitted, title page included.
	PageCountReal int                `json:"pagecountReal"`
	LineMap       map[int]LineStruct `json:"linemap"`
}

// Lines returns the recorded source line numbers in ascending order.
func (s *Stats) Lines() []int {
	out := make([]int, 0, len(s.LineMap))
	for n := range s.LineMap {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func estimatePages(lines, perPage int) float64 {
	if perPage <= 0 {
		return 0
	}
	return float64(lines) / float64(perPage)
}
