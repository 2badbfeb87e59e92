/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"reflect"
	"testing"

	"screenpress/internal/markup"
)

func plainRuns(text string) ([]markup.Run, []TextStyle) {
	return []markup.Run{{Text: text}}, []TextStyle{{}}
}

func TestSplitWords(t *testing.T) {
	got := splitWords("ab  cd\n\nef")
	want := []string{"ab", "  ", "cd", "\n", "\n", "ef"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitWords = %q, want %q", got, want)
	}
}

func TestFlowWraps(t *testing.T) {
	runs, styles := plainRuns("aaaa bbbb cccc")
	pieces, h := flow(newRecorder(), runs, styles, 1, 2, 1.0, 0.2, AlignLeft)
	if len(pieces) != 2 {
		t.Fatalf("pieces = %+v", pieces)
	}
	if pieces[0].Text != "aaaa bbbb" || pieces[1].Text != "cccc" {
		t.Fatalf("lines = %q, %q", pieces[0].Text, pieces[1].Text)
	}
	if !near(pieces[1].Y, 2.2) || !near(pieces[1].X, 1) || !near(h, 0.4) {
		t.Fatalf("second line at (%v,%v), height %v", pieces[1].X, pieces[1].Y, h)
	}
}

func TestFlowAlign(t *testing.T) {
	runs, styles := plainRuns("ab\nabcd")
	right, _ := flow(newRecorder(), runs, styles, 0, 0, 1.0, 0.2, AlignRight)
	if !near(right[0].X, 0.8) || !near(right[1].X, 0.6) {
		t.Fatalf("right aligned x = %v, %v", right[0].X, right[1].X)
	}
	center, _ := flow(newRecorder(), runs, styles, 0, 0, 1.0, 0.2, AlignCenter)
	if !near(center[0].X, 0.4) || !near(center[1].X, 0.3) {
		t.Fatalf("centered x = %v, %v", center[0].X, center[1].X)
	}
}

func TestFlowWithoutWidthNeverWraps(t *testing.T) {
	runs, styles := plainRuns("a very long line that would not fit anywhere")
	pieces, h := flow(newRecorder(), runs, styles, 0, 0, 0, 0.2, AlignRight)
	if len(pieces) != 1 || !near(pieces[0].X, 0) || !near(h, 0.2) {
		t.Fatalf("pieces = %+v, height %v", pieces, h)
	}
}

func TestFlowKeepsStylesApart(t *testing.T) {
	runs := []markup.Run{{Text: "plain "}, {Text: "bold", Font: markup.Bold}, {Text: " tail"}}
	styles := []TextStyle{{}, {Font: markup.Bold}, {}}
	pieces, _ := flow(newRecorder(), runs, styles, 0, 0, 0, 0.2, AlignLeft)
	if len(pieces) != 3 {
		t.Fatalf("pieces = %+v", pieces)
	}
	if !near(pieces[1].X, 0.6) || !near(pieces[2].X, 1.0) {
		t.Fatalf("x positions = %v, %v", pieces[1].X, pieces[2].X)
	}
}

func TestFlowDropsBlanksAtSoftBreak(t *testing.T) {
	runs, styles := plainRuns("aaaa    bbbb")
	pieces, _ := flow(newRecorder(), runs, styles, 0, 0, 0.6, 0.2, AlignLeft)
	if len(pieces) != 2 || pieces[0].Text != "aaaa" || pieces[1].Text != "bbbb" || !near(pieces[1].X, 0) {
		t.Fatalf("pieces = %+v", pieces)
	}
}
