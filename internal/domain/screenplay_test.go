/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDoc = `{
  "title_page": {
    "cc": [
      {"type": "author", "text": "Jane Roe", "index": 3},
      {"type": "title", "text": "_**BRICK & STEEL**_", "index": 0},
      {"type": "credit", "text": "written by", "index": 1}
    ]
  },
  "lines": [
    {"type": "section", "text": "Act One", "token": {"id": 7, "line": 1, "text": "Act One", "level": 1}},
    {"type": "page_break", "text": "", "token": {"line": 2}},
    {"type": "section", "text": "Act One", "token": {"id": 7, "line": 1, "text": "Act One", "level": 1}},
    {"type": "scene_heading", "text": "INT. GARAGE - DAY", "number": "1",
     "token": {"line": 4, "invisibleSections": [{"id": 9, "text": "Cold open", "level": 2}]}},
    {"type": "action", "text": "Steel walks in."}
  ]
}`

func TestDecodeInternsSharedTokens(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Lines) != 5 {
		t.Fatalf("lines = %d", len(doc.Lines))
	}
	if doc.Lines[0].Token != doc.Lines[2].Token {
		t.Fatalf("section tokens with the same id must be one instance")
	}
	if doc.Lines[1].Token == doc.Lines[0].Token {
		t.Fatalf("tokens without id must stay distinct")
	}
	if doc.Lines[4].Token == nil {
		t.Fatalf("missing token must be filled in")
	}
	inv := doc.Lines[3].Token.InvisibleSections
	if len(inv) != 1 || inv[0].Level != 2 || inv[0].Text != "Cold open" {
		t.Fatalf("invisible sections not decoded: %+v", inv)
	}
}

func TestDecodeRejectsUnknownLineType(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"lines":[{"type":"montage","text":"x"}]}`))
	if !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestDecodeRejectsMissingLines(t *testing.T) {
	if _, err := Decode(strings.NewReader(`{}`)); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestTitlePageSortedAndFind(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := doc.TitlePage.Sorted(Center)
	if len(got) != 3 || got[0].Type != "title" || got[1].Type != "credit" || got[2].Type != "author" {
		t.Fatalf("unexpected order: %+v", got)
	}
	// the source slice is left untouched
	if doc.TitlePage[Center][0].Type != "author" {
		t.Fatalf("Sorted mutated the slot")
	}
	if e, ok := doc.TitlePage.Find("author"); !ok || e.Text != "Jane Roe" {
		t.Fatalf("Find(author) = %+v, %v", e, ok)
	}
	if _, ok := doc.TitlePage.Find("contact"); ok {
		t.Fatalf("Find(contact) should miss")
	}
	if doc.TitlePage.Empty() {
		t.Fatalf("title page should not be empty")
	}
	if !(TitlePage{}).Empty() {
		t.Fatalf("zero title page should be empty")
	}
}

func TestLoadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(p, []byte(`{"lines":[]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(doc.Lines) != 0 {
		t.Fatalf("expected empty document")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
