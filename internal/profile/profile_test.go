/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package profile

import (
	"os"
	"path/filepath"
	"testing"

	"screenpress/internal/domain"
)

func TestPreset(t *testing.T) {
	p, err := Preset("A4")
	if err != nil {
		t.Fatalf("Preset: %v", err)
	}
	if p.PageWidth != 8.27 || p.LinesPerPage != 60 {
		t.Fatalf("unexpected a4 geometry: %+v", p)
	}
	if p, _ := Preset(""); p.PaperSize != "letter" {
		t.Fatalf("default preset should be letter, got %q", p.PaperSize)
	}
	if _, err := Preset("tabloid"); err == nil {
		t.Fatalf("expected error for unknown preset")
	}
}

func TestElement(t *testing.T) {
	p := USLetter()
	if e, ok := p.Element(domain.Character); !ok || e.Feed != 3.5 {
		t.Fatalf("character element = %+v, %v", e, ok)
	}
	if _, ok := p.Element(domain.PageBreak); ok {
		t.Fatalf("page_break has no element")
	}
	if got := p.WritableWidth(); got != 6 {
		t.Fatalf("WritableWidth = %v", got)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	data := "font_size: 11\nsynopsis:\n  padding: 0.3\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := LoadOverrides(USLetter(), path)
	if err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}
	if p.FontSize != 11 {
		t.Fatalf("font size not overridden: %v", p.FontSize)
	}
	if p.Synopsis.Padding != 0.3 {
		t.Fatalf("synopsis padding not overridden: %v", p.Synopsis.Padding)
	}
	if p.PageWidth != 8.5 || p.Action.Feed != 1.5 {
		t.Fatalf("untouched fields must keep the preset values: %+v", p)
	}
}
