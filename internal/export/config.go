/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"strings"

	"screenpress/internal/fonts"
)

// SceneNumbers selects where scene numbers are printed.
type SceneNumbers string

const (
	SceneNumbersNone  SceneNumbers = "none"
	SceneNumbersLeft  SceneNumbers = "left"
	SceneNumbersRight SceneNumbers = "right"
	SceneNumbersBoth  SceneNumbers = "both"
)

// ParseSceneNumbers validates a placement name.
func ParseSceneNumbers(s string) (SceneNumbers, error) {
	switch v := SceneNumbers(strings.ToLower(strings.TrimSpace(s))); v {
	case SceneNumbersNone, SceneNumbersLeft, SceneNumbersRight, SceneNumbersBoth:
		return v, nil
	case "":
		return SceneNumbersBoth, nil
	default:
		return "", fmt.Errorf("invalid scene number placement %q (want none, left, right or both)", s)
	}
}

func (s SceneNumbers) left() bool  { return s == SceneNumbersLeft || s == SceneNumbersBoth }
func (s SceneNumbers) right() bool { return s == SceneNumbersRight || s == SceneNumbersBoth }

// RenderConfig holds the switches of one render. Use DefaultRenderConfig and
// change what differs; a zero value disables most decorations.
type RenderConfig struct {
	EmboldenSceneHeaders      bool         `yaml:"embolden_scene_headers"`
	UnderlineSceneHeaders     bool         `yaml:"underline_scene_headers"`
	EmboldenCharacterNames    bool         `yaml:"embolden_character_names"`
	ShowPageNumbers           bool         `yaml:"show_page_numbers"`
	PrintTitlePage            bool         `yaml:"print_title_page"`
	NumberSections            bool         `yaml:"number_sections"`
	CreateBookmarks           bool         `yaml:"create_bookmarks"`
	InvisibleSectionBookmarks bool         `yaml:"invisible_section_bookmarks"`
	SceneNumbers              SceneNumbers `yaml:"scenes_numbers"`
	Header                    string       `yaml:"print_header"`
	Footer                    string       `yaml:"print_footer"`
	Watermark                 string       `yaml:"print_watermark"`
	TextSceneContinued        string       `yaml:"text_scene_continued"`
	SceneContinuationTop      bool         `yaml:"scene_continuation_top"`
	SceneContinuationBottom   bool         `yaml:"scene_continuation_bottom"`
	Font                      string       `yaml:"font"`
}

// DefaultRenderConfig returns the stock render settings.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		EmboldenSceneHeaders:      true,
		ShowPageNumbers:           true,
		PrintTitlePage:            true,
		CreateBookmarks:           true,
		InvisibleSectionBookmarks: true,
		SceneNumbers:              SceneNumbersBoth,
		TextSceneContinued:        "CONTINUED",
		Font:                      fonts.DefaultFamily,
	}
}

func (c RenderConfig) continuedText() string {
	if c.TextSceneContinued == "" {
		return "CONTINUED"
	}
	return c.TextSceneContinued
}

// ExportConfig carries per-export highlighting requests.
type ExportConfig struct {
	HighlightedCharacters []string           `yaml:"highlighted_characters"`
	HighlightedChanges    HighlightedChanges `yaml:"highlighted_changes"`
}

// HighlightedChanges marks changed source lines. Lines without a colour only
// get the margin asterisk.
type HighlightedChanges struct {
	Lines []int `yaml:"lines"`
	Color *RGB  `yaml:"color"`
}

func (h HighlightedChanges) has(line int) bool {
	if line == 0 {
		return false
	}
	for _, l := range h.Lines {
		if l == line {
			return true
		}
	}
	return false
}
