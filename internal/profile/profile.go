/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package profile holds the print geometry consumed by the renderer.
// All lengths are inches; font sizes are points.
package profile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"screenpress/internal/domain"
)

// Element is the per-line-type geometry and typography.
type Element struct {
	Feed                float64 `yaml:"feed"`
	Max                 int     `yaml:"max"` // column width in characters
	Color               string  `yaml:"color,omitempty"`
	Italic              bool    `yaml:"italic,omitempty"`
	Padding             float64 `yaml:"padding,omitempty"`
	FeedWithLastSection bool    `yaml:"feed_with_last_section,omitempty"`
	LevelIndent         float64 `yaml:"level_indent,omitempty"`
}

// Profile is a fully populated print profile.
type Profile struct {
	PaperSize           string  `yaml:"paper_size"`
	PageWidth           float64 `yaml:"page_width"`
	PageHeight          float64 `yaml:"page_height"`
	FontSize            float64 `yaml:"font_size"`
	FontWidth           float64 `yaml:"font_width"`
	FontHeight          float64 `yaml:"font_height"`
	LinesPerPage        int     `yaml:"lines_per_page"`
	TopMargin           float64 `yaml:"top_margin"`
	LeftMargin          float64 `yaml:"left_margin"`
	RightMargin         float64 `yaml:"right_margin"`
	PageNumberTopMargin float64 `yaml:"page_number_top_margin"`

	SceneHeading  Element `yaml:"scene_heading"`
	Action        Element `yaml:"action"`
	Character     Element `yaml:"character"`
	Parenthetical Element `yaml:"parenthetical"`
	Dialogue      Element `yaml:"dialogue"`
	Transition    Element `yaml:"transition"`
	Centered      Element `yaml:"centered"`
	Section       Element `yaml:"section"`
	Synopsis      Element `yaml:"synopsis"`
	Note          Element `yaml:"note"`
}

// USLetter returns the US letter preset.
func USLetter() Profile {
	return Profile{
		PaperSize:           "letter",
		PageWidth:           8.5,
		PageHeight:          11,
		FontSize:            12,
		FontWidth:           0.1,
		FontHeight:          0.1667,
		LinesPerPage:        57,
		TopMargin:           1.0,
		LeftMargin:          1.5,
		RightMargin:         1,
		PageNumberTopMargin: 0.5,

		SceneHeading:  Element{Feed: 1.5, Max: 57},
		Action:        Element{Feed: 1.5, Max: 61},
		Character:     Element{Feed: 3.5, Max: 33},
		Parenthetical: Element{Feed: 3, Max: 26},
		Dialogue:      Element{Feed: 2.5, Max: 36},
		Transition:    Element{Feed: 0, Max: 61},
		Centered:      Element{Feed: 1.5, Max: 61},
		Section:       Element{Feed: 0.5, Max: 61, Color: "#555555", LevelIndent: 0.2},
		Synopsis:      Element{Feed: 0.5, Max: 61, Color: "#888888", Italic: true, FeedWithLastSection: true},
		Note:          Element{Color: "#888888", Italic: true},
	}
}

// A4 returns the A4 preset.
func A4() Profile {
	p := USLetter()
	p.PaperSize = "a4"
	p.PageWidth = 8.27
	p.PageHeight = 11.7
	p.LinesPerPage = 60
	return p
}

// Preset resolves a preset by name ("a4", "usletter" or "letter").
func Preset(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "usletter", "letter":
		return USLetter(), nil
	case "a4":
		return A4(), nil
	default:
		return Profile{}, fmt.Errorf("unknown print profile %q", name)
	}
}

// LoadOverrides reads a YAML file and applies the fields it sets on top of base.
func LoadOverrides(base Profile, path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read profile: %w", err)
	}
	out := base
	if err := yaml.Unmarshal(data, &out); err != nil {
		return base, fmt.Errorf("parse profile: %w", err)
	}
	return out, nil
}

// Element returns the entry for a line type. ok is false for types without one.
func (p *Profile) Element(t domain.LineType) (Element, bool) {
	switch t {
	case domain.SceneHeading:
		return p.SceneHeading, true
	case domain.Action:
		return p.Action, true
	case domain.Character:
		return p.Character, true
	case domain.Parenthetical:
		return p.Parenthetical, true
	case domain.Dialogue:
		return p.Dialogue, true
	case domain.Transition:
		return p.Transition, true
	case domain.Centered:
		return p.Centered, true
	case domain.Section:
		return p.Section, true
	case domain.Synopsis:
		return p.Synopsis, true
	}
	return Element{}, false
}

// WritableWidth is the page width between the left and right margins.
func (p *Profile) WritableWidth() float64 { return p.PageWidth - p.RightMargin - p.LeftMargin }
