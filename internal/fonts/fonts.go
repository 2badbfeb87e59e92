/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package fonts resolves the four script faces used by the renderer.
//
// The bundled family is the PDF core Courier set, which needs no embedding.
// A requested family is looked up among installed TrueType files and replaces
// each bundled face it provides; anything missing keeps the bundled face.
package fonts

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	applog "screenpress/internal/log"
	"screenpress/internal/markup"
)

const (
	// DefaultFamily is the family requested when nothing else is configured.
	DefaultFamily = "Courier Prime"
	// BundledFamily is the core PDF family every Set starts from.
	BundledFamily = "Courier"
)

// Face names one registered face: a family plus a gofpdf style string.
// Path is empty for core PDF fonts.
type Face struct {
	Family string
	Style  string
	Path   string
}

// Embedded reports whether the face comes from a font file.
func (f Face) Embedded() bool { return f.Path != "" }

// Set holds one face per markup font.
type Set struct {
	faces [4]Face
}

// Bundled returns the core Courier set.
func Bundled() Set {
	return Set{faces: [4]Face{
		markup.Normal:     {Family: BundledFamily, Style: ""},
		markup.Bold:       {Family: BundledFamily, Style: "B"},
		markup.Italic:     {Family: BundledFamily, Style: "I"},
		markup.BoldItalic: {Family: BundledFamily, Style: "BI"},
	}}
}

// Face returns the face used for f.
func (s Set) Face(f markup.Font) Face {
	if f < markup.Normal || f > markup.BoldItalic {
		f = markup.Normal
	}
	return s.faces[f]
}

// Faces returns all four faces in markup.Font order.
func (s Set) Faces() []Face { return s.faces[:] }

// Resolver finds installed variants of a family.
type Resolver struct {
	Dirs []string
}

// NewResolver searches dirs, or the platform font directories when none are given.
func NewResolver(dirs ...string) *Resolver {
	if len(dirs) == 0 {
		dirs = SystemDirs()
	}
	return &Resolver{Dirs: dirs}
}

// Resolve returns the bundled set with every variant of family found on disk
// substituted in. Lookup problems are logged and never returned.
func (r *Resolver) Resolve(ctx context.Context, family string) Set {
	set := Bundled()
	family = strings.TrimSpace(family)
	if family == "" || strings.EqualFold(family, BundledFamily) {
		return set
	}
	l := applog.WithOperation(applog.WithComponent("fonts"), "resolve")
	variants, err := ListVariants(ctx, r.Dirs, family)
	if err != nil {
		l.Debug("font lookup failed, using bundled family", "family", family, "err", err)
		return set
	}
	if len(variants) == 0 {
		l.Debug("font family not installed, using bundled family", "family", family)
		return set
	}
	for _, v := range variants {
		set.faces[v.Font] = Face{Family: "script", Style: styleFor(v.Font), Path: v.Path}
	}
	l.Debug("font family resolved", "family", family, "variants", len(variants))
	return set
}

func styleFor(f markup.Font) string {
	switch f {
	case markup.Bold:
		return "B"
	case markup.Italic:
		return "I"
	case markup.BoldItalic:
		return "BI"
	default:
		return ""
	}
}

// SystemDirs lists the usual per-platform font directories.
func SystemDirs() []string {
	home, _ := os.UserHomeDir()
	var dirs []string
	switch runtime.GOOS {
	case "windows":
		if w := os.Getenv("WINDIR"); w != "" {
			dirs = append(dirs, filepath.Join(w, "Fonts"))
		}
		if la := os.Getenv("LOCALAPPDATA"); la != "" {
			dirs = append(dirs, filepath.Join(la, "Microsoft", "Windows", "Fonts"))
		}
	case "darwin":
		dirs = append(dirs, "/Library/Fonts", "/System/Library/Fonts")
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
	default:
		dirs = append(dirs, "/usr/share/fonts", "/usr/local/share/fonts")
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".fonts"), filepath.Join(home, ".local", "share", "fonts"))
		}
	}
	return dirs
}
