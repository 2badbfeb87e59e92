/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fonts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/sfnt"

	"screenpress/internal/markup"
)

// Variant is one installed file of a family.
type Variant struct {
	Family    string
	Subfamily string
	Font      markup.Font
	Path      string
}

// ListVariants walks dirs for TrueType files whose family name matches family.
// Missing directories are skipped. The first file found for a style wins.
func ListVariants(ctx context.Context, dirs []string, family string) ([]Variant, error) {
	var (
		out  []Variant
		seen [4]bool
		buf  sfnt.Buffer
	)
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == dir && errors.Is(err, fs.ErrNotExist) {
					return fs.SkipDir
				}
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".ttf") {
				return nil
			}
			v, ok := readVariant(&buf, path)
			if !ok || !strings.EqualFold(v.Family, family) || seen[v.Font] {
				return nil
			}
			seen[v.Font] = true
			out = append(out, v)
			return nil
		})
		if err != nil {
			return out, fmt.Errorf("scan fonts in %s: %w", dir, err)
		}
	}
	return out, nil
}

// readVariant reads the family and style names of a font file.
// Typographic names are preferred over the legacy ones.
func readVariant(buf *sfnt.Buffer, path string) (Variant, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Variant{}, false
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return Variant{}, false
	}
	family := name(f, buf, sfnt.NameIDTypographicFamily, sfnt.NameIDFamily)
	sub := name(f, buf, sfnt.NameIDTypographicSubfamily, sfnt.NameIDSubfamily)
	if family == "" {
		return Variant{}, false
	}
	return Variant{Family: family, Subfamily: sub, Font: classify(sub), Path: path}, true
}

func name(f *sfnt.Font, buf *sfnt.Buffer, ids ...sfnt.NameID) string {
	for _, id := range ids {
		if s, err := f.Name(buf, id); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// classify maps a subfamily such as "Bold Oblique" to a markup font.
func classify(sub string) markup.Font {
	s := strings.ToLower(sub)
	bold := strings.Contains(s, "bold")
	italic := strings.Contains(s, "italic") || strings.Contains(s, "oblique")
	return markup.FontFor(bold, italic)
}
