/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"screenpress/internal/config"
	"screenpress/internal/domain"
	"screenpress/internal/export"
	applog "screenpress/internal/log"
	"screenpress/internal/markup"
	"screenpress/internal/profile"
	"screenpress/internal/storage"

	"github.com/gosimple/slug"
)

type renderFlags struct {
	profile      string
	profileFile  string
	font         string
	fontDirs     []string
	sceneNumbers string
	characters   []string
	lines        string
	color        string
	store        string
}

// buildOptions layers flags over the loaded configuration.
func buildOptions(cfg config.AppConfig, f renderFlags) (export.Options, error) {
	name := cfg.Profile
	if f.profile != "" {
		name = f.profile
	}
	p, err := profile.Preset(name)
	if err != nil {
		return export.Options{}, err
	}
	pfile := cfg.ProfileFile
	if f.profileFile != "" {
		pfile = f.profileFile
	}
	if pfile != "" {
		if p, err = profile.LoadOverrides(p, pfile); err != nil {
			return export.Options{}, err
		}
	}

	rc := cfg.Render
	if f.font != "" {
		rc.Font = f.font
	}
	if f.sceneNumbers != "" {
		sn, err := export.ParseSceneNumbers(f.sceneNumbers)
		if err != nil {
			return export.Options{}, err
		}
		rc.SceneNumbers = sn
	}

	var ec export.ExportConfig
	ec.HighlightedCharacters = f.characters
	if ec.HighlightedChanges.Lines, err = parseLines(f.lines); err != nil {
		return export.Options{}, err
	}
	if strings.TrimSpace(f.color) != "" {
		c, err := export.ParseHex(f.color)
		if err != nil {
			return export.Options{}, fmt.Errorf("highlight color: %w", err)
		}
		ec.HighlightedChanges.Color = &c
	}

	dirs := cfg.FontDirs
	if len(f.fontDirs) > 0 {
		dirs = f.fontDirs
	}
	l := applog.WithComponent("cli")
	return export.Options{
		Profile:  &p,
		Config:   rc,
		Export:   ec,
		FontDirs: dirs,
		Progress: func(msg string, inc int) {
			l.Debug("progress", slog.String("step", msg), slog.Int("increment", inc))
		},
	}, nil
}

// parseLines reads a list like "3,10-12" into sorted unique line numbers.
// maxLines bounds how many line numbers one --lines value may select.
const maxLines = 100000

func parseLines(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	seen := map[int]bool{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		a, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil || a < 1 {
			return nil, fmt.Errorf("invalid line %q", part)
		}
		b := a
		if isRange {
			if b, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil || b < a {
				return nil, fmt.Errorf("invalid line range %q", part)
			}
		}
		if b-a >= maxLines {
			return nil, fmt.Errorf("line range %q spans more than %d lines", part, maxLines)
		}
		for n := a; n <= b; n++ {
			seen[n] = true
		}
		if len(seen) > maxLines {
			return nil, fmt.Errorf("more than %d lines selected", maxLines)
		}
	}
	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}

// documentName is the store key of an input file: its base name without extension.
func documentName(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// defaultOutput places <slug(title)>.pdf beside the input, falling back to the input name.
func defaultOutput(input string, doc *domain.Document) string {
	name := ""
	if e, ok := doc.TitlePage.Find("title"); ok {
		name = slug.Make(markup.Inline(markup.Clear(e.Text)))
	}
	if name == "" {
		name = slug.Make(documentName(input))
	}
	if name == "" {
		name = "screenplay"
	}
	return filepath.Join(filepath.Dir(input), name+".pdf")
}

func storeDSN(cfg config.AppConfig, f renderFlags) string {
	if f.store != "" {
		return f.store
	}
	return cfg.StatsDSN()
}

func saveStats(ctx context.Context, dsn, name string, st *export.Stats) error {
	s, err := storage.OpenLineMapStore(ctx, dsn)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	return s.Save(ctx, name, st)
}
