/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"screenpress/internal/export"
)

func openTestStore(t *testing.T) (*LineMapStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "stats.sqlite")
	s, err := OpenLineMapStore(context.Background(), path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func sampleStats() *export.Stats {
	return &export.Stats{
		PageCount:     1.5,
		PageCountReal: 3,
		LineMap: map[int]export.LineStruct{
			1: {Page: 1, Scene: "", Sections: []string{"ACT ONE"}},
			4: {Page: 2, Scene: "INT. HOUSE - DAY", Sections: []string{"ACT ONE", "Morning"}, CumulativeDuration: 12.5},
			9: {Page: 3, Scene: "EXT. ROAD - NIGHT"},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	if err := s.Save(ctx, "pilot", sampleStats()); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load(ctx, "pilot")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.PageCount != 1.5 || got.PageCountReal != 3 {
		t.Fatalf("unexpected counts: %v %d", got.PageCount, got.PageCountReal)
	}
	if len(got.LineMap) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(got.LineMap))
	}
	l4 := got.LineMap[4]
	if l4.Page != 2 || l4.Scene != "INT. HOUSE - DAY" || len(l4.Sections) != 2 || l4.Sections[1] != "Morning" || l4.CumulativeDuration != 12.5 {
		t.Fatalf("line 4 mismatch: %+v", l4)
	}
	if l9 := got.LineMap[9]; len(l9.Sections) != 0 {
		t.Fatalf("line 9 should have no sections: %+v", l9)
	}
}

func TestSaveReplacesPreviousLines(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	if err := s.Save(ctx, "pilot", sampleStats()); err != nil {
		t.Fatalf("save: %v", err)
	}
	next := &export.Stats{PageCount: 0.2, PageCountReal: 1, LineMap: map[int]export.LineStruct{2: {Page: 1}}}
	if err := s.Save(ctx, "pilot", next); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err := s.Load(ctx, "pilot")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.LineMap) != 1 || got.PageCountReal != 1 {
		t.Fatalf("stale data kept: %+v", got)
	}
	if _, ok := got.LineMap[2]; !ok {
		t.Fatalf("line 2 missing")
	}
}

func TestLoadMissing(t *testing.T) {
	s, _ := openTestStore(t)
	_, err := s.Load(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveValidation(t *testing.T) {
	s, _ := openTestStore(t)
	if err := s.Save(context.Background(), " ", sampleStats()); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := s.Save(context.Background(), "x", nil); err == nil {
		t.Fatalf("expected error for nil stats")
	}
}

func TestReopenKeepsDataAndVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.sqlite")
	ctx := context.Background()
	s, err := OpenLineMapStore(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Save(ctx, "b", sampleStats()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, "a", sampleStats()); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = s.Close()

	s, err = OpenLineMapStore(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s.Close() }()
	var schema int
	if err := s.db.QueryRowContext(ctx, `SELECT schema FROM store_version WHERE id=1`).Scan(&schema); err != nil {
		t.Fatalf("read version: %v", err)
	}
	if schema != schemaVersion {
		t.Fatalf("schema = %d, want %d", schema, schemaVersion)
	}
	names, err := s.Documents(ctx)
	if err != nil {
		t.Fatalf("documents: %v", err)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("unexpected documents: %v", names)
	}
}

func TestOpenRequiresDSN(t *testing.T) {
	if _, err := OpenLineMapStore(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}

func TestIsPostgresAndRebind(t *testing.T) {
	cases := map[string]bool{
		"postgres://u@h/db":   true,
		"POSTGRESQL://u@h/db": true,
		"/tmp/stats.sqlite":   false,
		"file:stats.sqlite":   false,
		"":                    false,
	}
	for dsn, want := range cases {
		if got := IsPostgres(dsn); got != want {
			t.Errorf("IsPostgres(%q) = %v, want %v", dsn, got, want)
		}
	}
	if got := rebindDollar(`INSERT INTO t(a, b) VALUES(?, ?)`); got != `INSERT INTO t(a, b) VALUES($1, $2)` {
		t.Fatalf("rebind: %s", got)
	}
}
