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
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"screenpress/internal/export"
	applog "screenpress/internal/log"
	"screenpress/internal/version"

	// Postgres driver registered as "pgx" for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// schemaVersion tracks the line-map schema. Bump it and add a migration step on breaking changes.
const schemaVersion = 2

// ErrNotFound is returned by Load when no stats were saved under the name.
var ErrNotFound = errors.New("document not found")

// LineMapStore saves and loads render stats keyed by document name.
type LineMapStore struct {
	db       *sql.DB
	postgres bool
	log      *slog.Logger
}

// IsPostgres reports whether dsn selects the Postgres backend.
func IsPostgres(dsn string) bool {
	d := strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(d, "postgres://") || strings.HasPrefix(d, "postgresql://")
}

// OpenLineMapStore opens the store at dsn and brings its schema up to date.
// Anything that is not a postgres URL is treated as a SQLite file path; its directory is created.
func OpenLineMapStore(ctx context.Context, dsn string) (*LineMapStore, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "open")
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("store dsn is required")
	}

	s := &LineMapStore{postgres: IsPostgres(dsn), log: l}
	var err error
	if s.postgres {
		s.db, err = openPostgres(ctx, dsn)
	} else {
		s.db, err = openSQLite(ctx, dsn)
	}
	if err != nil {
		l.Error("open store failed", slog.Any("err", err))
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.ensureVersion(ctx); err != nil {
		_ = s.db.Close()
		l.Error("ensure version failed", slog.Any("err", err))
		return nil, err
	}
	if err := s.ensureSchema(ctx); err != nil {
		_ = s.db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := s.migrate(ctx); err != nil {
		_ = s.db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}
	l.Info("store ready", slog.Bool("postgres", s.postgres))
	return s, nil
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	return db, nil
}

func openPostgres(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// Close releases the database handle.
func (s *LineMapStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// rebind rewrites ? placeholders to $n for Postgres.
func (s *LineMapStore) rebind(q string) string {
	if !s.postgres {
		return q
	}
	return rebindDollar(q)
}

func rebindDollar(q string) string {
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

func (s *LineMapStore) floatType() string {
	if s.postgres {
		return "DOUBLE PRECISION"
	}
	return "REAL"
}

func (s *LineMapStore) ensureVersion(ctx context.Context) error {
	ddl := `CREATE TABLE IF NOT EXISTS store_version (
		id         INTEGER PRIMARY KEY CHECK(id=1),
		schema     INTEGER NOT NULL,
		app        TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var cur int
	err := s.db.QueryRowContext(ctx, `SELECT schema FROM store_version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		q := s.rebind(`INSERT INTO store_version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`)
		if _, err := s.db.ExecContext(ctx, q, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		q := s.rebind(`UPDATE store_version SET app=?, updated_at=? WHERE id=1`)
		if _, err := s.db.ExecContext(ctx, q, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

func (s *LineMapStore) ensureSchema(ctx context.Context) error {
	ddl := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS documents (
			name           TEXT PRIMARY KEY,
			pagecount      %s NOT NULL,
			pagecount_real INTEGER NOT NULL,
			updated_at     TEXT NOT NULL
		)`, s.floatType()),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS line_map (
			document TEXT    NOT NULL,
			line     INTEGER NOT NULL,
			page     INTEGER NOT NULL,
			scene    TEXT    NOT NULL,
			sections TEXT    NOT NULL,
			duration %s NOT NULL,
			PRIMARY KEY(document, line)
		)`, s.floatType()),
		`CREATE INDEX IF NOT EXISTS idx_line_map_page ON line_map(document, page)`,
	}
	for _, q := range ddl {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// migrate applies incremental schema steps up to schemaVersion.
func (s *LineMapStore) migrate(ctx context.Context) error {
	var cur int
	if err := s.db.QueryRowContext(ctx, `SELECT schema FROM store_version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for cur < schemaVersion {
		next := cur + 1
		var stmts []string
		switch next {
		case 2:
			stmts = []string{`CREATE INDEX IF NOT EXISTS idx_line_map_page ON line_map(document, page)`}
		}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", next, err)
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d stmt failed: %w", next, err)
			}
		}
		q := s.rebind(`UPDATE store_version SET schema=?, updated_at=? WHERE id=1`)
		if _, err := tx.ExecContext(ctx, q, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d update version: %w", next, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d commit: %w", next, err)
		}
		cur = next
	}
	return nil
}

// Save replaces everything stored under name with stats.
func (s *LineMapStore) Save(ctx context.Context, name string, stats *export.Stats) error {
	l := applog.WithOperation(applog.WithComponent("storage"), "save").With(slog.String("document", name))
	if strings.TrimSpace(name) == "" {
		return errors.New("document name is required")
	}
	if stats == nil {
		return errors.New("stats are required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	upsert := s.rebind(`INSERT INTO documents(name, pagecount, pagecount_real, updated_at) VALUES(?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET pagecount=excluded.pagecount, pagecount_real=excluded.pagecount_real, updated_at=excluded.updated_at`)
	if _, err := tx.ExecContext(ctx, upsert, name, stats.PageCount, stats.PageCountReal, now); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("upsert document: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM line_map WHERE document=?`), name); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear line map: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, s.rebind(`INSERT INTO line_map(document, line, page, scene, sections, duration) VALUES(?, ?, ?, ?, ?, ?)`))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for _, n := range stats.Lines() {
		ls := stats.LineMap[n]
		sections := ls.Sections
		if sections == nil {
			sections = []string{}
		}
		raw, err := json.Marshal(sections)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("encode sections: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, name, n, ls.Page, ls.Scene, string(raw), ls.CumulativeDuration); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert line %d: %w", n, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	l.Debug("line map saved", slog.Int("lines", len(stats.LineMap)))
	return nil
}

// Load returns the stats saved under name, or ErrNotFound.
func (s *LineMapStore) Load(ctx context.Context, name string) (*export.Stats, error) {
	st := &export.Stats{LineMap: map[int]export.LineStruct{}}
	q := s.rebind(`SELECT pagecount, pagecount_real FROM documents WHERE name=?`)
	err := s.db.QueryRowContext(ctx, q, name).Scan(&st.PageCount, &st.PageCountReal)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT line, page, scene, sections, duration FROM line_map WHERE document=? ORDER BY line`), name)
	if err != nil {
		return nil, fmt.Errorf("query line map: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			n   int
			ls  export.LineStruct
			raw string
		)
		if err := rows.Scan(&n, &ls.Page, &ls.Scene, &raw, &ls.CumulativeDuration); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &ls.Sections); err != nil {
			return nil, fmt.Errorf("decode sections of line %d: %w", n, err)
		}
		st.LineMap[n] = ls
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line map: %w", err)
	}
	return st, nil
}

// Documents lists the saved document names in ascending order.
func (s *LineMapStore) Documents(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM documents ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
