/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestInitWritesJSONFile(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "screenpress.log")
	Init(Options{Level: "debug", Format: "json", File: fpath})
	t.Cleanup(func() { Init(Options{}) })

	l := WithOperation(WithComponent("export"), "render")
	l.Info("page added", slog.Int("page", 2))

	b, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var last string
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines written")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	if m["app"] != "screenpress" {
		t.Fatalf("app attr = %v", m["app"])
	}
	if m["component"] != "export" || m["op"] != "render" {
		t.Fatalf("context attrs missing: %v", m)
	}
	if m["page"] != float64(2) {
		t.Fatalf("page attr = %v", m["page"])
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "warn")
	t.Setenv(EnvFormat, "json")
	t.Setenv(EnvSource, "true")
	t.Setenv(EnvFile, "")

	opts := FromEnv()
	if opts.Level != "warn" || opts.Format != "json" || !opts.AddSource || opts.File != "" {
		t.Fatalf("FromEnv mismatch: %+v", opts)
	}
	if v := getenv("SCREENPRESS_SURELY_UNSET", "fallback"); v != "fallback" {
		t.Fatalf("getenv fallback = %q", v)
	}
}

func TestPrettyTextHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &prettyTextHandler{opts: prettyOpts{Level: slog.LevelWarn}, w: &buf}
	ctx := context.Background()

	if h.Enabled(ctx, slog.LevelInfo) {
		t.Fatalf("info must be filtered at warn level")
	}
	if !h.Enabled(ctx, slog.LevelError) {
		t.Fatalf("error must pass at warn level")
	}

	h2 := h.WithAttrs([]slog.Attr{slog.String("render_id", "abc")}).WithGroup("stats")
	r := slog.NewRecord(time.Now(), slog.LevelError, "flush failed", 0)
	r.AddAttrs(slog.Int("pages", 42), slog.Float64("pagecount", 1.5), slog.Bool("ok", false))
	if err := h2.Handle(ctx, r); err != nil {
		t.Fatalf("handle: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"ERR", "flush failed", "render_id=abc", "stats.pages=42", "stats.pagecount=1.5", "stats.ok=false"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPrettyTextHandlerWithSource(t *testing.T) {
	var buf bytes.Buffer
	h := &prettyTextHandler{opts: prettyOpts{Level: slog.LevelInfo, AddSource: true}, w: &buf}
	var pcs [1]uintptr
	runtime.Callers(1, pcs[:])
	r := slog.NewRecord(time.Now(), slog.LevelInfo, "page advanced", pcs[0])
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("handle: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "page advanced") {
		t.Fatalf("message missing: %q", out)
	}
	// toolchains without Record.Source print no location at all
	if strings.Contains(out, "src=") && !strings.Contains(out, "logger_test.go:") {
		t.Fatalf("source points elsewhere: %q", out)
	}

	buf.Reset()
	if err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "no pc", 0)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if strings.Contains(buf.String(), "src=") {
		t.Fatalf("record without pc must not print a source: %q", buf.String())
	}
}
