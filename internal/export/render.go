/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a parsed screenplay into a paginated PDF.
//
// Render performs the single layout pass and returns a Rendered document
// that can be written once to a file, a buffer or a base64 stream.
package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"screenpress/internal/domain"
	"screenpress/internal/fonts"
	applog "screenpress/internal/log"
	"screenpress/internal/profile"
)

// Options are the inputs of one render besides the document.
type Options struct {
	Profile  *profile.Profile // USLetter when nil
	Config   RenderConfig
	Export   ExportConfig
	FontDirs []string // font search path, platform directories when empty
	RenderID string   // log correlation id, generated when empty
	// Progress receives coarse progress messages with a percentage increment.
	Progress func(message string, increment int)
}

func (o Options) progress(msg string, inc int) {
	if o.Progress != nil {
		o.Progress(msg, inc)
	}
}

// Rendered is a laid out document waiting to be written.
type Rendered struct {
	Stats Stats

	w    DocumentWriter
	opts Options
	log  *slog.Logger
	done bool
}

// Render lays out doc. Font lookup is the only step that honours ctx.
func Render(ctx context.Context, doc *domain.Document, opts Options) (*Rendered, error) {
	prof := opts.Profile
	if prof == nil {
		p := profile.USLetter()
		prof = &p
	}
	opts.Profile = prof
	set := fonts.NewResolver(opts.FontDirs...).Resolve(ctx, opts.Config.Font)
	w, err := NewPDFWriter(prof, set)
	if err != nil {
		return nil, err
	}
	return render(doc, opts, w)
}

// render runs the pass on an arbitrary writer.
func render(doc *domain.Document, opts Options, w DocumentWriter) (*Rendered, error) {
	if opts.Profile == nil {
		p := profile.USLetter()
		opts.Profile = &p
	}
	if opts.RenderID == "" {
		opts.RenderID = uuid.NewString()
	}
	l := applog.WithOperation(applog.WithComponent("export"), "render").With(slog.String("render_id", opts.RenderID))
	if doc == nil {
		doc = &domain.Document{}
	}
	opts.progress("Processing document", 25)

	e := newEngine(w, opts.Profile, opts.Config, opts.Export, l)
	if err := e.run(doc); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	r := &Rendered{
		Stats: Stats{
			PageCount:     estimatePages(len(doc.Lines), opts.Profile.LinesPerPage),
			PageCountReal: 1 + e.pageAdds,
			LineMap:       e.lineMap,
		},
		w:    w,
		opts: opts,
		log:  l,
	}
	l.Info("render complete", slog.Int("pages", r.Stats.PageCountReal), slog.Int("lines", len(doc.Lines)))
	return r, nil
}

// Write finalizes the document into out. A document can be written once.
func (r *Rendered) Write(out io.Writer) error {
	if r.done {
		return ErrFinalized
	}
	r.done = true
	r.opts.progress("Writing to disk", 25)
	return r.w.Output(out)
}

// WriteFile writes the document to path, creating missing directories.
func (r *Rendered) WriteFile(path string) (err error) {
	if r.done {
		return ErrFinalized
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return describeWriteError(path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return describeWriteError(path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = multierr.Append(err, describeWriteError(path, cerr))
		}
	}()
	if err := r.Write(f); err != nil {
		return describeWriteError(path, err)
	}
	r.log.Info("pdf written", slog.String("path", path))
	return nil
}

// Bytes returns the finished document.
func (r *Rendered) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Base64 returns the finished document base64 encoded.
func (r *Rendered) Base64() (string, error) {
	var buf bytes.Buffer
	enc := base64.NewEncoder(base64.StdEncoding, &buf)
	err := r.Write(enc)
	err = multierr.Append(err, enc.Close())
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func describeWriteError(path string, err error) error {
	switch {
	case errors.Is(err, ErrFinalized):
		return err
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("unable to export PDF, the specified location does not exist: %s: %w", path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("unable to export PDF, no permission to write the specified file: %s: %w", path, err)
	default:
		return fmt.Errorf("write %s: %w", path, err)
	}
}

// ExportFile renders doc into a PDF file.
func ExportFile(ctx context.Context, doc *domain.Document, path string, opts Options) (*Stats, error) {
	r, err := Render(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	if err := r.WriteFile(path); err != nil {
		return nil, err
	}
	return &r.Stats, nil
}

// Base64Result is a base64 encoded PDF with the stats of its render.
type Base64Result struct {
	Data  string `json:"data"`
	Stats Stats  `json:"stats"`
}

// ExportBase64 renders doc into a base64 string.
func ExportBase64(ctx context.Context, doc *domain.Document, opts Options) (*Base64Result, error) {
	r, err := Render(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	data, err := r.Base64()
	if err != nil {
		return nil, err
	}
	return &Base64Result{Data: data, Stats: r.Stats}, nil
}

// ExportStats runs the full layout pass and discards the document.
func ExportStats(ctx context.Context, doc *domain.Document, opts Options) (*Stats, error) {
	r, err := Render(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	return &r.Stats, nil
}
