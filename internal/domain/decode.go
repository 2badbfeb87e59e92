/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

//go:embed document.schema.json
var documentSchema []byte

// ErrInvalidDocument is returned when the input does not conform to the document schema.
var ErrInvalidDocument = errors.New("invalid document")

// Decode validates a serialized document against the embedded schema and decodes it.
// Tokens sharing a non-zero id are interned to a single *Token, and every line
// gets a non-nil Token.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(documentSchema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	Intern(&doc)
	return &doc, nil
}

// LoadFile reads and decodes a document from disk.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}

// Intern replaces tokens that share a non-zero ID with the first instance seen
// and fills in missing tokens.
func Intern(doc *Document) {
	seen := map[int]*Token{}
	var tok func(t *Token) *Token
	tok = func(t *Token) *Token {
		if t == nil {
			return &Token{}
		}
		if t.ID != 0 {
			if first, ok := seen[t.ID]; ok {
				return first
			}
			seen[t.ID] = t
		}
		for i, s := range t.InvisibleSections {
			t.InvisibleSections[i] = tok(s)
		}
		return t
	}
	var lines func(ls []Line)
	lines = func(ls []Line) {
		for i := range ls {
			ls[i].Token = tok(ls[i].Token)
			lines(ls[i].RightColumn)
		}
	}
	lines(doc.Lines)
}
