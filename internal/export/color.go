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
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
)

// RGB is an 8-bit colour triple.
type RGB struct {
	R uint8 `yaml:"r" json:"r"`
	G uint8 `yaml:"g" json:"g"`
	B uint8 `yaml:"b" json:"b"`
}

var black = RGB{}

// IsZero reports whether the colour is black.
func (c RGB) IsZero() bool { return c == black }

// Hex formats the colour as #rrggbb.
func (c RGB) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// ParseHex accepts #rgb and #rrggbb, with or without the hash.
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// hexOrBlack parses a colour known at compile time or from a validated profile.
// Anything unparsable renders black.
func hexOrBlack(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		return black
	}
	return c
}

// WordToColor derives a stable highlighter colour from a word.
// Colours share saturation and value so they read like marker pens.
func WordToColor(word string) RGB {
	const n = 5
	h := float64(pearsonHash(word, n)) / float64(int(1)<<(8-n))
	return hsvToRGB(h, 0.5, 1)
}

// pearsonHash is a small n-bit Pearson hash over UTF-16 code units with an
// identity table.
func pearsonHash(msg string, n uint) int {
	mod := (1 << n) - 1
	units := utf16.Encode([]rune(msg))
	hash := len(units) % mod
	for _, c := range units {
		hash = (hash + int(c)) % mod
	}
	return hash
}

func hsvToRGB(h, s, v float64) RGB {
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	var r, g, b float64
	switch int(i) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return RGB{R: to8(r), G: to8(g), B: to8(b)}
}

func to8(x float64) uint8 { return uint8(math.Round(x * 255)) }
