/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	characterExtensionRe = regexp.MustCompile(`[ \t]*(\(.*\))[ \t]*([ \t]*\^)?$`)
	speakerOrderRe       = regexp.MustCompile(`^[0-9]* - `)
)

// CharacterName reduces a character cue to the bare name: the extension
// ("(V.O.)"), the dual marker and a leading "N - " speaker index are removed
// and the result is NFC normalised.
func CharacterName(cue string) string {
	name := characterExtensionRe.ReplaceAllString(cue, "")
	name = speakerOrderRe.ReplaceAllString(name, "")
	return norm.NFC.String(name)
}

func (c ExportConfig) highlightsCharacter(name string) bool {
	for _, h := range c.HighlightedCharacters {
		if norm.NFC.String(strings.TrimSpace(h)) == name {
			return true
		}
	}
	return false
}
