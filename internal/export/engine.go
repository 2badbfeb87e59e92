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
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"screenpress/internal/domain"
	"screenpress/internal/markup"
	"screenpress/internal/profile"
)

const (
	headerColor      = "#777777"
	sceneNumberColor = "#999999"
	watermarkColor   = "#eeeeee"
)

// engine is the state of one render pass. It is never shared between renders.
type engine struct {
	w    DocumentWriter
	prof *profile.Profile
	cfg  RenderConfig
	exp  ExportConfig
	span spanRenderer
	out  outline
	log  *slog.Logger

	lineMap  map[int]LineStruct
	pageAdds int

	page             int
	y                int
	sceneNumber      string
	prevContinuation string
	continuations    map[string]int
	sectionLevel     int
	sectionNumber    string
	sectionToken     *domain.Token
	numbers          numberGenerator
	outlineDepth     int
	afterSection     bool
	speaker          string
	currentScene     string
	currentSections  []string
	duration         float64
}

func newEngine(w DocumentWriter, p *profile.Profile, cfg RenderConfig, exp ExportConfig, l *slog.Logger) *engine {
	return &engine{
		w:             w,
		prof:          p,
		cfg:           cfg,
		exp:           exp,
		span:          spanRenderer{w: w, prof: p},
		out:           outline{w: w},
		log:           l,
		lineMap:       map[int]LineStruct{},
		page:          1,
		continuations: map[string]int{},
	}
}

// row converts a row index on the current page to a y position.
func (e *engine) row(y int) float64 { return e.prof.TopMargin + e.prof.FontHeight*float64(y) }

func (e *engine) addPage() {
	e.w.AddPage()
	e.pageAdds++
}

// run renders the whole document in one pass.
func (e *engine) run(doc *domain.Document) error {
	e.w.SetInfo(documentInfo(doc.TitlePage))
	if e.cfg.PrintTitlePage && !doc.TitlePage.Empty() {
		if err := e.titlePage(doc.TitlePage); err != nil {
			return fmt.Errorf("title page: %w", err)
		}
		e.addPage()
	}
	if err := e.overlays(""); err != nil {
		return err
	}
	for i := range doc.Lines {
		line := withToken(doc.Lines[i])
		if err := e.line(&line); err != nil {
			return fmt.Errorf("line %d (%s): %w", i, line.Type, err)
		}
		switch line.Type {
		case domain.Section:
			e.afterSection = true
		case domain.Separator, domain.Synopsis, domain.PageBreak:
		default:
			e.afterSection = false
		}
	}
	return nil
}

func (e *engine) line(l *domain.Line) error {
	switch l.Type {
	case domain.PageBreak:
		return e.pageBreak(l)
	case domain.Separator:
		e.y++
		e.record(l, false)
		return nil
	default:
		return e.content(l)
	}
}

// withToken returns a copy of l with a zero token when it has none. The
// document itself is never modified, so renders may share it.
func withToken(l domain.Line) domain.Line {
	if l.Token == nil {
		l.Token = &domain.Token{}
	}
	return l
}

// record stores the diagnostics of a source line the first time it is seen.
func (e *engine) record(l *domain.Line, accumulate bool) {
	n := l.Token.Line
	if n == 0 {
		return
	}
	if _, seen := e.lineMap[n]; seen {
		return
	}
	if accumulate {
		e.duration += l.Token.Time
	}
	e.lineMap[n] = LineStruct{
		Page:               e.page,
		Scene:              e.currentScene,
		Sections:           append([]string{}, e.currentSections...),
		CumulativeDuration: e.duration,
	}
}

func (e *engine) pageBreak(l *domain.Line) error {
	p := e.prof
	if e.cfg.SceneContinuationBottom && l.SceneSplit {
		txt := "(" + e.cfg.continuedText() + ")"
		x := p.Action.Feed + float64(p.Action.Max)*p.FontWidth - float64(utf8.RuneCountInString(txt))*p.FontWidth
		e.span.simple(txt, x, e.row(e.y+2))
	}
	e.record(l, false)

	e.y = 0
	e.addPage()
	e.page++
	e.log.Debug("page advanced", "page", e.page, "scene_split", l.SceneSplit)

	if e.cfg.SceneContinuationTop && l.SceneSplit {
		e.continuations[e.sceneNumber]++
		txt := e.continuationHeader(e.continuations[e.sceneNumber])
		e.span.simple(txt, p.Action.Feed, p.PageNumberTopMargin)
		e.prevContinuation = txt
	}
	if e.cfg.ShowPageNumbers {
		num := strconv.Itoa(e.page) + "."
		x := p.Action.Feed + float64(p.Action.Max)*p.FontWidth - float64(len(num))*p.FontWidth
		e.span.simple(num, x, p.PageNumberTopMargin)
	}
	err := e.overlays(e.prevContinuation)
	e.prevContinuation = ""
	return err
}

// continuationHeader builds "[number ]CONTINUED:[ (n)]" without emphasis markers.
func (e *engine) continuationHeader(n int) string {
	var b strings.Builder
	if e.cfg.SceneNumbers != SceneNumbersNone && e.sceneNumber != "" {
		b.WriteString(e.sceneNumber)
		b.WriteString(" ")
	}
	b.WriteString(e.cfg.continuedText())
	b.WriteString(":")
	if n > 1 {
		fmt.Fprintf(&b, " (%d)", n)
	}
	return markup.Clear(b.String())
}

// props resolves highlighting for a line. speaker tracks the last character
// cue so that dialogue lines share its highlight.
func (e *engine) props(l *domain.Line, color string, speaker *string) textProps {
	tp := textProps{Color: color}
	switch l.Type {
	case domain.Character:
		*speaker = CharacterName(l.Text)
		if e.cfg.EmboldenCharacterNames {
			tp.Bold = true
		}
		fallthrough
	case domain.Dialogue, domain.Parenthetical:
		if *speaker != "" && e.exp.highlightsCharacter(*speaker) {
			tp.Highlight = true
			tp.HighlightColor = WordToColor(*speaker)
		}
	default:
		*speaker = ""
	}
	if ch := e.exp.HighlightedChanges; ch.has(l.Token.OriginalLine) {
		if ch.Color != nil {
			tp.Highlight = true
			tp.HighlightColor = *ch.Color
		}
		tp.AsteriskMargin = true
	}
	return tp
}

// feedOf is the profile feed of a line type, falling back to the action column.
func (e *engine) feedOf(t domain.LineType) float64 {
	if el, ok := e.prof.Element(t); ok && el.Feed != 0 {
		return el.Feed
	}
	return e.prof.Action.Feed
}

// leftDualFeed moves a feed halfway towards the left margin.
func (e *engine) leftDualFeed(feed float64) float64 {
	return feed - (feed-e.prof.LeftMargin)/2
}

// rightDualFeed mirrors a feed into the right half of the writable area.
func (e *engine) rightDualFeed(feed float64) float64 {
	return e.leftDualFeed(feed) + e.prof.WritableWidth()/2
}

func (e *engine) content(l *domain.Line) error {
	p := e.prof
	el, _ := p.Element(l.Type)
	color := el.Color
	if color == "" {
		color = "#000000"
	}
	var speaker string
	if l.Type == domain.Dialogue || l.Type == domain.Parenthetical {
		speaker = e.speaker
	}
	tp := e.props(l, color, &speaker)
	e.speaker = speaker

	text := l.Text
	if l.Type == domain.Parenthetical && !strings.HasPrefix(text, "(") {
		text = " " + text
	}

	if l.Type == domain.Centered {
		x := (p.PageWidth - float64(markup.VisibleLen(text))*p.FontWidth) / 2
		if err := e.span.text(text, x, e.row(e.y), textProps{}); err != nil {
			return err
		}
		e.y++
		e.record(l, true)
		return nil
	}

	feed := e.feedOf(l.Type)
	if l.Type == domain.Transition {
		feed = p.Action.Feed + float64(p.Action.Max)*p.FontWidth - float64(utf8.RuneCountInString(l.Text))*p.FontWidth
	}

	invisible := l.Type == domain.SceneHeading && len(l.Token.InvisibleSections) > 0
	switch {
	case invisible:
		for _, s := range l.Token.InvisibleSections {
			e.section(s, s.Text, true, &feed, &text)
		}
	case l.Type == domain.Section:
		title := l.Token.Text
		if title == "" {
			title = l.Text
		}
		e.section(l.Token, title, false, &feed, &text)
	}

	if l.Type == domain.SceneHeading {
		if e.cfg.CreateBookmarks {
			e.out.add(e.outlineDepth, text, e.row(e.y))
		}
		e.currentScene = text
		text = e.headingStyle(text)
	}

	if l.Type == domain.Synopsis {
		feed += p.Synopsis.Padding
		if p.Synopsis.FeedWithLastSection && e.afterSection {
			feed += float64(e.sectionLevel) * p.Section.LevelIndent
		} else {
			feed = p.Action.Feed
		}
	}

	if el.Italic && text != "" {
		text = "*" + text + "*"
	}

	if l.Token.Dual {
		if err := e.rightColumn(l.RightColumn, color); err != nil {
			return err
		}
		feed = e.leftDualFeed(feed)
	}

	if err := e.span.text(text, feed, e.row(e.y), tp); err != nil {
		return err
	}
	e.y += l.LineDiff

	if l.Number != "" {
		if err := e.sceneNumbers(l.Number, feed, tp); err != nil {
			return err
		}
	}
	e.y++
	e.record(l, true)
	return nil
}

// rightColumn draws the second speaker of a dual dialogue block with its own row cursor.
func (e *engine) rightColumn(lines []domain.Line, color string) error {
	y := e.y
	var speaker string
	for i := range lines {
		line := withToken(lines[i])
		rl := &line
		tp := e.props(rl, color, &speaker)
		if err := e.span.text(rl.Text, e.rightDualFeed(e.feedOf(rl.Type)), e.row(y), tp); err != nil {
			return fmt.Errorf("right column: %w", err)
		}
		y++
	}
	return nil
}

func (e *engine) headingStyle(text string) string {
	if e.cfg.EmboldenSceneHeaders {
		text = "**" + text + "**"
	}
	if e.cfg.UnderlineSceneHeaders {
		text = "_" + text + "_"
	}
	return text
}

// section applies one section token: stack, indentation, numbering and bookmark.
func (e *engine) section(tok *domain.Token, title string, invisible bool, feed *float64, text *string) {
	level := tok.Level
	if level < 1 {
		level = 1
	}
	e.sectionLevel = level
	for len(e.currentSections) < level-1 {
		e.currentSections = append(e.currentSections, "")
	}
	e.currentSections = append(e.currentSections[:level-1], title)
	if !invisible {
		*feed += float64(level) * e.prof.Section.LevelIndent
	}
	if e.cfg.NumberSections {
		if tok != e.sectionToken {
			e.sectionNumber = e.numbers.next(level)
			e.sectionToken = tok
			title = e.sectionNumber + ". " + title
		} else {
			title = strings.Repeat(" ", len(e.sectionNumber)+2) + title
		}
	}
	if e.cfg.CreateBookmarks {
		if invisible && !e.cfg.InvisibleSectionBookmarks {
			return
		}
		e.out.add(level-1, title, e.row(e.y))
	}
	if !invisible {
		*text = title
	}
	e.outlineDepth = level
}

// sceneNumbers prints the number beside the heading per configuration.
func (e *engine) sceneNumbers(number string, feed float64, tp textProps) error {
	p := e.prof
	n := markup.VisibleLen(number)
	e.sceneNumber = e.headingStyle(number)
	np := textProps{Color: sceneNumberColor, Bold: tp.Bold}
	if e.cfg.SceneNumbers.left() {
		shift := float64(n+4) * p.FontWidth
		if err := e.span.text(e.sceneNumber, feed-shift, e.row(e.y), np); err != nil {
			return err
		}
	}
	if e.cfg.SceneNumbers.right() {
		shift := float64(p.SceneHeading.Max+1) * p.FontWidth
		if err := e.span.text(e.sceneNumber, feed+shift, e.row(e.y), np); err != nil {
			return err
		}
	}
	return nil
}
