// Copyright 2017 Fortio Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package layout

import (
	"strings"

	"github.com/LiveSplit/livesplit-core/timer"
)

// TitleSettings configures the game/category header.
type TitleSettings struct {
	Background       Gradient
	TextColor        *Color
	ShowGameName     bool
	ShowCategoryName bool
	ShowFinishedRuns bool
	ShowAttemptCount bool
	ShowGameIcon     bool
	IsCentered       bool
}

// NewTitleSettings returns the customary header: both lines, attempt
// count, icon on the left.
func NewTitleSettings() *TitleSettings {
	return &TitleSettings{
		Background:       Vertical(RGBA(0.13, 0.13, 0.13, 1), RGBA(0.09, 0.09, 0.09, 1)),
		ShowGameName:     true,
		ShowCategoryName: true,
		ShowAttemptCount: true,
		ShowGameIcon:     true,
	}
}

// TitleState is the renderable state of the header. Line1 and Line2 carry
// progressively longer renderings of the same text - the renderer picks
// the longest that fits its width; the last element is always the
// unabbreviated original.
type TitleState struct {
	Background   Gradient `json:"background"`
	TextColor    *Color   `json:"text_color,omitempty"`
	Icon         string   `json:"icon,omitempty"`
	Line1        []string `json:"line1"`
	Line2        []string `json:"line2"`
	IsCentered   bool     `json:"is_centered"`
	FinishedRuns *int     `json:"finished_runs,omitempty"`
	Attempts     *int     `json:"attempts,omitempty"`
}

func (ts *TitleSettings) update(state *TitleState, snap *timer.Snapshot) {
	r := snap.Run()
	state.Background = ts.Background
	state.TextColor = ts.TextColor
	state.IsCentered = ts.IsCentered || !ts.ShowGameIcon || !r.GameIcon.IsSet()

	state.Icon = ""
	if ts.ShowGameIcon && r.GameIcon.IsSet() {
		state.Icon = r.GameIcon.String()
	}

	state.Line1 = state.Line1[:0]
	state.Line2 = state.Line2[:0]
	switch {
	case ts.ShowGameName && ts.ShowCategoryName:
		state.Line1 = appendAbbreviations(state.Line1, r.GameName)
		state.Line2 = appendAbbreviations(state.Line2, r.CategoryName)
	case ts.ShowGameName:
		state.Line1 = appendAbbreviations(state.Line1, r.GameName)
	case ts.ShowCategoryName:
		state.Line1 = appendAbbreviations(state.Line1, r.CategoryName)
	}

	state.FinishedRuns = nil
	if ts.ShowFinishedRuns {
		n := r.FinishedCount
		state.FinishedRuns = &n
	}
	state.Attempts = nil
	if ts.ShowAttemptCount {
		n := r.AttemptCount
		state.Attempts = &n
	}
}

// appendAbbreviations appends the shortened renderings of s, shortest
// first and the unabbreviated s last. Parenthesized qualifiers ("Game
// (JP)") and a trailing subtitle after a colon are candidates for
// dropping.
func appendAbbreviations(dst []string, s string) []string {
	if short := stripParens(s); short != s && short != "" {
		if clipped := clipSubtitle(short); clipped != short && clipped != "" {
			dst = append(dst, clipped)
		}
		dst = append(dst, short)
	} else if clipped := clipSubtitle(s); clipped != s && clipped != "" {
		dst = append(dst, clipped)
	}
	return append(dst, s)
}

func stripParens(s string) string {
	for {
		open := strings.IndexByte(s, '(')
		if open < 0 {
			break
		}
		end := strings.IndexByte(s[open:], ')')
		if end < 0 {
			break
		}
		s = s[:open] + s[open+end+1:]
	}
	return strings.Join(strings.Fields(s), " ")
}

func clipSubtitle(s string) string {
	if idx := strings.Index(s, ": "); idx > 0 {
		return s[:idx]
	}
	return s
}
