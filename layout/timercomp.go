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
	"github.com/LiveSplit/livesplit-core/run"
	"github.com/LiveSplit/livesplit-core/timer"
	"github.com/LiveSplit/livesplit-core/timeval"
)

// TimerSettings configures the big time display.
type TimerSettings struct {
	Background   Gradient
	Height       int
	Accuracy     timeval.Accuracy
	DigitsFormat timeval.DigitsFormat
	// Comparison the live color is judged against; empty means Personal
	// Best.
	Comparison string
	// Method overrides the snapshot's current timing method when non-nil.
	Method *run.TimingMethod
}

// NewTimerSettings returns the customary big timer: hundredths, minutes
// always visible.
func NewTimerSettings() *TimerSettings {
	return &TimerSettings{
		Background:   Transparent,
		Height:       60,
		Accuracy:     timeval.Hundredths,
		DigitsFormat: timeval.SingleDigitMinutes,
	}
}

// TimerState is the renderable state of the big time display. Time carries
// the integer part, Fraction the dot and fractional digits, so the
// renderer can right-align the two at different font sizes.
type TimerState struct {
	Background        Gradient      `json:"background"`
	Time              string        `json:"time"`
	Fraction          string        `json:"fraction"`
	SemanticColor     SemanticColor `json:"semantic_color"`
	TopColor          Color         `json:"top_color"`
	BottomColor       Color         `json:"bottom_color"`
	Height            int           `json:"height"`
	UpdatesFrequently bool          `json:"updates_frequently"`
}

func (ts *TimerSettings) update(state *TimerState, snap *timer.Snapshot) {
	method := snap.CurrentTimingMethod()
	if ts.Method != nil {
		method = *ts.Method
	}
	cmp := ts.Comparison
	if cmp == "" {
		cmp = run.ComparisonPersonalBest
	}

	cur := snap.CurrentTime().Get(method)
	splitTimeFraction(state, timeval.Format(cur, ts.Accuracy, ts.DigitsFormat))

	state.Background = ts.Background
	state.Height = ts.Height
	state.SemanticColor = timerColor(snap, cmp, method)
	visual := state.SemanticColor.Visualize()
	state.TopColor = visual
	state.BottomColor = shade(visual, 0.7)
	state.UpdatesFrequently = snap.Phase() == timer.Running && cur != nil
}

// timerColor classifies the running time itself: phase overrides first,
// then a finished attempt that beats the PB, then the live delta.
func timerColor(snap *timer.Snapshot, cmp string, method run.TimingMethod) SemanticColor {
	switch snap.Phase() {
	case timer.NotRunning:
		return NotRunningColor
	case timer.Paused:
		return PausedColor
	case timer.Ended:
		last := snap.Run().Len() - 1
		final := snap.AttemptSplit(last).Get(method)
		pb := snap.ComparisonSplit(last, run.ComparisonPersonalBest, method)
		if final != nil && (pb == nil || *final < *pb) {
			return PersonalBestColor
		}
		return SplitColor(snap, last, cmp, method)
	default:
		d := snap.LiveDelta(cmp, method)
		if d == nil || *d < 0 {
			// Not yet past the comparison's target: still counted as ahead.
			return AheadGainingTime
		}
		return DeltaColor(d, previousDelta(snap, snap.CurrentSegmentIndex(), cmp, method))
	}
}

// shade scales a color's channels toward black for the bottom of the
// vertical text gradient.
func shade(c Color, f float32) Color {
	return Color{R: c.R * f, G: c.G * f, B: c.B * f, A: c.A}
}
