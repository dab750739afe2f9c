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

// DetailedTimerSettings configures the two-stage timer: the attempt total
// above the running time of just the current segment, with up to two
// comparison readouts for that segment.
type DetailedTimerSettings struct {
	Background      Gradient
	Timer           TimerSettings
	SegmentTimer    TimerSettings
	Comparison1     string
	Comparison2     string
	ShowSegmentName bool
	ShowSegmentIcon bool
}

// NewDetailedTimerSettings returns the customary detailed timer.
func NewDetailedTimerSettings() *DetailedTimerSettings {
	return &DetailedTimerSettings{
		Background:      Plain(RGBA(0.08, 0.08, 0.08, 1)),
		Timer:           *NewTimerSettings(),
		SegmentTimer:    TimerSettings{Height: 40, Accuracy: timeval.Hundredths, DigitsFormat: timeval.SingleDigitMinutes},
		Comparison1:     run.ComparisonPersonalBest,
		Comparison2:     run.ComparisonBestSegments,
		ShowSegmentName: true,
	}
}

// ComparisonRow is one named target time for the current segment.
type ComparisonRow struct {
	Name string `json:"name"`
	Time string `json:"time"`
}

// DetailedTimerState is the renderable state of the detailed timer.
type DetailedTimerState struct {
	Background   Gradient       `json:"background"`
	Timer        TimerState     `json:"timer"`
	SegmentTimer TimerState     `json:"segment_timer"`
	Comparison1  *ComparisonRow `json:"comparison1,omitempty"`
	Comparison2  *ComparisonRow `json:"comparison2,omitempty"`
	SegmentName  string         `json:"segment_name,omitempty"`
	Icon         string         `json:"icon,omitempty"`
}

func (ds *DetailedTimerSettings) update(state *DetailedTimerState, snap *timer.Snapshot) {
	state.Background = ds.Background
	ds.Timer.update(&state.Timer, snap)

	method := snap.CurrentTimingMethod()
	if ds.SegmentTimer.Method != nil {
		method = *ds.SegmentTimer.Method
	}
	seg := liveSegmentTime(snap, snap.CurrentSegmentIndex(), method)
	formatted := timeval.Format(seg, ds.SegmentTimer.Accuracy, ds.SegmentTimer.DigitsFormat)
	state.SegmentTimer = TimerState{
		Background:        ds.SegmentTimer.Background,
		Height:            ds.SegmentTimer.Height,
		SemanticColor:     Default,
		TopColor:          Default.Visualize(),
		BottomColor:       shade(Default.Visualize(), 0.7),
		UpdatesFrequently: snap.Phase() == timer.Running,
	}
	splitTimeFraction(&state.SegmentTimer, formatted)

	i := snap.CurrentSegmentIndex()
	state.Comparison1 = comparisonRow(snap, i, ds.Comparison1, method, state.Comparison1)
	state.Comparison2 = comparisonRow(snap, i, ds.Comparison2, method, state.Comparison2)

	state.SegmentName = ""
	state.Icon = ""
	segs := snap.Run().Segments()
	if i >= 0 && i < len(segs) {
		if ds.ShowSegmentName {
			state.SegmentName = segs[i].Name
		}
		if ds.ShowSegmentIcon && segs[i].Icon.IsSet() {
			state.Icon = segs[i].Icon.String()
		}
	}
}

func comparisonRow(snap *timer.Snapshot, i int, name string, method run.TimingMethod, prev *ComparisonRow) *ComparisonRow {
	if name == "" {
		return nil
	}
	v := snap.ComparisonSplit(i, name, method)
	if prev == nil {
		prev = &ComparisonRow{}
	}
	prev.Name = name
	prev.Time = timeval.Format(v, timeval.Seconds, timeval.SingleDigitMinutes)
	return prev
}

// splitTimeFraction splits a formatted time at the decimal dot into the
// state's Time and Fraction fields.
func splitTimeFraction(state *TimerState, formatted string) {
	for i := len(formatted) - 1; i >= 0; i-- {
		if formatted[i] == '.' {
			state.Time = formatted[:i]
			state.Fraction = formatted[i:]
			return
		}
	}
	state.Time = formatted
	state.Fraction = ""
}
