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
	"time"

	"github.com/LiveSplit/livesplit-core/run"
	"github.com/LiveSplit/livesplit-core/timer"
	"github.com/LiveSplit/livesplit-core/timeval"
)

// SplitsSettings configures the windowed segment list.
type SplitsSettings struct {
	Background           Gradient
	CurrentSplitGradient Gradient
	// VisibleCount is how many rows are rendered at once; 0 shows every
	// segment.
	VisibleCount int
	// UpcomingSegments is how many rows after the current segment stay in
	// view while scrolling with the attempt.
	UpcomingSegments int
	// ScrollOffset shifts the window by whole rows from where the current
	// segment would put it; reset it to 0 to snap back.
	ScrollOffset          int
	AlwaysShowLastSegment bool
	ShowThinSeparators    bool
	DisplayTwoRows        bool
	ShowColumnLabels      bool
	Columns               []ColumnSettings
}

// NewSplitsSettings returns the customary splits list: every segment
// visible, a delta column and a split time column.
func NewSplitsSettings() *SplitsSettings {
	return &SplitsSettings{
		Background:            Vertical(RGBA(0.10, 0.10, 0.10, 1), RGBA(0.07, 0.07, 0.07, 1)),
		CurrentSplitGradient:  Vertical(RGBA(0.2, 0.3, 0.55, 1), RGBA(0.13, 0.2, 0.4, 1)),
		AlwaysShowLastSegment: true,
		ShowThinSeparators:    true,
		Columns: []ColumnSettings{
			{
				Name:          "+/−",
				StartWith:     StartEmpty,
				UpdateWith:    UpdateDelta,
				UpdateTrigger: TriggerContextual,
				Accuracy:      timeval.Tenths,
			},
			{
				Name:          "Time",
				StartWith:     StartComparisonTime,
				UpdateWith:    UpdateSplitTime,
				UpdateTrigger: TriggerOnEndingSegment,
				Accuracy:      timeval.Seconds,
			},
		},
	}
}

// SplitsState is the renderable state of the segment list.
type SplitsState struct {
	Background           Gradient     `json:"background"`
	ColumnLabels         []string     `json:"column_labels,omitempty"`
	Splits               []SplitState `json:"splits"`
	HasIcons             bool         `json:"has_icons"`
	ShowThinSeparators   bool         `json:"show_thin_separators"`
	ShowFinalSeparator   bool         `json:"show_final_separator"`
	DisplayTwoRows       bool         `json:"display_two_rows"`
	CurrentSplitGradient Gradient     `json:"current_split_gradient"`
}

// SplitState is one rendered segment row. Columns are ordered right to
// left, matching how the renderer lays them out from the trailing edge.
type SplitState struct {
	Icon           string        `json:"icon,omitempty"`
	Name           string        `json:"name"`
	Columns        []ColumnState `json:"columns"`
	IsCurrentSplit bool          `json:"is_current_split"`
	Index          int           `json:"index"`
}

// ColumnState is one rendered cell.
type ColumnState struct {
	Value             string        `json:"value"`
	SemanticColor     SemanticColor `json:"semantic_color"`
	VisualColor       Color         `json:"visual_color"`
	UpdatesFrequently bool          `json:"updates_frequently"`
}

func (ss *SplitsSettings) update(state *SplitsState, snap *timer.Snapshot) {
	r := snap.Run()
	segs := r.Segments()
	n := len(segs)

	first, last, withFinal := ss.window(snap, n)

	state.Background = ss.Background
	state.CurrentSplitGradient = ss.CurrentSplitGradient
	state.ShowThinSeparators = ss.ShowThinSeparators
	state.DisplayTwoRows = ss.DisplayTwoRows

	state.ColumnLabels = state.ColumnLabels[:0]
	if ss.ShowColumnLabels {
		for _, col := range ss.Columns {
			state.ColumnLabels = append(state.ColumnLabels, col.Name)
		}
	}

	rows := last - first + 1
	if withFinal {
		rows++
	}
	// A separator marks the jump only when the final row isn't contiguous
	// with the window.
	state.ShowFinalSeparator = withFinal && last < n-2

	if cap(state.Splits) < rows {
		state.Splits = append(state.Splits[:cap(state.Splits)],
			make([]SplitState, rows-cap(state.Splits))...)
	}
	state.Splits = state.Splits[:rows]

	state.HasIcons = false
	row := 0
	fill := func(i int) {
		seg := segs[i]
		sp := &state.Splits[row]
		sp.Index = i
		sp.Name = seg.Name
		sp.Icon = ""
		if seg.Icon.IsSet() {
			sp.Icon = seg.Icon.String()
			state.HasIcons = true
		}
		sp.IsCurrentSplit = i == snap.CurrentSegmentIndex() && snap.Phase() != timer.NotRunning && snap.Phase() != timer.Ended
		sp.Columns = sp.Columns[:0]
		for c := range ss.Columns {
			sp.Columns = append(sp.Columns, ss.Columns[c].cell(snap, i))
		}
		row++
	}
	for i := first; i <= last; i++ {
		fill(i)
	}
	if withFinal {
		fill(n - 1)
	}
}

// window computes the inclusive [first, last] segment range to render,
// keeping the current segment (plus the configured upcoming rows) in view
// and applying the user's scroll offset. When AlwaysShowLastSegment holds
// and the window wouldn't reach the final segment, the last visible row is
// given to the final segment instead (withFinal) and the window shrinks by
// one, keeping the row count at VisibleCount.
func (ss *SplitsSettings) window(snap *timer.Snapshot, n int) (first, last int, withFinal bool) {
	vis := ss.VisibleCount
	if vis <= 0 || vis > n {
		vis = n
	}
	current := snap.CurrentSegmentIndex()
	place := func(v, limit int) (int, int) {
		f := current + ss.UpcomingSegments + 1 - v + ss.ScrollOffset
		if f > limit-v {
			f = limit - v
		}
		if f < 0 {
			f = 0
		}
		return f, f + v - 1
	}
	first, last = place(vis, n)
	if !ss.AlwaysShowLastSegment || last == n-1 {
		return first, last, false
	}
	first, last = place(vis-1, n-1)
	return first, last, true
}

// StartWith selects what a column shows before the attempt reaches its
// row.
type StartWith string

const (
	StartEmpty                 StartWith = "empty"
	StartComparisonTime        StartWith = "comparison_time"
	StartComparisonSegmentTime StartWith = "comparison_segment_time"
	StartPossibleTimeSave      StartWith = "possible_time_save"
)

// UpdateWith selects what replaces the starting value once current-attempt
// data exists for the row.
type UpdateWith string

const (
	UpdateDontUpdate               UpdateWith = "dont_update"
	UpdateSplitTime                UpdateWith = "split_time"
	UpdateDelta                    UpdateWith = "delta"
	UpdateDeltaWithFallback        UpdateWith = "delta_with_fallback"
	UpdateSegmentTime              UpdateWith = "segment_time"
	UpdateSegmentDelta             UpdateWith = "segment_delta"
	UpdateSegmentDeltaWithFallback UpdateWith = "segment_delta_with_fallback"
)

// UpdateTrigger selects when the replacement happens for the row being
// timed: the moment it becomes current, contextually once the live value
// carries information (time is being lost), or only when it ends.
type UpdateTrigger string

const (
	TriggerOnStartingSegment UpdateTrigger = "on_starting_segment"
	TriggerContextual        UpdateTrigger = "contextual"
	TriggerOnEndingSegment   UpdateTrigger = "on_ending_segment"
)

// ColumnSettings is one column of every splits row.
type ColumnSettings struct {
	Name          string
	StartWith     StartWith
	UpdateWith    UpdateWith
	UpdateTrigger UpdateTrigger
	// Comparison empty means Personal Best.
	Comparison string
	// Method overrides the snapshot's current timing method when non-nil.
	Method   *run.TimingMethod
	Accuracy timeval.Accuracy
}

func (cs *ColumnSettings) comparison() string {
	if cs.Comparison == "" {
		return run.ComparisonPersonalBest
	}
	return cs.Comparison
}

func (cs *ColumnSettings) method(snap *timer.Snapshot) run.TimingMethod {
	if cs.Method != nil {
		return *cs.Method
	}
	return snap.CurrentTimingMethod()
}

// cell computes one rendered column cell for segment i.
func (cs *ColumnSettings) cell(snap *timer.Snapshot, i int) ColumnState {
	method := cs.method(snap)
	cmp := cs.comparison()
	current := snap.CurrentSegmentIndex()
	phase := snap.Phase()

	ended := i < current || phase == timer.Ended
	live := i == current && (phase == timer.Running || phase == timer.Paused)

	var value *time.Duration
	var color SemanticColor
	isDelta := false
	showedStart := false
	updatesFrequently := false

	switch {
	case ended:
		value, color, isDelta = cs.endedValue(snap, i, cmp, method)
	case live && cs.liveTriggered(snap, cmp, method):
		value, color, isDelta = cs.liveValue(snap, i, cmp, method)
		updatesFrequently = phase == timer.Running && value != nil
	default:
		value = cs.startValue(snap, i, cmp, method)
		color = Default
		showedStart = true
	}

	var text string
	switch {
	case showedStart && value == nil && cs.StartWith == StartEmpty:
		text = ""
	case isDelta:
		text = formatDelta(value, cs.Accuracy)
	default:
		text = timeval.Format(value, cs.Accuracy, timeval.SingleDigitSeconds)
	}
	return ColumnState{
		Value:             text,
		SemanticColor:     color,
		VisualColor:       color.Visualize(),
		UpdatesFrequently: updatesFrequently,
	}
}

func (cs *ColumnSettings) startValue(snap *timer.Snapshot, i int, cmp string, method run.TimingMethod) *time.Duration {
	switch cs.StartWith {
	case StartComparisonTime:
		return snap.ComparisonSplit(i, cmp, method)
	case StartComparisonSegmentTime:
		return snap.ComparisonSegmentTime(i, cmp, method)
	case StartPossibleTimeSave:
		return snap.PossibleTimeSave(i, method)
	default:
		return nil
	}
}

func (cs *ColumnSettings) endedValue(snap *timer.Snapshot, i int, cmp string, method run.TimingMethod) (*time.Duration, SemanticColor, bool) {
	switch cs.UpdateWith {
	case UpdateSplitTime:
		return snap.AttemptSplit(i).Get(method), Default, false
	case UpdateDelta, UpdateDeltaWithFallback:
		d := snap.Delta(i, cmp, method)
		if d == nil && cs.UpdateWith == UpdateDeltaWithFallback {
			d = previousDelta(snap, i, cmp, method)
		}
		return d, SplitColor(snap, i, cmp, method), true
	case UpdateSegmentTime:
		return snap.AttemptSegmentTime(i, method), Default, false
	case UpdateSegmentDelta, UpdateSegmentDeltaWithFallback:
		d := snap.SegmentDelta(i, cmp, method)
		if d == nil && cs.UpdateWith == UpdateSegmentDeltaWithFallback {
			d = previousDelta(snap, i, cmp, method)
		}
		color := Default
		if d != nil {
			color = DeltaColor(d, nil)
			if snap.IsBestSegment(i, method) {
				color = BestSegment
			}
		}
		return d, color, true
	default: // UpdateDontUpdate
		return cs.startValue(snap, i, cmp, method), Default, false
	}
}

// liveTriggered reports whether the current segment's cell should already
// show live data.
func (cs *ColumnSettings) liveTriggered(snap *timer.Snapshot, cmp string, method run.TimingMethod) bool {
	switch cs.UpdateTrigger {
	case TriggerOnStartingSegment:
		return true
	case TriggerOnEndingSegment:
		return false
	default: // TriggerContextual: only once the live value carries news,
		// i.e. the running time has passed the comparison's target.
		d := snap.LiveDelta(cmp, method)
		return d != nil && *d >= 0
	}
}

func (cs *ColumnSettings) liveValue(snap *timer.Snapshot, i int, cmp string, method run.TimingMethod) (*time.Duration, SemanticColor, bool) {
	cur := snap.CurrentTime().Get(method)
	switch cs.UpdateWith {
	case UpdateSplitTime:
		return cur, Default, false
	case UpdateDelta, UpdateDeltaWithFallback:
		d := snap.LiveDelta(cmp, method)
		return d, DeltaColor(d, previousDelta(snap, i, cmp, method)), true
	case UpdateSegmentTime:
		return liveSegmentTime(snap, i, method), Default, false
	case UpdateSegmentDelta, UpdateSegmentDeltaWithFallback:
		st := liveSegmentTime(snap, i, method)
		cst := snap.ComparisonSegmentTime(i, cmp, method)
		if st == nil || cst == nil {
			return nil, Default, true
		}
		d := *st - *cst
		return &d, DeltaColor(&d, nil), true
	default:
		return cs.startValue(snap, i, cmp, method), Default, false
	}
}

// liveSegmentTime is the running duration of the segment being timed: the
// current time minus the most recent recorded split before it.
func liveSegmentTime(snap *timer.Snapshot, i int, method run.TimingMethod) *time.Duration {
	cur := snap.CurrentTime().Get(method)
	if cur == nil {
		return nil
	}
	var base time.Duration
	for j := i - 1; j >= 0; j-- {
		if v := snap.AttemptSplit(j).Get(method); v != nil {
			base = *v
			break
		}
	}
	d := *cur - base
	return &d
}

// formatDelta renders a delta with an explicit leading sign, so gains and
// losses read apart at a glance.
func formatDelta(d *time.Duration, acc timeval.Accuracy) string {
	s := timeval.Format(d, acc, timeval.SingleDigitSeconds)
	if d != nil && *d >= 0 {
		s = "+" + s
	}
	return s
}
