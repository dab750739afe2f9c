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

// ValueSource selects which derived quantity a KeyValue row displays. One
// generic component covers the whole family of single-number readouts.
type ValueSource string

const (
	// ValueDelta is the live delta against the comparison.
	ValueDelta ValueSource = "delta"
	// ValuePreviousSegment is the delta gained or lost on the most
	// recently completed segment.
	ValuePreviousSegment ValueSource = "previous_segment"
	// ValuePossibleTimeSave is the possible time save of the current
	// segment.
	ValuePossibleTimeSave ValueSource = "possible_time_save"
	// ValueTotalPossibleTimeSave sums the remaining possible time save.
	ValueTotalPossibleTimeSave ValueSource = "total_possible_time_save"
	// ValueSumOfBest is the run's sum of best segments.
	ValueSumOfBest ValueSource = "sum_of_best"
	// ValueCurrentPace is the predicted finish time.
	ValueCurrentPace ValueSource = "current_pace"
)

// KeyValueSettings configures one generic key/value readout row.
type KeyValueSettings struct {
	Background Gradient
	Source     ValueSource
	// Comparison empty means Personal Best.
	Comparison string
	// Method overrides the snapshot's current timing method when non-nil.
	Method         *run.TimingMethod
	Accuracy       timeval.Accuracy
	KeyColor       *Color
	ValueColor     *Color
	DisplayTwoRows bool
}

// NewKeyValueSettings returns a readout row for source with the customary
// styling.
func NewKeyValueSettings(source ValueSource) *KeyValueSettings {
	return &KeyValueSettings{
		Background: Plain(RGBA(0.09, 0.09, 0.09, 1)),
		Source:     source,
		Accuracy:   timeval.Tenths,
	}
}

// KeyValueState is the renderable state of one readout row.
// KeyAbbreviations lists progressively longer renderings of Key, shortest
// first, with the full key last.
type KeyValueState struct {
	Background        Gradient      `json:"background"`
	KeyColor          *Color        `json:"key_color,omitempty"`
	ValueColor        *Color        `json:"value_color,omitempty"`
	SemanticColor     SemanticColor `json:"semantic_color"`
	Key               string        `json:"key"`
	Value             string        `json:"value"`
	KeyAbbreviations  []string      `json:"key_abbreviations"`
	DisplayTwoRows    bool          `json:"display_two_rows"`
	UpdatesFrequently bool          `json:"updates_frequently"`
}

func (ks *KeyValueSettings) update(state *KeyValueState, snap *timer.Snapshot) {
	method := snap.CurrentTimingMethod()
	if ks.Method != nil {
		method = *ks.Method
	}
	cmp := ks.Comparison
	if cmp == "" {
		cmp = run.ComparisonPersonalBest
	}

	state.Background = ks.Background
	state.KeyColor = ks.KeyColor
	state.ValueColor = ks.ValueColor
	state.DisplayTwoRows = ks.DisplayTwoRows
	state.SemanticColor = Default
	state.UpdatesFrequently = false

	var value *time.Duration
	delta := false
	switch ks.Source {
	case ValueDelta:
		state.Key = cmp
		state.KeyAbbreviations = abbrevKeys(state.KeyAbbreviations, "Delta", cmp)
		value = snap.LiveDelta(cmp, method)
		delta = true
		state.UpdatesFrequently = snap.Phase() == timer.Running
	case ValuePreviousSegment:
		state.Key = "Previous Segment"
		state.KeyAbbreviations = abbrevKeys(state.KeyAbbreviations, "Prev. Segment", "Previous Segment")
		if i := snap.CurrentSegmentIndex() - 1; i >= 0 || snap.Phase() == timer.Ended {
			if snap.Phase() == timer.Ended {
				i = snap.Run().Len() - 1
			}
			value = snap.SegmentDelta(i, cmp, method)
			if value != nil && snap.IsBestSegment(i, method) {
				state.SemanticColor = BestSegment
			}
		}
		delta = true
	case ValuePossibleTimeSave:
		state.Key = "Possible Time Save"
		state.KeyAbbreviations = abbrevKeys(state.KeyAbbreviations, "Time Save", "Possible Time Save")
		value = snap.PossibleTimeSave(snap.CurrentSegmentIndex(), method)
	case ValueTotalPossibleTimeSave:
		state.Key = "Total Possible Time Save"
		state.KeyAbbreviations = abbrevKeys(state.KeyAbbreviations, "Total Time Save", "Total Possible Time Save")
		v := snap.TotalPossibleTimeSave(snap.CurrentSegmentIndex(), method)
		value = &v
	case ValueSumOfBest:
		state.Key = "Sum of Best Segments"
		state.KeyAbbreviations = abbrevKeys(state.KeyAbbreviations, "SoB", "Sum of Best", "Sum of Best Segments")
		value = snap.SumOfBest(method)
	case ValueCurrentPace:
		state.Key = "Current Pace"
		state.KeyAbbreviations = abbrevKeys(state.KeyAbbreviations, "Pace", "Current Pace")
		value = snap.CurrentPace(method)
		state.UpdatesFrequently = snap.Phase() == timer.Running && snap.CurrentSegmentIndex() == 0
	}

	if delta {
		state.Value = formatDelta(value, ks.Accuracy)
		if state.SemanticColor == Default {
			state.SemanticColor = DeltaColor(value, nil)
		}
	} else {
		state.Value = timeval.Format(value, ks.Accuracy, timeval.SingleDigitSeconds)
	}
}

// abbrevKeys rewrites dst with the given renderings, reusing its backing
// array; callers list them shortest first, unabbreviated last.
func abbrevKeys(dst []string, keys ...string) []string {
	dst = dst[:0]
	return append(dst, keys...)
}
