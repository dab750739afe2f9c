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

// Package layout projects timer state into renderable component state. A
// Layout owns an ordered list of components; each frame the host calls
// Update with a snapshot and an externally owned State buffer, and every
// component rewrites its slot in place - slices keep their capacity across
// frames, so a steady-state frame allocates nothing new. The State structs
// (with their snake_case JSON tags) are the wire contract with whatever
// renderer consumes them, in-process or not.
package layout // import "github.com/LiveSplit/livesplit-core/layout"

import (
	"fortio.org/log"

	"github.com/LiveSplit/livesplit-core/timer"
)

// Component is one entry of a Layout: exactly one of the settings fields
// is non-nil and tags the variant. Dispatch is on that field, not on an
// interface method set.
type Component struct {
	Timer         *TimerSettings
	Title         *TitleSettings
	Splits        *SplitsSettings
	Graph         *GraphSettings
	DetailedTimer *DetailedTimerSettings
	KeyValue      *KeyValueSettings
	Text          *TextSettings
	BlankSpace    *BlankSpaceSettings
	Separator     *SeparatorSettings
}

// ComponentState is the per-component half of the wire contract; the field
// matching the component's variant is non-nil, all others stay nil.
type ComponentState struct {
	Timer         *TimerState         `json:"timer,omitempty"`
	Title         *TitleState         `json:"title,omitempty"`
	Splits        *SplitsState        `json:"splits,omitempty"`
	Graph         *GraphState         `json:"graph,omitempty"`
	DetailedTimer *DetailedTimerState `json:"detailed_timer,omitempty"`
	KeyValue      *KeyValueState      `json:"key_value,omitempty"`
	Text          *TextState          `json:"text,omitempty"`
	BlankSpace    *BlankSpaceState    `json:"blank_space,omitempty"`
	Separator     *SeparatorState     `json:"separator,omitempty"`
}

// Layout is an ordered list of components over one shared background.
type Layout struct {
	Background Gradient
	Components []Component
}

// State is the externally owned frame buffer a Layout writes into.
type State struct {
	Background Gradient         `json:"background"`
	Components []ComponentState `json:"components"`
}

// DefaultLayout returns the customary starting layout: title, splits, big
// timer, previous-segment readout.
func DefaultLayout() *Layout {
	return &Layout{
		Background: Plain(RGBA(0.06, 0.06, 0.06, 1)),
		Components: []Component{
			{Title: NewTitleSettings()},
			{Splits: NewSplitsSettings()},
			{Timer: NewTimerSettings()},
			{KeyValue: NewKeyValueSettings(ValuePreviousSegment)},
		},
	}
}

// Update projects one frame. state's slices are resized, never freed, so
// the caller can reuse one State for the lifetime of the layout.
func (l *Layout) Update(state *State, snap *timer.Snapshot) {
	state.Background = l.Background
	if cap(state.Components) < len(l.Components) {
		state.Components = append(state.Components[:cap(state.Components)],
			make([]ComponentState, len(l.Components)-cap(state.Components))...)
	}
	state.Components = state.Components[:len(l.Components)]

	for i := range l.Components {
		l.Components[i].update(&state.Components[i], snap)
	}
	log.LogVf("layout frame updated: %d components, phase %v", len(l.Components), snap.Phase())
}

func (c *Component) update(state *ComponentState, snap *timer.Snapshot) {
	// A nil matching pointer means this slot is fresh or the component
	// variant changed under it; either way the whole slot is rebuilt so no
	// stale variant lingers in the buffer.
	switch {
	case c.Timer != nil:
		if state.Timer == nil {
			*state = ComponentState{Timer: &TimerState{}}
		}
		c.Timer.update(state.Timer, snap)
	case c.Title != nil:
		if state.Title == nil {
			*state = ComponentState{Title: &TitleState{}}
		}
		c.Title.update(state.Title, snap)
	case c.Splits != nil:
		if state.Splits == nil {
			*state = ComponentState{Splits: &SplitsState{}}
		}
		c.Splits.update(state.Splits, snap)
	case c.Graph != nil:
		if state.Graph == nil {
			*state = ComponentState{Graph: &GraphState{}}
		}
		c.Graph.update(state.Graph, snap)
	case c.DetailedTimer != nil:
		if state.DetailedTimer == nil {
			*state = ComponentState{DetailedTimer: &DetailedTimerState{}}
		}
		c.DetailedTimer.update(state.DetailedTimer, snap)
	case c.KeyValue != nil:
		if state.KeyValue == nil {
			*state = ComponentState{KeyValue: &KeyValueState{}}
		}
		c.KeyValue.update(state.KeyValue, snap)
	case c.Text != nil:
		if state.Text == nil {
			*state = ComponentState{Text: &TextState{}}
		}
		c.Text.update(state.Text)
	case c.BlankSpace != nil:
		if state.BlankSpace == nil {
			*state = ComponentState{BlankSpace: &BlankSpaceState{}}
		}
		c.BlankSpace.update(state.BlankSpace)
	case c.Separator != nil:
		if state.Separator == nil {
			*state = ComponentState{Separator: &SeparatorState{}}
		}
	default:
		log.Warnf("layout component with no variant set, skipping")
	}
}
