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
)

// GraphSettings configures the delta-over-time graph.
type GraphSettings struct {
	// Comparison empty means Personal Best.
	Comparison string
	// Method overrides the snapshot's current timing method when non-nil.
	Method           *run.TimingMethod
	Height           int
	FlipGraph        bool
	ShowBestSegments bool
}

// NewGraphSettings returns the customary graph.
func NewGraphSettings() *GraphSettings {
	return &GraphSettings{Height: 80, ShowBestSegments: true}
}

// GraphPoint is one vertex of the delta polyline, in unit coordinates
// ([0,1] on both axes, y = 0.0 the top of the component).
type GraphPoint struct {
	X             float32 `json:"x"`
	Y             float32 `json:"y"`
	IsBestSegment bool    `json:"is_best_segment"`
}

// GraphState is the renderable state of the graph: a polyline of deltas
// over the proportion of the comparison completed, split into halves at
// Middle (the delta-zero line).
type GraphState struct {
	Points              []GraphPoint `json:"points"`
	HorizontalGridLines []float32    `json:"horizontal_grid_lines"`
	VerticalGridLines   []float32    `json:"vertical_grid_lines"`
	Middle              float32      `json:"middle"`
	IsLiveDeltaActive   bool         `json:"is_live_delta_active"`
	IsFlipped           bool         `json:"is_flipped"`
	TopBackgroundColor  Color        `json:"top_background_color"`
	BottomBackground    Color        `json:"bottom_background_color"`
	GridLinesColor      Color        `json:"grid_lines_color"`
	GraphLinesColor     Color        `json:"graph_lines_color"`
	PartialFillColor    Color        `json:"partial_fill_color"`
	CompleteFillColor   Color        `json:"complete_fill_color"`
	BestSegmentColor    Color        `json:"best_segment_color"`
	Height              int          `json:"height"`
}

func (gs *GraphSettings) update(state *GraphState, snap *timer.Snapshot) {
	method := snap.CurrentTimingMethod()
	if gs.Method != nil {
		method = *gs.Method
	}
	cmp := gs.Comparison
	if cmp == "" {
		cmp = run.ComparisonPersonalBest
	}

	state.Height = gs.Height
	state.IsFlipped = gs.FlipGraph
	state.TopBackgroundColor = RGBA(0.07, 0.07, 0.07, 1)
	state.BottomBackground = RGBA(0.11, 0.11, 0.11, 1)
	state.GridLinesColor = RGBA(0.25, 0.25, 0.25, 1)
	state.GraphLinesColor = RGBA(1, 1, 1, 1)
	state.PartialFillColor = RGBA(1, 1, 1, 0.25)
	state.CompleteFillColor = RGBA(1, 1, 1, 0.4)
	state.BestSegmentColor = BestSegment.Visualize()

	// Gather (comparison split, delta) pairs for every completed segment,
	// plus the live pair while a segment is in flight and its live delta
	// is zero or behind.
	type sample struct {
		at    time.Duration
		delta time.Duration
		best  bool
	}
	samples := make([]sample, 0, snap.Run().Len()+1)
	total := snap.ComparisonSplit(snap.Run().Len()-1, cmp, method)
	completedThrough := snap.CurrentSegmentIndex()
	if snap.Phase() == timer.Ended {
		completedThrough = snap.Run().Len()
	}
	for i := range completedThrough {
		d := snap.Delta(i, cmp, method)
		at := snap.ComparisonSplit(i, cmp, method)
		if d == nil || at == nil {
			continue
		}
		samples = append(samples, sample{at: *at, delta: *d,
			best: gs.ShowBestSegments && snap.IsBestSegment(i, method)})
	}
	state.IsLiveDeltaActive = false
	if snap.Phase() == timer.Running || snap.Phase() == timer.Paused {
		if d := snap.LiveDelta(cmp, method); d != nil && *d >= 0 {
			if cur := snap.CurrentTime().Get(method); cur != nil {
				samples = append(samples, sample{at: *cur, delta: *d})
				state.IsLiveDeltaActive = true
			}
		}
	}

	// Scale to unit coordinates. X spans the comparison total (or the
	// furthest sample, whichever is larger); Y centers delta zero on
	// Middle and fits the largest absolute delta in half the height.
	var maxAt, maxDelta time.Duration
	if total != nil {
		maxAt = *total
	}
	for _, s := range samples {
		if s.at > maxAt {
			maxAt = s.at
		}
		d := s.delta
		if d < 0 {
			d = -d
		}
		if d > maxDelta {
			maxDelta = d
		}
	}

	state.Middle = 0.5
	state.Points = state.Points[:0]
	state.Points = append(state.Points, GraphPoint{X: 0, Y: state.Middle})
	for _, s := range samples {
		x := float32(0)
		if maxAt > 0 {
			x = float32(float64(s.at) / float64(maxAt))
		}
		y := state.Middle
		if maxDelta > 0 {
			y += 0.5 * float32(float64(s.delta)/float64(2*maxDelta))
		}
		if gs.FlipGraph {
			y = 1 - y
		}
		state.Points = append(state.Points, GraphPoint{X: x, Y: y, IsBestSegment: s.best})
	}

	state.HorizontalGridLines = state.HorizontalGridLines[:0]
	state.HorizontalGridLines = append(state.HorizontalGridLines, state.Middle)
	state.VerticalGridLines = state.VerticalGridLines[:0]
	for i := 1; i < 4; i++ {
		state.VerticalGridLines = append(state.VerticalGridLines, float32(i)*0.25)
	}
}
