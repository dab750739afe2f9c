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

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

// RGBA builds a Color.
func RGBA(r, g, b, a float32) Color { return Color{R: r, G: g, B: b, A: a} }

// GradientKind tags the Gradient variant.
type GradientKind string

const (
	// GradientTransparent draws nothing.
	GradientTransparent GradientKind = "transparent"
	// GradientPlain fills with First.
	GradientPlain GradientKind = "plain"
	// GradientVertical blends First (top) to Second (bottom).
	GradientVertical GradientKind = "vertical"
	// GradientHorizontal blends First (left) to Second (right).
	GradientHorizontal GradientKind = "horizontal"
)

// Gradient is a tagged background fill. Second is meaningful only for the
// two blending kinds.
type Gradient struct {
	Kind   GradientKind `json:"kind"`
	First  Color        `json:"first"`
	Second Color        `json:"second"`
}

// Transparent is the zero-fill Gradient.
var Transparent = Gradient{Kind: GradientTransparent}

// Plain fills uniformly with c.
func Plain(c Color) Gradient { return Gradient{Kind: GradientPlain, First: c} }

// Vertical blends top to bottom.
func Vertical(top, bottom Color) Gradient {
	return Gradient{Kind: GradientVertical, First: top, Second: bottom}
}

// SemanticColor classifies a displayed value by what it means for the
// attempt; the renderer (or Visualize) maps it to an actual color.
type SemanticColor string

const (
	// Default marks a value with no pace information.
	Default SemanticColor = "Default"
	// AheadGainingTime: ahead of the comparison and pulling further ahead.
	AheadGainingTime SemanticColor = "AheadGainingTime"
	// AheadLosingTime: still ahead but the lead is shrinking.
	AheadLosingTime SemanticColor = "AheadLosingTime"
	// BehindLosingTime: behind and falling further behind.
	BehindLosingTime SemanticColor = "BehindLosingTime"
	// BehindGainingTime: behind but catching back up.
	BehindGainingTime SemanticColor = "BehindGainingTime"
	// BestSegment: the segment time strictly beats the stored best.
	BestSegment SemanticColor = "BestSegment"
	// NotRunningColor: no attempt is in flight.
	NotRunningColor SemanticColor = "NotRunning"
	// PausedColor: the attempt is suspended.
	PausedColor SemanticColor = "Paused"
	// PersonalBestColor: the attempt finished ahead of the stored PB.
	PersonalBestColor SemanticColor = "PersonalBest"
)

// Visualize maps a semantic color onto the default palette.
func (s SemanticColor) Visualize() Color {
	switch s {
	case AheadGainingTime:
		return RGBA(0, 0.8, 0.21, 1)
	case AheadLosingTime:
		return RGBA(0.38, 0.9, 0.6, 1)
	case BehindLosingTime:
		return RGBA(0.8, 0, 0, 1)
	case BehindGainingTime:
		return RGBA(0.9, 0.55, 0.6, 1)
	case BestSegment:
		return RGBA(1, 0.85, 0, 1)
	case NotRunningColor:
		return RGBA(0.67, 0.67, 0.67, 1)
	case PausedColor:
		return RGBA(0.48, 0.48, 0.48, 1)
	case PersonalBestColor:
		return RGBA(0.08, 0.75, 0.82, 1)
	default:
		return RGBA(1, 1, 1, 1)
	}
}

// DeltaColor classifies a delta d against the previous segment's delta
// dPrev: negative means ahead, and the comparison against dPrev tells
// whether the gap is growing or shrinking. A nil dPrev (first segment, or
// nothing recorded yet) classifies on d's sign alone.
func DeltaColor(d, dPrev *time.Duration) SemanticColor {
	if d == nil {
		return Default
	}
	if dPrev == nil {
		zero := time.Duration(0)
		dPrev = &zero
	}
	switch {
	case *d < 0 && *d < *dPrev:
		return AheadGainingTime
	case *d < 0:
		return AheadLosingTime
	case *d <= *dPrev:
		return BehindGainingTime
	default:
		return BehindLosingTime
	}
}

// previousDelta walks backwards from segment i-1 to the most recent
// present delta of the attempt, nil when there is none.
func previousDelta(snap *timer.Snapshot, i int, cmp string, method run.TimingMethod) *time.Duration {
	for j := i - 1; j >= 0; j-- {
		if d := snap.Delta(j, cmp, method); d != nil {
			return d
		}
	}
	return nil
}

// SplitColor classifies segment i's delta under cmp, applying the
// best-segment override for completed segments and the phase overrides.
func SplitColor(snap *timer.Snapshot, i int, cmp string, method run.TimingMethod) SemanticColor {
	switch snap.Phase() {
	case timer.NotRunning:
		return NotRunningColor
	case timer.Paused:
		return PausedColor
	}
	completed := i < snap.CurrentSegmentIndex() || snap.Phase() == timer.Ended
	if completed && snap.IsBestSegment(i, method) {
		return BestSegment
	}
	d := snap.Delta(i, cmp, method)
	if d == nil {
		return Default
	}
	return DeltaColor(d, previousDelta(snap, i, cmp, method))
}
