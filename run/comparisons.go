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

package run

import (
	"strings"
	"time"

	"fortio.org/log"
)

// Reserved built-in comparison names. "Balanced PB" is reserved alongside
// the rest so a host can't shadow a built-in generator with a same-named
// custom comparison; names starting with "[Race]" are reserved for
// race-mode comparisons injected by an external race host.
const (
	ComparisonPersonalBest    = "Personal Best"
	ComparisonBestSegments    = "Best Segments"
	ComparisonAverageSegments = "Average Segments"
	ComparisonMedianSegments  = "Median Segments"
	ComparisonWorstSegments   = "Worst Segments"
	ComparisonBestSplitTimes  = "Best Split Times"
	ComparisonLatestRun       = "Latest Run"
	ComparisonBalancedPB      = "Balanced PB"
	ComparisonNone            = "None"

	racePrefix = "[Race]"
)

// builtinGeneratorOrder fixes the iteration order comparisons regenerate
// in; order doesn't affect correctness (every generator is independent)
// but a fixed order keeps regeneration deterministic for tests.
var builtinGeneratorOrder = []string{
	ComparisonPersonalBest,
	ComparisonBestSegments,
	ComparisonAverageSegments,
	ComparisonMedianSegments,
	ComparisonWorstSegments,
	ComparisonBestSplitTimes,
	ComparisonLatestRun,
	ComparisonBalancedPB,
	ComparisonNone,
}

// generator is a pure function (Run, TimingMethod) -> per-segment split
// times for that one method; regenerateComparisons recombines the two
// TimingMethod components into a Time.
type generator func(r *Run, method TimingMethod) []*time.Duration

var generators = map[string]generator{
	ComparisonPersonalBest:    genPersonalBest,
	ComparisonBestSegments:    genBestSegments,
	ComparisonAverageSegments: genAverageSegments,
	ComparisonMedianSegments:  genMedianSegments,
	ComparisonWorstSegments:   genWorstSegments,
	ComparisonBestSplitTimes:  genBestSplitTimes,
	ComparisonLatestRun:       genLatestRun,
	ComparisonBalancedPB:      genBalancedPB,
	ComparisonNone:            genNone,
}

// IsReserved reports whether name is a built-in comparison name or carries
// the race prefix.
func IsReserved(name string) bool {
	if _, ok := generators[name]; ok {
		return true
	}
	return strings.HasPrefix(name, racePrefix)
}

// regenerateComparisons reruns every built-in and goal generator and
// writes the result into each segment's Comparisons map, denormalized per
// name for O(1) read during layout projection. Plain custom comparisons
// (host-set values with no goal registered) are left untouched, except
// that any missing key is filled in with an absent Time so every segment
// keeps the same key set.
func (r *Run) regenerateComparisons() {
	for _, name := range builtinGeneratorOrder {
		r.writeGenerated(name, generators[name])
	}

	for name := range r.customComparisons {
		if target, ok := r.goalTargets[name]; ok {
			r.writeGenerated(name, func(rr *Run, m TimingMethod) []*time.Duration {
				return genGoal(rr, m, target)
			})
			continue
		}
		if expr, ok := r.goalExprs[name]; ok {
			if target, err := evalGoalExpr(r, expr); err == nil {
				r.writeGenerated(name, func(rr *Run, m TimingMethod) []*time.Duration {
					return genGoal(rr, m, target)
				})
			} else {
				log.Warnf("goal expression %q for comparison %q failed, keeping previous values: %v", expr, name, err)
			}
			continue
		}
		for _, seg := range r.segments {
			if _, ok := seg.Comparisons[name]; !ok {
				seg.Comparisons[name] = Time{}
			}
		}
	}
	log.LogVf("regenerated %d comparisons over %d segments",
		len(builtinGeneratorOrder)+r.customComparisons.Len(), len(r.segments))
}

// writeGenerated runs gen for both timing methods, clamps each list to
// non-decreasing order, and writes the recombined Time into every segment
// under name.
func (r *Run) writeGenerated(name string, gen generator) {
	rt := clampMonotonic(gen(r, RealTime))
	gt := clampMonotonic(gen(r, GameTime))
	for i, seg := range r.segments {
		seg.Comparisons[name] = Time{RealTime: rt[i], GameTime: gt[i]}
	}
}

// clampMonotonic raises each present value to at least the previous
// present value, so a freshly generated list always reads as a
// non-decreasing sequence of split times.
func clampMonotonic(values []*time.Duration) []*time.Duration {
	var prev *time.Duration
	for i, v := range values {
		if v == nil {
			continue
		}
		if prev != nil && *v < *prev {
			nv := *prev
			values[i] = &nv
			v = values[i]
		}
		prev = v
	}
	return values
}

// AddGoalComparison registers name as a custom comparison whose split
// times are computed by the balanced quantile search targeting a fixed
// total duration rather than the run's PB.
func (r *Run) AddGoalComparison(name string, target time.Duration) error {
	if err := r.AddCustomComparison(name); err != nil {
		return err
	}
	r.goalTargets[name] = target
	r.regenerateComparisons()
	return nil
}

// AddGoalComparisonExpr registers name as a custom comparison whose target
// total is computed by evaluating a grol expression (see goal.go) against
// the run's other comparisons' final totals, re-evaluated on every
// regeneration. If the expression fails to evaluate, the comparison keeps
// whatever value it last held.
func (r *Run) AddGoalComparisonExpr(name, expr string) error {
	if err := r.AddCustomComparison(name); err != nil {
		return err
	}
	r.goalExprs[name] = expr
	r.regenerateComparisons()
	return nil
}
