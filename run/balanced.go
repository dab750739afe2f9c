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
	"time"
)

// balancedIterations bounds the quantile binary search. Halving the unit
// interval 64 times takes a quantile to the limit of float64 precision
// (about 2^-53), which maps to sub-nanosecond precision for any total
// duration a speedrun timer will ever see - the iteration cap, not a
// tolerance check, is what terminates the loop.
const balancedIterations = 64

// genBalancedPB emits a monotone per-segment split-time sequence ending at
// the run's own PB total, shaped by the historical distribution of segment
// times rather than by any one remembered attempt. It is genGoal with the
// PB total as the target; if the PB total is itself absent for method,
// every segment is absent.
func genBalancedPB(r *Run, method TimingMethod) []*time.Duration {
	target := pbTotal(r, method)
	if target == nil {
		return make([]*time.Duration, len(r.segments))
	}
	return genGoalTotal(r, method, *target)
}

// genGoal is genBalancedPB with a host-specified target total instead of
// the PB.
func genGoal(r *Run, method TimingMethod, target time.Duration) []*time.Duration {
	return genGoalTotal(r, method, target)
}

// genGoalTotal binary-searches the quantile q in [0,1] of the per-segment
// history distributions whose summed inverse-CDF samples hit target, then
// emits the cumulative samples at that q. A target below the q=0 total or
// above the q=1 total is not reached: the search settles at that end of
// the interval and the emitted total is the q=0 or q=1 total. A segment
// with no history for
// method falls back to its own PB segment time (the difference between
// consecutive PersonalBest split times).
func genGoalTotal(r *Run, method TimingMethod, target time.Duration) []*time.Duration {
	out := make([]*time.Duration, len(r.segments))

	totalAt := func(q float64) (time.Duration, bool) {
		var total time.Duration
		for _, seg := range r.segments {
			st, ok := quantileSegmentTime(seg, method, q)
			if !ok {
				st, ok = pbFallbackSegmentTime(r, seg, method)
				if !ok {
					return 0, false
				}
			}
			total += st
		}
		return total, true
	}

	if _, ok := totalAt(0); !ok {
		return out
	}

	lo, hi := 0.0, 1.0
	q := 0.5
	for range balancedIterations {
		q = (lo + hi) / 2
		total, ok := totalAt(q)
		if !ok {
			break
		}
		if total < target {
			lo = q
		} else {
			hi = q
		}
	}

	var cumulative time.Duration
	for i, seg := range r.segments {
		st, ok := quantileSegmentTime(seg, method, q)
		if !ok {
			st, ok = pbFallbackSegmentTime(r, seg, method)
			if !ok {
				return out // leaves remaining entries (already nil) absent
			}
		}
		cumulative += st
		v := cumulative
		out[i] = &v
	}
	return out
}

// quantileSegmentTime samples the inverse CDF of seg's history samples for
// method at quantile q - the segment's empirical skill curve.
func quantileSegmentTime(seg *Segment, method TimingMethod, q float64) (time.Duration, bool) {
	return seg.historySamples(method).Quantile(q)
}

// pbFallbackSegmentTime returns the PB's own segment time (not split time)
// for seg, i.e. the difference between its PB split and the previous
// segment's PB split, used when a segment has no history at all.
func pbFallbackSegmentTime(r *Run, seg *Segment, method TimingMethod) (time.Duration, bool) {
	cur := seg.PersonalBest.Get(method)
	if cur == nil {
		return 0, false
	}
	idx := segmentIndex(r, seg)
	if idx <= 0 {
		return *cur, true
	}
	prev := r.segments[idx-1].PersonalBest.Get(method)
	if prev == nil {
		return 0, false
	}
	return *cur - *prev, true
}

func segmentIndex(r *Run, seg *Segment) int {
	for i, s := range r.segments {
		if s == seg {
			return i
		}
	}
	return -1
}
