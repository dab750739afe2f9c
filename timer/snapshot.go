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

package timer

import (
	"time"

	"github.com/LiveSplit/livesplit-core/run"
	"github.com/LiveSplit/livesplit-core/timeval"
)

// Snapshot is an atomic read of the timer at one instant: the monotonic
// clock is read exactly once at construction and every derived query below
// reuses that single evaluation, so all components of one rendered frame
// agree on the current time. A Snapshot is only valid until the next timer
// command; it holds references into the live Timer and Run rather than
// copies.
type Snapshot struct {
	t       *Timer
	phase   Phase
	segment int
	current run.Time
	method  run.TimingMethod
}

// Snapshot captures the timer state for one frame.
func (t *Timer) Snapshot() *Snapshot {
	return &Snapshot{
		t:       t,
		phase:   t.phase,
		segment: t.currentSegment,
		current: t.currentTime(t.mono.Now()),
		method:  t.method,
	}
}

// Phase returns the phase at capture time.
func (s *Snapshot) Phase() Phase { return s.phase }

// CurrentSegmentIndex returns the index of the segment being timed at
// capture time.
func (s *Snapshot) CurrentSegmentIndex() int { return s.segment }

// CurrentTime returns the attempt time evaluated at capture.
func (s *Snapshot) CurrentTime() run.Time { return s.current }

// CurrentTimingMethod returns the display method at capture time.
func (s *Snapshot) CurrentTimingMethod() run.TimingMethod { return s.method }

// Run returns the run the captured timer owns.
func (s *Snapshot) Run() *run.Run { return s.t.r }

// AttemptSplit returns the current attempt's recorded split time at
// segment i (absent when unreached, skipped, or out of range).
func (s *Snapshot) AttemptSplit(i int) run.Time { return s.t.CurrentAttemptSplit(i) }

// ComparisonSplit returns comparison cmp's split time at segment i for
// method, nil when absent or out of range.
func (s *Snapshot) ComparisonSplit(i int, cmp string, method run.TimingMethod) *time.Duration {
	segs := s.t.r.Segments()
	if i < 0 || i >= len(segs) {
		return nil
	}
	return segs[i].Comparisons[cmp].Get(method)
}

// Delta returns the current attempt's split at i minus comparison cmp's
// split at i, present only when both operands are.
func (s *Snapshot) Delta(i int, cmp string, method run.TimingMethod) *time.Duration {
	a := s.AttemptSplit(i).Get(method)
	c := s.ComparisonSplit(i, cmp, method)
	if a == nil || c == nil {
		return nil
	}
	d := *a - *c
	return &d
}

// LiveDelta returns the running time minus comparison cmp's split at the
// current segment - the delta the segment is on pace for right now.
func (s *Snapshot) LiveDelta(cmp string, method run.TimingMethod) *time.Duration {
	cur := s.current.Get(method)
	c := s.ComparisonSplit(s.segment, cmp, method)
	if cur == nil || c == nil {
		return nil
	}
	d := *cur - *c
	return &d
}

// AttemptSegmentTime returns the duration the current attempt spent in
// segment i alone (split i minus split i-1), absent when either bordering
// split is.
func (s *Snapshot) AttemptSegmentTime(i int, method run.TimingMethod) *time.Duration {
	if i == 0 {
		return s.AttemptSplit(0).Get(method)
	}
	return timeval.Sub(s.AttemptSplit(i), s.AttemptSplit(i-1)).Get(method)
}

// ComparisonSegmentTime returns the duration comparison cmp allots to
// segment i alone.
func (s *Snapshot) ComparisonSegmentTime(i int, cmp string, method run.TimingMethod) *time.Duration {
	cur := s.ComparisonSplit(i, cmp, method)
	if i == 0 || cur == nil {
		return cur
	}
	prev := s.ComparisonSplit(i-1, cmp, method)
	if prev == nil {
		return nil
	}
	d := *cur - *prev
	return &d
}

// SegmentDelta returns the attempt's segment time at i minus the
// comparison's segment time at i.
func (s *Snapshot) SegmentDelta(i int, cmp string, method run.TimingMethod) *time.Duration {
	a := s.AttemptSegmentTime(i, method)
	c := s.ComparisonSegmentTime(i, cmp, method)
	if a == nil || c == nil {
		return nil
	}
	d := *a - *c
	return &d
}

// PossibleTimeSave returns how much segment i's PB segment time exceeds
// its best segment time - the most the attempt can realistically gain
// there - clamped to >= 0. Absent when PB or best segment is.
func (s *Snapshot) PossibleTimeSave(i int, method run.TimingMethod) *time.Duration {
	pbSeg := s.ComparisonSegmentTime(i, run.ComparisonPersonalBest, method)
	segs := s.t.r.Segments()
	if pbSeg == nil || i < 0 || i >= len(segs) {
		return nil
	}
	best := segs[i].BestSegmentTime.Get(method)
	if best == nil {
		return nil
	}
	save := *pbSeg - *best
	if save < 0 {
		save = 0
	}
	return &save
}

// TotalPossibleTimeSave sums the possible time save of segment i and every
// segment after it, treating absent per-segment saves as zero.
func (s *Snapshot) TotalPossibleTimeSave(i int, method run.TimingMethod) time.Duration {
	var total time.Duration
	for j := i; j < s.t.r.Len(); j++ {
		if save := s.PossibleTimeSave(j, method); save != nil {
			total += *save
		}
	}
	return total
}

// SumOfBest returns the total of the Best Segments comparison, nil while
// any segment still lacks a best segment time.
func (s *Snapshot) SumOfBest(method run.TimingMethod) *time.Duration {
	return s.ComparisonSplit(s.t.r.Len()-1, run.ComparisonBestSegments, method)
}

// CurrentPace predicts the finish time of the attempt in flight: the last
// completed split plus the PB segment times of everything still ahead.
// Before the first split (or when not running) it degrades to the PB
// total; nil when the needed PB segments are absent.
func (s *Snapshot) CurrentPace(method run.TimingMethod) *time.Duration {
	if s.phase == Ended {
		return s.current.Clone().Get(method)
	}
	lastCompleted := s.segment - 1
	var base time.Duration
	if lastCompleted >= 0 {
		v := s.AttemptSplit(lastCompleted).Get(method)
		if v == nil {
			return nil
		}
		base = *v
	}
	for i := lastCompleted + 1; i < s.t.r.Len(); i++ {
		seg := s.ComparisonSegmentTime(i, run.ComparisonPersonalBest, method)
		if seg == nil {
			return nil
		}
		base += *seg
	}
	return &base
}

// IsBestSegment reports whether the current attempt's segment time at i
// strictly beats the stored best segment time. A zero or negative segment
// time never counts, and an unfinished segment never counts.
func (s *Snapshot) IsBestSegment(i int, method run.TimingMethod) bool {
	st := s.AttemptSegmentTime(i, method)
	if st == nil || *st <= 0 {
		return false
	}
	segs := s.t.r.Segments()
	if i < 0 || i >= len(segs) {
		return false
	}
	best := segs[i].BestSegmentTime.Get(method)
	return best == nil || *st < *best
}
