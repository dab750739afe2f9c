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
	"testing"
	"time"

	"fortio.org/assert"
)

func mustNewRun(t *testing.T, names ...string) *Run {
	t.Helper()
	segs := make([]*Segment, len(names))
	for i, n := range names {
		segs[i] = NewSegment(n)
	}
	r, err := New(segs...)
	assert.NoError(t, err)
	return r
}

func d(s time.Duration) *time.Duration { return &s }

func TestNewEmptyRejected(t *testing.T) {
	_, err := New()
	assert.Equal(t, ErrEmptyRun, err)
}

func TestRemoveSegmentRefusesLastOne(t *testing.T) {
	r := mustNewRun(t, "Only")
	err := r.RemoveSegment(0)
	assert.Equal(t, ErrEmptyRun, err)
	assert.Equal(t, 1, r.Len())
}

func TestAddCustomComparisonReservedRejected(t *testing.T) {
	r := mustNewRun(t, "A", "B")
	err := r.AddCustomComparison(ComparisonPersonalBest)
	assert.Equal(t, ErrReservedComparison, err)
	err = r.AddCustomComparison("[Race] Friend")
	assert.Equal(t, ErrReservedComparison, err)
}

func TestAddCustomComparisonTouchesEverySegment(t *testing.T) {
	// Adding/removing a comparison name mutates every segment's key set.
	r := mustNewRun(t, "A", "B", "C")
	assert.NoError(t, r.AddCustomComparison("My Comparison"))
	for _, seg := range r.Segments() {
		_, ok := seg.Comparisons["My Comparison"]
		assert.True(t, ok, "segment %s missing new comparison key", seg.Name)
	}
	assert.NoError(t, r.RemoveCustomComparison("My Comparison"))
	for _, seg := range r.Segments() {
		_, ok := seg.Comparisons["My Comparison"]
		assert.True(t, !ok, "segment %s retained removed comparison key", seg.Name)
	}
}

func TestAddCustomComparisonDuplicateRejected(t *testing.T) {
	r := mustNewRun(t, "A")
	assert.NoError(t, r.AddCustomComparison("X"))
	assert.Equal(t, ErrDuplicateComparison, r.AddCustomComparison("X"))
}

func TestRemoveCustomComparisonBuiltinRejected(t *testing.T) {
	r := mustNewRun(t, "A")
	assert.Equal(t, ErrReservedComparison, r.RemoveCustomComparison(ComparisonBestSegments))
}

func TestSetOffsetDefaultAllowsNegative(t *testing.T) {
	r := mustNewRun(t, "A")
	assert.NoError(t, r.SetOffset(-5*time.Second))
	assert.Equal(t, -5*time.Second, r.Offset)
}

func TestSetOffsetPolicyCanForbidNegative(t *testing.T) {
	r := mustNewRun(t, "A")
	r.Policy.ForbidNegativeOffset = true
	assert.Equal(t, ErrNegativeOffset, r.SetOffset(-1*time.Second))
	assert.Equal(t, time.Duration(0), r.Offset)
}

// recordCompleted feeds one synthetic completed attempt (given as
// real-time segment durations) into r via RecordAttempt, exercising the
// same path the timer's Reset(save) calls into.
func recordCompleted(r *Run, real ...time.Duration) {
	splits := make([]Time, len(real))
	var cum time.Duration
	for i, v := range real {
		cum += v
		splits[i] = Time{RealTime: d(cum)}
	}
	r.RecordAttempt(r.AllocateAttemptID(), time.Unix(0, 0), splits, 0, true)
}

func TestSingleSegmentFullAttempt(t *testing.T) {
	r := mustNewRun(t, "Any%")
	recordCompleted(r, 1250*time.Millisecond)

	seg := r.Segments()[0]
	assert.Equal(t, 1250*time.Millisecond, *seg.PersonalBest.RealTime)
	assert.Equal(t, 1250*time.Millisecond, *seg.BestSegmentTime.RealTime)
	assert.Equal(t, 1250*time.Millisecond, *seg.Comparisons[ComparisonPersonalBest].RealTime)
	assert.Equal(t, 1, r.FinishedCount)
}

func TestWorseTotalDoesNotReplacePB(t *testing.T) {
	r := mustNewRun(t, "Seg0", "Seg1")
	// Seed an existing PB of [10s, 25s].
	r.Segments()[0].PersonalBest = Time{RealTime: d(10 * time.Second)}
	r.Segments()[1].PersonalBest = Time{RealTime: d(25 * time.Second)}
	r.Segments()[0].BestSegmentTime = Time{RealTime: d(10 * time.Second)}
	r.Segments()[1].BestSegmentTime = Time{RealTime: d(14 * time.Second)}
	r.regenerateComparisons()

	// New attempt: 9.8s, then 15.5s (total 25.3s, worse than the 25s PB).
	recordCompleted(r, 9800*time.Millisecond, 15500*time.Millisecond)

	assert.Equal(t, 10*time.Second, *r.Segments()[0].PersonalBest.RealTime)
	assert.Equal(t, 25*time.Second, *r.Segments()[1].PersonalBest.RealTime)
	// Segment 0's best segment time improves (9.8s < 10s).
	assert.Equal(t, 9800*time.Millisecond, *r.Segments()[0].BestSegmentTime.RealTime)
	// Segment 1's best segment time unchanged (15.5s > prior 14s best).
	assert.Equal(t, 14*time.Second, *r.Segments()[1].BestSegmentTime.RealTime)
}

func TestComparisonsStayMonotone(t *testing.T) {
	r := mustNewRun(t, "A", "B", "C")
	recordCompleted(r, 5*time.Second, 3*time.Second, 2*time.Second)
	recordCompleted(r, 6*time.Second, 3*time.Second, 1*time.Second)
	recordCompleted(r, 4*time.Second, 4*time.Second, 2*time.Second)

	for _, name := range r.ComparisonNames() {
		segs := r.Segments()
		for _, method := range []TimingMethod{RealTime, GameTime} {
			var prev *time.Duration
			for _, seg := range segs {
				v := seg.Comparisons[name].Get(method)
				if v != nil && prev != nil {
					assert.True(t, *v >= *prev, "comparison %s method %v not monotone: %v then %v", name, method, *prev, *v)
				}
				if v != nil {
					prev = v
				}
			}
		}
	}
}

func TestAttemptIDsStrictlyIncreasing(t *testing.T) {
	r := mustNewRun(t, "A")
	var last int64
	for i := range 5 {
		id := r.AllocateAttemptID()
		assert.True(t, id > last, "attempt id %d not greater than previous %d", id, last)
		last = id
		split := Time{RealTime: d(time.Duration(i+1) * time.Second)}
		r.RecordAttempt(id, time.Unix(0, 0), []Time{split}, 0, true)
	}
	for i := 1; i < len(r.History); i++ {
		assert.True(t, r.History[i].AttemptID > r.History[i-1].AttemptID)
	}
}

func TestRunNeverEmpty(t *testing.T) {
	r := mustNewRun(t, "A", "B")
	assert.NoError(t, r.RemoveSegment(0))
	assert.Equal(t, ErrEmptyRun, r.RemoveSegment(0))
	assert.Equal(t, 1, r.Len())
}

func TestSumOfBestNeverExceedsPB(t *testing.T) {
	r := mustNewRun(t, "A", "B", "C")
	recordCompleted(r, 5*time.Second, 3*time.Second, 2*time.Second)
	recordCompleted(r, 6*time.Second, 3*time.Second, 1*time.Second)
	recordCompleted(r, 4*time.Second, 4*time.Second, 2*time.Second)

	segs := r.Segments()
	last := segs[len(segs)-1]
	sob := last.Comparisons[ComparisonBestSegments].RealTime
	pb := last.Comparisons[ComparisonPersonalBest].RealTime
	assert.True(t, sob != nil && pb != nil)
	assert.True(t, *sob <= *pb, "sum of best %v should never exceed PB %v", *sob, *pb)
}

func TestBalancedGoalSumsToTarget(t *testing.T) {
	r := mustNewRun(t, "A", "B", "C")
	recordCompleted(r, 5*time.Second, 3*time.Second, 2*time.Second)
	recordCompleted(r, 6*time.Second, 3*time.Second, 1*time.Second)
	recordCompleted(r, 4*time.Second, 4*time.Second, 2*time.Second)

	assert.NoError(t, r.AddGoalComparison("My Goal", 12*time.Second))

	segs := r.Segments()
	final := segs[len(segs)-1].Comparisons["My Goal"].RealTime
	assert.True(t, final != nil, "expected a present final split for the goal comparison")
	diff := *final - 12*time.Second
	if diff < 0 {
		diff = -diff
	}
	assert.True(t, diff <= time.Nanosecond, "balanced goal total %v not within 1ns of target", *final)

	var prev *time.Duration
	for _, seg := range segs {
		v := seg.Comparisons["My Goal"].RealTime
		if v != nil && prev != nil {
			assert.True(t, *v >= *prev, "goal comparison not monotone")
		}
		prev = v
	}
}

func TestSkipLeavesSegmentHistoryAbsent(t *testing.T) {
	r := mustNewRun(t, "A", "B", "C")
	// Splits for: split at 3s, skip, split at 5s. Both the skipped segment
	// and its successor carry no attributable duration of their own.
	splits := []Time{
		{RealTime: d(3 * time.Second)},
		{},
		{RealTime: d(5 * time.Second)},
	}
	r.RecordAttempt(r.AllocateAttemptID(), time.Unix(0, 0), splits, 0, true)

	assert.True(t, r.Segments()[1].History[0].Time.RealTime == nil, "skipped segment history entry should be absent")
	assert.True(t, r.Segments()[2].History[0].Time.RealTime == nil, "segment after a skip has no attributable duration")
	// The attempt still finished: the final split is the recorded total.
	assert.Equal(t, 5*time.Second, *r.History[0].Ended.RealTime)
	// And, as the first completed attempt, it is the PB, skips included.
	assert.Equal(t, 3*time.Second, *r.Segments()[0].PersonalBest.RealTime)
	assert.True(t, r.Segments()[1].PersonalBest.RealTime == nil)
	assert.Equal(t, 5*time.Second, *r.Segments()[2].PersonalBest.RealTime)
}

func TestNegativeSegmentTimeNeverBecomesBestSegment(t *testing.T) {
	r := mustNewRun(t, "A", "B")
	// Game time wound backwards between the two splits: segment 1's game
	// time is negative and must not be promoted.
	splits := []Time{
		{RealTime: d(10 * time.Second), GameTime: d(9 * time.Second)},
		{RealTime: d(20 * time.Second), GameTime: d(8 * time.Second)},
	}
	r.RecordAttempt(r.AllocateAttemptID(), time.Unix(0, 0), splits, 0, true)
	assert.True(t, r.Segments()[1].BestSegmentTime.GameTime == nil,
		"negative game-time segment must not become a best segment")
	assert.Equal(t, 10*time.Second, *r.Segments()[1].BestSegmentTime.RealTime)
}

func TestPartialAttemptCountsStartedNotFinished(t *testing.T) {
	r := mustNewRun(t, "A", "B")
	splits := []Time{{RealTime: d(4 * time.Second)}, {}}
	r.RecordAttempt(r.AllocateAttemptID(), time.Unix(0, 0), splits, 0, false)
	assert.Equal(t, 1, r.AttemptCount)
	assert.Equal(t, 0, r.FinishedCount)
	// A reset attempt contributes history but no PB.
	assert.True(t, r.Segments()[1].PersonalBest.RealTime == nil)
	assert.Equal(t, 4*time.Second, *r.Segments()[0].BestSegmentTime.RealTime)
}

func TestCloneIsIndependent(t *testing.T) {
	r := mustNewRun(t, "A", "B")
	recordCompleted(r, 5*time.Second, 5*time.Second)
	assert.NoError(t, r.AddCustomComparison("Mine"))

	c := r.Clone()
	assert.NoError(t, c.Rename(0, "Changed"))
	c.Segments()[0].History[0].Time = Time{RealTime: d(time.Hour)}
	assert.NoError(t, c.RemoveCustomComparison("Mine"))

	assert.Equal(t, "A", r.Segments()[0].Name)
	assert.Equal(t, 5*time.Second, *r.Segments()[0].History[0].Time.RealTime)
	_, ok := r.Segments()[0].Comparisons["Mine"]
	assert.True(t, ok, "original must keep its custom comparison")
	assert.Equal(t, r.NextAttemptID(), c.NextAttemptID())
}

func TestGoalExpressionAgainstOtherComparisons(t *testing.T) {
	r := mustNewRun(t, "A", "B")
	recordCompleted(r, 5*time.Second, 5*time.Second)
	recordCompleted(r, 6*time.Second, 6*time.Second)

	// Target thirty seconds regardless of the run's own history.
	assert.NoError(t, r.AddGoalComparisonExpr("Stretch", "30000000000"))
	final := r.Segments()[1].Comparisons["Stretch"].RealTime
	assert.True(t, final != nil)
	diff := *final - 30*time.Second
	if diff < 0 {
		diff = -diff
	}
	assert.True(t, diff <= time.Nanosecond, "goal expr total %v not within 1ns of 30s", *final)
}
