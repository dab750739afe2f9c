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
	"testing"
	"time"

	"fortio.org/assert"

	"github.com/LiveSplit/livesplit-core/clock"
	"github.com/LiveSplit/livesplit-core/run"
	"github.com/LiveSplit/livesplit-core/timeval"
)

func newTestTimer(t *testing.T, names ...string) (*Timer, *clock.Fake) {
	t.Helper()
	segs := make([]*run.Segment, len(names))
	for i, n := range names {
		segs[i] = run.NewSegment(n)
	}
	r, err := run.New(segs...)
	assert.NoError(t, err)
	fake := clock.NewFake()
	return New(r, WithClocks(fake, fake)), fake
}

func d(v time.Duration) *time.Duration { return &v }

func TestSingleSegmentAttempt(t *testing.T) {
	tm, fake := newTestTimer(t, "Any%")
	tm.Start()
	assert.Equal(t, Running, tm.Phase())
	fake.Advance(1250 * time.Millisecond)
	tm.Split()
	assert.Equal(t, Ended, tm.Phase())
	assert.Equal(t, 1250*time.Millisecond, *tm.CurrentAttemptSplit(0).RealTime)

	tm.Reset(true)
	assert.Equal(t, NotRunning, tm.Phase())
	r := tm.Run()
	assert.Equal(t, 1, r.FinishedCount)
	assert.Equal(t, 1250*time.Millisecond, *r.Segments()[0].Comparisons[run.ComparisonPersonalBest].RealTime)
	assert.Equal(t, 1250*time.Millisecond, *r.Segments()[0].BestSegmentTime.RealTime)
}

func TestTwoSegmentDeltas(t *testing.T) {
	tm, fake := newTestTimer(t, "Seg0", "Seg1")
	r := tm.Run()
	// PB = [10s, 25s], recorded so the Personal Best comparison is regenerated.
	seedHistory(t, tm, []time.Duration{10 * time.Second, 15 * time.Second})

	tm.Start()
	fake.Advance(9800 * time.Millisecond)
	tm.Split()
	snap := tm.Snapshot()
	delta0 := snap.Delta(0, run.ComparisonPersonalBest, run.RealTime)
	assert.Equal(t, -200*time.Millisecond, *delta0)

	fake.Advance(15500 * time.Millisecond)
	tm.Split()
	snap = tm.Snapshot()
	delta1 := snap.Delta(1, run.ComparisonPersonalBest, run.RealTime)
	assert.Equal(t, 300*time.Millisecond, *delta1)

	// Total 25.3s is worse than the 25s PB, so the PB survives the reset.
	tm.Reset(true)
	assert.Equal(t, 25*time.Second, *r.Segments()[1].PersonalBest.RealTime)
}

func TestPauseExcludesPausedTime(t *testing.T) {
	tm, fake := newTestTimer(t, "Any%")
	tm.Start()
	fake.Advance(2 * time.Second)
	tm.Pause()
	assert.Equal(t, Paused, tm.Phase())
	fake.Advance(3 * time.Second)
	// Paused time is already excluded before Resume.
	assert.Equal(t, 2*time.Second, *tm.CurrentTime().RealTime)
	tm.Resume()
	fake.Advance(1 * time.Second)
	tm.Split()
	assert.Equal(t, 3*time.Second, *tm.CurrentAttemptSplit(0).RealTime)
}

func TestSplitDuringPauseRefused(t *testing.T) {
	tm, fake := newTestTimer(t, "A", "B")
	tm.Start()
	fake.Advance(time.Second)
	tm.Pause()
	tm.Split()
	assert.Equal(t, 0, tm.CurrentSegmentIndex())
	assert.True(t, tm.CurrentAttemptSplit(0).RealTime == nil)
}

func TestGameTimeDecoupling(t *testing.T) {
	tm, fake := newTestTimer(t, "Any%")
	tm.Start()
	fake.Advance(10 * time.Second)
	tm.SetGameTime(5 * time.Second)
	fake.Advance(2 * time.Second)
	cur := tm.CurrentTime()
	assert.Equal(t, 12*time.Second, *cur.RealTime)
	assert.Equal(t, 7*time.Second, *cur.GameTime)

	tm.PauseGameTime()
	fake.Advance(3 * time.Second)
	cur = tm.CurrentTime()
	assert.Equal(t, 15*time.Second, *cur.RealTime)
	assert.Equal(t, 7*time.Second, *cur.GameTime)

	// Resuming continues from the frozen value, not from real elapsed.
	tm.ResumeGameTime()
	fake.Advance(1 * time.Second)
	cur = tm.CurrentTime()
	assert.Equal(t, 8*time.Second, *cur.GameTime)
}

func TestLoadingTimesSubtractFromGameTime(t *testing.T) {
	tm, fake := newTestTimer(t, "Any%")
	tm.Start()
	fake.Advance(10 * time.Second)
	tm.SetLoadingTimes(4 * time.Second)
	cur := tm.CurrentTime()
	assert.Equal(t, 10*time.Second, *cur.RealTime)
	assert.Equal(t, 6*time.Second, *cur.GameTime)
}

func TestSetGameTimeStringInvalidLeavesStateUnchanged(t *testing.T) {
	tm, fake := newTestTimer(t, "Any%")
	tm.Start()
	fake.Advance(10 * time.Second)
	err := tm.SetGameTimeString("not a time")
	assert.True(t, err != nil)
	assert.ErrorIs(t, err, timeval.ErrInvalidTime)
	cur := tm.CurrentTime()
	assert.Equal(t, 10*time.Second, *cur.GameTime)

	assert.NoError(t, tm.SetGameTimeString("0:05"))
	cur = tm.CurrentTime()
	assert.Equal(t, 5*time.Second, *cur.GameTime)
}

func TestNegativeOffsetCountsDown(t *testing.T) {
	tm, fake := newTestTimer(t, "Any%")
	assert.NoError(t, tm.Run().SetOffset(-5*time.Second))
	tm.Start()
	assert.Equal(t, -5*time.Second, *tm.CurrentTime().RealTime)
	assert.Equal(t, "-00:05", timeval.Format(tm.CurrentTime().RealTime, timeval.Seconds, timeval.DoubleDigitMinutes))
	fake.Advance(5 * time.Second)
	assert.Equal(t, time.Duration(0), *tm.CurrentTime().RealTime)
}

func TestZeroDurationSplitLegalAndNeverBestSegment(t *testing.T) {
	tm, _ := newTestTimer(t, "A", "B")
	tm.Start()
	tm.Split() // immediately, at exactly the stored start
	assert.Equal(t, time.Duration(0), *tm.CurrentAttemptSplit(0).RealTime)
	snap := tm.Snapshot()
	assert.Equal(t, time.Duration(0), *snap.AttemptSegmentTime(0, run.RealTime))
	assert.False(t, snap.IsBestSegment(0, run.RealTime))
}

func TestSkipAndUndoEdges(t *testing.T) {
	tm, fake := newTestTimer(t, "A", "B", "C")
	tm.Start()
	// Undo at the first segment is ignored.
	tm.UndoSplit()
	assert.Equal(t, 0, tm.CurrentSegmentIndex())

	fake.Advance(time.Second)
	tm.Split()
	tm.SkipSplit()
	assert.Equal(t, 2, tm.CurrentSegmentIndex())
	assert.True(t, tm.CurrentAttemptSplit(1).RealTime == nil)

	// Skip on the final segment is refused.
	tm.SkipSplit()
	assert.Equal(t, 2, tm.CurrentSegmentIndex())
	assert.Equal(t, Running, tm.Phase())

	// Undo steps back and clears the skipped marker's successor state.
	tm.UndoSplit()
	assert.Equal(t, 1, tm.CurrentSegmentIndex())
	tm.UndoSplit()
	assert.Equal(t, 0, tm.CurrentSegmentIndex())
	assert.True(t, tm.CurrentAttemptSplit(0).RealTime == nil)
}

func TestSkipThenFinish(t *testing.T) {
	tm, fake := newTestTimer(t, "A", "B", "C")
	tm.Start()
	fake.Advance(3 * time.Second)
	tm.Split()
	tm.SkipSplit()
	fake.Advance(2 * time.Second)
	tm.Split()
	assert.Equal(t, Ended, tm.Phase())
	tm.Reset(true)

	r := tm.Run()
	assert.Equal(t, 1, r.FinishedCount)
	assert.True(t, r.Segments()[1].History[0].Time.RealTime == nil)
	assert.Equal(t, 5*time.Second, *r.History[0].Ended.RealTime)
}

func TestResetWithoutSaveDiscards(t *testing.T) {
	tm, fake := newTestTimer(t, "A")
	tm.Start()
	fake.Advance(time.Second)
	tm.Reset(false)
	r := tm.Run()
	assert.Equal(t, 0, r.AttemptCount)
	assert.Equal(t, 0, len(r.History))
	assert.Equal(t, 0, len(r.Segments()[0].History))
	// The consumed attempt id is not reused.
	assert.Equal(t, int64(2), r.NextAttemptID())
}

func TestResetWhileNotRunningIsNoOp(t *testing.T) {
	tm, _ := newTestTimer(t, "A")
	tm.Reset(true)
	assert.Equal(t, NotRunning, tm.Phase())
	assert.Equal(t, 0, tm.Run().AttemptCount)
}

func TestEndedFreezesTime(t *testing.T) {
	tm, fake := newTestTimer(t, "A")
	tm.Start()
	fake.Advance(7 * time.Second)
	tm.Split()
	fake.Advance(100 * time.Second)
	assert.Equal(t, 7*time.Second, *tm.CurrentTime().RealTime)
}

func TestSetGameTimeInEndedOverwritesFrozenTime(t *testing.T) {
	tm, fake := newTestTimer(t, "A")
	tm.Start()
	fake.Advance(7 * time.Second)
	tm.Split()
	tm.SetGameTime(6 * time.Second)
	cur := tm.CurrentTime()
	assert.Equal(t, 7*time.Second, *cur.RealTime)
	assert.Equal(t, 6*time.Second, *cur.GameTime)
}

func TestTimingMethodSwitch(t *testing.T) {
	tm, _ := newTestTimer(t, "A")
	assert.Equal(t, run.RealTime, tm.CurrentTimingMethod())
	tm.SwitchToNextTimingMethod()
	assert.Equal(t, run.GameTime, tm.CurrentTimingMethod())
	tm.SwitchToPreviousTimingMethod()
	assert.Equal(t, run.RealTime, tm.CurrentTimingMethod())
	tm.SetCurrentTimingMethod(run.GameTime)
	assert.Equal(t, run.GameTime, tm.CurrentTimingMethod())
}

func TestReplaceRunOnlyWhenNotRunning(t *testing.T) {
	tm, _ := newTestTimer(t, "A")
	other, err := run.New(run.NewSegment("B"))
	assert.NoError(t, err)

	tm.Start()
	assert.True(t, tm.ReplaceRun(other) == nil)
	tm.Reset(false)
	old := tm.ReplaceRun(other)
	assert.True(t, old != nil)
	assert.Equal(t, "B", tm.Run().Segments()[0].Name)
	assert.Equal(t, "A", old.Segments()[0].Name)
}

func TestAttemptIDsIncreaseAcrossAttempts(t *testing.T) {
	tm, fake := newTestTimer(t, "A")
	var last int64
	for range 3 {
		tm.Start()
		id := tm.CurrentAttemptID()
		assert.True(t, id > last)
		last = id
		fake.Advance(time.Second)
		tm.Split()
		tm.Reset(true)
	}
}
