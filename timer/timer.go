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

// Package timer implements the attempt state machine: the live timer that
// drives the current attempt over a [run.Run], accumulating real time and
// game time from a monotonic clock and merging finished or abandoned
// attempts back into the run's history on reset.
//
// Every command is a synchronous state mutation; nothing here blocks,
// sleeps, or spawns goroutines. Commands whose precondition doesn't hold
// (Split while paused, Undo at the first segment, ...) are silent no-ops -
// that's the programming model for hotkey-driven input, not an error
// condition. Hosts driving the timer from multiple threads must serialize
// externally.
package timer // import "github.com/LiveSplit/livesplit-core/timer"

import (
	"time"

	"fortio.org/log"

	"github.com/LiveSplit/livesplit-core/clock"
	"github.com/LiveSplit/livesplit-core/run"
	"github.com/LiveSplit/livesplit-core/timeval"
)

// Phase is the lifecycle state of the current attempt.
type Phase int

const (
	// NotRunning means no attempt is in flight.
	NotRunning Phase = iota
	// Running means the attempt timer is advancing.
	Running
	// Paused means the attempt is suspended; paused real time is excluded
	// from the attempt on resume.
	Paused
	// Ended means the final segment was split; the time is frozen until
	// Reset.
	Ended
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case NotRunning:
		return "NotRunning"
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Ended:
		return "Ended"
	default:
		return "Phase(?)"
	}
}

// Timer drives one attempt at a time over the Run it exclusively owns.
type Timer struct {
	r      *run.Run
	mono   clock.Clock
	system clock.Clock
	method run.TimingMethod

	phase          Phase
	attemptID      int64
	startedInstant clock.Instant
	startedWall    time.Time
	currentSegment int
	pauseAccum     time.Duration
	pauseStarted   clock.Instant

	gameTimePaused bool
	frozenGameTime *time.Duration
	gameTimeOffset time.Duration
	loadingTimes   time.Duration

	// splits[i] is the current attempt's cumulative split time at segment
	// i; the zero Time until segment i is split, and again after a skip.
	splits []run.Time
	// endedTime freezes the displayed time at the final split.
	endedTime run.Time
}

// Option configures a Timer at construction.
type Option func(*Timer)

// WithClocks substitutes the monotonic and wall clocks, for tests.
func WithClocks(mono, system clock.Clock) Option {
	return func(t *Timer) {
		t.mono = mono
		t.system = system
	}
}

// New creates a Timer taking exclusive ownership of r. The run editor gets
// the Run back via ReplaceRun when editing completes.
func New(r *run.Run, opts ...Option) *Timer {
	t := &Timer{
		r:      r,
		mono:   clock.Monotonic,
		system: clock.System,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Run returns the owned Run. The caller must not mutate it while an
// attempt is in flight.
func (t *Timer) Run() *run.Run { return t.r }

// ReplaceRun swaps in an edited Run and returns the previous one. Refused
// (returning nil) unless the timer is NotRunning.
func (t *Timer) ReplaceRun(r *run.Run) *run.Run {
	if t.phase != NotRunning {
		log.Warnf("ReplaceRun rejected in phase %v", t.phase)
		return nil
	}
	old := t.r
	t.r = r
	return old
}

// Phase returns the current lifecycle state.
func (t *Timer) Phase() Phase { return t.phase }

// CurrentSegmentIndex returns the index of the segment being timed, or the
// final index after the attempt ended.
func (t *Timer) CurrentSegmentIndex() int { return t.currentSegment }

// CurrentAttemptID returns the id of the attempt in flight (0 before the
// first Start).
func (t *Timer) CurrentAttemptID() int64 { return t.attemptID }

// CurrentTimingMethod returns the method the layout displays by default.
func (t *Timer) CurrentTimingMethod() run.TimingMethod { return t.method }

// SetCurrentTimingMethod sets the method the layout displays by default.
func (t *Timer) SetCurrentTimingMethod(m run.TimingMethod) { t.method = m }

// SwitchToNextTimingMethod toggles between the two timing methods.
func (t *Timer) SwitchToNextTimingMethod() {
	if t.method == run.RealTime {
		t.method = run.GameTime
	} else {
		t.method = run.RealTime
	}
}

// SwitchToPreviousTimingMethod toggles between the two timing methods.
// With exactly two methods, previous and next coincide.
func (t *Timer) SwitchToPreviousTimingMethod() { t.SwitchToNextTimingMethod() }

// Start begins a fresh attempt. No-op unless NotRunning. The timer starts
// at the run's offset, so a negative offset counts down to zero before the
// attempt proper begins.
func (t *Timer) Start() {
	if t.phase != NotRunning {
		log.Warnf("Start rejected in phase %v", t.phase)
		return
	}
	t.attemptID = t.r.AllocateAttemptID()
	now := t.mono.Now()
	t.startedInstant = now.Add(-t.r.Offset)
	t.startedWall = t.system.Now()
	t.currentSegment = 0
	t.pauseAccum = 0
	t.gameTimePaused = false
	t.frozenGameTime = nil
	t.gameTimeOffset = 0
	t.loadingTimes = 0
	t.splits = make([]run.Time, t.r.Len())
	t.endedTime = run.Time{}
	t.phase = Running
	log.Debugf("attempt %d started (offset %v)", t.attemptID, t.r.Offset)
}

// Split records the current time as the current segment's split time and
// advances; on the final segment it ends the attempt instead. No-op unless
// Running.
func (t *Timer) Split() {
	if t.phase != Running {
		log.Warnf("Split rejected in phase %v", t.phase)
		return
	}
	cur := t.currentTime(t.mono.Now())
	t.splits[t.currentSegment] = cur.Clone()
	if t.currentSegment == t.r.Len()-1 {
		t.endedTime = cur.Clone()
		t.phase = Ended
		log.Debugf("attempt %d ended at %v", t.attemptID, fmtReal(cur))
		return
	}
	t.currentSegment++
	log.Debugf("attempt %d split -> segment %d at %v", t.attemptID, t.currentSegment, fmtReal(cur))
}

// SkipSplit leaves the current segment's split time absent and advances.
// Refused on the final segment (an attempt can only end by splitting).
func (t *Timer) SkipSplit() {
	if t.phase != Running || t.currentSegment >= t.r.Len()-1 {
		log.Warnf("SkipSplit rejected (phase %v, segment %d)", t.phase, t.currentSegment)
		return
	}
	t.splits[t.currentSegment] = run.Time{}
	t.currentSegment++
	log.Debugf("attempt %d skipped -> segment %d", t.attemptID, t.currentSegment)
}

// UndoSplit steps back to the previous segment and clears its recorded
// split time. Refused at the first segment.
func (t *Timer) UndoSplit() {
	if t.phase != Running || t.currentSegment == 0 {
		log.Warnf("UndoSplit rejected (phase %v, segment %d)", t.phase, t.currentSegment)
		return
	}
	t.currentSegment--
	t.splits[t.currentSegment] = run.Time{}
	log.Debugf("attempt %d undo -> segment %d", t.attemptID, t.currentSegment)
}

// Pause suspends the attempt timer. No-op unless Running.
func (t *Timer) Pause() {
	if t.phase != Running {
		log.Warnf("Pause rejected in phase %v", t.phase)
		return
	}
	t.pauseStarted = t.mono.Now()
	t.phase = Paused
	log.Debugf("attempt %d paused", t.attemptID)
}

// Resume continues a paused attempt; the paused stretch of real time is
// excluded from the attempt. No-op unless Paused.
func (t *Timer) Resume() {
	if t.phase != Paused {
		log.Warnf("Resume rejected in phase %v", t.phase)
		return
	}
	t.pauseAccum += t.mono.Now().Sub(t.pauseStarted)
	t.phase = Running
	log.Debugf("attempt %d resumed (paused total %v)", t.attemptID, t.pauseAccum)
}

// TogglePause pauses a running attempt or resumes a paused one.
func (t *Timer) TogglePause() {
	switch t.phase {
	case Running:
		t.Pause()
	case Paused:
		t.Resume()
	default:
		log.Warnf("TogglePause rejected in phase %v", t.phase)
	}
}

// Reset ends the current attempt and returns to NotRunning. The attempt is
// merged into the run's history when save is true or the attempt reached
// Ended; otherwise it is discarded entirely. No-op when already
// NotRunning.
func (t *Timer) Reset(save bool) {
	if t.phase == NotRunning {
		return
	}
	completed := t.phase == Ended
	pause := t.pauseAccum
	if t.phase == Paused {
		pause += t.mono.Now().Sub(t.pauseStarted)
	}
	if save || completed {
		t.r.RecordAttempt(t.attemptID, t.startedWall, t.splits, pause, completed)
	} else {
		log.Debugf("attempt %d discarded", t.attemptID)
	}
	t.phase = NotRunning
	t.currentSegment = 0
	t.splits = nil
	t.endedTime = run.Time{}
	t.gameTimePaused = false
	t.frozenGameTime = nil
	t.gameTimeOffset = 0
	t.loadingTimes = 0
	t.pauseAccum = 0
}

// PauseGameTime freezes game time at its current value while real time
// keeps advancing (a load screen the game's own clock excludes). No-op
// when NotRunning or already frozen.
func (t *Timer) PauseGameTime() {
	if t.phase == NotRunning || t.gameTimePaused {
		return
	}
	cur := t.currentTime(t.mono.Now())
	t.frozenGameTime = cur.GameTime
	t.gameTimePaused = true
	log.Debugf("game time paused at %v", fmtGame(cur))
}

// ResumeGameTime lets game time advance again, continuing from the frozen
// value. No-op when NotRunning or not frozen.
func (t *Timer) ResumeGameTime() {
	if t.phase == NotRunning || !t.gameTimePaused {
		return
	}
	frozen := t.frozenGameTime
	t.gameTimePaused = false
	t.frozenGameTime = nil
	if frozen != nil {
		t.setGameTimeAt(t.mono.Now(), *frozen)
	}
	log.Debugf("game time resumed")
}

// IsGameTimePaused reports whether game time is currently frozen.
func (t *Timer) IsGameTimePaused() bool { return t.gameTimePaused }

// SetGameTime overwrites the currently displayed game time with d, leaving
// real time untouched. No-op when NotRunning.
func (t *Timer) SetGameTime(d time.Duration) {
	switch t.phase {
	case NotRunning:
		log.Warnf("SetGameTime rejected in phase %v", t.phase)
	case Ended:
		t.endedTime = t.endedTime.With(run.GameTime, &d)
	default:
		if t.gameTimePaused {
			t.frozenGameTime = &d
			return
		}
		t.setGameTimeAt(t.mono.Now(), d)
	}
}

// SetGameTimeString parses s with the timer's canonical time grammar and
// applies SetGameTime. The parse error (wrapping timeval.ErrInvalidTime)
// is returned with the state unchanged; this is the one command whose
// failure the caller can observe.
func (t *Timer) SetGameTimeString(s string) error {
	d, err := timeval.Parse(s)
	if err != nil {
		return err
	}
	t.SetGameTime(d)
	return nil
}

// setGameTimeAt recomputes gameTimeOffset so the game time displayed at
// instant now equals d.
func (t *Timer) setGameTimeAt(now clock.Instant, d time.Duration) {
	r := t.realTimeAt(now)
	t.gameTimeOffset = d - (r - t.loadingTimes)
}

// SetLoadingTimes sets the total accumulated load-screen duration
// subtracted from real time to produce game time. Idempotent; applies in
// any state.
func (t *Timer) SetLoadingTimes(d time.Duration) { t.loadingTimes = d }

// LoadingTimes returns the currently configured loading-times total.
func (t *Timer) LoadingTimes() time.Duration { return t.loadingTimes }

// realTimeAt returns the attempt's elapsed real time at instant now.
func (t *Timer) realTimeAt(now clock.Instant) time.Duration {
	r := now.Sub(t.startedInstant) - t.pauseAccum
	if t.phase == Paused {
		r -= now.Sub(t.pauseStarted)
	}
	return r
}

// currentTime evaluates the attempt's current Time (both methods) at
// instant now.
func (t *Timer) currentTime(now clock.Instant) run.Time {
	switch t.phase {
	case NotRunning:
		offset := t.r.Offset
		return timeval.New(offset, offset)
	case Ended:
		return t.endedTime.Clone()
	default:
		r := t.realTimeAt(now)
		var g *time.Duration
		if t.gameTimePaused {
			if t.frozenGameTime != nil {
				gv := *t.frozenGameTime
				g = &gv
			}
		} else {
			gv := r - t.loadingTimes + t.gameTimeOffset
			g = &gv
		}
		return run.Time{RealTime: &r, GameTime: g}
	}
}

// CurrentTime evaluates the current attempt time once, reading the
// monotonic clock. Frame-driven callers should prefer Snapshot so every
// derived value of the frame shares a single clock read.
func (t *Timer) CurrentTime() run.Time {
	return t.currentTime(t.mono.Now())
}

// CurrentAttemptSplit returns the recorded split time of segment i for the
// attempt in flight (absent when not yet reached, skipped, or out of
// range).
func (t *Timer) CurrentAttemptSplit(i int) run.Time {
	if i < 0 || i >= len(t.splits) {
		return run.Time{}
	}
	return t.splits[i]
}

func fmtReal(t run.Time) string {
	return timeval.Format(t.RealTime, timeval.Milliseconds, timeval.SingleDigitSeconds)
}

func fmtGame(t run.Time) string {
	return timeval.Format(t.GameTime, timeval.Milliseconds, timeval.SingleDigitSeconds)
}
