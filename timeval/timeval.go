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

// Package timeval implements the dual-clock time value at the center of the
// timer core: a pair of optional nanosecond durations, one per
// [TimingMethod], plus the deterministic string formatting and tolerant
// parsing used to render and read them back.
//
// Durations themselves are plain [time.Duration] (already signed,
// nanosecond-resolution int64) - there is no need to reinvent that part.
package timeval

import (
	"time"
)

// TimingMethod selects which of a Time's two components is being read.
type TimingMethod int

const (
	// RealTime is the wall-clock elapsed time of the current attempt.
	RealTime TimingMethod = iota
	// GameTime is the elapsed time as tracked by the game itself, which can
	// be paused or offset independently of RealTime.
	GameTime
)

// String implements fmt.Stringer.
func (m TimingMethod) String() string {
	switch m {
	case RealTime:
		return "RealTime"
	case GameTime:
		return "GameTime"
	default:
		return "TimingMethod(?)"
	}
}

// Time is an ordered pair (real time, game time), either component of which
// may be absent (nil) meaning "this timing method has no meaningful value
// here". It is a value type - copy it freely.
type Time struct {
	RealTime *time.Duration
	GameTime *time.Duration
}

// Get returns the component selected by method.
func (t Time) Get(method TimingMethod) *time.Duration {
	if method == GameTime {
		return t.GameTime
	}
	return t.RealTime
}

// With returns a copy of t with the component selected by method set to v
// (v may be nil, making that component absent).
func (t Time) With(method TimingMethod, v *time.Duration) Time {
	if method == GameTime {
		t.GameTime = v
	} else {
		t.RealTime = v
	}
	return t
}

// dup returns a pointer to a copy of d, or nil if d is nil.
func dup(d *time.Duration) *time.Duration {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

// Clone returns a deep(ish) copy of t - mutating the returned value's
// pointees never affects t.
func (t Time) Clone() Time {
	return Time{RealTime: dup(t.RealTime), GameTime: dup(t.GameTime)}
}

// New constructs a Time with both components present.
func New(real, game time.Duration) Time {
	return Time{RealTime: &real, GameTime: &game}
}

// FromMethod constructs a Time with only the given method's component
// present.
func FromMethod(method TimingMethod, v time.Duration) Time {
	var t Time
	return t.With(method, &v)
}

// Zero is a Time with both components absent.
var Zero Time

// Add returns a+b. A component is present in the result iff it is present
// in both a and b (elementwise addition); otherwise it is absent.
func Add(a, b Time) Time {
	return Time{
		RealTime: addDur(a.RealTime, b.RealTime),
		GameTime: addDur(a.GameTime, b.GameTime),
	}
}

// Sub returns a-b, with the same presence rule as Add.
func Sub(a, b Time) Time {
	return Time{
		RealTime: subDur(a.RealTime, b.RealTime),
		GameTime: subDur(a.GameTime, b.GameTime),
	}
}

func addDur(a, b *time.Duration) *time.Duration {
	if a == nil || b == nil {
		return nil
	}
	v := *a + *b
	return &v
}

func subDur(a, b *time.Duration) *time.Duration {
	if a == nil || b == nil {
		return nil
	}
	v := *a - *b
	return &v
}

// Cmp compares the method component of a and b. It panics if either
// component is absent - ordering is only defined once a single
// TimingMethod is selected and both operands carry it, so callers must
// check Get(method) != nil first.
func Cmp(a, b Time, method TimingMethod) int {
	av, bv := a.Get(method), b.Get(method)
	switch {
	case *av < *bv:
		return -1
	case *av > *bv:
		return 1
	default:
		return 0
	}
}
