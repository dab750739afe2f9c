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

// Package refresh paces a host's render loop: it invokes a frame callback
// at a fixed rate until a duration elapses, a frame budget is exhausted,
// or an Aborter fires. The timer core itself never schedules anything -
// it only answers snapshots - so this is the optional host-side piece
// that turns "caller invokes update on a frame tick" into an actual loop.
// Hosts with their own vsync or event loop don't need it.
package refresh // import "github.com/LiveSplit/livesplit-core/refresh"

import (
	"time"

	"fortio.org/log"

	"github.com/LiveSplit/livesplit-core/stats"
)

// DefaultFrameRate is used when Options.FrameRate is unset.
const DefaultFrameRate = 30.

// Renderer is the host callback invoked once per frame; frame counts up
// from 0. Typical implementations snapshot the timer and update a layout
// state buffer. The callback runs on the Runner's goroutine - the same
// serialization the core requires.
type Renderer interface {
	Frame(frame int)
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(frame int)

// Frame implements Renderer.
func (f RendererFunc) Frame(frame int) { f(frame) }

// Aborter lets another goroutine stop a running loop. Create with
// NewAborter; Abort is safe to call multiple times and before Run starts
// (the loop then exits on its first tick).
type Aborter struct {
	stop chan struct{}
}

// NewAborter returns a ready Aborter.
func NewAborter() *Aborter {
	return &Aborter{stop: make(chan struct{}, 1)}
}

// Abort requests the loop to stop at the next tick.
func (a *Aborter) Abort() {
	select {
	case a.stop <- struct{}{}:
		log.LogVf("abort requested")
	default:
		log.LogVf("abort already pending")
	}
}

// Options configures a Runner.
type Options struct {
	// FrameRate in frames per second; DefaultFrameRate when <= 0.
	FrameRate float64
	// Duration stops the loop after this much wall time; 0 means no time
	// limit.
	Duration time.Duration
	// MaxFrames stops the loop after this many frames; 0 means no frame
	// limit. With neither limit set, only Stop ends the loop.
	MaxFrames int
	// Stop aborts the loop early; optional.
	Stop *Aborter
	// Renderer receives the frame callbacks.
	Renderer Renderer
}

// Result summarizes one finished loop.
type Result struct {
	Frames     int
	Elapsed    time.Duration
	SleepTimes stats.Counter
}

// Runner owns one pacing loop. Reusable: Run may be called again after it
// returns.
type Runner struct {
	Options
}

// NewRunner normalizes o into a Runner.
func NewRunner(o *Options) *Runner {
	r := &Runner{Options: *o}
	if r.FrameRate <= 0 {
		r.FrameRate = DefaultFrameRate
	}
	return r
}

// Run paces frames until a limit is reached or Stop fires, then returns
// what happened. Each frame targets start + n*period; after a late frame,
// the following frames run without sleeping until the schedule is caught
// up (negative sleeps are skipped, recorded as zero).
func (r *Runner) Run() Result {
	period := time.Duration(float64(time.Second) / r.FrameRate)
	start := time.Now()
	var deadline time.Time
	if r.Duration > 0 {
		deadline = start.Add(r.Duration)
	}
	log.Infof("refresh loop starting at %g fps (period %v, duration %v, max frames %d)",
		r.FrameRate, period, r.Duration, r.MaxFrames)

	var res Result
	var stop chan struct{}
	if r.Stop != nil {
		stop = r.Stop.stop
	}
	for frame := 0; ; frame++ {
		if r.MaxFrames > 0 && frame >= r.MaxFrames {
			break
		}
		target := start.Add(time.Duration(frame) * period)
		if !deadline.IsZero() && target.After(deadline) {
			break
		}
		sleep := time.Until(target)
		if sleep < 0 {
			sleep = 0
		}
		res.SleepTimes.Record(sleep)
		if sleep > 0 {
			timer := time.NewTimer(sleep)
			select {
			case <-stop:
				timer.Stop()
				log.Infof("refresh loop aborted at frame %d", frame)
				res.Elapsed = time.Since(start)
				return res
			case <-timer.C:
			}
		} else {
			select {
			case <-stop:
				log.Infof("refresh loop aborted at frame %d", frame)
				res.Elapsed = time.Since(start)
				return res
			default:
			}
		}
		if r.Renderer != nil {
			r.Renderer.Frame(frame)
		}
		res.Frames++
	}
	res.Elapsed = time.Since(start)
	log.Infof("refresh loop done: %d frames in %v (sleeps %s)",
		res.Frames, res.Elapsed, res.SleepTimes.String())
	return res
}
