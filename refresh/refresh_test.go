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

package refresh

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fortio.org/assert"
)

func TestRunMaxFrames(t *testing.T) {
	var frames atomic.Int32
	r := NewRunner(&Options{
		FrameRate: 1000,
		MaxFrames: 5,
		Renderer:  RendererFunc(func(int) { frames.Add(1) }),
	})
	res := r.Run()
	assert.Equal(t, 5, res.Frames)
	assert.Equal(t, int32(5), frames.Load())
	assert.Equal(t, int64(5), res.SleepTimes.Count)
}

func TestRunDurationLimit(t *testing.T) {
	var last atomic.Int32
	r := NewRunner(&Options{
		FrameRate: 200,
		Duration:  52 * time.Millisecond,
		Renderer:  RendererFunc(func(f int) { last.Store(int32(f)) }),
	})
	res := r.Run()
	// 200 fps over ~50ms: frame targets at 0, 5, 10, ... 50ms.
	assert.True(t, res.Frames >= 2, "expected at least a few frames, got %d", res.Frames)
	assert.True(t, res.Frames <= 11, "expected at most 11 frames, got %d", res.Frames)
	assert.Equal(t, int32(res.Frames-1), last.Load())
	assert.True(t, res.Elapsed >= 45*time.Millisecond)
}

func TestRunAbort(t *testing.T) {
	a := NewAborter()
	r := NewRunner(&Options{
		FrameRate: 10,
		Stop:      a,
		Renderer:  RendererFunc(func(int) {}),
	})
	go func() {
		time.Sleep(30 * time.Millisecond)
		a.Abort()
	}()
	done := make(chan Result, 1)
	go func() { done <- r.Run() }()
	select {
	case res := <-done:
		assert.True(t, res.Frames < 5, "abort should stop the loop early, got %d frames", res.Frames)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on abort")
	}
}

func TestAbortBeforeRun(t *testing.T) {
	a := NewAborter()
	a.Abort()
	a.Abort() // second abort is a no-op, not a panic
	r := NewRunner(&Options{FrameRate: 1, Stop: a})
	res := r.Run()
	assert.Equal(t, 0, res.Frames)
}

func TestDefaultFrameRate(t *testing.T) {
	r := NewRunner(&Options{MaxFrames: 1})
	assert.Equal(t, DefaultFrameRate, r.FrameRate)
	res := r.Run()
	assert.Equal(t, 1, res.Frames)
}
