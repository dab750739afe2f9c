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

package clock

import (
	"testing"
	"time"

	"fortio.org/assert"
)

func TestFakeAdvance(t *testing.T) {
	c := NewFake()
	start := c.Now()
	c.Advance(2500 * time.Millisecond)
	assert.Equal(t, 2500*time.Millisecond, ElapsedSince(c, start))
}

func TestFakeAdvance_Negative(t *testing.T) {
	c := NewFake()
	c.Advance(10 * time.Second)
	start := c.Now()
	c.Advance(-3 * time.Second)
	assert.Equal(t, -3*time.Second, ElapsedSince(c, start))
}

func TestMonotonicIsUsable(t *testing.T) {
	start := Monotonic.Now()
	elapsed := ElapsedSince(Monotonic, start)
	assert.True(t, elapsed >= 0, "elapsed since immediate past should be non-negative")
}
