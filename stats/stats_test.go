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

package stats

import (
	"testing"
	"time"

	"fortio.org/assert"
)

func TestDurationsEmpty(t *testing.T) {
	var ds Durations
	_, ok := ds.Best()
	assert.False(t, ok)
	_, ok = ds.Worst()
	assert.False(t, ok)
	_, ok = ds.Average()
	assert.False(t, ok)
	_, ok = ds.Median()
	assert.False(t, ok)
	_, ok = ds.Quantile(0.5)
	assert.False(t, ok)
}

func TestDurationsAggregates(t *testing.T) {
	ds := Durations{5 * time.Second, 3 * time.Second, 4 * time.Second, 8 * time.Second}
	best, _ := ds.Best()
	assert.Equal(t, 3*time.Second, best)
	worst, _ := ds.Worst()
	assert.Equal(t, 8*time.Second, worst)
	avg, _ := ds.Average()
	assert.Equal(t, 5*time.Second, avg)
	med, _ := ds.Median()
	// Even count: mean of the two middle sorted samples (4s, 5s).
	assert.Equal(t, 4500*time.Millisecond, med)
}

func TestDurationsMedianOdd(t *testing.T) {
	ds := Durations{9 * time.Second, 1 * time.Second, 5 * time.Second}
	med, _ := ds.Median()
	assert.Equal(t, 5*time.Second, med)
}

func TestDurationsAverageTruncates(t *testing.T) {
	ds := Durations{1, 2} // 1.5ns truncates to 1ns
	avg, _ := ds.Average()
	assert.Equal(t, time.Duration(1), avg)
}

func TestDurationsQuantile(t *testing.T) {
	ds := Durations{10 * time.Second, 20 * time.Second, 30 * time.Second}
	tests := []struct {
		q    float64
		want time.Duration
	}{
		{0, 10 * time.Second},
		{0.5, 20 * time.Second},
		{1, 30 * time.Second},
		{0.25, 15 * time.Second},
		{0.75, 25 * time.Second},
		{-3, 10 * time.Second}, // clamped
		{7, 30 * time.Second},  // clamped
	}
	for _, tc := range tests {
		got, ok := ds.Quantile(tc.q)
		assert.True(t, ok)
		assert.Equal(t, tc.want, got, "quantile %g", tc.q)
	}
}

func TestDurationsQuantileSingleSample(t *testing.T) {
	ds := Durations{42 * time.Second}
	for _, q := range []float64{0, 0.3, 1} {
		got, ok := ds.Quantile(q)
		assert.True(t, ok)
		assert.Equal(t, 42*time.Second, got)
	}
}

func TestDurationsQuantileDoesNotReorderReceiver(t *testing.T) {
	ds := Durations{3 * time.Second, 1 * time.Second, 2 * time.Second}
	_, _ = ds.Quantile(0.5)
	assert.Equal(t, 3*time.Second, ds[0])
	assert.Equal(t, 1*time.Second, ds[1])
	assert.Equal(t, 2*time.Second, ds[2])
}

func TestCounter(t *testing.T) {
	var c Counter
	assert.Equal(t, time.Duration(0), c.Avg())
	c.Record(10 * time.Millisecond)
	c.Record(30 * time.Millisecond)
	c.Record(20 * time.Millisecond)
	assert.Equal(t, int64(3), c.Count)
	assert.Equal(t, 10*time.Millisecond, c.Min)
	assert.Equal(t, 30*time.Millisecond, c.Max)
	assert.Equal(t, 20*time.Millisecond, c.Avg())
	c.Reset()
	assert.Equal(t, int64(0), c.Count)
	assert.Equal(t, time.Duration(0), c.Avg())
}

func TestCounterSingleSampleMinMax(t *testing.T) {
	var c Counter
	c.Record(-5 * time.Millisecond)
	assert.Equal(t, -5*time.Millisecond, c.Min)
	assert.Equal(t, -5*time.Millisecond, c.Max)
}
