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

// Package stats provides the order statistics the comparison engine
// aggregates segment history with: best/worst/average/median and
// inverse-CDF (quantile) sampling over observed durations, plus a small
// running Counter for frame pacing diagnostics.
//
// Unlike a latency histogram that buckets millions of points and estimates
// percentiles, a segment rarely accumulates more than a few thousand
// attempts, so everything here computes exactly over the raw samples.
package stats // import "github.com/LiveSplit/livesplit-core/stats"

import (
	"fmt"
	"sort"
	"time"

	"fortio.org/log"
	"fortio.org/safecast"
)

// Durations is a multiset of observed durations, e.g. one segment's
// history samples for one timing method. The zero value (nil) is an empty,
// usable set. Aggregates that need an order walk a sorted copy; the
// receiver is never reordered.
type Durations []time.Duration

// Best returns the smallest sample, false on an empty set.
func (ds Durations) Best() (time.Duration, bool) {
	if len(ds) == 0 {
		return 0, false
	}
	best := ds[0]
	for _, v := range ds[1:] {
		if v < best {
			best = v
		}
	}
	return best, true
}

// Worst returns the largest sample, false on an empty set.
func (ds Durations) Worst() (time.Duration, bool) {
	if len(ds) == 0 {
		return 0, false
	}
	worst := ds[0]
	for _, v := range ds[1:] {
		if v > worst {
			worst = v
		}
	}
	return worst, true
}

// Average returns the arithmetic mean, false on an empty set. Integer
// nanosecond division truncates toward zero, never rounds up.
func (ds Durations) Average() (time.Duration, bool) {
	if len(ds) == 0 {
		return 0, false
	}
	var sum time.Duration
	for _, v := range ds {
		sum += v
	}
	return sum / time.Duration(len(ds)), true
}

// Median returns the middle sample (mean of the two middle samples for an
// even count), false on an empty set.
func (ds Durations) Median() (time.Duration, bool) {
	if len(ds) == 0 {
		return 0, false
	}
	sorted := ds.sortedCopy()
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2], true
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2, true
}

// Quantile samples the inverse empirical CDF at q in [0, 1], interpolating
// linearly between the two bracketing order statistics - the same
// estimation shape as interpolating a percentile between two histogram
// bucket boundaries, except the "buckets" are the exact sorted samples.
// q outside [0, 1] is clamped. Returns false on an empty set.
func (ds Durations) Quantile(q float64) (time.Duration, bool) {
	if len(ds) == 0 {
		return 0, false
	}
	if q < 0 {
		log.Debugf("quantile %g clamped to 0", q)
		q = 0
	}
	if q > 1 {
		log.Debugf("quantile %g clamped to 1", q)
		q = 1
	}
	sorted := ds.sortedCopy()
	if len(sorted) == 1 {
		return sorted[0], true
	}
	idx := q * float64(len(sorted)-1)
	lo := safecast.MustTruncate[int](idx)
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[len(sorted)-1], true
	}
	frac := idx - float64(lo)
	span := sorted[hi] - sorted[lo]
	return sorted[lo] + time.Duration(frac*float64(span)), true
}

func (ds Durations) sortedCopy() Durations {
	sorted := append(Durations(nil), ds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted
}

// Counter is a running min/max/average accumulator for durations that
// don't need to be retained individually, e.g. the sleep jitter of a
// frame driver. The zero value is ready to use.
type Counter struct {
	Count int64
	Min   time.Duration
	Max   time.Duration
	sum   time.Duration
}

// Record adds one sample.
func (c *Counter) Record(d time.Duration) {
	c.Count++
	if c.Count == 1 {
		c.Min = d
		c.Max = d
	} else {
		if d < c.Min {
			c.Min = d
		}
		if d > c.Max {
			c.Max = d
		}
	}
	c.sum += d
}

// Avg returns the mean of the recorded samples, 0 when empty.
func (c *Counter) Avg() time.Duration {
	if c.Count == 0 {
		return 0
	}
	return c.sum / time.Duration(c.Count)
}

// Reset forgets all samples, keeping the Counter reusable.
func (c *Counter) Reset() {
	*c = Counter{}
}

// String implements fmt.Stringer for log lines.
func (c *Counter) String() string {
	return fmt.Sprintf("count %d avg %v min %v max %v", c.Count, c.Avg(), c.Min, c.Max)
}

// Log writes the counter at Info level with a descriptive tag.
func (c *Counter) Log(tag string) {
	log.Infof("%s: %s", tag, c.String())
}
