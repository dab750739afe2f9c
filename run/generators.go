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
	"time"

	"github.com/LiveSplit/livesplit-core/stats"
)

// genPersonalBest emits the stored personal-best attempt's split times.
// Segment.PersonalBest already carries exactly that, cumulative from the
// start of the run.
func genPersonalBest(r *Run, method TimingMethod) []*time.Duration {
	out := make([]*time.Duration, len(r.segments))
	for i, seg := range r.segments {
		out[i] = seg.PersonalBest.Get(method)
	}
	return out
}

// genBestSegments ("Sum of Best") emits the cumulative sum of each
// segment's stored best segment time. Once a segment's best is absent,
// every later segment is absent too (cumulative sum of an absent value is
// absent).
func genBestSegments(r *Run, method TimingMethod) []*time.Duration {
	out := make([]*time.Duration, len(r.segments))
	var running *time.Duration
	zero := time.Duration(0)
	running = &zero
	for i, seg := range r.segments {
		best := seg.BestSegmentTime.Get(method)
		if running == nil || best == nil {
			running = nil
			out[i] = nil
			continue
		}
		v := *running + *best
		running = &v
		out[i] = running
	}
	return out
}

// genBestSplitTimes emits, per segment, the minimum split time (cumulative
// from the start of the run) ever observed at that segment in history. It
// reconstructs each past attempt's running cumulative total as it walks
// segments left to right, dropping an attempt from consideration the first
// time one of its segment-time samples is absent (that attempt never
// produced a usable split at this or any later segment).
func genBestSplitTimes(r *Run, method TimingMethod) []*time.Duration {
	out := make([]*time.Duration, len(r.segments))
	running := map[int64]time.Duration{}
	broken := map[int64]bool{}

	for i, seg := range r.segments {
		for _, h := range seg.History {
			if broken[h.AttemptID] {
				continue
			}
			v := h.Time.Get(method)
			if v == nil {
				broken[h.AttemptID] = true
				delete(running, h.AttemptID)
				continue
			}
			running[h.AttemptID] += *v
		}

		var best *time.Duration
		for id, cum := range running {
			if broken[id] {
				continue
			}
			c := cum
			if best == nil || c < *best {
				best = &c
			}
		}
		out[i] = best
	}
	return out
}

// genLatestRun emits the most recent completed attempt's split times,
// reconstructed the same way as genBestSplitTimes but tracking only the
// single highest attempt id whose samples stay unbroken through to the
// segment in question.
func genLatestRun(r *Run, method TimingMethod) []*time.Duration {
	out := make([]*time.Duration, len(r.segments))
	latestID := latestCompletedAttemptID(r)
	if latestID == 0 {
		return out
	}

	var cumulative *time.Duration
	zero := time.Duration(0)
	cumulative = &zero
	for i, seg := range r.segments {
		if cumulative == nil {
			out[i] = nil
			continue
		}
		var v *time.Duration
		for _, h := range seg.History {
			if h.AttemptID == latestID {
				v = h.Time.Get(method)
				break
			}
		}
		if v == nil {
			cumulative = nil
			out[i] = nil
			continue
		}
		c := *cumulative + *v
		cumulative = &c
		out[i] = cumulative
	}
	return out
}

// latestCompletedAttemptID returns the AttemptID of the most recently
// started attempt recorded in r.History whose Ended Time has at least one
// present component, or 0 if there is none.
func latestCompletedAttemptID(r *Run) int64 {
	var latest int64
	for _, rec := range r.History {
		if rec.Ended.RealTime == nil && rec.Ended.GameTime == nil {
			continue
		}
		if rec.AttemptID > latest {
			latest = rec.AttemptID
		}
	}
	return latest
}

// genWorstSegments, genAverageSegments and genMedianSegments aggregate each
// segment's history samples (worst / arithmetic mean / median via
// stats.Durations), then emit the cumulative sum. They share
// genAggregateSegments and differ only in the aggregate applied to each
// segment's sample set. Absent samples are excluded from the aggregate; a
// segment with no samples yields an absent split time, and absence
// propagates through the cumulative sum like everywhere else.
func genWorstSegments(r *Run, method TimingMethod) []*time.Duration {
	return genAggregateSegments(r, method, stats.Durations.Worst)
}

func genAverageSegments(r *Run, method TimingMethod) []*time.Duration {
	return genAggregateSegments(r, method, stats.Durations.Average)
}

func genMedianSegments(r *Run, method TimingMethod) []*time.Duration {
	return genAggregateSegments(r, method, stats.Durations.Median)
}

func genAggregateSegments(r *Run, method TimingMethod, agg func(stats.Durations) (time.Duration, bool)) []*time.Duration {
	out := make([]*time.Duration, len(r.segments))
	var running *time.Duration
	zero := time.Duration(0)
	running = &zero
	for i, seg := range r.segments {
		a, ok := agg(seg.historySamples(method))
		if running == nil || !ok {
			running = nil
			out[i] = nil
			continue
		}
		v := *running + a
		running = &v
		out[i] = running
	}
	return out
}

// genNone emits all absents.
func genNone(r *Run, _ TimingMethod) []*time.Duration {
	return make([]*time.Duration, len(r.segments))
}
