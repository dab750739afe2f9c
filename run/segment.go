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

// Package run implements the persistent domain model of a speedrun - the
// segments, their history, and the run-level metadata - and the comparison
// engine that sits on top of it. The two live in one package because the
// comparison engine writes its output directly into each Segment's
// Comparisons map: every mutation of a Run must regenerate comparisons,
// and comparisons must, in turn, read the Run's segments and history.
// Splitting them across packages would force either an import cycle or a
// callback-registration layer; a single package with an unexported
// regeneration step is the plainer shape.
package run

import (
	"github.com/LiveSplit/livesplit-core/stats"
)

// HistoryEntry is one (attempt id, Time) sample of a segment's observed
// time during a past attempt. Time here is the segment's own duration, not
// a cumulative split time - the distinction the Best-Segments and
// Worst/Average/Median-Segments generators both depend on.
type HistoryEntry struct {
	AttemptID int64
	Time      Time
}

// Segment is one entry in a Run's ordered sequence.
type Segment struct {
	Name string
	Icon ImageID

	// PersonalBest is this segment's split time (cumulative from the start
	// of the run) in the run's stored personal-best attempt.
	PersonalBest Time
	// BestSegmentTime is the shortest observed duration of this segment
	// alone (not a split time) across all history.
	BestSegmentTime Time

	// Comparisons maps comparison name to this segment's split time under
	// that comparison. Every segment of a run shares the same key set.
	Comparisons map[string]Time

	// History is the append-mostly sequence of per-attempt segment-time
	// samples, one entry per past attempt.
	History []HistoryEntry
}

// NewSegment returns a freshly named Segment with no comparisons and no
// history. Callers normally go through Run.InsertSegment rather than
// holding one of these directly, so the comparison key set is established
// immediately.
func NewSegment(name string) *Segment {
	return &Segment{Name: name, Comparisons: map[string]Time{}}
}

// clone returns a deep copy of s suitable for independent mutation (used by
// Run.Clone and by tests that need to fabricate history without aliasing).
func (s *Segment) clone() *Segment {
	c := &Segment{
		Name:            s.Name,
		Icon:            s.Icon,
		PersonalBest:    s.PersonalBest.Clone(),
		BestSegmentTime: s.BestSegmentTime.Clone(),
		Comparisons:     make(map[string]Time, len(s.Comparisons)),
	}
	for k, v := range s.Comparisons {
		c.Comparisons[k] = v.Clone()
	}
	c.History = make([]HistoryEntry, len(s.History))
	for i, h := range s.History {
		c.History[i] = HistoryEntry{AttemptID: h.AttemptID, Time: h.Time.Clone()}
	}
	return c
}

// historySamples returns the present values of this segment's history for
// method, in recording order.
func (s *Segment) historySamples(method TimingMethod) stats.Durations {
	samples := make(stats.Durations, 0, len(s.History))
	for _, h := range s.History {
		if v := h.Time.Get(method); v != nil {
			samples = append(samples, *v)
		}
	}
	return samples
}
