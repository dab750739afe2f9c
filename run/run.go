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

	"fortio.org/log"

	"github.com/LiveSplit/livesplit-core/timeval"
)

// Time, TimingMethod and the two TimingMethod values are re-exported under
// this package's own names so callers working with Run/Segment rarely need
// to import timeval directly.
type (
	Time         = timeval.Time
	TimingMethod = timeval.TimingMethod
)

const (
	RealTime = timeval.RealTime
	GameTime = timeval.GameTime
)

// Variable is a custom, user-defined (key, value) pair attached to a Run's
// Metadata; Permanent marks it as surviving a splits-file re-import (the
// host, not this package, is the thing that would do such a re-import, but
// the flag is part of the persistent model regardless of who acts on it).
type Variable struct {
	Value     string
	Permanent bool
}

// Metadata carries the free-form per-run attributes alongside
// game/category name: platform, region, emulator flag, and the two
// variable maps.
type Metadata struct {
	Platform        string
	Region          string
	Emulator        bool
	Variables       map[string]string
	CustomVariables map[string]Variable
}

func newMetadata() Metadata {
	return Metadata{Variables: map[string]string{}, CustomVariables: map[string]Variable{}}
}

// AttemptRecord is one entry in a Run's attempt history: every attempt
// recorded into the run, whether it finished or was reset early and
// saved. An attempt reset without saving leaves no record.
type AttemptRecord struct {
	AttemptID int64
	StartedAt time.Time
	Ended     Time
	Pause     time.Duration
}

// Policy is host-configurable behavior that doesn't fit the fixed rules;
// currently just whether a negative timer offset (a pre-countdown) is
// refused. The zero value is permissive.
type Policy struct {
	ForbidNegativeOffset bool
}

// Run is the persistent domain model: an ordered, never-empty sequence of
// Segments plus run-level metadata, comparison bookkeeping, and attempt
// history.
type Run struct {
	GameName     string
	CategoryName string
	GameIcon     ImageID
	Metadata     Metadata

	AttemptCount  int
	FinishedCount int
	Offset        time.Duration
	Policy        Policy
	History       []AttemptRecord
	nextAttemptID int64

	segments          []*Segment
	customComparisons comparisonSet
	goalTargets       map[string]time.Duration
	goalExprs         map[string]string
}

// New creates a Run from at least one segment. It returns ErrEmptyRun for
// zero segments.
func New(segments ...*Segment) (*Run, error) {
	if len(segments) == 0 {
		return nil, ErrEmptyRun
	}
	r := &Run{
		Metadata:          newMetadata(),
		nextAttemptID:     1,
		segments:          append([]*Segment(nil), segments...),
		customComparisons: comparisonSet{},
		goalTargets:       map[string]time.Duration{},
		goalExprs:         map[string]string{},
	}
	r.regenerateComparisons()
	return r, nil
}

// Clone returns a deep copy of r - what an editor works on while the
// timer keeps owning the original, before handing it back through
// ReplaceRun.
func (r *Run) Clone() *Run {
	c := &Run{
		GameName:      r.GameName,
		CategoryName:  r.CategoryName,
		GameIcon:      r.GameIcon,
		Metadata:      newMetadata(),
		AttemptCount:  r.AttemptCount,
		FinishedCount: r.FinishedCount,
		Offset:        r.Offset,
		Policy:        r.Policy,
		nextAttemptID: r.nextAttemptID,

		segments:          make([]*Segment, len(r.segments)),
		customComparisons: comparisonSet{},
		goalTargets:       map[string]time.Duration{},
		goalExprs:         map[string]string{},
	}
	c.Metadata.Platform = r.Metadata.Platform
	c.Metadata.Region = r.Metadata.Region
	c.Metadata.Emulator = r.Metadata.Emulator
	for k, v := range r.Metadata.Variables {
		c.Metadata.Variables[k] = v
	}
	for k, v := range r.Metadata.CustomVariables {
		c.Metadata.CustomVariables[k] = v
	}
	c.History = make([]AttemptRecord, len(r.History))
	for i, rec := range r.History {
		rec.Ended = rec.Ended.Clone()
		c.History[i] = rec
	}
	for i, seg := range r.segments {
		c.segments[i] = seg.clone()
	}
	for name := range r.customComparisons {
		c.customComparisons.Add(name)
	}
	for k, v := range r.goalTargets {
		c.goalTargets[k] = v
	}
	for k, v := range r.goalExprs {
		c.goalExprs[k] = v
	}
	return c
}

// Segments returns the run's segments in order. The slice and its elements
// are owned by Run; callers editing a Run's structure must go through the
// mutation methods below so comparisons stay current.
func (r *Run) Segments() []*Segment { return r.segments }

// Len returns the number of segments.
func (r *Run) Len() int { return len(r.segments) }

// NextAttemptID previews the id AllocateAttemptID would hand out next,
// without consuming it. Ids are strictly increasing and never reused.
func (r *Run) NextAttemptID() int64 { return r.nextAttemptID }

// AllocateAttemptID consumes and returns the next attempt id. The timer
// calls this once per Start.
func (r *Run) AllocateAttemptID() int64 {
	id := r.nextAttemptID
	r.nextAttemptID++
	return id
}

// InsertSegment inserts seg at index (0 <= index <= Len()) and regenerates
// comparisons.
func (r *Run) InsertSegment(index int, seg *Segment) error {
	if index < 0 || index > len(r.segments) {
		return ErrIndexRange
	}
	if seg.Comparisons == nil {
		seg.Comparisons = map[string]Time{}
	}
	r.segments = append(r.segments, nil)
	copy(r.segments[index+1:], r.segments[index:])
	r.segments[index] = seg
	log.Infof("inserted segment %q at %d (now %d segments)", seg.Name, index, len(r.segments))
	r.regenerateComparisons()
	return nil
}

// RemoveSegment deletes the segment at index. It refuses (ErrEmptyRun) if
// that would leave the run with zero segments.
func (r *Run) RemoveSegment(index int) error {
	if index < 0 || index >= len(r.segments) {
		return ErrIndexRange
	}
	if len(r.segments) == 1 {
		return ErrEmptyRun
	}
	name := r.segments[index].Name
	r.segments = append(r.segments[:index], r.segments[index+1:]...)
	log.Infof("removed segment %q at %d (now %d segments)", name, index, len(r.segments))
	r.regenerateComparisons()
	return nil
}

// Reorder moves the segment at from to position to.
func (r *Run) Reorder(from, to int) error {
	n := len(r.segments)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrIndexRange
	}
	if from == to {
		return nil
	}
	seg := r.segments[from]
	r.segments = append(r.segments[:from], r.segments[from+1:]...)
	r.segments = append(r.segments, nil)
	copy(r.segments[to+1:], r.segments[to:])
	r.segments[to] = seg
	r.regenerateComparisons()
	return nil
}

// Rename changes the display name of the segment at index.
func (r *Run) Rename(index int, name string) error {
	seg, err := r.segmentAt(index)
	if err != nil {
		return err
	}
	seg.Name = name
	return nil
}

// SetIcon changes the icon handle of the segment at index.
func (r *Run) SetIcon(index int, icon ImageID) error {
	seg, err := r.segmentAt(index)
	if err != nil {
		return err
	}
	seg.Icon = icon
	return nil
}

func (r *Run) segmentAt(index int) (*Segment, error) {
	if index < 0 || index >= len(r.segments) {
		return nil, ErrIndexRange
	}
	return r.segments[index], nil
}

// SetOffset sets the run's starting timer offset. A negative offset is
// refused with ErrNegativeOffset when Policy.ForbidNegativeOffset is set;
// otherwise (the default) negative offsets are allowed, giving the
// attempt a pre-countdown.
func (r *Run) SetOffset(d time.Duration) error {
	if d < 0 && r.Policy.ForbidNegativeOffset {
		return ErrNegativeOffset
	}
	r.Offset = d
	return nil
}

// SetMetadata replaces the run's Metadata wholesale; nil maps are
// normalized to empty ones so callers never need a nil check.
func (r *Run) SetMetadata(m Metadata) {
	if m.Variables == nil {
		m.Variables = map[string]string{}
	}
	if m.CustomVariables == nil {
		m.CustomVariables = map[string]Variable{}
	}
	r.Metadata = m
}

// AddCustomComparison registers a new, host-settable comparison name. It
// refuses ErrReservedComparison for any reserved name and
// ErrDuplicateComparison if the name is already a custom comparison.
// Every segment immediately gains the key (with an absent Time until the
// host or a goal generator fills it in) so all segments keep carrying the
// same key set.
func (r *Run) AddCustomComparison(name string) error {
	if IsReserved(name) {
		return ErrReservedComparison
	}
	if r.customComparisons.Has(name) {
		return ErrDuplicateComparison
	}
	r.customComparisons.Add(name)
	for _, seg := range r.segments {
		seg.Comparisons[name] = Time{}
	}
	log.Infof("added custom comparison %q", name)
	return nil
}

// RemoveCustomComparison deletes a previously added custom comparison
// (including any goal registered under that name) from every segment.
// It refuses ErrReservedComparison for a built-in name and
// ErrUnknownComparison for a name that was never added.
func (r *Run) RemoveCustomComparison(name string) error {
	if IsReserved(name) {
		return ErrReservedComparison
	}
	if !r.customComparisons.Has(name) {
		return ErrUnknownComparison
	}
	r.customComparisons.Remove(name)
	delete(r.goalTargets, name)
	delete(r.goalExprs, name)
	for _, seg := range r.segments {
		delete(seg.Comparisons, name)
	}
	log.Infof("removed custom comparison %q", name)
	return nil
}

// SetComparisonSplit sets one segment's split time under a custom
// (non-generated) comparison. It refuses ErrReservedComparison for a
// built-in name (those are computed, never host-set) and
// ErrUnknownComparison for a name that isn't a registered custom
// comparison.
func (r *Run) SetComparisonSplit(name string, index int, t Time) error {
	if IsReserved(name) {
		return ErrReservedComparison
	}
	if !r.customComparisons.Has(name) {
		return ErrUnknownComparison
	}
	seg, err := r.segmentAt(index)
	if err != nil {
		return err
	}
	seg.Comparisons[name] = t
	return nil
}

// ComparisonNames returns every comparison name currently carried by the
// run's segments (built-in plus custom), in no particular order.
func (r *Run) ComparisonNames() []string {
	names := make([]string, 0, len(builtinGeneratorOrder)+r.customComparisons.Len())
	names = append(names, builtinGeneratorOrder...)
	for name := range r.customComparisons {
		names = append(names, name)
	}
	return names
}

// RecordAttempt merges one finished-or-abandoned attempt into the run:
// appends one history entry per segment, updates per-segment best segment
// times, re-evaluates the PB when the attempt completed, appends an
// AttemptRecord, and regenerates comparisons. splits[i] is the attempt's
// cumulative split time at segment i, absent where the segment was skipped
// or never reached; completed marks whether the attempt split through the
// final segment.
func (r *Run) RecordAttempt(attemptID int64, startedAt time.Time, splits []Time, pause time.Duration, completed bool) {
	r.AttemptCount++
	if completed {
		r.FinishedCount++
	}

	for i, seg := range r.segments {
		st := segmentTimeFromSplits(splits, i)
		seg.History = append(seg.History, HistoryEntry{AttemptID: attemptID, Time: st.Clone()})

		for _, method := range []TimingMethod{RealTime, GameTime} {
			v := st.Get(method)
			// Negative segment times (reachable only by winding game time
			// backwards) never become a best segment.
			if v == nil || *v < 0 {
				continue
			}
			if best := seg.BestSegmentTime.Get(method); best == nil || *v < *best {
				nv := *v
				seg.BestSegmentTime = seg.BestSegmentTime.With(method, &nv)
			}
		}
	}

	var finalSplit Time
	for i := len(splits) - 1; i >= 0; i-- {
		if splits[i].RealTime != nil || splits[i].GameTime != nil {
			finalSplit = splits[i]
			break
		}
	}

	if completed && len(splits) == len(r.segments) {
		for _, method := range []TimingMethod{RealTime, GameTime} {
			v := splits[len(splits)-1].Get(method)
			if v == nil {
				continue
			}
			if pb := pbTotal(r, method); pb == nil || *v < *pb {
				r.applyPersonalBest(method, splits)
			}
		}
	}

	r.History = append(r.History, AttemptRecord{
		AttemptID: attemptID,
		StartedAt: startedAt,
		Ended:     finalSplit.Clone(),
		Pause:     pause,
	})

	r.regenerateComparisons()
	log.Debugf("recorded attempt %d (completed=%v, %d/%d finished)",
		attemptID, completed, r.FinishedCount, r.AttemptCount)
}

// segmentTimeFromSplits derives segment i's duration from consecutive
// cumulative splits. A segment bordered by an absent split on either side
// has no attributable duration of its own (a skip folds two segments'
// worth of time into one unsplittable stretch), so the result's component
// is absent.
func segmentTimeFromSplits(splits []Time, i int) Time {
	if i >= len(splits) {
		return Time{}
	}
	if i == 0 {
		return splits[0]
	}
	return timeval.Sub(splits[i], splits[i-1])
}

// applyPersonalBest overwrites every segment's PersonalBest component for
// method with this attempt's cumulative split times (absent where
// skipped). PB is evaluated, and updated, independently per TimingMethod,
// since a single attempt can set a real-time PB while losing on game time
// (or vice versa).
func (r *Run) applyPersonalBest(method TimingMethod, splits []Time) {
	for i, seg := range r.segments {
		var v *time.Duration
		if i < len(splits) {
			v = splits[i].Get(method)
		}
		if v == nil {
			seg.PersonalBest = seg.PersonalBest.With(method, nil)
			continue
		}
		nv := *v
		seg.PersonalBest = seg.PersonalBest.With(method, &nv)
	}
}

func pbTotal(r *Run, method TimingMethod) *time.Duration {
	if len(r.segments) == 0 {
		return nil
	}
	return r.segments[len(r.segments)-1].PersonalBest.Get(method)
}
