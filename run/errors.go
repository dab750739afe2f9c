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

import "errors"

var (
	// ErrEmptyRun is returned by New and by RemoveSegment when an operation
	// would leave the run with zero segments.
	ErrEmptyRun = errors.New("run: a run must keep at least one segment")
	// ErrDuplicateComparison is returned by AddCustomComparison for a name
	// already registered as a custom comparison (built-in names get
	// ErrReservedComparison instead).
	ErrDuplicateComparison = errors.New("run: comparison name already exists")
	// ErrReservedComparison is returned by AddCustomComparison for a
	// reserved name, and by RemoveCustomComparison for any built-in.
	ErrReservedComparison = errors.New("run: comparison name is reserved")
	// ErrUnknownComparison is returned by RemoveCustomComparison and
	// SetComparisonSplit for a name that isn't a registered comparison.
	ErrUnknownComparison = errors.New("run: no such comparison")
	// ErrNegativeOffset is returned by SetOffset when the run's Policy
	// forbids a negative timer offset.
	ErrNegativeOffset = errors.New("run: negative offset forbidden by policy")
	// ErrIndexRange is returned by segment-index-taking operations for an
	// out-of-range index.
	ErrIndexRange = errors.New("run: segment index out of range")
)
