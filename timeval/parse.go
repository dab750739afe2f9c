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

package timeval

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	duration "fortio.org/duration"
)

// ErrInvalidTime is returned (wrapped) by Parse when the input does not
// match the "[-]H…:MM:SS[.fff…]" grammar (plus the lenient variants
// documented on Parse).
var ErrInvalidTime = errors.New("timeval: invalid time")

// Parse accepts the inverse of Format's grammar, plus lenient variants:
// a missing leading zero on any group, a missing hour group, and a
// fractional part of 1 to 9 digits (not just the formatter's own
// accuracies). It returns ErrInvalidTime (wrapped with the offending
// input) on any other input.
func Parse(s string) (time.Duration, error) {
	orig := s
	s = strings.TrimSpace(s)
	if s == "" || s == emDash {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, orig)
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart, fracPart, hasFrac := s, "", false
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		intPart, fracPart, hasFrac = s[:idx], s[idx+1:], true
	}
	if hasFrac && (len(fracPart) == 0 || len(fracPart) > 9 || !allDigits(fracPart)) {
		return 0, fmt.Errorf("%w: bad fraction in %q", ErrInvalidTime, orig)
	}

	groups := strings.Split(intPart, ":")
	if len(groups) == 0 || len(groups) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, orig)
	}
	for _, g := range groups {
		if g == "" || !allDigits(g) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, orig)
		}
	}

	var hours, minutes, seconds int64
	var err error
	switch len(groups) {
	case 1:
		seconds, err = strconv.ParseInt(groups[0], 10, 64)
	case 2:
		minutes, err = strconv.ParseInt(groups[0], 10, 64)
		if err == nil {
			seconds, err = strconv.ParseInt(groups[1], 10, 64)
		}
	case 3:
		hours, err = strconv.ParseInt(groups[0], 10, 64)
		if err == nil {
			minutes, err = strconv.ParseInt(groups[1], 10, 64)
		}
		if err == nil {
			seconds, err = strconv.ParseInt(groups[2], 10, 64)
		}
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidTime, orig, err)
	}

	var fracNanos int64
	if hasFrac {
		padded := fracPart + strings.Repeat("0", 9-len(fracPart))
		fracNanos, err = strconv.ParseInt(padded, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %w", ErrInvalidTime, orig, err)
		}
	}

	total := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(fracNanos)
	if neg {
		total = -total
	}
	return total, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseLenient additionally accepts a bare Go-style duration literal (e.g.
// "1h30m", "90s") by delegating to [fortio.org/duration]. It is meant for
// host-supplied configuration values
// (a Run's timer offset, SetLoadingTimes) rather than for rendering the
// live timer, which always uses the canonical grammar of Parse.
func ParseLenient(s string) (time.Duration, error) {
	if d, err := Parse(s); err == nil {
		return d, nil
	}
	d, err := duration.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidTime, s, err)
	}
	return d, nil
}
