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
	"strconv"
	"strings"
	"time"
)

// Accuracy controls how many fractional-second digits are rendered.
type Accuracy int

const (
	// Seconds renders no fractional digits.
	Seconds Accuracy = iota
	// Tenths renders 1 fractional digit.
	Tenths
	// Hundredths renders 2 fractional digits.
	Hundredths
	// Milliseconds renders 3 fractional digits.
	Milliseconds
)

func (a Accuracy) digits() int {
	switch a {
	case Tenths:
		return 1
	case Hundredths:
		return 2
	case Milliseconds:
		return 3
	default:
		return 0
	}
}

// Unit is the coarsest column a DigitsFormat guarantees will be rendered.
type Unit int

const (
	// UnitSeconds means "at least SS" is always rendered.
	UnitSeconds Unit = iota
	// UnitMinutes means "at least M:SS" is always rendered.
	UnitMinutes
	// UnitHours means "at least H:MM:SS" is always rendered.
	UnitHours
)

// DigitsStyle picks whether the minimum-width column (per Unit) is
// zero-padded even when it's the leftmost rendered column.
type DigitsStyle int

const (
	// Single never forces a leading zero on the leftmost rendered column.
	Single DigitsStyle = iota
	// Double zero-pads the MinUnit column to 2 digits when it is the
	// leftmost rendered column.
	Double
)

// DigitsFormat is a (minimum Unit, Single/Double) pair: it picks both
// which columns are always shown, and whether the smallest guaranteed
// column is zero-padded when nothing larger is present.
type DigitsFormat struct {
	MinUnit Unit
	Style   DigitsStyle
}

var (
	// SingleDigitSeconds shows just "S" (or more, if non-zero) - e.g. "5".
	SingleDigitSeconds = DigitsFormat{MinUnit: UnitSeconds, Style: Single}
	// DoubleDigitSeconds always shows 2 digits of seconds - e.g. "05".
	DoubleDigitSeconds = DigitsFormat{MinUnit: UnitSeconds, Style: Double}
	// SingleDigitMinutes always shows minutes, not zero-padded - e.g. "5:09".
	SingleDigitMinutes = DigitsFormat{MinUnit: UnitMinutes, Style: Single}
	// DoubleDigitMinutes always shows minutes, zero-padded - e.g. "05:09".
	DoubleDigitMinutes = DigitsFormat{MinUnit: UnitMinutes, Style: Double}
	// SingleDigitHours always shows hours, not zero-padded - e.g. "5:04:09".
	SingleDigitHours = DigitsFormat{MinUnit: UnitHours, Style: Single}
	// DoubleDigitHours always shows hours, zero-padded - e.g. "05:04:09".
	DoubleDigitHours = DigitsFormat{MinUnit: UnitHours, Style: Double}
)

const emDash = "—"

// Format renders d (nil meaning absent) as "[-]H:MM:SS[.fff]": fractional
// digits truncate toward zero, the sign sits outside the absolute value so
// the displayed value is never rounded away from the direction of
// progress, zero renders unsigned, and absent renders as an em-dash.
func Format(d *time.Duration, acc Accuracy, df DigitsFormat) string {
	if d == nil {
		return emDash
	}
	v := *d
	neg := v < 0
	if neg {
		v = -v
	}

	totalNanos := int64(v)
	const (
		nsPerSecond = int64(time.Second)
		nsPerMinute = int64(time.Minute)
		nsPerHour   = int64(time.Hour)
	)
	hours := totalNanos / nsPerHour
	rem := totalNanos % nsPerHour
	minutes := rem / nsPerMinute
	rem %= nsPerMinute
	seconds := rem / nsPerSecond
	fracNanos := rem % nsPerSecond

	hasHours := hours != 0 || df.MinUnit == UnitHours
	hasMinutes := hasHours || minutes != 0 || df.MinUnit == UnitMinutes

	var sb strings.Builder
	if neg && (hours != 0 || minutes != 0 || seconds != 0 || fracNanos != 0) {
		sb.WriteByte('-')
	}

	if hasHours {
		if df.MinUnit == UnitHours && df.Style == Double {
			writePadded(&sb, hours, 2)
		} else {
			sb.WriteString(strconv.FormatInt(hours, 10))
		}
		sb.WriteByte(':')
		writePadded(&sb, minutes, 2)
		sb.WriteByte(':')
		writePadded(&sb, seconds, 2)
	} else if hasMinutes {
		if df.MinUnit == UnitMinutes && df.Style == Double {
			writePadded(&sb, minutes, 2)
		} else {
			sb.WriteString(strconv.FormatInt(minutes, 10))
		}
		sb.WriteByte(':')
		writePadded(&sb, seconds, 2)
	} else {
		if df.Style == Double {
			writePadded(&sb, seconds, 2)
		} else {
			sb.WriteString(strconv.FormatInt(seconds, 10))
		}
	}

	if digits := acc.digits(); digits > 0 {
		sb.WriteByte('.')
		frac := truncateFraction(fracNanos, digits)
		writePadded(&sb, frac, digits)
	}

	return sb.String()
}

// truncateFraction keeps the top `digits` decimal digits of a nanosecond
// remainder, truncating (never rounding) toward zero.
func truncateFraction(fracNanos int64, digits int) int64 {
	div := int64(1)
	for range 9 - digits {
		div *= 10
	}
	return fracNanos / div
}

func writePadded(sb *strings.Builder, v int64, width int) {
	s := strconv.FormatInt(v, 10)
	for range width - len(s) {
		sb.WriteByte('0')
	}
	sb.WriteString(s)
}
