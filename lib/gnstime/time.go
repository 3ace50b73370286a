// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package gnstime converts between GNUnet's wire time values and
// time.Time / time.Duration.
//
// GNUnet counts both absolute times and durations in microseconds in
// an unsigned 64-bit field. The all-ones value means "forever": an
// absolute time that never arrives, or a duration that never ends.
package gnstime

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Absolute is a point in time, in microseconds since the Unix epoch.
type Absolute uint64

// Relative is a duration in microseconds.
type Relative uint64

// Forever is the absolute time that never arrives.
const Forever Absolute = math.MaxUint64

// ForeverRelative is the duration that never ends.
const ForeverRelative Relative = math.MaxUint64

// FromTime converts t, clamping times before the epoch to zero.
func FromTime(t time.Time) Absolute {
	micros := t.UnixMicro()
	if micros < 0 {
		return 0
	}
	return Absolute(micros)
}

// IsForever reports whether a is Forever.
func (a Absolute) IsForever() bool { return a == Forever }

// Time converts a to a time.Time. Values past the range of
// time.UnixMicro, Forever included, convert to the largest
// representable time, with ok false.
func (a Absolute) Time() (t time.Time, ok bool) {
	if a > math.MaxInt64 {
		return time.UnixMicro(math.MaxInt64).UTC(), false
	}
	return time.UnixMicro(int64(a)).UTC(), true
}

// Before reports whether a is strictly before t. Forever is before
// nothing.
func (a Absolute) Before(t time.Time) bool {
	if a.IsForever() {
		return false
	}
	return a < FromTime(t)
}

// String renders a in RFC 3339 (UTC) or as "end of time".
func (a Absolute) String() string {
	if a.IsForever() {
		return "end of time"
	}
	t, _ := a.Time()
	return t.Format(time.RFC3339Nano)
}

// FromDuration converts d, saturating negative values at zero.
func FromDuration(d time.Duration) Relative {
	if d < 0 {
		return 0
	}
	return Relative(d.Microseconds())
}

// Duration converts r to a time.Duration, saturating at the largest
// representable duration. ForeverRelative saturates too.
func (r Relative) Duration() time.Duration {
	if r > Relative(math.MaxInt64/int64(time.Microsecond)) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(r) * time.Microsecond
}

// IsForever reports whether r is ForeverRelative.
func (r Relative) IsForever() bool { return r == ForeverRelative }

// String renders r like time.Duration, or as "forever".
func (r Relative) String() string {
	if r.IsForever() {
		return "forever"
	}
	return r.Duration().String()
}

// unitMicros is the table of unit suffixes accepted by ParseRelative, in
// the spelling GNUnet configuration files use.
var unitMicros = map[string]uint64{
	"us":      1,
	"ms":      1_000,
	"s":       1_000_000,
	`"`:       1_000_000,
	"m":       60_000_000,
	"min":     60_000_000,
	"minutes": 60_000_000,
	"'":       60_000_000,
	"h":       3_600_000_000,
	"d":       86_400_000_000,
	"day":     86_400_000_000,
	"days":    86_400_000_000,
	"week":    604_800_000_000,
	"weeks":   604_800_000_000,
	"year":    31_536_000_000_000,
	"years":   31_536_000_000_000,
	"a":       31_536_000_000_000,
}

var (
	// ErrEmptyQuantity is returned for a blank quantity string.
	ErrEmptyQuantity = errors.New("gnstime: empty quantity")

	// ErrMissingUnit is returned when the last number has no unit.
	ErrMissingUnit = errors.New("gnstime: missing unit on final number")

	// ErrOverflow is returned when the sum does not fit in 64 bits.
	ErrOverflow = errors.New("gnstime: quantity overflows")
)

// ParseRelative parses a whitespace-separated sequence of
// "amount unit" pairs, such as "3 min 10 s", and returns their sum.
// The word "forever" parses as ForeverRelative.
func ParseRelative(text string) (Relative, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, ErrEmptyQuantity
	}
	if len(fields) == 1 && strings.EqualFold(fields[0], "forever") {
		return ForeverRelative, nil
	}

	var total uint64
	for i := 0; i < len(fields); i += 2 {
		amount, err := strconv.ParseUint(fields[i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("gnstime: parsing %q: %w", fields[i], err)
		}
		if i+1 >= len(fields) {
			return 0, ErrMissingUnit
		}
		multiplier, ok := unitMicros[fields[i+1]]
		if !ok {
			return 0, fmt.Errorf("gnstime: unknown unit %q", fields[i+1])
		}
		if amount > 0 && multiplier > (math.MaxUint64-total)/amount {
			return 0, ErrOverflow
		}
		total += amount * multiplier
	}
	return Relative(total), nil
}
