// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gnstime

import (
	"errors"
	"testing"
	"time"
)

func TestParseRelative(t *testing.T) {
	tests := []struct {
		input string
		want  Relative
	}{
		{" 3   min  10 s   ", 190_000_000},
		{"1 h", 3_600_000_000},
		{"250 ms 5 us", 250_005},
		{"2 weeks", 2 * 604_800_000_000},
		{"1 a", 31_536_000_000_000},
		{"forever", ForeverRelative},
	}
	for _, test := range tests {
		got, err := ParseRelative(test.input)
		if err != nil {
			t.Errorf("ParseRelative(%q): %v", test.input, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseRelative(%q) = %d, want %d", test.input, got, test.want)
		}
	}
}

func TestParseRelativeErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"", ErrEmptyQuantity},
		{"   ", ErrEmptyQuantity},
		{"12", ErrMissingUnit},
		{"99999999999 years", ErrOverflow},
	}
	for _, test := range tests {
		if _, err := ParseRelative(test.input); !errors.Is(err, test.want) {
			t.Errorf("ParseRelative(%q) error = %v, want %v", test.input, err, test.want)
		}
	}
	for _, input := range []string{"3 balls", "days", "-1 s"} {
		if _, err := ParseRelative(input); err == nil {
			t.Errorf("ParseRelative(%q) succeeded", input)
		}
	}
}

func TestAbsoluteConversion(t *testing.T) {
	moment := time.Date(2026, 10, 14, 12, 30, 0, 123456000, time.UTC)
	absolute := FromTime(moment)
	back, ok := absolute.Time()
	if !ok || !back.Equal(moment) {
		t.Errorf("Time() = %v, %v; want %v", back, ok, moment)
	}
	if !absolute.Before(moment.Add(time.Microsecond)) || absolute.Before(moment) {
		t.Error("Before boundary wrong")
	}
	if absolute.String() != "2026-10-14T12:30:00.123456Z" {
		t.Errorf("String() = %q", absolute.String())
	}
}

func TestForever(t *testing.T) {
	if !Forever.IsForever() || Forever.String() != "end of time" {
		t.Errorf("Forever = %q", Forever.String())
	}
	if Forever.Before(time.Now().Add(100 * 365 * 24 * time.Hour)) {
		t.Error("Forever is before a finite time")
	}
	if _, ok := Forever.Time(); ok {
		t.Error("Forever.Time() reported ok")
	}
	if ForeverRelative.Duration() <= 0 || ForeverRelative.String() != "forever" {
		t.Errorf("ForeverRelative converts to %v", ForeverRelative.Duration())
	}
	if FromTime(time.Unix(-5, 0)) != 0 {
		t.Error("pre-epoch time not clamped")
	}
}

func TestRelativeDuration(t *testing.T) {
	if got := Relative(1_500_000).Duration(); got != 1500*time.Millisecond {
		t.Errorf("Duration() = %v", got)
	}
	if got := FromDuration(2 * time.Second); got != 2_000_000 {
		t.Errorf("FromDuration = %d", got)
	}
	if FromDuration(-time.Second) != 0 {
		t.Error("negative duration not clamped")
	}
}
