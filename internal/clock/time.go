// Package clock defines the time value read from an analog clock face and the
// arithmetic needed to compare two readings on a 12-hour dial.
package clock

import (
	"fmt"
	"time"

	"github.com/ironsheep/clockread/internal/imaging"
)

// Layout is the canonical text form of a Time, in time package notation.
const Layout = "15:04:05.000"

const (
	// Day is the span of a 24-hour label.
	Day = 24 * time.Hour

	// Dial is the span of one revolution of the hour hand.
	Dial = 12 * time.Hour
)

// Time is a time of day with millisecond resolution. Its text form is HH:MM:SS.mmm.
type Time struct {
	Hours        int `json:"hours"`
	Minutes      int `json:"minutes"`
	Seconds      int `json:"seconds"`
	Milliseconds int `json:"milliseconds"`
}

// String formats t as HH:MM:SS.mmm.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%03d", t.Hours, t.Minutes, t.Seconds, t.Milliseconds)
}

// Valid reports whether every field is within its range.
func (t Time) Valid() bool {
	return t.Hours >= 0 && t.Hours < 24 &&
		t.Minutes >= 0 && t.Minutes < 60 &&
		t.Seconds >= 0 && t.Seconds < 60 &&
		t.Milliseconds >= 0 && t.Milliseconds < 1000
}

// Duration returns the offset of t from midnight.
func (t Time) Duration() time.Duration {
	return time.Duration(t.Hours)*time.Hour +
		time.Duration(t.Minutes)*time.Minute +
		time.Duration(t.Seconds)*time.Second +
		time.Duration(t.Milliseconds)*time.Millisecond
}

// TwelveHour folds t onto a 12-hour dial (hours 0-11).
func (t Time) TwelveHour() Time {
	t.Hours %= 12
	return t
}

// FromDuration builds a Time from an offset since midnight, wrapping at 24 hours.
// Sub-millisecond precision is truncated.
func FromDuration(d time.Duration) Time {
	d %= Day
	if d < 0 {
		d += Day
	}
	ms := int(d / time.Millisecond)
	return Time{
		Hours:        ms / 3_600_000,
		Minutes:      ms / 60_000 % 60,
		Seconds:      ms / 1000 % 60,
		Milliseconds: ms % 1000,
	}
}

// Parse reads the strict HH:MM:SS.mmm form produced by String.
func Parse(s string) (Time, error) {
	if len(s) != len(Layout) {
		return Time{}, fmt.Errorf("time %q: want HH:MM:SS.mmm", s)
	}
	ts, err := time.Parse(Layout, s)
	if err != nil {
		return Time{}, fmt.Errorf("time %q: %w", s, err)
	}
	return fromStdTime(ts), nil
}

// ParseLabel reads a ground-truth label such as "13:05:42.120". The fractional
// part may have any number of digits (including none) and is truncated to
// milliseconds.
func ParseLabel(s string) (Time, error) {
	ts, err := time.Parse("15:04:05", s)
	if err != nil {
		return Time{}, fmt.Errorf("label %q: %w", s, err)
	}
	return fromStdTime(ts), nil
}

func fromStdTime(ts time.Time) Time {
	return Time{
		Hours:        ts.Hour(),
		Minutes:      ts.Minute(),
		Seconds:      ts.Second(),
		Milliseconds: ts.Nanosecond() / int(time.Millisecond),
	}
}

// DialDistance returns the absolute difference between a and b read on a
// 12-hour dial: both are folded to 12 hours and the shorter way around the dial
// is taken, so the result is in [0, 6h].
func DialDistance(a, b Time) time.Duration {
	d := a.TwelveHour().Duration() - b.TwelveHour().Duration()
	if d < 0 {
		d = -d
	}
	if d > Dial/2 {
		d = Dial - d
	}
	return d
}

// FromAngles converts hand angles (degrees, 0 = 12 o'clock, clockwise) to a time.
//
//	hours        = floor(hour / 30) mod 12
//	minutes      = floor(minute / 6) mod 60
//	seconds      = floor(second / 6) mod 60
//	milliseconds = floor(second / 0.006) mod 1000
//
// Milliseconds come from the position of the second hand inside its 6 degree
// segment. Angles are snapped to whole micro-degrees and reduced to one turn
// before the integer division, so θ and θ±360 always give the same time.
func FromAngles(hourDeg, minuteDeg, secondDeg float64) Time {
	hour := imaging.MicroDegrees(hourDeg)
	minute := imaging.MicroDegrees(minuteDeg)
	second := imaging.MicroDegrees(secondDeg)

	return Time{
		Hours:        int(hour/30_000_000) % 12,
		Minutes:      int(minute/6_000_000) % 60,
		Seconds:      int(second/6_000_000) % 60,
		Milliseconds: int(second/6_000) % 1000,
	}
}
