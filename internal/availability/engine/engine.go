package engine

import (
	"sort"
	"time"
)

// Interval is a half-open time range [Start, End). Two intervals that only
// touch at a boundary do not overlap: a booking ending at 10:30 does not
// collide with a slot starting at 10:30.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the two half-open intervals intersect.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Pad grows the interval by d on both sides.
func (iv Interval) Pad(d time.Duration) Interval {
	return Interval{Start: iv.Start.Add(-d), End: iv.End.Add(d)}
}

// Policy carries the shop's slot generation parameters.
type Policy struct {
	// Step is the cadence of candidate start times within a window.
	Step time.Duration
	// Buffer is cleanup time applied on both sides of every existing
	// booking when checking collisions. It does not apply to time off.
	Buffer time.Duration
	// LeadTime is the minimum notice before a slot can start.
	LeadTime time.Duration
}

// DaySnapshot holds everything the engine needs to compute one day's
// availability. All intervals must be absolute instants in the same
// location; the caller resolves recurring rules and fetches bookings.
type DaySnapshot struct {
	// Windows are the working-hours intervals for the day.
	Windows []Interval
	// Bookings are occupying bookings that intersect the day, including
	// any that spill in from neighbouring days once buffered.
	Bookings []Interval
	// TimeOff are blocked intervals. Leave empty to ignore time off.
	TimeOff []Interval
}

// AvailableStarts returns every start time within the snapshot's windows
// where an appointment of the given duration fits: the appointment must end
// inside its window, start no earlier than now plus the lead time, and
// clear every booking (buffered) and time-off block. Results are sorted
// ascending and deduplicated, so overlapping windows cannot yield a start
// twice.
func AvailableStarts(snap DaySnapshot, duration time.Duration, now time.Time, p Policy) []time.Time {
	if duration <= 0 || p.Step <= 0 {
		return nil
	}

	earliest := now.Add(p.LeadTime)

	busy := make([]Interval, 0, len(snap.Bookings)+len(snap.TimeOff))
	for _, b := range snap.Bookings {
		busy = append(busy, b.Pad(p.Buffer))
	}
	busy = append(busy, snap.TimeOff...)

	var starts []time.Time
	for _, w := range snap.Windows {
		for t := w.Start; !t.Add(duration).After(w.End); t = t.Add(p.Step) {
			if t.Before(earliest) {
				continue
			}
			if overlapsAny(Interval{Start: t, End: t.Add(duration)}, busy) {
				continue
			}
			starts = append(starts, t)
		}
	}

	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })
	return dedupe(starts)
}

func overlapsAny(candidate Interval, busy []Interval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

func dedupe(starts []time.Time) []time.Time {
	if len(starts) < 2 {
		return starts
	}
	out := starts[:1]
	for _, t := range starts[1:] {
		if !t.Equal(out[len(out)-1]) {
			out = append(out, t)
		}
	}
	return out
}
