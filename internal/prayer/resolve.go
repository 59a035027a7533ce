package prayer

import "time"

// NextEnabled returns the first enabled entry strictly after now,
// or nil when all of today's enabled events have passed.
func NextEnabled(s *Snapshot, now time.Time) *Entry {
	return next(s, now, true)
}

// NextAny is NextEnabled without the enabled filter. The countdown
// display tracks disabled prayers too.
func NextAny(s *Snapshot, now time.Time) *Entry {
	return next(s, now, false)
}

func next(s *Snapshot, now time.Time, enabledOnly bool) *Entry {
	if s == nil {
		return nil
	}
	for i := range s.Entries {
		e := &s.Entries[i]
		if enabledOnly && !e.Enabled {
			continue
		}
		if inLocation(e.Time, now).After(now) {
			return e
		}
	}
	return nil
}

// Countdown returns the time until e, clamped to zero. The clamp guards
// the race between resolving the next entry and reading the clock again.
func Countdown(e *Entry, now time.Time) time.Duration {
	d := inLocation(e.Time, now).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Breakdown splits a duration into whole hours, minutes, and seconds.
func Breakdown(d time.Duration) (hours, minutes, seconds int) {
	total := int(d.Seconds())
	return total / 3600, (total % 3600) / 60, total % 60
}

// inLocation re-reads t's wall clock in now's location so that entry
// times and the observer's clock are never compared across zones.
func inLocation(t, now time.Time) time.Time {
	loc := now.Location()
	if t.Location() == loc {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}
