// Package prayer holds the canonical prayer schedule model: entry names,
// the per-day snapshot, normalization of raw upstream time strings, and
// the pure resolvers used by the read model.
package prayer

import (
	"fmt"
	"time"
)

// Name is a canonical prayer/event name.
type Name string

const (
	Suhoor  Name = "Suhoor"
	Fajr    Name = "Fajr"
	Sunrise Name = "Sunrise"
	Dhuhr   Name = "Dhuhr"
	Asr     Name = "Asr"
	Maghrib Name = "Maghrib"
	Isha    Name = "Isha"
)

// Order is the canonical sequence of the six upstream prayers.
// Suhoor is computed, never fetched, so it is not listed here.
var Order = []Name{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// NameMap normalizes lower-cased upstream header text to canonical names.
// The MOI portal spells some names differently ("fajer", "zuhr").
var NameMap = map[string]Name{
	"fajer":   Fajr,
	"fajr":    Fajr,
	"sunrise": Sunrise,
	"dhuhr":   Dhuhr,
	"zuhr":    Dhuhr,
	"asr":     Asr,
	"maghrib": Maghrib,
	"isha":    Isha,
}

// Entry is a single prayer event on the current day.
type Entry struct {
	Name    Name
	Time    time.Time
	Enabled bool
}

// TimeString returns the entry time as zero-padded 24h "HH:MM".
func (e Entry) TimeString() string {
	return fmt.Sprintf("%02d:%02d", e.Time.Hour(), e.Time.Minute())
}

// Snapshot is one fully-computed day's schedule plus calendar metadata.
// It is immutable after construction with the single exception of Played,
// which the coordinator mutates under its own lock.
type Snapshot struct {
	// Date is the local calendar date the entries belong to, "2006-01-02".
	Date string
	// Entries is ordered ascending by time.
	Entries []Entry
	// Played records which entries already triggered playback today.
	Played map[Name]struct{}

	HijriMonth     int
	HijriDay       int
	HijriYear      int
	HijriMonthName string
	// IsRamadan is true iff HijriMonth == 9.
	IsRamadan bool
}

// WasPlayed reports whether name already triggered playback today.
func (s *Snapshot) WasPlayed(name Name) bool {
	_, ok := s.Played[name]
	return ok
}

// Toggles maps each of the six prayers to its enabled flag.
type Toggles map[Name]bool

// DefaultToggles enables everything except Sunrise.
func DefaultToggles() Toggles {
	return Toggles{
		Fajr:    true,
		Sunrise: false,
		Dhuhr:   true,
		Asr:     true,
		Maghrib: true,
		Isha:    true,
	}
}

// SuhoorConfig controls injection of the computed pre-dawn entry.
type SuhoorConfig struct {
	Enabled       bool
	OffsetMinutes int
	RamadanOnly   bool
}
