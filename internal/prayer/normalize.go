package prayer

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// afternoon prayers that some upstreams report as bare 12h values.
var afternoon = map[Name]bool{Asr: true, Maghrib: true, Isha: true}

// Normalize converts raw name->time-string pairs into the day's ordered
// entry list. Unknown names and unparsable times are dropped, afternoon
// prayers reported in 12h form are shifted to 24h, and a Suhoor entry is
// injected ahead of Fajr when configuration and calendar permit.
//
// The result is deterministic given its arguments; now only seeds the
// date component (and location) of each entry.
func Normalize(raw map[Name]string, now time.Time, isRamadan bool, toggles Toggles, suhoor SuhoorConfig) []Entry {
	entries := make([]Entry, 0, len(raw))

	for _, name := range Order {
		timeStr, ok := raw[name]
		if !ok {
			continue
		}
		hour, minute, err := parseClock(timeStr)
		if err != nil {
			log.Warn().Str("prayer", string(name)).Str("raw", timeStr).Err(err).
				Msg("dropping unparsable prayer time")
			continue
		}

		// MOI reports Asr/Maghrib/Isha in 12h form: a bare 1-9 is PM.
		if afternoon[name] && hour < 10 {
			hour += 12
		}

		entries = append(entries, Entry{
			Name:    name,
			Time:    atClock(now, hour, minute),
			Enabled: toggles[name],
		})
	}

	if suhoor.Enabled && (!suhoor.RamadanOnly || isRamadan) {
		if fajr := findEntry(entries, Fajr); fajr != nil {
			suhoorEntry := Entry{
				Name:    Suhoor,
				Time:    fajr.Time.Add(-time.Duration(suhoor.OffsetMinutes) * time.Minute),
				Enabled: true,
			}
			entries = insertBefore(entries, Fajr, suhoorEntry)
		}
	}

	return entries
}

// parseClock extracts hour and minute from strings like "15:02",
// "15:02 (AST)" or "4:41 +03".
func parseClock(raw string) (hour, minute int, err error) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, ' '); i != -1 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '('); i != -1 {
		s = s[:i]
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0, 0, strconv.ErrSyntax
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return hour, minute, nil
}

// atClock places an HH:MM wall-clock value on now's date in now's location.
func atClock(now time.Time, hour, minute int) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
}

func findEntry(entries []Entry, name Name) *Entry {
	for i := range entries {
		if entries[i].Name == name {
			return &entries[i]
		}
	}
	return nil
}

func insertBefore(entries []Entry, anchor Name, entry Entry) []Entry {
	for i := range entries {
		if entries[i].Name == anchor {
			out := make([]Entry, 0, len(entries)+1)
			out = append(out, entries[:i]...)
			out = append(out, entry)
			out = append(out, entries[i:]...)
			return out
		}
	}
	return append(entries, entry)
}
