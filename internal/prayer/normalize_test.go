package prayer

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)

func sampleRaw() map[Name]string {
	return map[Name]string{
		Fajr:    "4:41",
		Sunrise: "6:01",
		Dhuhr:   "11:43",
		Asr:     "2:54",
		Maghrib: "5:25",
		Isha:    "6:55",
	}
}

func entryByName(t *testing.T, entries []Entry, name Name) Entry {
	t.Helper()
	for _, e := range entries {
		if e.Name == name {
			return e
		}
	}
	t.Fatalf("no %s entry in %v", name, entries)
	return Entry{}
}

func TestNormalize_TwelveHourDisambiguation(t *testing.T) {
	entries := Normalize(sampleRaw(), testNow, false, DefaultToggles(), SuhoorConfig{})

	tests := []struct {
		name     Name
		wantHour int
	}{
		{Fajr, 4},     // morning prayers never adjusted
		{Sunrise, 6},
		{Dhuhr, 11},
		{Asr, 14},     // 2:54 is implicitly PM
		{Maghrib, 17},
		{Isha, 18},
	}
	for _, tt := range tests {
		got := entryByName(t, entries, tt.name)
		if got.Time.Hour() != tt.wantHour {
			t.Errorf("%s hour = %d, want %d", tt.name, got.Time.Hour(), tt.wantHour)
		}
	}
}

func TestNormalize_AlreadyTwentyFourHour(t *testing.T) {
	raw := map[Name]string{Asr: "15:10", Isha: "19:45", Maghrib: "17:52"}
	entries := Normalize(raw, testNow, false, DefaultToggles(), SuhoorConfig{})

	if got := entryByName(t, entries, Asr).Time.Hour(); got != 15 {
		t.Errorf("Asr hour = %d, want 15", got)
	}
	if got := entryByName(t, entries, Isha).Time.Hour(); got != 19 {
		t.Errorf("Isha hour = %d, want 19", got)
	}
}

func TestNormalize_StripsSuffixes(t *testing.T) {
	raw := map[Name]string{
		Fajr:  "05:17 (EET)",
		Dhuhr: "12:02 +03",
	}
	entries := Normalize(raw, testNow, false, DefaultToggles(), SuhoorConfig{})

	fajr := entryByName(t, entries, Fajr)
	if fajr.Time.Hour() != 5 || fajr.Time.Minute() != 17 {
		t.Errorf("Fajr = %s, want 05:17", fajr.TimeString())
	}
	dhuhr := entryByName(t, entries, Dhuhr)
	if dhuhr.Time.Hour() != 12 || dhuhr.Time.Minute() != 2 {
		t.Errorf("Dhuhr = %s, want 12:02", dhuhr.TimeString())
	}
}

func TestNormalize_DropsBadEntries(t *testing.T) {
	raw := map[Name]string{
		Fajr:  "not a time",
		Dhuhr: "11:43",
		Asr:   "",
	}
	entries := Normalize(raw, testNow, false, DefaultToggles(), SuhoorConfig{})

	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1: %v", len(entries), entries)
	}
	if entries[0].Name != Dhuhr {
		t.Errorf("surviving entry = %s, want Dhuhr", entries[0].Name)
	}
}

func TestNormalize_SortedAscendingNoDuplicates(t *testing.T) {
	entries := Normalize(sampleRaw(), testNow, true, DefaultToggles(), SuhoorConfig{
		Enabled: true, OffsetMinutes: 60, RamadanOnly: true,
	})

	seen := make(map[Name]bool)
	for i, e := range entries {
		if seen[e.Name] {
			t.Errorf("duplicate entry %s", e.Name)
		}
		seen[e.Name] = true
		if i > 0 && entries[i-1].Time.After(e.Time) {
			t.Errorf("entries out of order: %s at %s before %s at %s",
				entries[i-1].Name, entries[i-1].TimeString(), e.Name, e.TimeString())
		}
	}
}

func TestNormalize_EnabledFlags(t *testing.T) {
	entries := Normalize(sampleRaw(), testNow, false, DefaultToggles(), SuhoorConfig{})

	if entryByName(t, entries, Sunrise).Enabled {
		t.Error("Sunrise should default to disabled")
	}
	for _, name := range []Name{Fajr, Dhuhr, Asr, Maghrib, Isha} {
		if !entryByName(t, entries, name).Enabled {
			t.Errorf("%s should default to enabled", name)
		}
	}
}

func TestNormalize_SuhoorInjection(t *testing.T) {
	suhoor := SuhoorConfig{Enabled: true, OffsetMinutes: 60, RamadanOnly: true}
	raw := map[Name]string{Fajr: "4:30", Dhuhr: "11:43"}

	t.Run("ramadan-only outside ramadan", func(t *testing.T) {
		entries := Normalize(raw, testNow, false, DefaultToggles(), suhoor)
		for _, e := range entries {
			if e.Name == Suhoor {
				t.Fatal("Suhoor injected outside ramadan with ramadan-only set")
			}
		}
	})

	t.Run("ramadan-only during ramadan", func(t *testing.T) {
		entries := Normalize(raw, testNow, true, DefaultToggles(), suhoor)
		s := entryByName(t, entries, Suhoor)
		if s.TimeString() != "03:30" {
			t.Errorf("Suhoor = %s, want 03:30", s.TimeString())
		}
		if !s.Enabled {
			t.Error("injected Suhoor must be enabled")
		}
		// Immediately before Fajr.
		if entries[0].Name != Suhoor || entries[1].Name != Fajr {
			t.Errorf("order = %v, want Suhoor then Fajr first", entries)
		}
	})

	t.Run("always when not ramadan-only", func(t *testing.T) {
		entries := Normalize(raw, testNow, false, DefaultToggles(),
			SuhoorConfig{Enabled: true, OffsetMinutes: 90, RamadanOnly: false})
		s := entryByName(t, entries, Suhoor)
		if s.TimeString() != "03:00" {
			t.Errorf("Suhoor = %s, want 03:00", s.TimeString())
		}
	})

	t.Run("omitted without fajr", func(t *testing.T) {
		entries := Normalize(map[Name]string{Dhuhr: "11:43"}, testNow, true, DefaultToggles(), suhoor)
		for _, e := range entries {
			if e.Name == Suhoor {
				t.Fatal("Suhoor injected despite missing Fajr")
			}
		}
	})
}

func TestNormalize_Idempotent(t *testing.T) {
	suhoor := SuhoorConfig{Enabled: true, OffsetMinutes: 60, RamadanOnly: false}
	a := Normalize(sampleRaw(), testNow, false, DefaultToggles(), suhoor)
	b := Normalize(sampleRaw(), testNow, false, DefaultToggles(), suhoor)

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("entry %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		raw     string
		wantH   int
		wantM   int
		wantErr bool
	}{
		{"15:02", 15, 2, false},
		{"4:41", 4, 41, false},
		{"00:00", 0, 0, false},
		{"15:02 (BST)", 15, 2, false},
		{"  05:17  (EET) ", 5, 17, false},
		{"bad", 0, 0, true},
		{"", 0, 0, true},
		{"ab:cd", 0, 0, true},
	}
	for _, tt := range tests {
		h, m, err := parseClock(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseClock(%q) expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseClock(%q) unexpected error: %v", tt.raw, err)
			continue
		}
		if h != tt.wantH || m != tt.wantM {
			t.Errorf("parseClock(%q) = %d:%d, want %d:%d", tt.raw, h, m, tt.wantH, tt.wantM)
		}
	}
}
