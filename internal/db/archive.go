package db

import (
	"github.com/jmoiron/sqlx"

	"github.com/minaret-labs/minaretd/internal/prayer"
)

// Archive records refreshed schedules for history queries.
type Archive interface {
	SaveDay(source string, snap *prayer.Snapshot) error
}

type pgArchive struct {
	db *sqlx.DB
}

var _ Archive = (*pgArchive)(nil)

func NewArchive() Archive {
	return &pgArchive{db: DB}
}

const upsertDay = `
INSERT INTO prayer_days (
	date, source,
	suhoor, fajr, sunrise, dhuhr, asr, maghrib, isha,
	hijri_month, hijri_day, hijri_year, hijri_month_name, is_ramadan
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
)
ON CONFLICT (date) DO UPDATE SET
	source = EXCLUDED.source,
	suhoor = EXCLUDED.suhoor,
	fajr = EXCLUDED.fajr,
	sunrise = EXCLUDED.sunrise,
	dhuhr = EXCLUDED.dhuhr,
	asr = EXCLUDED.asr,
	maghrib = EXCLUDED.maghrib,
	isha = EXCLUDED.isha,
	hijri_month = EXCLUDED.hijri_month,
	hijri_day = EXCLUDED.hijri_day,
	hijri_year = EXCLUDED.hijri_year,
	hijri_month_name = EXCLUDED.hijri_month_name,
	is_ramadan = EXCLUDED.is_ramadan,
	fetched_at = now()`

// SaveDay upserts one row per calendar date so same-day refreshes
// overwrite rather than accumulate.
func (a *pgArchive) SaveDay(source string, snap *prayer.Snapshot) error {
	times := make(map[prayer.Name]*string)
	for i := range snap.Entries {
		t := snap.Entries[i].TimeString()
		times[snap.Entries[i].Name] = &t
	}

	_, err := a.db.Exec(upsertDay,
		snap.Date, source,
		times[prayer.Suhoor], times[prayer.Fajr], times[prayer.Sunrise],
		times[prayer.Dhuhr], times[prayer.Asr], times[prayer.Maghrib], times[prayer.Isha],
		nullableInt(snap.HijriMonth), nullableInt(snap.HijriDay), nullableInt(snap.HijriYear),
		nullableString(snap.HijriMonthName), snap.IsRamadan,
	)
	return err
}

func nullableInt(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func nullableString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
