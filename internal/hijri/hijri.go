// Package hijri converts Gregorian dates to the tabular (arithmetic)
// Islamic calendar. The tabular calendar can drift a day from the
// observed one, which is acceptable for the Ramadan check it feeds.
package hijri

import "time"

// Ramadan is the month number of the fasting month.
const Ramadan = 9

// Date is a date in the Islamic calendar.
type Date struct {
	Year  int
	Month int // 1..12
	Day   int // 1..30
}

var monthNames = [12]string{
	"Muharram", "Safar", "Rabi' al-Awwal", "Rabi' al-Thani",
	"Jumada al-Awwal", "Jumada al-Thani", "Rajab", "Sha'ban",
	"Ramadan", "Shawwal", "Dhu al-Qi'dah", "Dhu al-Hijjah",
}

// MonthName returns the English month name, or "" for an invalid month.
func (d Date) MonthName() string {
	if d.Month < 1 || d.Month > 12 {
		return ""
	}
	return monthNames[d.Month-1]
}

// IsRamadan reports whether the date falls in the month of Ramadan.
func (d Date) IsRamadan() bool {
	return d.Month == Ramadan
}

// FromGregorian converts t's calendar date using the Kuwaiti tabular
// algorithm over Julian day numbers.
func FromGregorian(t time.Time) Date {
	jd := julianDay(t.Year(), int(t.Month()), t.Day())

	l := jd - 1948440 + 10632
	n := (l - 1) / 10631
	l = l - 10631*n + 354
	j := ((10985-l)/5316)*((50*l)/17719) + (l/5670)*((43*l)/15238)
	l = l - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29

	month := (24 * l) / 709
	day := l - (month*709)/24
	year := 30*n + j - 30

	return Date{Year: year, Month: month, Day: day}
}

// julianDay computes the Julian day number for a Gregorian calendar date.
func julianDay(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}
