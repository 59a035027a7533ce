package packets

// PrayerResponse is one schedule entry as exposed to observers.
type PrayerResponse struct {
	Name     string `json:"name"`
	Time     string `json:"time"` // 24h "HH:MM"
	Datetime string `json:"datetime"`
	Enabled  bool   `json:"enabled"`
	Played   bool   `json:"played"`
}

// ScheduleResponse is the full current-day read model.
type ScheduleResponse struct {
	Date    string           `json:"date"`
	Source  string           `json:"source"`
	Ramadan bool             `json:"ramadan"`
	Entries []PrayerResponse `json:"entries"`
}

// CountdownResponse breaks the time to an entry into components.
type CountdownResponse struct {
	Hours        int `json:"hours"`
	Minutes      int `json:"minutes"`
	Seconds      int `json:"seconds"`
	TotalSeconds int `json:"total_seconds"`
}

// UpcomingPrayer pairs an entry with its countdown.
type UpcomingPrayer struct {
	Name      string            `json:"name"`
	Time      string            `json:"time"`
	Datetime  string            `json:"datetime"`
	Countdown CountdownResponse `json:"countdown"`
}

// NextResponse answers "what happens next". Next honors the per-prayer
// enabled toggles; NextAny ignores them for countdown display.
type NextResponse struct {
	Next    *UpcomingPrayer `json:"next"`
	NextAny *UpcomingPrayer `json:"next_any"`
}

// HijriResponse is the lunar-calendar read model.
type HijriResponse struct {
	Day       int    `json:"day"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Year      int    `json:"year,omitempty"`
	Ramadan   bool   `json:"ramadan"`
}

// StatusResponse reports the playback subsystem state.
type StatusResponse struct {
	Status           string `json:"status"`
	CurrentlyPlaying string `json:"currently_playing,omitempty"`
}

// MethodResponse is one calculation-method catalog entry.
type MethodResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
