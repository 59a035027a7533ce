package endpoints

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minaret-labs/minaretd/internal/config"
	"github.com/minaret-labs/minaretd/internal/coordinator"
	"github.com/minaret-labs/minaretd/internal/http/api"
	"github.com/minaret-labs/minaretd/internal/http/api/packets"
	"github.com/minaret-labs/minaretd/internal/prayer"
)

type ScheduleController struct {
	coord  *coordinator.Coordinator
	source string
	now    func() time.Time
}

func NewScheduleController(coord *coordinator.Coordinator, source string) *ScheduleController {
	return &ScheduleController{coord: coord, source: source, now: time.Now}
}

// ScheduleModule exposes the read model: the day's entries, the next
// upcoming event with countdown, the hijri date, playback status, and
// the calculation-method catalog.
func ScheduleModule(coord *coordinator.Coordinator, source string) api.Module {
	ctl := NewScheduleController(coord, source)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/prayers", ctl.listPrayers)
		c.GET("/prayers/next", ctl.nextPrayer)
		c.GET("/hijri", ctl.hijriDate)
		c.GET("/status", ctl.playbackStatus)
		c.GET("/methods", ctl.listMethods)
	})
}

func (s *ScheduleController) snapshot() (*prayer.Snapshot, *api.APIError) {
	snap := s.coord.Snapshot()
	if snap == nil {
		return nil, &api.APIError{Code: http.StatusServiceUnavailable, Message: "schedule not yet available"}
	}
	return snap, nil
}

func (s *ScheduleController) listPrayers(ctx *gin.Context) (any, *api.APIError) {
	snap, apiErr := s.snapshot()
	if apiErr != nil {
		return nil, apiErr
	}

	entries := make([]packets.PrayerResponse, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		entries = append(entries, packets.PrayerResponse{
			Name:     string(e.Name),
			Time:     e.TimeString(),
			Datetime: e.Time.Format(time.RFC3339),
			Enabled:  e.Enabled,
			Played:   snap.WasPlayed(e.Name),
		})
	}
	return packets.ScheduleResponse{
		Date:    snap.Date,
		Source:  s.source,
		Ramadan: snap.IsRamadan,
		Entries: entries,
	}, nil
}

func (s *ScheduleController) nextPrayer(ctx *gin.Context) (any, *api.APIError) {
	snap, apiErr := s.snapshot()
	if apiErr != nil {
		return nil, apiErr
	}

	now := s.now()
	return packets.NextResponse{
		Next:    upcoming(prayer.NextEnabled(snap, now), now),
		NextAny: upcoming(prayer.NextAny(snap, now), now),
	}, nil
}

func upcoming(e *prayer.Entry, now time.Time) *packets.UpcomingPrayer {
	if e == nil {
		return nil
	}
	d := prayer.Countdown(e, now)
	hours, minutes, seconds := prayer.Breakdown(d)
	return &packets.UpcomingPrayer{
		Name:     string(e.Name),
		Time:     e.TimeString(),
		Datetime: e.Time.Format(time.RFC3339),
		Countdown: packets.CountdownResponse{
			Hours:        hours,
			Minutes:      minutes,
			Seconds:      seconds,
			TotalSeconds: int(d.Seconds()),
		},
	}
}

func (s *ScheduleController) hijriDate(ctx *gin.Context) (any, *api.APIError) {
	snap, apiErr := s.snapshot()
	if apiErr != nil {
		return nil, apiErr
	}
	if snap.HijriMonth == 0 {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "hijri date unavailable"}
	}
	return packets.HijriResponse{
		Day:       snap.HijriDay,
		Month:     snap.HijriMonth,
		MonthName: snap.HijriMonthName,
		Year:      snap.HijriYear,
		Ramadan:   snap.IsRamadan,
	}, nil
}

func (s *ScheduleController) playbackStatus(ctx *gin.Context) (any, *api.APIError) {
	flags := s.coord.Dispatcher().Flags()
	return packets.StatusResponse{
		Status:           string(prayer.ResolveStatus(flags.Downloading, flags.Playing)),
		CurrentlyPlaying: flags.CurrentlyPlaying,
	}, nil
}

func (s *ScheduleController) listMethods(ctx *gin.Context) (any, *api.APIError) {
	ids := make([]int, 0, len(config.Methods))
	for id := range config.Methods {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	methods := make([]packets.MethodResponse, 0, len(ids))
	for _, id := range ids {
		methods = append(methods, packets.MethodResponse{ID: id, Name: config.Methods[id]})
	}
	return methods, nil
}
