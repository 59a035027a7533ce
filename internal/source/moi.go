package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/minaret-labs/minaretd/internal/hijri"
	"github.com/minaret-labs/minaretd/internal/prayer"
)

const moiURL = "https://portal.moi.gov.qa/MoiPortalRestServices/rest/prayertimings/today/en"

var (
	thPattern  = regexp.MustCompile(`(?s)<th[^>]*>(.*?)</th>`)
	tdPattern  = regexp.MustCompile(`(?s)<td[^>]*>(.*?)</td>`)
	tagPattern = regexp.MustCompile(`<[^>]+>`)
)

// MOIAdapter scrapes today's prayer times from the Qatar MOI portal.
// The portal serves an HTML table; headers and cells are paired
// positionally. The Hijri date comes from the local tabular converter,
// not from the portal.
type MOIAdapter struct {
	client *http.Client
	// URL is overridable for tests.
	URL string
	// now is injected in tests to pin the hijri conversion date.
	now func() time.Time
}

func NewMOIAdapter() *MOIAdapter {
	return &MOIAdapter{
		client: newHTTPClient(),
		URL:    moiURL,
		now:    time.Now,
	}
}

func (a *MOIAdapter) Name() string { return "qatar_moi" }

func (a *MOIAdapter) Fetch(ctx context.Context) (*Raw, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL, nil)
	if err != nil {
		return nil, &FetchError{Source: a.Name(), Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: a.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Source: a.Name(), Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Source: a.Name(), Err: err}
	}

	times := extractTimes(string(body))
	if len(times) == 0 {
		return nil, &FetchError{Source: a.Name(), Err: fmt.Errorf("no prayer times in response")}
	}

	return &Raw{Times: times, Hijri: localHijri(a.now())}, nil
}

// extractTimes pairs the table's header cells with its data cells and
// maps recognized headers through the canonical name table.
func extractTimes(html string) map[prayer.Name]string {
	var headers []string
	for _, m := range thPattern.FindAllStringSubmatch(html, -1) {
		text := strings.TrimSpace(tagPattern.ReplaceAllString(m[1], ""))
		if text != "" {
			headers = append(headers, text)
		}
	}
	var cells []string
	for _, m := range tdPattern.FindAllStringSubmatch(html, -1) {
		cells = append(cells, strings.TrimSpace(tagPattern.ReplaceAllString(m[1], "")))
	}

	times := make(map[prayer.Name]string)
	for i, header := range headers {
		if i >= len(cells) {
			break
		}
		name, ok := prayer.NameMap[strings.ToLower(header)]
		if !ok {
			continue
		}
		times[name] = cells[i]
	}
	return times
}

// localHijri derives hijri info from the tabular converter. Conversion
// never blocks the fetch; an out-of-range result just drops the info.
func localHijri(now time.Time) *HijriInfo {
	d := hijri.FromGregorian(now)
	if d.MonthName() == "" {
		log.Debug().Int("month", d.Month).Msg("hijri conversion out of range")
		return nil
	}
	return &HijriInfo{Month: d.Month, Day: d.Day, Year: d.Year, MonthName: d.MonthName()}
}
