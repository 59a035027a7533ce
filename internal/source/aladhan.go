package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/minaret-labs/minaretd/internal/prayer"
)

const aladhanBaseURL = "https://api.aladhan.com/v1"

// AladhanAdapter fetches prayer times and the Hijri date from the
// AlAdhan timingsByCity endpoint.
type AladhanAdapter struct {
	client *http.Client
	// BaseURL is overridable for tests.
	BaseURL string

	City    string
	Country string
	Method  int
}

func NewAladhanAdapter(city, country string, method int) *AladhanAdapter {
	return &AladhanAdapter{
		client:  newHTTPClient(),
		BaseURL: aladhanBaseURL,
		City:    city,
		Country: country,
		Method:  method,
	}
}

func (a *AladhanAdapter) Name() string { return "aladhan" }

// aladhanResponse mirrors the subset of the timings payload we consume.
type aladhanResponse struct {
	Code int    `json:"code"`
	Data struct {
		Timings map[string]string `json:"timings"`
		Date    struct {
			Hijri struct {
				Day   string `json:"day"`
				Year  string `json:"year"`
				Month struct {
					Number int    `json:"number"`
					En     string `json:"en"`
				} `json:"month"`
			} `json:"hijri"`
		} `json:"date"`
	} `json:"data"`
}

func (a *AladhanAdapter) Fetch(ctx context.Context) (*Raw, error) {
	params := url.Values{}
	params.Set("city", a.City)
	params.Set("country", a.Country)
	params.Set("method", strconv.Itoa(a.Method))
	reqURL := fmt.Sprintf("%s/timingsByCity?%s", a.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
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

	var payload aladhanResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &FetchError{Source: a.Name(), Err: fmt.Errorf("decoding response: %w", err)}
	}

	times := make(map[prayer.Name]string, len(prayer.Order))
	for _, name := range prayer.Order {
		t, ok := payload.Data.Timings[string(name)]
		if !ok {
			return nil, &FetchError{Source: a.Name(), Err: fmt.Errorf("timings missing %s", name)}
		}
		times[name] = t
	}

	return &Raw{Times: times, Hijri: parseHijri(payload)}, nil
}

// parseHijri extracts the embedded lunar date. A malformed hijri block
// degrades to nil rather than failing the fetch.
func parseHijri(payload aladhanResponse) *HijriInfo {
	h := payload.Data.Date.Hijri
	day, err := strconv.Atoi(h.Day)
	if err != nil || h.Month.Number < 1 || h.Month.Number > 12 {
		log.Debug().Msg("could not parse hijri date from aladhan response")
		return nil
	}
	year, err := strconv.Atoi(h.Year)
	if err != nil {
		year = 0
	}
	return &HijriInfo{
		Month:     h.Month.Number,
		Day:       day,
		Year:      year,
		MonthName: h.Month.En,
	}
}
