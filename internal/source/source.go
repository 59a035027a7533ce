// Package source fetches raw prayer-time strings from one of the
// supported upstream providers. Adapters return the strings verbatim;
// normalization is the prayer package's job.
package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/minaret-labs/minaretd/internal/prayer"
)

// Upstreams are slow on occasion but a refresh can always wait.
const requestTimeout = 15 * time.Second

// Browser UA: the MOI portal rejects default Go user agents.
const userAgent = "Mozilla/5.0"

// HijriInfo is the lunar-calendar date reported by (or derived for) a fetch.
type HijriInfo struct {
	Month     int
	Day       int
	Year      int
	MonthName string
}

// Raw is the unnormalized result of a single fetch.
type Raw struct {
	Times map[prayer.Name]string
	// Hijri is nil when the lunar date could not be determined.
	// That is a degraded result, not a failure.
	Hijri *HijriInfo
}

// Adapter fetches one day's raw prayer times. Implementations hold no
// state between calls; every Fetch is an independent network operation.
type Adapter interface {
	Fetch(ctx context.Context) (*Raw, error)
	Name() string
}

// FetchError reports a failed upstream fetch: network error, bad status,
// or an empty/malformed payload.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch from %s failed: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}
