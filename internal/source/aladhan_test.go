package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/minaret-labs/minaretd/internal/prayer"
)

const aladhanJSON = `{
  "code": 200,
  "status": "OK",
  "data": {
    "timings": {
      "Fajr": "04:41",
      "Sunrise": "06:01",
      "Dhuhr": "11:43",
      "Asr": "14:54",
      "Maghrib": "17:25",
      "Isha": "18:55",
      "Midnight": "23:43"
    },
    "date": {
      "hijri": {
        "day": "3",
        "year": "1447",
        "month": {"number": 9, "en": "Ramadan"}
      }
    }
  }
}`

func newTestAladhan(url string) *AladhanAdapter {
	a := NewAladhanAdapter("Doha", "Qatar", 10)
	a.BaseURL = url
	return a
}

func TestAladhanAdapter_Fetch(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"city":    r.URL.Query().Get("city"),
			"country": r.URL.Query().Get("country"),
			"method":  r.URL.Query().Get("method"),
		}
		w.Write([]byte(aladhanJSON))
	}))
	defer srv.Close()

	raw, err := newTestAladhan(srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery["city"] != "Doha" || gotQuery["country"] != "Qatar" || gotQuery["method"] != "10" {
		t.Errorf("query = %v, want city=Doha country=Qatar method=10", gotQuery)
	}

	if got := raw.Times[prayer.Maghrib]; got != "17:25" {
		t.Errorf("Maghrib = %q, want 17:25", got)
	}
	if len(raw.Times) != 6 {
		t.Errorf("got %d times, want the canonical six", len(raw.Times))
	}

	if raw.Hijri == nil {
		t.Fatal("expected hijri info from payload")
	}
	if raw.Hijri.Month != 9 || raw.Hijri.Day != 3 || raw.Hijri.Year != 1447 {
		t.Errorf("hijri = %+v, want 3 Ramadan 1447", raw.Hijri)
	}
	if raw.Hijri.MonthName != "Ramadan" {
		t.Errorf("hijri month name = %q, want Ramadan", raw.Hijri.MonthName)
	}
}

func TestAladhanAdapter_MissingTiming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"data":{"timings":{"Fajr":"04:41"}}}`))
	}))
	defer srv.Close()

	_, err := newTestAladhan(srv.URL).Fetch(context.Background())
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError for missing timings, got %v", err)
	}
}

func TestAladhanAdapter_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestAladhan(srv.URL).Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestAladhanAdapter_MalformedHijriDegrades(t *testing.T) {
	body := `{
	  "code": 200,
	  "data": {
	    "timings": {
	      "Fajr": "04:41", "Sunrise": "06:01", "Dhuhr": "11:43",
	      "Asr": "14:54", "Maghrib": "17:25", "Isha": "18:55"
	    },
	    "date": {"hijri": {"day": "third", "month": {"number": 9, "en": "Ramadan"}}}
	  }
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	raw, err := newTestAladhan(srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("hijri parse failure must not fail the fetch: %v", err)
	}
	if raw.Hijri != nil {
		t.Errorf("hijri = %+v, want nil for malformed payload", raw.Hijri)
	}
	if len(raw.Times) != 6 {
		t.Errorf("got %d times, want 6", len(raw.Times))
	}
}
