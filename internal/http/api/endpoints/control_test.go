package endpoints

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/minaret-labs/minaretd/internal/coordinator"
	"github.com/minaret-labs/minaretd/internal/http/api"
	"github.com/minaret-labs/minaretd/internal/prayer"
)

func setupControlRouter(coord *coordinator.Coordinator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/control"}, ControlModule(coord))
	return r
}

func doPOST(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestControlPlay(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	coord := runCoordinator(t, &fakeAdapter{raw: testRaw()}, dispatcher)
	r := setupControlRouter(coord)

	w := doPOST(t, r, "/api/control/play", gin.H{"prayer": "Maghrib"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if len(dispatcher.played) != 1 || dispatcher.played[0] != "Maghrib" {
		t.Errorf("dispatched = %v, want [Maghrib]", dispatcher.played)
	}

	// The Test sentinel is accepted.
	if w := doPOST(t, r, "/api/control/play", gin.H{"prayer": "Test"}); w.Code != http.StatusOK {
		t.Errorf("Test sentinel rejected: %d", w.Code)
	}

	// Unknown names are rejected before dispatch.
	if w := doPOST(t, r, "/api/control/play", gin.H{"prayer": "Brunch"}); w.Code != http.StatusBadRequest {
		t.Errorf("unknown prayer status = %d, want 400", w.Code)
	}
	if w := doPOST(t, r, "/api/control/play", gin.H{}); w.Code != http.StatusBadRequest {
		t.Errorf("missing prayer status = %d, want 400", w.Code)
	}
}

func TestControlRefresh(t *testing.T) {
	coord := runCoordinator(t, &fakeAdapter{raw: testRaw()}, &fakeDispatcher{})
	r := setupControlRouter(coord)

	w := doPOST(t, r, "/api/control/refresh", gin.H{})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
}

func TestControlPlayed(t *testing.T) {
	coord := runCoordinator(t, &fakeAdapter{raw: testRaw()}, &fakeDispatcher{})
	r := setupControlRouter(coord)

	w := doPOST(t, r, "/api/control/played", gin.H{"prayer": "Fajr"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if !coord.Snapshot().WasPlayed(prayer.Fajr) {
		t.Error("played report not recorded in snapshot")
	}

	// Test plays are never recorded.
	doPOST(t, r, "/api/control/played", gin.H{"prayer": "Test"})
	if coord.Snapshot().WasPlayed(prayer.Name("Test")) {
		t.Error("Test sentinel must not enter the played set")
	}
}
