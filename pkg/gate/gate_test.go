package gate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func statusServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/check-status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckLocked(t *testing.T) {
	srv := statusServer(t, `{"locked": true}`)

	g := New(Config{APIKey: "pk_live_x", DashboardURL: srv.URL})
	assert.True(t, g.Check(context.Background()))
}

func TestCheckUnlocked(t *testing.T) {
	srv := statusServer(t, `{"locked": false}`)

	g := New(Config{APIKey: "pk_live_x", DashboardURL: srv.URL})
	assert.False(t, g.Check(context.Background()))
}

func TestCheckFailsOpenOnNonBooleanPayload(t *testing.T) {
	// Anything but the JSON boolean true means unlocked.
	bodies := []string{
		`{"locked": "true"}`,
		`{"locked": 1}`,
		`{"locked": null}`,
		`{"status": "locked"}`,
		`{}`,
		`[]`,
		`not json at all`,
	}

	for _, body := range bodies {
		srv := statusServer(t, body)
		g := New(Config{APIKey: "pk_live_x", DashboardURL: srv.URL})
		assert.False(t, g.Check(context.Background()), "payload %q should fail open", body)
	}
}

func TestCheckFailsOpenOnNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	g := New(Config{APIKey: "pk_live_x", DashboardURL: srv.URL})
	assert.False(t, g.Check(context.Background()))
}

func TestCheckFailsOpenOnMissingConfig(t *testing.T) {
	assert.False(t, New(Config{DashboardURL: "https://lock.example.com"}).Check(context.Background()))
	assert.False(t, New(Config{APIKey: "pk_live_x"}).Check(context.Background()))
	assert.False(t, New(Config{}).Check(context.Background()))
}

func TestCheckErrorBodyStaysUnlocked(t *testing.T) {
	// Error responses carry locked:false; the gate must agree.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Invalid API key","locked":false}`))
	}))
	t.Cleanup(srv.Close)

	g := New(Config{APIKey: "pk_live_revoked", DashboardURL: srv.URL})
	assert.False(t, g.Check(context.Background()))
}

func TestCheckRunsOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"locked": true}`))
	}))
	t.Cleanup(srv.Close)

	g := New(Config{APIKey: "pk_live_x", DashboardURL: srv.URL})
	for i := 0; i < 5; i++ {
		assert.True(t, g.Check(context.Background()))
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestCheckSendsEscapedKey(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		w.Write([]byte(`{"locked": false}`))
	}))
	t.Cleanup(srv.Close)

	g := New(Config{APIKey: "pk_live_abc&def", DashboardURL: srv.URL + "/"})
	g.Check(context.Background())
	assert.Equal(t, "pk_live_abc&def", gotKey)
}

func TestOverlayHTML(t *testing.T) {
	g := New(Config{APIKey: "k", DashboardURL: "https://lock.example.com"})
	html := g.OverlayHTML()
	assert.Contains(t, html, DefaultMessage)
	assert.Contains(t, html, DefaultSubtitle)
	assert.Contains(t, html, "z-index:999999")

	custom := New(Config{
		APIKey:       "k",
		DashboardURL: "https://lock.example.com",
		Message:      "Invoice <overdue>",
		Subtitle:     "Call me.",
	})
	html = custom.OverlayHTML()
	assert.Contains(t, html, "Invoice &lt;overdue&gt;")
	assert.Contains(t, html, "Call me.")
}
