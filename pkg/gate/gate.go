// Package gate is the embeddable lock check for Go-hosted client sites.
// It asks the dashboard's status endpoint whether the site's license key
// is locked, exactly once per Gate, and fails open on every uncertainty:
// missing configuration, transport failure or a malformed payload all
// report unlocked. Availability of the host site always wins over strict
// enforcement.
package gate

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

const (
	DefaultMessage  = "ACCESS RESTRICTED"
	DefaultSubtitle = "Please contact the site administrator."
)

type Config struct {
	// APIKey is the license key value issued by the dashboard.
	APIKey string
	// DashboardURL is the base URL of the dashboard, e.g.
	// "https://lock.example.com".
	DashboardURL string
	// Message and Subtitle customize the overlay text.
	Message  string
	Subtitle string
	// HTTPClient overrides http.DefaultClient when set.
	HTTPClient *http.Client
}

type Gate struct {
	cfg    Config
	client *http.Client

	once   sync.Once
	locked bool
}

func New(cfg Config) *Gate {
	if cfg.Message == "" {
		cfg.Message = DefaultMessage
	}
	if cfg.Subtitle == "" {
		cfg.Subtitle = DefaultSubtitle
	}

	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &Gate{cfg: cfg, client: client}
}

// Check reports whether the site is locked. The status endpoint is asked
// at most once per Gate; later calls return the cached answer, matching
// the once-per-page-load contract of the browser gate.
func (g *Gate) Check(ctx context.Context) bool {
	g.once.Do(func() {
		g.locked = g.check(ctx)
	})
	return g.locked
}

func (g *Gate) check(ctx context.Context) bool {
	if g.cfg.APIKey == "" || g.cfg.DashboardURL == "" {
		log.Println("[gate] missing APIKey or DashboardURL")
		return false
	}

	checkURL := strings.TrimSuffix(g.cfg.DashboardURL, "/") +
		"/api/check-status?key=" + url.QueryEscape(g.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, checkURL, nil)
	if err != nil {
		return false
	}

	resp, err := g.client.Do(req)
	if err != nil {
		log.Printf("[gate] status check failed: %v", err)
		return false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false
	}

	// Locked only on a payload whose locked field is the JSON boolean
	// true; every other shape is treated as unlocked.
	var payload struct {
		Locked interface{} `json:"locked"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return false
	}
	locked, ok := payload.Locked.(bool)
	return ok && locked
}
