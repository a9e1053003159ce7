// Package netx provides a cheap connectivity probe.
//
// The probe is advisory only: it drives UI hints ("you are offline") and the
// order in which the services attempt network vs local paths, but the outcome
// of the real API call always wins. The flag can be wrong in both directions,
// so callers must never skip the network attempt solely because the probe
// reported offline.
package netx

import (
	"context"
	"net/http"
	"time"
)

// DefaultProbeTimeout bounds a single reachability check.
const DefaultProbeTimeout = 3 * time.Second

// Prober reports whether a remote endpoint currently looks reachable.
type Prober interface {
	Online(ctx context.Context) bool
}

// HTTPProber checks reachability with a HEAD request against a base URL.
type HTTPProber struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProber returns a prober for the given base URL. If client is nil,
// a client with DefaultProbeTimeout is used.
func NewHTTPProber(baseURL string, client *http.Client) *HTTPProber {
	if client == nil {
		client = &http.Client{Timeout: DefaultProbeTimeout}
	}
	return &HTTPProber{baseURL: baseURL, client: client}
}

// Online performs a single HEAD request. Any response, regardless of status
// code, means the host is reachable; only transport errors count as offline.
func (p *HTTPProber) Online(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.baseURL, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return true
}
