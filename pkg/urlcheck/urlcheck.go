// Package urlcheck optionally probes dataset URLs for liveness.
//
// Probing is off by default because results vary over time and would add
// non-determinism to the metrics. When enabled, a URL is either confirmed
// Working (a 2xx response) or Unknown; request failures are never treated as
// proof of a broken link and never count against evidence quality.
package urlcheck

import (
	"context"
	"net/http"
	"regexp"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status is the liveness verdict for one URL.
type Status int

// Verdicts. There is deliberately no "broken": a failed probe is Unknown.
const (
	Unknown Status = iota
	Working
)

var schemeRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// Checker probes URLs with a per-request timeout and bounded concurrency.
type Checker struct {
	client *http.Client
	limit  int
}

// New creates a checker. limit caps concurrent probes.
func New(timeout time.Duration, limit int) (c *Checker) {
	if limit <= 0 {
		limit = 4
	}
	c = &Checker{
		client: &http.Client{Timeout: timeout},
		limit:  limit,
	}
	return c
}

// Check probes all URLs and returns a verdict per URL. It never returns an
// error: transient network failures are verdicts (Unknown), not failures of
// the evaluation run.
func (c *Checker) Check(ctx context.Context, urls []string) (statuses map[string]Status) {
	statuses = make(map[string]Status, len(urls))

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.limit)

	for _, u := range urls {
		u := u
		g.Go(func() error {
			st := c.probe(ctx, u)
			mu.Lock()
			statuses[u] = st
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors.
	_ = g.Wait()

	return statuses
}

// AnyWorking reports whether at least one of the URLs is confirmed working.
func (c *Checker) AnyWorking(ctx context.Context, urls []string) (ok bool) {
	for _, st := range c.Check(ctx, urls) {
		if st == Working {
			ok = true
			return ok
		}
	}
	return ok
}

// probe tries HEAD first, falling back to GET for servers that reject HEAD.
func (c *Checker) probe(ctx context.Context, rawURL string) (st Status) {
	if rawURL == "" {
		return Unknown
	}
	u := rawURL
	if !schemeRe.MatchString(u) {
		u = "https://" + u
	}

	if c.request(ctx, http.MethodHead, u) {
		st = Working
		return st
	}
	if c.request(ctx, http.MethodGet, u) {
		st = Working
		return st
	}

	return Unknown
}

func (c *Checker) request(ctx context.Context, method, u string) (ok bool) {
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return ok
	}
	req.Header.Set("User-Agent", "mentionbench/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return ok
	}
	defer resp.Body.Close()

	ok = resp.StatusCode >= 200 && resp.StatusCode < 300
	return ok
}
