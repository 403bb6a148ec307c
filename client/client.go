// Package client is the data service the UI talks to. Every operation
// is shaped like a remote call: it attempts one real HTTP request
// against the configured base URL and, on any transport error or
// non-2xx response, silently computes the same result from the local
// in-memory store instead. Callers cannot tell the two paths apart;
// the local path injects a fixed artificial delay per operation to
// stand in for network latency.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"instaclone/domain"
	"instaclone/store"
)

// Artificial delays injected by the local fallback path, by operation
// class, mirroring the latency of the emulated API.
const (
	writeDelay = 500 * time.Millisecond
	readDelay  = 300 * time.Millisecond
	likeDelay  = 200 * time.Millisecond
)

// Sessions is the session state the client reads (viewer identity and
// bearer token) and writes through (profile refresh after an update).
type Sessions interface {
	Current() *domain.Profile
	Token() string
	Refresh(profile domain.Profile)
}

// Client is the data service facade.
type Client struct {
	base     string
	http     *http.Client
	log      logrus.FieldLogger
	local    *store.Store
	sessions Sessions
	latency  bool
}

// An Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for the network path.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger overrides the logger the fallback switch is reported on.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithoutLatency disables the artificial fallback delays. Tests use
// this to keep the local path instant.
func WithoutLatency() Option {
	return func(c *Client) {
		c.latency = false
	}
}

// New returns a Client targeting baseURL, backed by the given local
// store and session state.
func New(baseURL string, local *store.Store, sessions Sessions, opts ...Option) *Client {
	c := &Client{
		base:     strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 10 * time.Second},
		log:      logrus.StandardLogger(),
		local:    local,
		sessions: sessions,
		latency:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call attempts the real endpoint once and, on any failure, switches
// to the fallback after the given artificial delay. Network failures
// are logged, never surfaced; fallback failures propagate.
func (c *Client) call(ctx context.Context, method, path string, body, out interface{}, delay time.Duration, fallback func(context.Context) error) error {
	err := c.do(ctx, method, path, body, out)
	if err == nil {
		return nil
	}
	c.log.WithError(err).WithField("path", path).Warn("api call failed, using local data")
	c.pause(delay)
	return fallback(ctx)
}

// do issues a single JSON request and decodes a 2xx response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.sessions.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("http error %d", resp.StatusCode)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) pause(d time.Duration) {
	if c.latency {
		time.Sleep(d)
	}
}

// viewerID returns the id of the signed-in user, or the empty string.
func (c *Client) viewerID() string {
	if user := c.sessions.Current(); user != nil {
		return user.ID
	}
	return ""
}
