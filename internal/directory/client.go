package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	redisclient "github.com/saludya/telemed-backend/internal/redis"
)

// Record is the subset of a peer-owned entity that the booking flow needs:
// enough to prove existence and to denormalize display fields.
type Record struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	SpecialtyName string    `json:"specialty_name"`
}

type Status string

const (
	StatusFound       Status = "found"
	StatusNotFound    Status = "not_found"
	StatusUnavailable Status = "unavailable"
)

// Lookup is the outcome of a single remote existence check. A peer that
// answers 404 and a peer that cannot be reached are different situations
// and callers get to treat them differently: the first is a bad reference,
// the second is a degraded platform.
type Lookup struct {
	Status Status
	Record *Record
	Cause  error // set when Status is StatusUnavailable
}

func (l Lookup) Found() bool { return l.Status == StatusFound }

// Directory asks a peer service whether an entity exists and fetches its
// record in the same round trip.
type Directory interface {
	Lookup(ctx context.Context, id uuid.UUID) Lookup
}

type ClientConfig struct {
	Kind    string // entity kind, e.g. "user" or "doctor"; used for cache keys and logs
	BaseURL string // peer endpoint; the entity id is appended as the last path segment
	Timeout time.Duration
	Cache   redisclient.LookupCache // optional
}

type Client struct {
	kind       string
	baseURL    string
	httpClient *http.Client
	cache      redisclient.LookupCache
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		kind:       cfg.Kind,
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
		cache:      cfg.Cache,
	}
}

// Lookup resolves id against the peer service. 404 means the entity does
// not exist. Transport failures, non-2xx answers and undecodable bodies
// all mean the peer cannot answer right now; an unavailable outcome is
// retried once before giving up, since the lookup is a read.
func (c *Client) Lookup(ctx context.Context, id uuid.UUID) Lookup {
	if c.cache != nil {
		var rec Record
		if err := c.cache.Get(ctx, c.kind, id.String(), &rec); err == nil {
			return Lookup{Status: StatusFound, Record: &rec}
		}
	}

	lookup := c.fetch(ctx, id)
	if lookup.Status == StatusUnavailable {
		logrus.WithFields(logrus.Fields{
			"kind": c.kind,
			"id":   id.String(),
		}).Warnf("directory lookup failed, retrying once: %v", lookup.Cause)
		lookup = c.fetch(ctx, id)
	}

	if lookup.Status == StatusFound && c.cache != nil {
		if err := c.cache.Set(ctx, c.kind, id.String(), lookup.Record); err != nil {
			logrus.WithField("kind", c.kind).Warnf("directory cache write failed: %v", err)
		}
	}

	return lookup
}

func (c *Client) fetch(ctx context.Context, id uuid.UUID) Lookup {
	url := fmt.Sprintf("%s/%s", c.baseURL, id.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Lookup{Status: StatusUnavailable, Cause: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Lookup{Status: StatusUnavailable, Cause: fmt.Errorf("%s directory: %w", c.kind, err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Lookup{Status: StatusNotFound}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return Lookup{
			Status: StatusUnavailable,
			Cause:  fmt.Errorf("%s directory: unexpected status %d", c.kind, resp.StatusCode),
		}
	}

	var rec Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return Lookup{
			Status: StatusUnavailable,
			Cause:  fmt.Errorf("%s directory: decode response: %w", c.kind, err),
		}
	}

	return Lookup{Status: StatusFound, Record: &rec}
}
