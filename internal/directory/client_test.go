package directory

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestClient(baseURL string) *Client {
	return NewClient(ClientConfig{
		Kind:    "user",
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	})
}

func TestLookup_Found(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/"+id.String() {
			t.Errorf("path = %q, want /%s", r.URL.Path, id)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":%q,"name":"Dra. María García López","specialty_name":"Medicina General"}`, id)
	}))
	defer srv.Close()

	lookup := newTestClient(srv.URL).Lookup(context.Background(), id)

	if lookup.Status != StatusFound {
		t.Fatalf("status = %q, want %q (cause: %v)", lookup.Status, StatusFound, lookup.Cause)
	}
	if lookup.Record == nil || lookup.Record.Name != "Dra. María García López" {
		t.Errorf("record = %+v", lookup.Record)
	}
	if lookup.Record.SpecialtyName != "Medicina General" {
		t.Errorf("specialty_name = %q", lookup.Record.SpecialtyName)
	}
}

func TestLookup_NotFound(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	lookup := newTestClient(srv.URL).Lookup(context.Background(), uuid.New())

	if lookup.Status != StatusNotFound {
		t.Fatalf("status = %q, want %q", lookup.Status, StatusNotFound)
	}
	if lookup.Cause != nil {
		t.Errorf("cause = %v, want nil", lookup.Cause)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("request count = %d, want 1 (404 must not be retried)", n)
	}
}

func TestLookup_ServerErrorIsUnavailableWithOneRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	lookup := newTestClient(srv.URL).Lookup(context.Background(), uuid.New())

	if lookup.Status != StatusUnavailable {
		t.Fatalf("status = %q, want %q", lookup.Status, StatusUnavailable)
	}
	if lookup.Cause == nil {
		t.Error("unavailable lookup must carry a cause")
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("request count = %d, want 2 (one retry)", n)
	}
}

func TestLookup_ConnectionRefusedIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	lookup := newTestClient(srv.URL).Lookup(context.Background(), uuid.New())

	if lookup.Status != StatusUnavailable {
		t.Fatalf("status = %q, want %q", lookup.Status, StatusUnavailable)
	}
	if lookup.Cause == nil {
		t.Error("unavailable lookup must carry a cause")
	}
}

func TestLookup_MalformedBodyIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>definitely not json</html>")
	}))
	defer srv.Close()

	lookup := newTestClient(srv.URL).Lookup(context.Background(), uuid.New())

	if lookup.Status != StatusUnavailable {
		t.Fatalf("status = %q, want %q", lookup.Status, StatusUnavailable)
	}
}

func TestLookup_RetrySucceedsAfterTransientFailure(t *testing.T) {
	id := uuid.New()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprintf(w, `{"id":%q,"name":"Lucía Torres"}`, id)
	}))
	defer srv.Close()

	lookup := newTestClient(srv.URL).Lookup(context.Background(), id)

	if lookup.Status != StatusFound {
		t.Fatalf("status = %q, want %q after retry", lookup.Status, StatusFound)
	}
	if lookup.Record.Name != "Lucía Torres" {
		t.Errorf("record = %+v", lookup.Record)
	}
}
