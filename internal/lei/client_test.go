package lei

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const gleifPayload = `{
  "data": [
    {
      "attributes": {
        "lei": "529900T8BM49AURSDO55",
        "entity": {
          "legalName": {"name": "Example Bank AG"},
          "legalAddress": {"country": "DE", "city": "Frankfurt"}
        },
        "registration": {"status": "ISSUED"}
      }
    }
  ]
}`

func newTestServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if got := r.URL.Query().Get("filter[entity.legalName]"); got == "" {
			t.Errorf("missing legal name filter, query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/vnd.api+json")
		w.Write([]byte(gleifPayload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientSearch(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits)

	c := NewClient(srv.URL, NewMemoryCache(), time.Hour, slog.Default())
	entities, err := c.Search(context.Background(), "Example Bank")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(entities) != 1 {
		t.Fatalf("entities = %d, want 1", len(entities))
	}

	e := entities[0]
	if e.LEI != "529900T8BM49AURSDO55" || e.Name != "Example Bank AG" ||
		e.Country != "DE" || e.City != "Frankfurt" || e.Status != "ISSUED" {
		t.Errorf("entity = %+v", e)
	}
}

func TestClientSearchCacheHit(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits)

	c := NewClient(srv.URL, NewMemoryCache(), time.Hour, slog.Default())
	ctx := context.Background()

	if _, err := c.Search(ctx, "Example Bank"); err != nil {
		t.Fatalf("first Search() error = %v", err)
	}
	// Same query modulo case and whitespace
	if _, err := c.Search(ctx, "  example bank "); err != nil {
		t.Fatalf("second Search() error = %v", err)
	}

	if hits.Load() != 1 {
		t.Errorf("upstream hits = %d, want 1", hits.Load())
	}
}

func TestClientSearchEmptyQuery(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits)

	c := NewClient(srv.URL, NewMemoryCache(), time.Hour, slog.Default())
	entities, err := c.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(entities) != 0 || hits.Load() != 0 {
		t.Error("blank query should short-circuit without an upstream call")
	}
}

func TestClientSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, NewMemoryCache(), time.Hour, slog.Default())
	if _, err := c.Search(context.Background(), "Example"); err == nil {
		t.Fatal("expected error from upstream failure")
	}
}
