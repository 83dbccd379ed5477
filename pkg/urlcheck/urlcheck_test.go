package urlcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCheckWorking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(2*time.Second, 2)
	statuses := c.Check(context.Background(), []string{srv.URL})

	if statuses[srv.URL] != Working {
		t.Errorf("Expected Working, got %v", statuses[srv.URL])
	}
}

// Servers rejecting HEAD must still be confirmed via the GET fallback.
func TestCheckHeadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(2*time.Second, 2)
	if !c.AnyWorking(context.Background(), []string{srv.URL}) {
		t.Error("Expected Working via GET fallback")
	}
}

// Failures are Unknown, never errors: a dead endpoint must not fail the run.
func TestCheckUnreachableIsUnknown(t *testing.T) {
	c := New(500*time.Millisecond, 2)

	statuses := c.Check(context.Background(), []string{"http://127.0.0.1:1/nothing"})
	if statuses["http://127.0.0.1:1/nothing"] != Unknown {
		t.Errorf("Expected Unknown, got %v", statuses["http://127.0.0.1:1/nothing"])
	}
}

func TestCheckNon2xxIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(2*time.Second, 2)
	statuses := c.Check(context.Background(), []string{srv.URL})
	if statuses[srv.URL] != Unknown {
		t.Errorf("Expected Unknown for 404, got %v", statuses[srv.URL])
	}
}

func TestCheckEmpty(t *testing.T) {
	c := New(time.Second, 2)

	statuses := c.Check(context.Background(), nil)
	if len(statuses) != 0 {
		t.Errorf("Expected empty map, got %v", statuses)
	}
	if c.AnyWorking(context.Background(), nil) {
		t.Error("AnyWorking on empty input must be false")
	}
}
