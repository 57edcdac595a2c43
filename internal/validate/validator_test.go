package validate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/veriverse/veriverse/internal/model"
)

func testConfig() model.ValidationConfig {
	return model.ValidationConfig{
		Timeout:           2 * time.Second,
		UserAgent:         "VeriVerse/0.1",
		RequestsPerSecond: 100,
		Burst:             100,
	}
}

func TestValidateSources_Accessible(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	v := NewValidator(testConfig())
	statuses := v.ValidateSources(context.Background(), []string{server.URL + "/article"})
	if len(statuses) != 1 {
		t.Fatalf("statuses = %d, want 1", len(statuses))
	}

	got := statuses[0]
	if !got.Accessible || got.StatusCode != http.StatusOK {
		t.Errorf("status = %+v, want accessible 200", got)
	}
	if !got.RobotsAllowed {
		t.Error("missing robots.txt should allow fetching")
	}
}

func TestValidateSources_DeadLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	v := NewValidator(testConfig())
	got := v.ValidateSources(context.Background(), []string{server.URL + "/gone"})[0]
	if got.Accessible {
		t.Error("404 link reported accessible")
	}
	if got.StatusCode != http.StatusNotFound {
		t.Errorf("status code = %d, want 404", got.StatusCode)
	}
}

func TestValidateSources_RobotsDisallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		t.Errorf("disallowed path was fetched: %s", r.URL.Path)
	}))
	defer server.Close()

	v := NewValidator(testConfig())
	got := v.ValidateSources(context.Background(), []string{server.URL + "/private/page"})[0]
	if got.RobotsAllowed {
		t.Error("robots.txt disallow was ignored")
	}
	if got.Accessible {
		t.Error("disallowed URL reported accessible")
	}
}

func TestValidateSources_HeadFallsBackToGet(t *testing.T) {
	var sawGet bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/robots.txt":
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodHead:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case r.Method == http.MethodGet:
			sawGet = true
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	v := NewValidator(testConfig())
	got := v.ValidateSources(context.Background(), []string{server.URL + "/article"})[0]
	if !sawGet {
		t.Error("expected GET fallback after 405 on HEAD")
	}
	if !got.Accessible {
		t.Errorf("status = %+v, want accessible after fallback", got)
	}
}

func TestValidateSources_PreservesInputOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	urls := []string{server.URL + "/a", server.URL + "/b", server.URL + "/c"}
	v := NewValidator(testConfig())
	statuses := v.ValidateSources(context.Background(), urls)
	if len(statuses) != len(urls) {
		t.Fatalf("statuses = %d, want %d", len(statuses), len(urls))
	}
	for i, s := range statuses {
		if s.URL != urls[i] {
			t.Errorf("statuses[%d].URL = %s, want %s", i, s.URL, urls[i])
		}
	}
}

func TestValidateSources_Empty(t *testing.T) {
	v := NewValidator(testConfig())
	if got := v.ValidateSources(context.Background(), nil); got != nil {
		t.Errorf("ValidateSources(nil) = %v, want nil", got)
	}
}
