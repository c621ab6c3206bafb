package podimo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThijsRay/podimo/internal/cache"
)

func newTestProber() *Prober {
	return NewProber(cache.NewTTL[string, HeadInfo](time.Hour))
}

func TestProbeReadsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		w.Header().Set("Content-Length", "12345")
		w.Header().Set("Content-Type", "application/octet-stream")
	}))
	defer srv.Close()

	p := newTestProber()
	info, err := p.Probe(context.Background(), "ep-1", srv.URL+"/audio.mp3")
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if info.ContentLength != 12345 {
		t.Fatalf("length = %d, want 12345", info.ContentLength)
	}
	// Extension wins over the response header.
	if info.ContentType != "audio/mpeg" {
		t.Fatalf("type = %q, want audio/mpeg", info.ContentType)
	}
}

func TestProbeFallsBackToHeaderType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/aac")
	}))
	defer srv.Close()

	p := newTestProber()
	info, err := p.Probe(context.Background(), "ep-1", srv.URL+"/stream")
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if info.ContentType != "audio/aac" {
		t.Fatalf("type = %q, want audio/aac", info.ContentType)
	}
}

func TestProbeMissingLengthDefaultsToZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	p := newTestProber()
	info, err := p.Probe(context.Background(), "ep-1", srv.URL+"/stream")
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if info.ContentLength != 0 {
		t.Fatalf("length = %d, want 0", info.ContentLength)
	}
	if info.ContentType != defaultContentType {
		t.Fatalf("type = %q, want %q", info.ContentType, defaultContentType)
	}
}

func TestProbeUsesCache(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Length", "10")
	}))
	defer srv.Close()

	p := newTestProber()
	url := srv.URL + "/audio.mp3"
	if _, err := p.Probe(context.Background(), "ep-1", url); err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if _, err := p.Probe(context.Background(), "ep-1", url); err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("HEAD requests = %d, want 1", n)
	}
}

func TestProbeAllDegradesFailuresToDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "42")
	}))
	defer srv.Close()

	p := newTestProber()
	targets := map[string]string{
		"good": srv.URL + "/a.mp3",
		"bad":  "http://127.0.0.1:1/b.mp3", // nothing listens here
	}

	out := p.ProbeAll(context.Background(), targets)
	if len(out) != 2 {
		t.Fatalf("results = %d, want 2", len(out))
	}
	if out["good"].ContentLength != 42 {
		t.Fatalf("good length = %d, want 42", out["good"].ContentLength)
	}
	if out["bad"].ContentLength != 0 || out["bad"].ContentType != "audio/mpeg" {
		t.Fatalf("bad result = %+v, want zero length and extension type", out["bad"])
	}
}

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		url    string
		header string
		want   string
	}{
		{"https://cdn.example.com/a.mp3", "text/html", "audio/mpeg"},
		{"https://cdn.example.com/a.mp3?sig=abc", "", "audio/mpeg"},
		{"https://cdn.example.com/stream", "audio/aac", "audio/aac"},
		{"https://cdn.example.com/stream", "", "audio/mpeg"},
	}
	for _, tt := range tests {
		if got := contentTypeFor(tt.url, tt.header); got != tt.want {
			t.Errorf("contentTypeFor(%q, %q) = %q, want %q", tt.url, tt.header, got, tt.want)
		}
	}
}
