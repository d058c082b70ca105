package board

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"jobradar/internal/core/extract"
)

type fakeDetector struct{}

func (fakeDetector) DetectPlatform(rawURL string) (extract.Platform, bool) {
	lowered := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lowered, "linkedin.com"):
		return extract.PlatformLinkedIn, true
	case strings.Contains(lowered, "greenhouse.io"):
		return extract.PlatformGreenhouse, true
	case strings.Contains(lowered, "lever.co"):
		return extract.PlatformLever, true
	}
	return "", false
}

func TestDiscoverPostings(t *testing.T) {
	const page = `<html><body>
		<a href="https://boards.greenhouse.io/acme/jobs/1">Backend</a>
		<a href="https://boards.greenhouse.io/acme/jobs/2">Frontend</a>
		<a href="https://boards.greenhouse.io/acme/jobs/1">Backend again</a>
		<a href="https://boards.greenhouse.io/acme">Board root</a>
		<a href="https://example.com/about">About</a>
		<a href="https://jobs.lever.co/acme/aa11">Data</a>
	</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	svc := NewService(fakeDetector{})
	res, err := svc.DiscoverPostings(Request{URL: srv.URL})
	if err != nil {
		t.Fatalf("DiscoverPostings: %v", err)
	}
	want := []string{
		"https://boards.greenhouse.io/acme/jobs/1",
		"https://boards.greenhouse.io/acme/jobs/2",
		"https://jobs.lever.co/acme/aa11",
	}
	if !reflect.DeepEqual(res.Links, want) {
		t.Errorf("links = %v, want %v (deduplicated, discovery order)", res.Links, want)
	}
}

func TestDiscoverPostingsLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 10; i++ {
		b.WriteString(`<a href="https://boards.greenhouse.io/acme/jobs/` + string(rune('0'+i)) + `">x</a>`)
	}
	b.WriteString("</body></html>")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(b.String()))
	}))
	defer srv.Close()

	svc := NewService(fakeDetector{})
	res, err := svc.DiscoverPostings(Request{URL: srv.URL, Limit: 3})
	if err != nil {
		t.Fatalf("DiscoverPostings: %v", err)
	}
	if len(res.Links) != 3 {
		t.Errorf("len(links) = %d, want limit 3", len(res.Links))
	}
}

func TestDiscoverPostingsBoardUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	svc := NewService(fakeDetector{})
	res, err := svc.DiscoverPostings(Request{URL: srv.URL})
	if err != nil {
		t.Fatalf("DiscoverPostings: %v", err)
	}
	if len(res.Links) != 0 {
		t.Errorf("links = %v, want none from a 404 board", res.Links)
	}
}

func TestDiscoverPostingsRequiresURL(t *testing.T) {
	svc := NewService(fakeDetector{})
	if _, err := svc.DiscoverPostings(Request{}); err == nil {
		t.Error("expected error for empty board url")
	}
}

func TestLooksLikePosting(t *testing.T) {
	tests := []struct {
		name     string
		link     string
		platform extract.Platform
		want     bool
	}{
		{"linkedin posting", "https://www.linkedin.com/jobs/view/3815", extract.PlatformLinkedIn, true},
		{"linkedin search page", "https://www.linkedin.com/jobs/search?keywords=go", extract.PlatformLinkedIn, false},
		{"greenhouse posting", "https://boards.greenhouse.io/acme/jobs/123", extract.PlatformGreenhouse, true},
		{"greenhouse board root", "https://boards.greenhouse.io/acme", extract.PlatformGreenhouse, false},
		{"lever posting", "https://jobs.lever.co/acme/1f2e3d4c", extract.PlatformLever, true},
		{"lever company root", "https://jobs.lever.co/acme", extract.PlatformLever, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := looksLikePosting(tt.link, tt.platform); got != tt.want {
				t.Errorf("looksLikePosting(%q, %s) = %v, want %v", tt.link, tt.platform, got, tt.want)
			}
		})
	}
}
