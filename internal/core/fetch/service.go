package fetch

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"jobradar/internal/core/extract"
	"jobradar/internal/logger"
	"jobradar/internal/platform/browser"
	"jobradar/internal/utils/dom"
)

// Service turns a posting URL into a dom.Source. Server-rendered boards go
// through plain HTTP with header-strategy rotation; the deferred-render board
// gets a live browser page so readiness polling sees fresh markup each tick.
type Service struct {
	log     *logger.Logger
	hc      *http.Client
	browser *browser.Service
}

// NewService creates the fetch service. b may be nil; the deferred-render
// platform then falls back to a static HTTP snapshot (lower fidelity).
func NewService(b *browser.Service) *Service {
	return &Service{
		log:     logger.New("FetchService"),
		hc:      &http.Client{Timeout: 20 * time.Second},
		browser: b,
	}
}

// Open implements extract.SourceOpener.
func (s *Service) Open(ctx context.Context, url string, platform extract.Platform) (dom.Source, error) {
	if platform == extract.PlatformLinkedIn && s.browser != nil {
		return s.browser.Open(ctx, url)
	}
	return s.openStatic(ctx, url)
}

// openStatic fetches the page once, trying each header strategy in order.
func (s *Service) openStatic(ctx context.Context, url string) (dom.Source, error) {
	strategies := GetAllStrategies()
	var lastErr error

	for i, strategy := range strategies {
		s.log.LogDebugf("fetch attempt %d strategy=%s url=%s", i+1, strategy, url)

		doc, err := s.fetchOnce(ctx, url, strategy)
		if err == nil {
			s.log.LogDebugf("fetch succeeded strategy=%s url=%s", strategy, url)
			return &dom.StaticSource{Doc: doc}, nil
		}
		lastErr = err
		s.log.LogDebugf("fetch failed strategy=%s url=%s: %v", strategy, url, err)

		if i < len(strategies)-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(500+rand.Intn(500)) * time.Millisecond):
			}
		}
	}
	return nil, fmt.Errorf("all strategies exhausted: %w", lastErr)
}

func (s *Service) fetchOnce(ctx context.Context, url string, strategy HeaderStrategy) (dom.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	profile := GetHeaderProfile(strategy)
	req.Header.Set("User-Agent", profile.UserAgent)
	req.Header.Set("Accept", profile.Accept)
	req.Header.Set("Accept-Language", profile.AcceptLanguage)
	// Accept-Encoding is left to the transport: setting it by hand disables
	// net/http's transparent gzip handling.
	if profile.SecFetchDest != "" {
		req.Header.Set("Sec-Fetch-Dest", profile.SecFetchDest)
		req.Header.Set("Sec-Fetch-Mode", profile.SecFetchMode)
		req.Header.Set("Sec-Fetch-Site", profile.SecFetchSite)
		if profile.SecFetchUser != "" {
			req.Header.Set("Sec-Fetch-User", profile.SecFetchUser)
		}
	}
	if profile.SecChUa != "" {
		req.Header.Set("Sec-Ch-Ua", profile.SecChUa)
		req.Header.Set("Sec-Ch-Ua-Mobile", profile.SecChUaMobile)
		req.Header.Set("Sec-Ch-Ua-Platform", profile.SecChUaPlatform)
	}
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		io.Copy(io.Discard, res.Body)
		return nil, fmt.Errorf("status %d", res.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return dom.Parse(string(raw))
}
