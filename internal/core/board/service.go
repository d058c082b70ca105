package board

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gocolly/colly"

	"jobradar/internal/core/extract"
	"jobradar/internal/logger"
)

// Detector recognizes supported posting platforms; the extract service
// implements it.
type Detector interface {
	DetectPlatform(rawURL string) (extract.Platform, bool)
}

// Service discovers individual posting URLs on a board or listing page.
type Service struct {
	log      *logger.Logger
	detector Detector
}

func NewService(detector Detector) *Service {
	return &Service{log: logger.New("BoardService"), detector: detector}
}

type Request struct {
	URL   string
	Limit int
}

type Result struct {
	Links []string `json:"links"`
}

// DiscoverPostings crawls the board page (depth 1) and returns every link the
// dispatcher would accept as a posting, deduplicated in discovery order.
func (s *Service) DiscoverPostings(req Request) (*Result, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("board url is required")
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}
	s.log.LogDebugf("board discovery start url=%s limit=%d", req.URL, limit)

	var mu sync.Mutex
	seen := make(map[string]struct{})
	var links []string

	c := colly.NewCollector(colly.MaxDepth(1), colly.Async(true))
	c.OnError(func(r *colly.Response, err error) {
		s.log.LogWarnf("board fetch error %s %d: %v", r.Request.URL, r.StatusCode, err)
	})
	c.OnRequest(func(r *colly.Request) {
		mu.Lock()
		reached := len(links) >= limit
		mu.Unlock()
		if reached {
			r.Abort()
		}
	})
	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		link := e.Request.AbsoluteURL(e.Attr("href"))
		if link == "" {
			return
		}
		platform, ok := s.detector.DetectPlatform(link)
		if !ok || !looksLikePosting(link, platform) {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if _, dup := seen[link]; dup || len(links) >= limit {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	})

	if err := c.Visit(req.URL); err != nil {
		return nil, fmt.Errorf("visit board: %w", err)
	}
	c.Wait()

	s.log.LogInfof("board discovery done url=%s found=%d", req.URL, len(links))
	return &Result{Links: links}, nil
}

// looksLikePosting filters board-internal navigation from real posting pages.
func looksLikePosting(link string, platform extract.Platform) bool {
	lowered := strings.ToLower(link)
	switch platform {
	case extract.PlatformLinkedIn:
		return strings.Contains(lowered, "/jobs/view/")
	case extract.PlatformGreenhouse:
		return strings.Contains(lowered, "/jobs/")
	case extract.PlatformLever:
		// jobs.lever.co/<company>/<posting-id>
		trimmed := strings.TrimPrefix(lowered, "https://")
		trimmed = strings.TrimPrefix(trimmed, "http://")
		parts := strings.Split(strings.Trim(trimmed, "/"), "/")
		return len(parts) >= 3
	default:
		return false
	}
}
