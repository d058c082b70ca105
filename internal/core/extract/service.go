package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobradar/internal/core/keywords"
	"jobradar/internal/logger"
	"jobradar/internal/utils/dom"
	"jobradar/internal/utils/markdown"
)

// SourceOpener hands the pipeline a document source for a posting URL. The
// fetch service implements it with plain HTTP for server-rendered boards and
// a live browser page for deferred-render ones.
type SourceOpener interface {
	Open(ctx context.Context, url string, platform Platform) (dom.Source, error)
}

// Cache stores extraction results keyed by URL. The redis platform service
// satisfies it; nil disables caching.
type Cache interface {
	CacheGet(ctx context.Context, key string, dest interface{}) error
	CacheSet(ctx context.Context, key string, val interface{}, ttlSeconds int) error
}

// Options tunes the extraction pipeline.
type Options struct {
	// SelectorsFile optionally points at a YAML file overriding the built-in
	// candidate lists.
	SelectorsFile     string
	RenderMaxAttempts int
	RenderInterval    time.Duration
	// Clock overrides the waiter's clock; nil means real time.
	Clock Clock
	// Cache enables URL-keyed result caching when set.
	Cache Cache
}

// Service detects the platform behind a posting URL and runs the shared
// pipeline: (optional) readiness wait → ordered selector resolution → scored
// fallback on empty critical fields → tech-keyword normalization.
type Service struct {
	log      *logger.Logger
	opener   SourceOpener
	waiter   *Waiter
	cache    Cache
	profiles map[Platform]*platformProfile

	renderMaxAttempts int
	renderInterval    time.Duration
}

func NewService(opener SourceOpener, opts Options) (*Service, error) {
	profiles, err := loadProfiles(opts.SelectorsFile)
	if err != nil {
		return nil, err
	}
	waiter := NewWaiter()
	if opts.Clock != nil {
		waiter = NewWaiterWithClock(opts.Clock)
	}
	maxAttempts := opts.RenderMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	interval := opts.RenderInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Service{
		log:               logger.New("ExtractService"),
		opener:            opener,
		waiter:            waiter,
		cache:             opts.Cache,
		profiles:          profiles,
		renderMaxAttempts: maxAttempts,
		renderInterval:    interval,
	}, nil
}

// ExtractWithCache resolves from the URL-keyed cache first unless fresh is
// set. The second return reports a cache hit. Unsupported platforms are never
// cached: the nil outcome is cheap to recompute.
func (s *Service) ExtractWithCache(ctx context.Context, rawURL string, fresh bool) (*JobRecord, bool, error) {
	if s.cache != nil && !fresh {
		var cached JobRecord
		if err := s.cache.CacheGet(ctx, cacheKey(rawURL), &cached); err == nil {
			s.log.LogInfof("cache hit url=%s", rawURL)
			return &cached, true, nil
		}
	}

	record, err := s.Extract(ctx, rawURL)
	if err != nil || record == nil {
		return record, false, err
	}
	if s.cache != nil {
		// TTL 15 minutes; postings change rarely but do get edited.
		if err := s.cache.CacheSet(ctx, cacheKey(rawURL), record, 900); err != nil {
			s.log.LogWarnf("cache write failed url=%s: %v", rawURL, err)
		}
	}
	return record, false, nil
}

func cacheKey(rawURL string) string {
	safe := strings.NewReplacer(":", "_", "/", "_", "?", "_", "&", "_").Replace(rawURL)
	return "extract:" + safe
}

// DetectPlatform tests the URL against the fixed ordered rule list.
// First match wins; ok is false for unsupported hosts.
func (s *Service) DetectPlatform(rawURL string) (Platform, bool) {
	lowered := strings.ToLower(rawURL)
	for _, platform := range detectionOrder {
		for _, marker := range s.profiles[platform].urlMarkers {
			if strings.Contains(lowered, marker) {
				return platform, true
			}
		}
	}
	return "", false
}

// Extract produces a JobRecord for the posting at rawURL. Three outcomes:
//   - (record, nil): extraction ran; individual fields may still be empty.
//   - (nil, nil): no supported platform matched; expected, not an error.
//   - (nil, err): a hard fault (fetch or document access failure); no partial
//     record is ever produced through fault recovery.
func (s *Service) Extract(ctx context.Context, rawURL string) (*JobRecord, error) {
	platform, ok := s.DetectPlatform(rawURL)
	if !ok {
		s.log.LogDebugf("no platform matched %s", rawURL)
		return nil, nil
	}
	profile := s.profiles[platform]
	s.log.LogInfof("extract start platform=%s url=%s", platform, rawURL)

	src, err := s.opener.Open(ctx, rawURL, platform)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", rawURL, err)
	}
	defer src.Close()

	// Deferred-render boards get a bounded wait; exhaustion is soft and we
	// extract from whatever markup is there.
	if len(profile.probes) > 0 {
		if !s.waiter.WaitUntilReady(ctx, src, profile.probes, s.renderMaxAttempts, s.renderInterval) {
			s.log.LogWarnf("proceeding without render readiness for %s", rawURL)
		}
	}

	doc, err := src.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", rawURL, err)
	}

	record := &JobRecord{
		Platform: platform,
		URL:      rawURL,
		JobTitle: s.resolveField(doc, profile.candidates[FieldTitle], FieldTitle),
		Company:  s.resolveField(doc, profile.candidates[FieldCompany], FieldCompany),
		Location: s.resolveField(doc, profile.candidates[FieldLocation], FieldLocation),
	}

	// Descriptions keep their list/heading structure: when a selector wins,
	// re-read that container as markdown instead of flattened text.
	descText, descSelector := s.resolve(doc, profile.candidates[FieldDescription], FieldDescription)
	record.Description = descText
	if descSelector != "" {
		if raw, ok := doc.HTML(descSelector); ok {
			if md := markdown.Convert(raw); md != "" {
				record.Description = md
			}
		}
	}

	// Scored fallback for the two critical fields. Applied on every platform,
	// not just the deferred-render one: the scan only runs when selectors
	// already came back empty, so it can only improve a record.
	if record.JobTitle == "" {
		record.JobTitle = s.scoreAndPickBest(doc, FieldTitle)
	}
	if record.Description == "" {
		record.Description = s.scoreAndPickBest(doc, FieldDescription)
	}

	record.TechStack = keywords.Match(record.Description)
	record.ExtractedAt = time.Now().UTC()

	s.log.LogSuccessf("extract done platform=%s title=%q stack=%d", platform, record.JobTitle, len(record.TechStack))
	return record, nil
}
