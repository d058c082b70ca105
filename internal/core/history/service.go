package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jobradar/internal/core/extract"
	"jobradar/internal/logger"
)

// Store is the slice of the redis service the history log uses: JSON KV for
// entries plus list ops for the newest-first index. ListPush must prepend.
type Store interface {
	CacheGet(ctx context.Context, key string, dest interface{}) error
	CacheSet(ctx context.Context, key string, val interface{}, ttlSeconds int) error
	Delete(ctx context.Context, keys ...string) error
	ListPush(ctx context.Context, key, val string) error
	ListRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ListTrim(ctx context.Context, key string, start, stop int64) error
	ListRemove(ctx context.Context, key, val string) error
}

// Entry is one analyzed posting in the history log. Analysis fields are
// attached after the fact by the analyze worker.
type Entry struct {
	ID            string            `json:"id"`
	Record        extract.JobRecord `json:"record"`
	SavedAt       time.Time         `json:"saved_at"`
	Analysis      string            `json:"analysis,omitempty"`
	AnalyzedAt    *time.Time        `json:"analyzed_at,omitempty"`
	AnalysisError string            `json:"analysis_error,omitempty"`
}

// Service persists a capped history of extracted postings: newest first,
// oldest evicted beyond the cap, long text fields truncated before writes.
type Service struct {
	log           *logger.Logger
	store         Store
	cap           int
	maxFieldChars int
}

func NewService(store Store, cap, maxFieldChars int) *Service {
	if cap <= 0 {
		cap = 50
	}
	if maxFieldChars <= 0 {
		maxFieldChars = 12000
	}
	return &Service{
		log:           logger.New("HistoryService"),
		store:         store,
		cap:           cap,
		maxFieldChars: maxFieldChars,
	}
}

func indexKey() string         { return "history:index" }
func itemKey(id string) string { return "history:item:" + id }

// Save appends a record under a fresh id and evicts beyond the cap.
func (s *Service) Save(ctx context.Context, record extract.JobRecord) (*Entry, error) {
	entry := &Entry{
		ID:      uuid.NewString(),
		Record:  truncateRecord(record, s.maxFieldChars),
		SavedAt: time.Now().UTC(),
	}
	if err := s.store.CacheSet(ctx, itemKey(entry.ID), entry, 0); err != nil {
		return nil, fmt.Errorf("save history entry: %w", err)
	}
	if err := s.store.ListPush(ctx, indexKey(), entry.ID); err != nil {
		return nil, fmt.Errorf("index history entry: %w", err)
	}
	if err := s.evict(ctx); err != nil {
		// Eviction failure leaves extra entries behind, not data loss.
		s.log.LogWarnf("history eviction failed: %v", err)
	}
	s.log.LogDebugf("saved history entry %s (%s)", entry.ID, record.JobTitle)
	return entry, nil
}

func (s *Service) evict(ctx context.Context) error {
	evicted, err := s.store.ListRange(ctx, indexKey(), int64(s.cap), -1)
	if err != nil {
		return err
	}
	for _, id := range evicted {
		if err := s.store.Delete(ctx, itemKey(id)); err != nil {
			return err
		}
	}
	if len(evicted) > 0 {
		s.log.LogDebugf("evicted %d history entries beyond cap %d", len(evicted), s.cap)
	}
	return s.store.ListTrim(ctx, indexKey(), 0, int64(s.cap)-1)
}

// SaveRecord adapts Save to the extract handler's RecordStore interface.
func (s *Service) SaveRecord(ctx context.Context, record extract.JobRecord) (string, error) {
	entry, err := s.Save(ctx, record)
	if err != nil {
		return "", err
	}
	return entry.ID, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Entry, error) {
	var entry Entry
	if err := s.store.CacheGet(ctx, itemKey(id), &entry); err != nil {
		return nil, fmt.Errorf("history entry not found: %s", id)
	}
	return &entry, nil
}

// List returns all entries newest-first.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	ids, err := s.store.ListRange(ctx, indexKey(), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		entry, err := s.Get(ctx, id)
		if err != nil {
			// Index can briefly reference an evicted item; skip it.
			continue
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.ListRemove(ctx, indexKey(), id); err != nil {
		return fmt.Errorf("remove from index: %w", err)
	}
	return s.store.Delete(ctx, itemKey(id))
}

// AttachAnalysis records the analyzer's output on an existing entry.
func (s *Service) AttachAnalysis(ctx context.Context, id, analysis string) error {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	entry.Analysis = truncate(analysis, s.maxFieldChars)
	entry.AnalyzedAt = &now
	entry.AnalysisError = ""
	return s.store.CacheSet(ctx, itemKey(id), entry, 0)
}

// AttachAnalysisError records a failed analysis so the entry is not retried
// forever by readers waiting on it.
func (s *Service) AttachAnalysisError(ctx context.Context, id, msg string) error {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	entry.AnalyzedAt = &now
	entry.AnalysisError = truncate(msg, 500)
	return s.store.CacheSet(ctx, itemKey(id), entry, 0)
}

func truncateRecord(r extract.JobRecord, max int) extract.JobRecord {
	r.Description = truncate(r.Description, max)
	return r
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}
