package extract

import (
	"jobradar/internal/utils/dom"
)

// CandidateList is a priority-ordered sequence of CSS selectors for one
// logical field: most specific and stable first, generic fallback last.
// Lists are static configuration, optionally overridden at startup.
type CandidateList []string

// resolveField probes candidates strictly in priority order and returns the
// first non-empty trimmed text. No retry, no waiting. Returns "" when every
// candidate misses or matches only empty elements; which candidate won (or
// that all failed) is logged for diagnostics.
func (s *Service) resolveField(doc dom.Document, candidates CandidateList, field Field) string {
	text, _ := s.resolve(doc, candidates, field)
	return text
}

// resolve additionally reports the winning selector so callers can re-query
// the same element in another representation.
func (s *Service) resolve(doc dom.Document, candidates CandidateList, field Field) (string, string) {
	for i, selector := range candidates {
		text, ok := doc.Text(selector)
		if !ok || text == "" {
			continue
		}
		s.log.LogDebugf("field %s resolved by candidate %d (%s)", field, i, selector)
		return text, selector
	}
	s.log.LogDebugf("field %s unresolved after %d candidates", field, len(candidates))
	return "", ""
}
