package extract

import (
	"testing"

	"jobradar/internal/logger"
	"jobradar/internal/utils/dom"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	profiles, err := loadProfiles("")
	if err != nil {
		t.Fatalf("loadProfiles: %v", err)
	}
	return &Service{
		log:      logger.New("test"),
		profiles: profiles,
	}
}

func mustParse(t *testing.T, html string) dom.Document {
	t.Helper()
	doc, err := dom.Parse(html)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestResolveFieldNoCandidates(t *testing.T) {
	s := newTestService(t)
	doc := mustParse(t, `<html><body><h1>Anything</h1></body></html>`)
	if got := s.resolveField(doc, nil, FieldTitle); got != "" {
		t.Errorf("resolveField with no candidates = %q, want empty", got)
	}
}

func TestResolveFieldPriorityOrder(t *testing.T) {
	s := newTestService(t)
	doc := mustParse(t, `<html><body><div id="a">Engineer</div><div id="b">Manager</div></body></html>`)

	tests := []struct {
		name       string
		candidates CandidateList
		want       string
	}{
		{"first missing, second hits", CandidateList{"#missing", "#a"}, "Engineer"},
		{"first hit wins over later match", CandidateList{"#a", "#b"}, "Engineer"},
		{"later candidate preferred only when earlier miss", CandidateList{"#b", "#a"}, "Manager"},
		{"all miss", CandidateList{"#x", "#y", "#z"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.resolveField(doc, tt.candidates, FieldTitle); got != tt.want {
				t.Errorf("resolveField = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveFieldSkipsEmptyElements(t *testing.T) {
	s := newTestService(t)
	doc := mustParse(t, `<html><body><div id="empty">   </div><div id="full">Acme Corp</div></body></html>`)
	got := s.resolveField(doc, CandidateList{"#empty", "#full"}, FieldCompany)
	if got != "Acme Corp" {
		t.Errorf("resolveField = %q, want %q", got, "Acme Corp")
	}
}

func TestResolveFieldTrimsWhitespace(t *testing.T) {
	s := newTestService(t)
	doc := mustParse(t, "<html><body><h1>\n\t  Data Engineer  \n</h1></body></html>")
	got := s.resolveField(doc, CandidateList{"h1"}, FieldTitle)
	if got != "Data Engineer" {
		t.Errorf("resolveField = %q, want trimmed text", got)
	}
}
