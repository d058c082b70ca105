package extract

import (
	"strings"

	"jobradar/internal/utils/dom"
)

// Fallback scoring kicks in only after every selector candidate for a field
// came back empty. Structural markup for titles and descriptions is the most
// volatile attribute across platform redesigns, so a broad lexical/structural
// scan is more robust than any fixed selector list, at the cost of the
// occasional misidentification. That is acceptable because the value feeds a
// text-generation analyzer rather than a strict schema.

// TitleWeights is the scoring policy for title candidates. Keeping the policy
// in one named table makes it tunable and testable apart from the scan logic.
type TitleWeights struct {
	LengthIdeal int // text length in [20,150]
	LengthLoose int // text length in [10,200) but outside the ideal band
	RoleKeyword int // text mentions a job-role word
	Heading1    int
	Heading2    int
	Heading3    int
	Navigation  int // text contains site-chrome phrasing
}

var defaultTitleWeights = TitleWeights{
	LengthIdeal: 10,
	LengthLoose: 5,
	RoleKeyword: 20,
	Heading1:    15,
	Heading2:    10,
	Heading3:    5,
	Navigation:  -50,
}

// DescriptionFilter is the acceptance policy for description candidates.
type DescriptionFilter struct {
	MinLength int // exclusive
	MaxLength int // exclusive
	// A candidate whose lines are mostly short is layout chrome, not prose.
	ChromeLineLength int
	ChromeLineRatio  float64
	ChromeMinLines   int
}

var defaultDescriptionFilter = DescriptionFilter{
	MinLength:        300,
	MaxLength:        20000,
	ChromeLineLength: 40,
	ChromeLineRatio:  0.7,
	ChromeMinLines:   10,
}

var roleKeywords = []string{
	"engineer", "developer", "manager", "designer", "analyst",
	"scientist", "architect", "consultant", "specialist", "lead",
	"senior", "junior", "intern", "director",
}

var navigationPhrases = []string{
	"sign in", "sign up", "log in", "join now", "join", "cookie",
	"privacy policy", "terms of service", "apply now", "see more jobs",
	"similar jobs", "people also viewed",
}

// scoredCandidate lives only for the duration of one scan.
type scoredCandidate struct {
	node  dom.Node
	text  string
	score int
}

// titleScanSelector and descriptionScanSelector define the broad element pools
// the fallback inspects.
const (
	titleScanSelector       = "h1, h2, h3, p"
	descriptionScanSelector = "div, section, article, main"
)

// scoreAndPickBest scans a broad element pool and returns the best-scoring
// candidate text for the field, or "" when nothing survives filtering.
// An empty return is a legitimate terminal outcome, not an error.
func (s *Service) scoreAndPickBest(doc dom.Document, field Field) string {
	switch field {
	case FieldTitle:
		return s.pickBestTitle(doc.Scan(titleScanSelector))
	case FieldDescription:
		return s.pickBestDescription(doc.Scan(descriptionScanSelector))
	default:
		return ""
	}
}

func (s *Service) pickBestTitle(pool []dom.Node) string {
	var best *scoredCandidate
	kept := 0
	for _, n := range pool {
		text := n.Text()
		if text == "" {
			continue
		}
		score := scoreTitle(text, n.Tag(), defaultTitleWeights)
		if score <= 0 {
			continue
		}
		kept++
		// Ties go to scan order: strictly greater replaces.
		if best == nil || score > best.score {
			best = &scoredCandidate{node: n, text: text, score: score}
		}
	}
	if best == nil {
		s.log.LogDebugf("title fallback: no candidate survived out of %d scanned", len(pool))
		return ""
	}
	s.log.LogDebugf("title fallback: picked <%s> score=%d of %d survivors", best.node.Tag(), best.score, kept)
	return best.text
}

func scoreTitle(text, tag string, w TitleWeights) int {
	score := 0
	n := len(text)
	switch {
	case n >= 20 && n <= 150:
		score += w.LengthIdeal
	case n >= 10 && n < 200:
		score += w.LengthLoose
	}

	lowered := strings.ToLower(text)
	for _, kw := range roleKeywords {
		if strings.Contains(lowered, kw) {
			score += w.RoleKeyword
			break
		}
	}

	switch tag {
	case "h1":
		score += w.Heading1
	case "h2":
		score += w.Heading2
	case "h3":
		score += w.Heading3
	}

	if containsNavigationPhrase(lowered) {
		score += w.Navigation
	}
	return score
}

func (s *Service) pickBestDescription(pool []dom.Node) string {
	best := ""
	for _, n := range pool {
		text := n.Text()
		if !acceptDescription(text, defaultDescriptionFilter) {
			continue
		}
		// Longest accepted candidate wins: maximize signal density.
		if len(text) > len(best) {
			best = text
		}
	}
	if best == "" {
		s.log.LogDebugf("description fallback: no candidate survived out of %d scanned", len(pool))
	} else {
		s.log.LogDebugf("description fallback: picked candidate of %d chars", len(best))
	}
	return best
}

func acceptDescription(text string, f DescriptionFilter) bool {
	n := len(text)
	if n <= f.MinLength || n >= f.MaxLength {
		return false
	}
	if containsNavigationPhrase(strings.ToLower(text)) {
		return false
	}
	return !looksLikePageChrome(text, f)
}

// looksLikePageChrome flags text whose lines are predominantly short: link
// farms, menus and footers rather than prose.
func looksLikePageChrome(text string, f DescriptionFilter) bool {
	lines := strings.Split(text, "\n")
	if len(lines) < f.ChromeMinLines {
		return false
	}
	short := 0
	for _, line := range lines {
		if len(strings.TrimSpace(line)) < f.ChromeLineLength {
			short++
		}
	}
	return float64(short)/float64(len(lines)) > f.ChromeLineRatio
}

func containsNavigationPhrase(lowered string) bool {
	for _, phrase := range navigationPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
