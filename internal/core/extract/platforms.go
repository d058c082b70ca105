package extract

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// platformProfile bundles everything the shared pipeline needs to know about
// one job board: how to recognize its URLs, which selectors to try per field,
// and whether its markup is deferred to client-side rendering.
type platformProfile struct {
	platform Platform
	// urlMarkers are substring rules tested against the posting URL.
	urlMarkers []string
	candidates map[Field]CandidateList
	// probes is non-empty only for boards that render client-side; the
	// pipeline polls them before resolving fields.
	probes []Probe
}

// detectionOrder fixes rule precedence. The rules do not overlap in practice,
// but first-match-wins keeps detection deterministic if a URL ever matches two.
var detectionOrder = []Platform{PlatformLinkedIn, PlatformGreenhouse, PlatformLever}

var defaultProfiles = map[Platform]*platformProfile{
	PlatformLinkedIn: {
		platform:   PlatformLinkedIn,
		urlMarkers: []string{"linkedin.com"},
		candidates: map[Field]CandidateList{
			FieldTitle: {
				"h1.top-card-layout__title",
				".job-details-jobs-unified-top-card__job-title h1",
				".jobs-unified-top-card__job-title",
				"h1",
			},
			FieldCompany: {
				".topcard__org-name-link",
				".job-details-jobs-unified-top-card__company-name a",
				".jobs-unified-top-card__company-name",
				"a[data-tracking-control-name='public_jobs_topcard-org-name']",
			},
			FieldLocation: {
				".topcard__flavor--bullet",
				".job-details-jobs-unified-top-card__primary-description-container span",
				".jobs-unified-top-card__bullet",
			},
			FieldDescription: {
				".description__text",
				".jobs-description__content",
				"#job-details",
				".show-more-less-html__markup",
			},
		},
		probes: []Probe{
			{Name: "top card", Selector: ".top-card-layout__title, .jobs-unified-top-card__job-title"},
			{Name: "description container", Selector: ".description__text, .jobs-description__content"},
			{Name: "any heading", Selector: "h1"},
		},
	},
	PlatformGreenhouse: {
		platform:   PlatformGreenhouse,
		urlMarkers: []string{"greenhouse.io"},
		candidates: map[Field]CandidateList{
			FieldTitle: {
				"h1.app-title",
				".job__title h1",
				"h1.section-header",
				"h1",
			},
			FieldCompany: {
				".company-name",
				".job__company span",
				"span.company-name",
			},
			FieldLocation: {
				".location",
				".job__location div",
				"div.location",
			},
			FieldDescription: {
				"#content",
				".job__description",
				"#app_body",
			},
		},
	},
	PlatformLever: {
		platform:   PlatformLever,
		urlMarkers: []string{"lever.co"},
		candidates: map[Field]CandidateList{
			FieldTitle: {
				".posting-headline h2",
				"h2[data-qa='posting-name']",
				"h2",
			},
			FieldCompany: {
				".main-header-logo img[alt]",
				".posting-categories .sort-by-team",
			},
			FieldLocation: {
				".posting-categories .location",
				".sort-by-location",
				".posting-category.location",
			},
			FieldDescription: {
				".posting-page .section-wrapper .section:not(.last-section-apply)",
				"[data-qa='job-description']",
				".content .section",
			},
		},
	},
}

// selectorOverrides is the YAML shape of an optional startup-time override
// file: platform → field → candidate list. Missing entries keep the defaults.
type selectorOverrides map[string]map[string][]string

// loadProfiles returns the built-in platform profiles, with candidate lists
// replaced by any present in the override file. path == "" means defaults.
func loadProfiles(path string) (map[Platform]*platformProfile, error) {
	profiles := make(map[Platform]*platformProfile, len(defaultProfiles))
	for p, prof := range defaultProfiles {
		clone := *prof
		clone.candidates = make(map[Field]CandidateList, len(prof.candidates))
		for f, list := range prof.candidates {
			clone.candidates[f] = append(CandidateList(nil), list...)
		}
		profiles[p] = &clone
	}
	if path == "" {
		return profiles, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read selectors file: %w", err)
	}
	var overrides selectorOverrides
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("parse selectors file: %w", err)
	}

	for name, fields := range overrides {
		prof, ok := profiles[Platform(strings.ToLower(name))]
		if !ok {
			return nil, fmt.Errorf("selectors file: unknown platform %q", name)
		}
		for fieldName, list := range fields {
			field := Field(strings.ToLower(fieldName))
			if _, ok := prof.candidates[field]; !ok {
				return nil, fmt.Errorf("selectors file: unknown field %q for %s", fieldName, name)
			}
			if len(list) > 0 {
				prof.candidates[field] = append(CandidateList(nil), list...)
			}
		}
	}
	return profiles, nil
}
