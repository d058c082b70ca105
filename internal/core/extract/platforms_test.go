package extract

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeSelectors(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "selectors.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write selectors file: %v", err)
	}
	return path
}

func TestLoadProfilesDefaults(t *testing.T) {
	profiles, err := loadProfiles("")
	if err != nil {
		t.Fatalf("loadProfiles: %v", err)
	}
	if len(profiles) != len(detectionOrder) {
		t.Fatalf("len(profiles) = %d, want %d", len(profiles), len(detectionOrder))
	}
	if got := profiles[PlatformGreenhouse].candidates[FieldTitle][0]; got != "h1.app-title" {
		t.Errorf("greenhouse title[0] = %q", got)
	}
	if len(profiles[PlatformLinkedIn].probes) == 0 {
		t.Error("linkedin profile must carry readiness probes")
	}
}

func TestLoadProfilesPartialOverride(t *testing.T) {
	path := writeSelectors(t, `
greenhouse:
  title:
    - "h1.custom-title"
    - "h1"
`)
	profiles, err := loadProfiles(path)
	if err != nil {
		t.Fatalf("loadProfiles: %v", err)
	}

	want := CandidateList{"h1.custom-title", "h1"}
	if got := profiles[PlatformGreenhouse].candidates[FieldTitle]; !reflect.DeepEqual(got, want) {
		t.Errorf("overridden title list = %v, want %v", got, want)
	}
	// Fields and platforms the file does not mention keep their defaults.
	if got := profiles[PlatformGreenhouse].candidates[FieldCompany][0]; got != ".company-name" {
		t.Errorf("greenhouse company[0] = %q, want default", got)
	}
	if got := profiles[PlatformLever].candidates[FieldTitle][0]; got != ".posting-headline h2" {
		t.Errorf("lever title[0] = %q, want default", got)
	}
}

func TestLoadProfilesOverrideDoesNotMutateDefaults(t *testing.T) {
	path := writeSelectors(t, `
lever:
  title: ["h2.only-this"]
`)
	if _, err := loadProfiles(path); err != nil {
		t.Fatalf("loadProfiles with override: %v", err)
	}

	profiles, err := loadProfiles("")
	if err != nil {
		t.Fatalf("loadProfiles defaults: %v", err)
	}
	if got := profiles[PlatformLever].candidates[FieldTitle][0]; got != ".posting-headline h2" {
		t.Errorf("defaults leaked a prior override: lever title[0] = %q", got)
	}
}

func TestLoadProfilesErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown platform", "monster:\n  title: [\"h1\"]\n"},
		{"unknown field", "greenhouse:\n  salary: [\".pay\"]\n"},
		{"malformed yaml", "greenhouse: [not, a, map\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSelectors(t, tt.content)
			if _, err := loadProfiles(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadProfilesMissingFile(t *testing.T) {
	if _, err := loadProfiles(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for unreadable file")
	}
}
