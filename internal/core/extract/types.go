package extract

import "time"

// Platform identifies the job board hosting a posting.
type Platform string

const (
	PlatformLinkedIn   Platform = "linkedin"
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
)

// JobRecord is the normalized output of one extraction. Fields resolve
// independently and may be empty; an empty Description always means an empty
// TechStack. Platform and provenance fields are set once at creation.
type JobRecord struct {
	Platform    Platform  `json:"platform"`
	JobTitle    string    `json:"job_title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	TechStack   []string  `json:"tech_stack"`
	URL         string    `json:"url"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// Field names a logical extraction target on a posting page.
type Field string

const (
	FieldTitle       Field = "title"
	FieldCompany     Field = "company"
	FieldLocation    Field = "location"
	FieldDescription Field = "description"
)
