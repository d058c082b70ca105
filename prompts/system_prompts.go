package prompts

import (
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// SystemPrompts holds the chat templates used by the analyze worker.
type SystemPrompts struct {
	JobAnalysis prompt.ChatTemplate
}

// NewSystemPrompts creates and initializes all prompt templates
func NewSystemPrompts() *SystemPrompts {
	return &SystemPrompts{
		JobAnalysis: createJobAnalysisTemplate(),
	}
}

func createJobAnalysisTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(`# Your Role
You are an experienced technical recruiter and career advisor.

# Your Task
Given one normalized job posting, produce a short free-text analysis that helps
a candidate decide whether to apply.

# Requirements
1. **Summary**: 2-3 sentences on what the role actually is
2. **Tech stack**: comment on the detected technologies and what they imply about the team
3. **Seniority**: estimate the level from the title and description
4. **Red flags**: call out vague responsibilities, buzzword soup, or scope creep if present
5. **Honesty**: if a field is empty, say the posting did not state it, NEVER invent details

Keep the whole analysis under 250 words. Plain text, no markdown headings.`),

		schema.UserMessage(`Posting from {platform}:

Title: {job_title}
Company: {company}
Location: {location}
Detected tech stack: {tech_stack}

Description:
{description}`),
	)
}
