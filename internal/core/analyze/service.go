package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"

	"jobradar/internal/core/extract"
	"jobradar/internal/core/history"
	"jobradar/internal/logger"
	"jobradar/internal/platform/eino"
	"jobradar/internal/platform/tasks"
	"jobradar/prompts"
)

// TaskPayload is the analyze task body carried through the queue.
type TaskPayload struct {
	EntryID string            `json:"entry_id"`
	Record  extract.JobRecord `json:"record"`
}

// Service turns a stored JobRecord into a free-text recruiter-style analysis
// and attaches it to the history entry.
type Service struct {
	log     *logger.Logger
	eino    *eino.Service
	history *history.Service
	tasks   *tasks.Client
	prompts *prompts.SystemPrompts

	queue      string
	maxRetries int
}

func NewService(einoSvc *eino.Service, historySvc *history.Service, taskClient *tasks.Client, maxRetries int) *Service {
	return &Service{
		log:        logger.New("AnalyzeService"),
		eino:       einoSvc,
		history:    historySvc,
		tasks:      taskClient,
		prompts:    prompts.NewSystemPrompts(),
		queue:      "default",
		maxRetries: maxRetries,
	}
}

// EnqueueAnalysis schedules background analysis for a stored record. It
// implements the extract handler's AnalysisQueue interface.
func (s *Service) EnqueueAnalysis(entryID string, record extract.JobRecord) error {
	payload, err := json.Marshal(TaskPayload{EntryID: entryID, Record: record})
	if err != nil {
		return fmt.Errorf("marshal analyze payload: %w", err)
	}
	if err := s.tasks.Enqueue(asynq.NewTask(tasks.TaskTypeAnalyze, payload), s.queue, s.maxRetries); err != nil {
		return fmt.Errorf("enqueue analyze task: %w", err)
	}
	s.log.LogDebugf("queued analysis for entry %s", entryID)
	return nil
}

// HandleAnalyzeTask is the asynq worker entrypoint.
func (s *Service) HandleAnalyzeTask(ctx context.Context, task *asynq.Task) error {
	var p TaskPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal analyze payload: %w", err)
	}

	analysis, err := s.Analyze(ctx, p.Record)
	if err != nil {
		s.log.LogErrorf("analysis failed entry=%s: %v", p.EntryID, err)
		// Record the failure so readers stop waiting; the queue still retries.
		_ = s.history.AttachAnalysisError(ctx, p.EntryID, err.Error())
		return err
	}
	if err := s.history.AttachAnalysis(ctx, p.EntryID, analysis); err != nil {
		return fmt.Errorf("attach analysis: %w", err)
	}
	s.log.LogSuccessf("analysis attached entry=%s (%d chars)", p.EntryID, len(analysis))
	return nil
}

// Analyze renders the prompt for one record and runs the chat model.
func (s *Service) Analyze(ctx context.Context, record extract.JobRecord) (string, error) {
	messages, err := s.prompts.JobAnalysis.Format(ctx, map[string]any{
		"platform":    string(record.Platform),
		"job_title":   orUnstated(record.JobTitle),
		"company":     orUnstated(record.Company),
		"location":    orUnstated(record.Location),
		"tech_stack":  orUnstated(strings.Join(record.TechStack, ", ")),
		"description": orUnstated(record.Description),
	})
	if err != nil {
		return "", fmt.Errorf("format analysis prompt: %w", err)
	}
	return s.eino.Generate(ctx, messages)
}

func orUnstated(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(not stated)"
	}
	return v
}
