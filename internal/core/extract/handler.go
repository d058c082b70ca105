package extract

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"jobradar/internal/logger"
)

// RecordStore persists extracted records; the history service implements it.
type RecordStore interface {
	SaveRecord(ctx context.Context, record JobRecord) (string, error)
}

// AnalysisQueue schedules background analysis of a stored record.
type AnalysisQueue interface {
	EnqueueAnalysis(entryID string, record JobRecord) error
}

type Handler struct {
	log     *logger.Logger
	service *Service
	store   RecordStore
	queue   AnalysisQueue
}

func NewHandler(service *Service, store RecordStore, queue AnalysisQueue) *Handler {
	return &Handler{
		log:     logger.New("ExtractHandler"),
		service: service,
		store:   store,
		queue:   queue,
	}
}

type ExtractResponse struct {
	Success bool       `json:"success"`
	Cached  bool       `json:"cached"`
	EntryID string     `json:"entry_id,omitempty"`
	Record  *JobRecord `json:"record,omitempty"`
	Error   string     `json:"error,omitempty"`
}

func (h *Handler) HandleGetExtract(c *fiber.Ctx) error {
	url := c.Query("url")
	if url == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ExtractResponse{Error: "url is required"})
	}
	fresh := c.QueryBool("fresh", false)

	record, cached, err := h.service.ExtractWithCache(c.Context(), url, fresh)
	if err != nil {
		msg := err.Error()
		status := fiber.StatusBadGateway
		if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") {
			status = fiber.StatusRequestTimeout
		}
		return c.Status(status).JSON(ExtractResponse{Error: msg})
	}
	if record == nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ExtractResponse{Error: "unsupported platform"})
	}

	resp := ExtractResponse{Success: true, Cached: cached, Record: record}

	// Persist and queue analysis best-effort: the record itself is already a
	// success and goes back to the caller either way.
	entryID, err := h.store.SaveRecord(c.Context(), *record)
	if err != nil {
		h.log.LogErrorf("save record failed url=%s: %v", url, err)
		return c.JSON(resp)
	}
	resp.EntryID = entryID
	if err := h.queue.EnqueueAnalysis(entryID, *record); err != nil {
		h.log.LogErrorf("enqueue analysis failed entry=%s: %v", entryID, err)
	}
	return c.JSON(resp)
}
