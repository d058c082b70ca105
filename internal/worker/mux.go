package worker

import (
	"context"

	"github.com/hibiken/asynq"
)

// Mux is a thin wrapper so task handlers can be registered without the
// wiring code importing asynq's mux type directly.
type Mux struct{ mux *asynq.ServeMux }

func NewMux() *Mux { return &Mux{mux: asynq.NewServeMux()} }

func (m *Mux) HandleFunc(taskType string, h func(ctx context.Context, task *asynq.Task) error) {
	m.mux.HandleFunc(taskType, h)
}

func (m *Mux) Mux() *asynq.ServeMux { return m.mux }
