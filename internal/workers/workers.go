package workers

import "context"

type Workers struct {
	workers []Worker
}

// NewWorkers groups the given workers under a single Run entry point.
func NewWorkers(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}
