package processors

import (
	"context"
	"fmt"

	"productposts/internal/events"
	"productposts/internal/importer"
	"productposts/internal/logger"
)

type ImportRunner interface {
	Run(ctx context.Context, rawURL string) importer.Result
}

type EventProcessor struct {
	importer ImportRunner
	logger   *logger.Logger
}

func NewEventProcessor(imp ImportRunner, logger *logger.Logger) *EventProcessor {
	return &EventProcessor{
		importer: imp,
		logger:   logger,
	}
}

// Process handles one queued event. Import failures are returned so the
// worker can log them; they are never retried.
func (ep *EventProcessor) Process(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.TypeImportRequested:
		res := ep.importer.Run(ctx, event.URL)
		if !res.OK() {
			return fmt.Errorf("import of %q ended with %s: %s", event.URL, res.Status, res.Message())
		}
		ep.logger.Info("event %s: created post %s from %s", event.ID, res.PostID, res.URL)
		return nil
	default:
		ep.logger.Debug("ignoring event %s of type %s", event.ID, event.Type)
		return nil
	}
}
