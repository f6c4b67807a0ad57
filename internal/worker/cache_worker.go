package worker

import (
	"context"

	"github.com/spec-kit/content-service/internal/events"
	"github.com/spec-kit/content-service/internal/service"
)

// StartCacheWorker invalidates the tag cache whenever articles change.
func StartCacheWorker(dispatcher events.Dispatcher, tags *service.TagService) {
	if dispatcher == nil || tags == nil {
		return
	}
	invalidate := func(ctx context.Context, _ events.Event) error {
		tags.Invalidate(ctx)
		return nil
	}
	dispatcher.Subscribe(events.EventArticlePublished, invalidate)
	dispatcher.Subscribe(events.EventArticleUpdated, invalidate)
	dispatcher.Subscribe(events.EventArticleDeleted, invalidate)
}
