package publishers

import (
	"context"
	"fmt"
)

// queueSender abstracts provider-specific queue senders.
type queueSender interface {
	Send(ctx context.Context, evt Event) error
}

type senderBuilder func(ctx context.Context, q *QueuePublisherConfig, log Logger) (queueSender, error)

// queueProviders maps a queue.provider value to the sender it builds.
var queueProviders = map[string]senderBuilder{
	QueueProviderAWSSQS: func(ctx context.Context, q *QueuePublisherConfig, log Logger) (queueSender, error) {
		return newAWSSQSSender(ctx, q.AWS, log)
	},
	QueueProviderAWSSNS: func(ctx context.Context, q *QueuePublisherConfig, log Logger) (queueSender, error) {
		return newAWSSNSSender(ctx, q.SNS, log)
	},
	QueueProviderGCP: func(ctx context.Context, q *QueuePublisherConfig, log Logger) (queueSender, error) {
		return newGCPPubSubSender(ctx, q.GCP, log)
	},
}

// queuePublisher sends article events to one cloud queue or topic.
type queuePublisher struct {
	id       string
	provider string
	sender   queueSender
}

func newQueuePublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.Queue == nil {
		return nil, fmt.Errorf("publisher %q missing queue configuration", cfg.ID)
	}
	build, ok := queueProviders[cfg.Queue.Provider]
	if !ok {
		return nil, fmt.Errorf("queue provider %q is not supported", cfg.Queue.Provider)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	sender, err := build(ctx, cfg.Queue, log)
	if err != nil {
		return nil, fmt.Errorf("%s sender: %w", cfg.Queue.Provider, err)
	}
	return &queuePublisher{id: cfg.ID, provider: cfg.Queue.Provider, sender: sender}, nil
}

func (p *queuePublisher) ID() string   { return p.id }
func (p *queuePublisher) Type() string { return TypeQueue }

// Publish refuses events without an article ID; subscribers key on the
// article_id attribute.
func (p *queuePublisher) Publish(ctx context.Context, evt Event) error {
	if evt.Article.ID == "" {
		return fmt.Errorf("event for watch %q has no article id", evt.WatchID)
	}
	if err := p.sender.Send(ctx, evt); err != nil {
		return fmt.Errorf("queue provider %s send failed: %w", p.provider, err)
	}
	return nil
}
