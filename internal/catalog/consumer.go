package catalog

import (
	"context"
	"errors"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/freshfold/freshfold-backend/pkg/enums"
	"github.com/freshfold/freshfold-backend/pkg/logger"
)

const attrTable = "table"

type refresher interface {
	Refresh(ctx context.Context, table enums.CatalogTable) error
}

// Consumer applies catalog change notifications from Pub/Sub to the provider.
type Consumer struct {
	provider     refresher
	subscription *pubsub.Subscriber
	logg         *logger.Logger
}

// NewConsumer constructs a consumer that watches the provided subscription.
func NewConsumer(provider refresher, subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if provider == nil {
		return nil, errors.New("catalog provider is required")
	}
	if subscription == nil {
		return nil, errors.New("catalog subscription is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{
		provider:     provider,
		subscription: subscription,
		logg:         logg,
	}, nil
}

// Run processes messages until the context is canceled or the subscription errors.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if c.process(ctx, msg) {
			msg.Ack()
			return
		}
		msg.Nack()
	})
}

// process returns true when the message should be acked.
func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) bool {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"table":      msg.Attributes[attrTable],
	})

	table, err := enums.ParseCatalogTable(msg.Attributes[attrTable])
	if err != nil {
		// Unknown table: nothing to refresh, don't redeliver.
		c.logg.Warn(logCtx, "skipping change event for unknown table")
		return true
	}

	if err := c.provider.Refresh(ctx, table); err != nil {
		c.logg.Error(logCtx, "catalog refresh failed", err)
		return false
	}

	c.logg.Info(logCtx, "catalog table refreshed")
	return true
}
