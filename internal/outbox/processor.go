// Package outbox drains order events recorded transactionally alongside the
// writes that caused them and publishes them to RabbitMQ.
package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	queueName    = "order-events"
	pollInterval = 3 * time.Second
	batchSize    = 10
)

type Processor struct {
	pool   *pgxpool.Pool
	ch     *amqp.Channel
	logger *slog.Logger
}

func New(pool *pgxpool.Pool, conn *amqp.Connection, logger *slog.Logger) (*Processor, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("conn.Channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("ch.QueueDeclare: %w", err)
	}

	return &Processor{
		pool:   pool,
		ch:     ch,
		logger: logger,
	}, nil
}

// Start polls until ctx is cancelled.
func (p *Processor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				if err := p.ch.Close(); err != nil {
					p.logger.Warn("closing amqp channel", "error", err)
				}
				return
			case <-ticker.C:
				p.processEvents(ctx)
			}
		}
	}()
}

func (p *Processor) processEvents(ctx context.Context) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, event_type, payload
		FROM outbox
		WHERE status = 'new'
		ORDER BY id
		LIMIT $1`, batchSize)
	if err != nil {
		p.logger.ErrorContext(ctx, "reading outbox rows", "error", err)
		return
	}
	defer rows.Close()

	type event struct {
		id        int64
		eventType string
		payload   []byte
	}

	var events []event
	for rows.Next() {
		var e event
		if err := rows.Scan(&e.id, &e.eventType, &e.payload); err != nil {
			p.logger.ErrorContext(ctx, "scanning outbox row", "error", err)
			return
		}
		events = append(events, e)
	}
	rows.Close()

	for _, e := range events {
		err := p.ch.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
			ContentType: "application/json",
			Type:        e.eventType,
			Body:        e.payload,
		})
		if err != nil {
			p.logger.ErrorContext(ctx, "publishing event", "id", e.id, "error", err)
			continue
		}

		if _, err := p.pool.Exec(ctx, `
			UPDATE outbox SET status = 'processed' WHERE id = $1`, e.id); err != nil {
			p.logger.ErrorContext(ctx, "marking event processed", "id", e.id, "error", err)
			continue
		}

		p.logger.DebugContext(ctx, "event published", "id", e.id, "type", e.eventType)
	}
}
