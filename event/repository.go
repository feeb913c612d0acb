// Package event keeps the log of order events so each one is handled once.
package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/atelier/driver"
	"goflare.io/atelier/models"
	"goflare.io/atelier/models/enum"
)

var ErrEventNotFound = errors.New("event not found")

var _ Repository = (*repository)(nil)

type Repository interface {
	Create(ctx context.Context, tx pgx.Tx, event *models.Event) error
	GetByID(ctx context.Context, tx pgx.Tx, id string) (*models.Event, error)
	MarkAsProcessed(ctx context.Context, tx pgx.Tx, id string) error
}

type repository struct {
	conn   driver.PostgresPool
	logger *zap.Logger
}

func NewRepository(conn driver.PostgresPool, logger *zap.Logger) Repository {
	return &repository{
		conn:   conn,
		logger: logger,
	}
}

// Create records event; recording an id twice keeps the first row.
func (r *repository) Create(ctx context.Context, tx pgx.Tx, event *models.Event) error {
	_, err := driver.Use(r.conn, tx).Exec(ctx, `
		INSERT INTO events (id, type, order_id, processed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`,
		event.ID, string(event.Type), event.OrderID, event.Processed, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create event", zap.String("event_id", event.ID), zap.Error(err))
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, tx pgx.Tx, id string) (*models.Event, error) {
	var (
		event     models.Event
		eventType string
	)
	err := driver.Use(r.conn, tx).QueryRow(ctx,
		`SELECT id, type, order_id, processed, created_at, updated_at FROM events WHERE id = $1`, id,
	).Scan(&event.ID, &eventType, &event.OrderID, &event.Processed, &event.CreatedAt, &event.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get event", zap.String("event_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	event.Type = enum.EventType(eventType)
	return &event, nil
}

func (r *repository) MarkAsProcessed(ctx context.Context, tx pgx.Tx, id string) error {
	tag, err := driver.Use(r.conn, tx).Exec(ctx,
		`UPDATE events SET processed = TRUE, updated_at = $2 WHERE id = $1`, id, time.Now())
	if err != nil {
		r.logger.Error("Failed to mark event as processed", zap.String("event_id", id), zap.Error(err))
		return fmt.Errorf("failed to mark event as processed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}
