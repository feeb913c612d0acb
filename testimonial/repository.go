package testimonial

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/atelier/driver"
	"goflare.io/atelier/models"
)

var ErrNotFound = errors.New("testimonial not found")

var _ Repository = (*repository)(nil)

type Repository interface {
	List(ctx context.Context, tx pgx.Tx, activeOnly bool) ([]*models.Testimonial, error)
	GetByID(ctx context.Context, tx pgx.Tx, id string) (*models.Testimonial, error)
	Create(ctx context.Context, tx pgx.Tx, t *models.Testimonial) error
	Update(ctx context.Context, tx pgx.Tx, t *models.Testimonial) error
	Delete(ctx context.Context, tx pgx.Tx, id string) error
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

func (r *repository) List(ctx context.Context, tx pgx.Tx, activeOnly bool) ([]*models.Testimonial, error) {
	rows, err := driver.Use(r.conn, tx).Query(ctx, `
		SELECT id, name, role, text, active, created_at FROM testimonials
		WHERE active OR NOT $1
		ORDER BY created_at DESC`, activeOnly)
	if err != nil {
		r.logger.Error("Failed to list testimonials", zap.Error(err))
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}

	testimonials, err := pgx.CollectRows(rows, scanTestimonial)
	if err != nil {
		r.logger.Error("Failed to scan testimonials", zap.Error(err))
		return nil, fmt.Errorf("failed to scan testimonials: %w", err)
	}
	return testimonials, nil
}

func (r *repository) GetByID(ctx context.Context, tx pgx.Tx, id string) (*models.Testimonial, error) {
	rows, err := driver.Use(r.conn, tx).Query(ctx,
		`SELECT id, name, role, text, active, created_at FROM testimonials WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to get testimonial", zap.String("testimonial_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get testimonial: %w", err)
	}

	t, err := pgx.CollectExactlyOneRow(rows, scanTestimonial)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to scan testimonial", zap.String("testimonial_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to scan testimonial: %w", err)
	}
	return t, nil
}

func (r *repository) Create(ctx context.Context, tx pgx.Tx, t *models.Testimonial) error {
	err := driver.Use(r.conn, tx).QueryRow(ctx, `
		INSERT INTO testimonials (id, name, role, text, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		t.ID, t.Name, t.Role, t.Text, t.Active,
	).Scan(&t.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create testimonial", zap.Error(err))
		return fmt.Errorf("failed to create testimonial: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, tx pgx.Tx, t *models.Testimonial) error {
	tag, err := driver.Use(r.conn, tx).Exec(ctx,
		`UPDATE testimonials SET name = $2, role = $3, text = $4, active = $5 WHERE id = $1`,
		t.ID, t.Name, t.Role, t.Text, t.Active)
	if err != nil {
		r.logger.Error("Failed to update testimonial", zap.String("testimonial_id", t.ID), zap.Error(err))
		return fmt.Errorf("failed to update testimonial: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	tag, err := driver.Use(r.conn, tx).Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete testimonial", zap.String("testimonial_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete testimonial: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTestimonial(row pgx.CollectableRow) (*models.Testimonial, error) {
	var t models.Testimonial
	err := row.Scan(&t.ID, &t.Name, &t.Role, &t.Text, &t.Active, &t.CreatedAt)
	return &t, err
}
