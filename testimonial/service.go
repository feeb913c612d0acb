// Package testimonial manages the customer quotes shown on the storefront.
package testimonial

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/atelier/driver"
	"goflare.io/atelier/models"
)

var ErrInvalid = errors.New("invalid testimonial")

type Service interface {
	ListActive(ctx context.Context) ([]*models.Testimonial, error)
	List(ctx context.Context) ([]*models.Testimonial, error)
	Create(ctx context.Context, t *models.Testimonial) error
	Update(ctx context.Context, t *models.Testimonial) error
	Delete(ctx context.Context, id string) error
	ToggleActive(ctx context.Context, id string) (*models.Testimonial, error)
}

type service struct {
	repo   Repository
	tx     driver.SerializableTransactor
	logger *zap.Logger
}

func NewService(repo Repository, tx driver.SerializableTransactor, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		tx:     tx,
		logger: logger,
	}
}

// Validate trims t in place and checks the required fields.
func Validate(t *models.Testimonial) error {
	t.Name = strings.TrimSpace(t.Name)
	t.Role = strings.TrimSpace(t.Role)
	t.Text = strings.TrimSpace(t.Text)

	if t.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if t.Text == "" {
		return fmt.Errorf("%w: text is required", ErrInvalid)
	}
	return nil
}

func (s *service) ListActive(ctx context.Context) ([]*models.Testimonial, error) {
	return s.repo.List(ctx, nil, true)
}

func (s *service) List(ctx context.Context) ([]*models.Testimonial, error) {
	return s.repo.List(ctx, nil, false)
}

func (s *service) Create(ctx context.Context, t *models.Testimonial) error {
	if err := Validate(t); err != nil {
		return err
	}
	t.ID = uuid.NewString()
	return s.repo.Create(ctx, nil, t)
}

func (s *service) Update(ctx context.Context, t *models.Testimonial) error {
	if err := Validate(t); err != nil {
		return err
	}
	return s.repo.Update(ctx, nil, t)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, nil, id)
}

func (s *service) ToggleActive(ctx context.Context, id string) (*models.Testimonial, error) {
	var toggled *models.Testimonial
	err := s.tx.ExecuteSerializableTransaction(ctx, func(tx pgx.Tx) error {
		t, err := s.repo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		t.Active = !t.Active
		if err := s.repo.Update(ctx, tx, t); err != nil {
			return err
		}
		toggled = t
		return nil
	})
	return toggled, err
}
