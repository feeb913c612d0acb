// Package emailtemplate stores the backoffice-editable notification emails and
// falls back to built-in ones for types that were never edited.
package emailtemplate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"goflare.io/atelier/models"
	"goflare.io/atelier/models/enum"
)

var ErrInvalid = errors.New("invalid email template")

type Service interface {
	List(ctx context.Context) ([]*models.EmailTemplate, error)
	Get(ctx context.Context, templateType enum.EmailTemplateType) (*models.EmailTemplate, error)
	Update(ctx context.Context, template *models.EmailTemplate) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger,
	}
}

// List returns one template per type, stored ones first choice.
func (s *service) List(ctx context.Context) ([]*models.EmailTemplate, error) {
	stored, err := s.repo.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	byType := make(map[enum.EmailTemplateType]*models.EmailTemplate, len(stored))
	for _, t := range stored {
		byType[t.Type] = t
	}

	templates := make([]*models.EmailTemplate, 0, len(enum.EmailTemplateTypes()))
	for _, templateType := range enum.EmailTemplateTypes() {
		if t, ok := byType[templateType]; ok {
			templates = append(templates, t)
			continue
		}
		t, _ := Default(templateType)
		templates = append(templates, t)
	}
	return templates, nil
}

// Get never fails for a known type: a lookup error degrades to the default.
func (s *service) Get(ctx context.Context, templateType enum.EmailTemplateType) (*models.EmailTemplate, error) {
	if !templateType.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalid, templateType)
	}

	t, err := s.repo.GetByType(ctx, nil, templateType)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, ErrNotFound) {
		s.logger.Warn("Failed to load email template, using default",
			zap.String("template_type", string(templateType)), zap.Error(err))
	}

	t, _ = Default(templateType)
	return t, nil
}

func (s *service) Update(ctx context.Context, template *models.EmailTemplate) error {
	if !template.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalid, template.Type)
	}
	template.Subject = strings.TrimSpace(template.Subject)
	if template.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalid)
	}
	if strings.TrimSpace(template.HTMLContent) == "" {
		return fmt.Errorf("%w: html content is required", ErrInvalid)
	}
	if template.ID == "" {
		template.ID = uuid.NewString()
	}

	return s.repo.Upsert(ctx, nil, template)
}
