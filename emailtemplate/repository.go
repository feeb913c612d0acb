package emailtemplate

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/atelier/driver"
	"goflare.io/atelier/models"
	"goflare.io/atelier/models/enum"
)

var ErrNotFound = errors.New("email template not found")

var _ Repository = (*repository)(nil)

type Repository interface {
	List(ctx context.Context, tx pgx.Tx) ([]*models.EmailTemplate, error)
	GetByType(ctx context.Context, tx pgx.Tx, templateType enum.EmailTemplateType) (*models.EmailTemplate, error)
	Upsert(ctx context.Context, tx pgx.Tx, template *models.EmailTemplate) error
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

func (r *repository) List(ctx context.Context, tx pgx.Tx) ([]*models.EmailTemplate, error) {
	rows, err := driver.Use(r.conn, tx).Query(ctx,
		`SELECT id, template_type, subject, html_content, updated_at FROM email_templates ORDER BY template_type`)
	if err != nil {
		r.logger.Error("Failed to list email templates", zap.Error(err))
		return nil, fmt.Errorf("failed to list email templates: %w", err)
	}

	templates, err := pgx.CollectRows(rows, scanTemplate)
	if err != nil {
		r.logger.Error("Failed to scan email templates", zap.Error(err))
		return nil, fmt.Errorf("failed to scan email templates: %w", err)
	}
	return templates, nil
}

func (r *repository) GetByType(ctx context.Context, tx pgx.Tx, templateType enum.EmailTemplateType) (*models.EmailTemplate, error) {
	rows, err := driver.Use(r.conn, tx).Query(ctx,
		`SELECT id, template_type, subject, html_content, updated_at FROM email_templates WHERE template_type = $1`,
		string(templateType))
	if err != nil {
		r.logger.Error("Failed to get email template", zap.String("template_type", string(templateType)), zap.Error(err))
		return nil, fmt.Errorf("failed to get email template: %w", err)
	}

	template, err := pgx.CollectExactlyOneRow(rows, scanTemplate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to scan email template", zap.String("template_type", string(templateType)), zap.Error(err))
		return nil, fmt.Errorf("failed to scan email template: %w", err)
	}
	return template, nil
}

// Upsert stores template as the one used for its type.
func (r *repository) Upsert(ctx context.Context, tx pgx.Tx, template *models.EmailTemplate) error {
	err := driver.Use(r.conn, tx).QueryRow(ctx, `
		INSERT INTO email_templates (id, template_type, subject, html_content, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (template_type)
		DO UPDATE SET subject = EXCLUDED.subject, html_content = EXCLUDED.html_content, updated_at = now()
		RETURNING id, updated_at`,
		template.ID, string(template.Type), template.Subject, template.HTMLContent,
	).Scan(&template.ID, &template.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to save email template", zap.String("template_type", string(template.Type)), zap.Error(err))
		return fmt.Errorf("failed to save email template: %w", err)
	}
	return nil
}

func scanTemplate(row pgx.CollectableRow) (*models.EmailTemplate, error) {
	var (
		t            models.EmailTemplate
		templateType string
	)
	if err := row.Scan(&t.ID, &templateType, &t.Subject, &t.HTMLContent, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Type = enum.EmailTemplateType(templateType)
	return &t, nil
}
