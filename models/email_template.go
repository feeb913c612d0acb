package models

import (
	"time"

	"goflare.io/atelier/models/enum"
)

// EmailTemplate is an admin-editable email body stored per template type.
type EmailTemplate struct {
	ID          string                 `json:"id"`
	Type        enum.EmailTemplateType `json:"template_type"`
	Subject     string                 `json:"subject"`
	HTMLContent string                 `json:"html_content"`
	UpdatedAt   time.Time              `json:"updated_at"`
}
