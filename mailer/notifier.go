package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"goflare.io/atelier/models"
	"goflare.io/atelier/models/enum"
)

// TemplateSource resolves the template used for a notification type.
type TemplateSource interface {
	Get(ctx context.Context, templateType enum.EmailTemplateType) (*models.EmailTemplate, error)
}

// Notifier sends the two emails of a placed order: one to the store, one to
// the customer.
type Notifier struct {
	sender     Sender
	templates  TemplateSource
	storeEmail string
	logger     *zap.Logger
}

func NewNotifier(sender Sender, templates TemplateSource, storeEmail string, logger *zap.Logger) *Notifier {
	return &Notifier{
		sender:     sender,
		templates:  templates,
		storeEmail: storeEmail,
		logger:     logger,
	}
}

func (n *Notifier) NotifyStore(ctx context.Context, order *models.Order) error {
	return n.send(ctx, enum.EmailTemplateCartOrderStore, n.storeEmail, order)
}

func (n *Notifier) NotifyCustomer(ctx context.Context, order *models.Order) error {
	return n.send(ctx, enum.EmailTemplateCartOrderCustomer, order.CustomerEmail, order)
}

func (n *Notifier) send(ctx context.Context, templateType enum.EmailTemplateType, to string, order *models.Order) error {
	tmpl, err := n.templates.Get(ctx, templateType)
	if err != nil {
		return fmt.Errorf("failed to get %s template: %w", templateType, err)
	}

	subject, body := Render(tmpl, order, OrderDetails(order))
	if err := n.sender.Send(ctx, Message{To: to, Subject: subject, HTML: body}); err != nil {
		n.logger.Error("Failed to send order email",
			zap.String("order_id", order.ID),
			zap.String("template_type", string(templateType)),
			zap.Error(err))
		return fmt.Errorf("failed to send %s email: %w", templateType, err)
	}
	return nil
}
