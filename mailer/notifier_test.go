package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"goflare.io/atelier/models"
	"goflare.io/atelier/models/enum"
)

type fakeSender struct {
	sent []Message
	err  error
}

func (s *fakeSender) Send(_ context.Context, msg Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type staticTemplates struct{}

func (staticTemplates) Get(_ context.Context, templateType enum.EmailTemplateType) (*models.EmailTemplate, error) {
	return &models.EmailTemplate{
		Type:        templateType,
		Subject:     string(templateType),
		HTMLContent: "{{customer_name}}|{{total}}",
	}, nil
}

type brokenTemplates struct{}

func (brokenTemplates) Get(context.Context, enum.EmailTemplateType) (*models.EmailTemplate, error) {
	return nil, errors.New("unknown type")
}

func TestNotifier_NotifyStore(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(sender, staticTemplates{}, "store@example.com", zap.NewNop())

	require.NoError(t, n.NotifyStore(context.Background(), testOrder()))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "store@example.com", sender.sent[0].To)
	assert.Equal(t, string(enum.EmailTemplateCartOrderStore), sender.sent[0].Subject)
	assert.Equal(t, "Ana &lt;script&gt;|€128.00", sender.sent[0].HTML)
}

func TestNotifier_NotifyCustomer(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(sender, staticTemplates{}, "store@example.com", zap.NewNop())

	require.NoError(t, n.NotifyCustomer(context.Background(), testOrder()))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ana@example.com", sender.sent[0].To)
	assert.Equal(t, string(enum.EmailTemplateCartOrderCustomer), sender.sent[0].Subject)
}

func TestNotifier_Errors(t *testing.T) {
	order := testOrder()

	n := NewNotifier(&fakeSender{err: errors.New("smtp down")}, staticTemplates{}, "store@example.com", zap.NewNop())
	assert.ErrorContains(t, n.NotifyStore(context.Background(), order), "smtp down")

	n = NewNotifier(&fakeSender{}, brokenTemplates{}, "store@example.com", zap.NewNop())
	assert.Error(t, n.NotifyCustomer(context.Background(), order))
}

func TestNewSMTPSender(t *testing.T) {
	_, err := NewSMTPSender(SMTPConfig{Host: "", Port: 465}, zap.NewNop())
	assert.Error(t, err)

	sender, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "shop@example.com"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "shop@example.com", sender.from)

	msg, err := sender.message(Message{To: "ana@example.com", Subject: "Hi", HTML: "<p>Hi</p>"})
	require.NoError(t, err)
	assert.Len(t, msg.GetToString(), 1)

	_, err = sender.message(Message{To: "not an address", Subject: "Hi"})
	assert.Error(t, err)
}
