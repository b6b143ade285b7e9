// Package notify implements best-effort delivery of customer and supervisor
// messages. Every attempt is logged locally; when a webhook or SMTP channel is
// configured, delivery is tried once with a bounded timeout. Failures are
// swallowed so notification can never fail the operation that triggered it.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/frontdesk/frontdesk/pkg/config"
	"github.com/frontdesk/frontdesk/pkg/helpdesk"
	"github.com/frontdesk/frontdesk/pkg/mail"
	"github.com/frontdesk/frontdesk/pkg/metrics"
)

// SupervisorDirectory resolves the supervisor to email on escalation.
type SupervisorDirectory interface {
	DefaultSupervisor(ctx context.Context) (*helpdesk.Supervisor, error)
}

// Service implements helpdesk.NotificationPort.
type Service struct {
	log           *zap.SugaredLogger
	client        *resty.Client
	webhookURL    string
	mailQueue     *mail.Queue // nil when SMTP is not configured
	directory     SupervisorDirectory
	fallbackEmail string
	branding      string
}

// customerPayload is the webhook body for customer messages.
type customerPayload struct {
	To      string `json:"to"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// supervisorPayload is the webhook body for supervisor escalations.
type supervisorPayload struct {
	Message string `json:"message"`
}

// NewService creates the notification service. mailQueue may be nil when no
// SMTP host is configured, directory may be nil when no supervisor lookup is
// available.
func NewService(cfg config.Config, mailQueue *mail.Queue, directory SupervisorDirectory, log *zap.SugaredLogger) *Service {
	timeout := cfg.WebhookTimeout()
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		log:           log.Named("notify"),
		client:        resty.New().SetTimeout(timeout),
		webhookURL:    cfg.Notifications.WebhookURL,
		mailQueue:     mailQueue,
		directory:     directory,
		fallbackEmail: cfg.Notifications.SupervisorEmail,
		branding:      cfg.Frontend.BrandingName,
	}
}

// NotifyCustomer records the message and attempts webhook delivery when
// configured.
func (s *Service) NotifyCustomer(ctx context.Context, recipient helpdesk.Caller, message string) {
	s.log.Infow("[NOTIFY:CUSTOMER]", "to", recipient.Phone, "message", message)
	metrics.NotificationsSent.WithLabelValues("log", "ok").Inc()

	s.postWebhook(ctx, customerPayload{
		To:      recipient.Phone,
		Name:    recipient.Name,
		Message: message,
	})
}

// NotifySupervisor records the escalation and attempts webhook and email
// delivery when configured.
func (s *Service) NotifySupervisor(ctx context.Context, req helpdesk.HelpRequest) {
	content := fmt.Sprintf("Hey, I need help answering: %q (request_id=%d)", req.QuestionText, req.ID)
	s.log.Infow("[NOTIFY:SUPERVISOR]", "message", content)
	metrics.NotificationsSent.WithLabelValues("log", "ok").Inc()

	s.postWebhook(ctx, supervisorPayload{Message: content})
	s.sendEscalationMail(ctx, req)
}

// supervisorAddress prefers the address on the supervisor row and falls back
// to the configured one. Empty when neither exists.
func (s *Service) supervisorAddress(ctx context.Context) string {
	if s.directory != nil {
		supervisor, err := s.directory.DefaultSupervisor(ctx)
		if err != nil {
			s.log.Errorw("Supervisor lookup failed", "error", err)
		} else if supervisor != nil && supervisor.Email != "" {
			return supervisor.Email
		}
	}
	return s.fallbackEmail
}

func (s *Service) postWebhook(ctx context.Context, payload any) {
	if s.webhookURL == "" {
		return
	}
	_, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(s.webhookURL)
	if err != nil {
		s.log.Errorw("Webhook delivery failed", "url", s.webhookURL, "error", err)
		metrics.NotificationsSent.WithLabelValues("webhook", "error").Inc()
		return
	}
	metrics.NotificationsSent.WithLabelValues("webhook", "ok").Inc()
}

func (s *Service) sendEscalationMail(ctx context.Context, req helpdesk.HelpRequest) {
	if s.mailQueue == nil {
		return
	}
	address := s.supervisorAddress(ctx)
	if address == "" {
		s.log.Warnw("No supervisor email address available, skipping mail", "requestID", req.ID)
		return
	}

	subject, body, err := mail.RenderEscalationMail(mail.EscalationMailParams{
		RequestID:    req.ID,
		Question:     req.QuestionText,
		CreatedAt:    req.CreatedAt.Format(time.RFC3339),
		TimeoutAt:    req.TimeoutAt.Format(time.RFC3339),
		BrandingName: s.branding,
	})
	if err != nil {
		s.log.Errorw("Failed to render escalation mail", "requestID", req.ID, "error", err)
		return
	}

	id := fmt.Sprintf("request-%d", req.ID)
	if err := s.mailQueue.Enqueue(id, []string{address}, subject, body); err != nil {
		s.log.Errorw("Failed to enqueue escalation mail", "requestID", req.ID, "error", err)
		metrics.NotificationsSent.WithLabelValues("mail", "error").Inc()
		return
	}
	metrics.NotificationsSent.WithLabelValues("mail", "ok").Inc()
}
