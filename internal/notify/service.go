package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/heralf/legal-leads/internal/leads"
	"github.com/heralf/legal-leads/pkg/logging"
)

// Service emails the firm whenever a new lead is captured. It implements
// leads.Notifier; submission handling treats failures here as best effort.
type Service struct {
	email       EmailSender
	notifyEmail string
	logger      *logging.Logger
}

// NewService creates a notification service. A nil sender or empty recipient
// turns notifications into no-ops.
func NewService(email EmailSender, notifyEmail string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:       email,
		notifyEmail: notifyEmail,
		logger:      logger,
	}
}

// NotifyNewLead sends a summary of the captured lead to the firm inbox.
func (s *Service) NotifyNewLead(ctx context.Context, lead *leads.Lead) error {
	if s.email == nil || s.notifyEmail == "" {
		s.logger.Debug("notify: email not configured, skipping lead notification")
		return nil
	}
	if lead == nil {
		return fmt.Errorf("notify: nil lead")
	}

	msg := EmailMessage{
		To:      s.notifyEmail,
		Subject: fmt.Sprintf("Nueva solicitud legal: %s (%s)", lead.Name, lead.ServiceType),
		Body:    leadSummary(lead),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("notify: lead notification failed", "error", err, "lead_id", lead.ID)
		return fmt.Errorf("notify: send lead notification: %w", err)
	}
	s.logger.Info("lead notification sent", "lead_id", lead.ID, "to", s.notifyEmail)
	return nil
}

func leadSummary(lead *leads.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Se recibió una nueva solicitud desde el formulario web.\n\n")
	fmt.Fprintf(&b, "ID: %s\n", lead.ID)
	fmt.Fprintf(&b, "Nombre: %s\n", lead.Name)
	fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	fmt.Fprintf(&b, "Teléfono: %s\n", lead.Phone)
	fmt.Fprintf(&b, "Servicio: %s\n", lead.ServiceType)
	fmt.Fprintf(&b, "Descripción: %s\n", lead.Description)
	fmt.Fprintf(&b, "Fecha: %s\n", lead.CreatedAt)
	return b.String()
}

var _ leads.Notifier = (*Service)(nil)
