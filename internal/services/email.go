package services

import (
	"context"
	"fmt"

	"studysync/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendWelcomeMessage sends the signup welcome email using the "welcome" template.
func (s *emailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome message data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("welcome", data)
	if err != nil {
		return fmt.Errorf("render welcome template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	return nil
}

// SendSessionInvite sends the participant invitation email using the "session_invite" template.
func (s *emailService) SendSessionInvite(ctx context.Context, data *domain.SessionInviteEmailData) error {
	if data == nil {
		return fmt.Errorf("session invite data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("session_invite", data)
	if err != nil {
		return fmt.Errorf("render session_invite template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send session invite email: %w", err)
	}
	return nil
}
