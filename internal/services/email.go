package services

import (
	"context"
	"fmt"

	"advisorycms/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

func (s *emailService) send(templateName, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("render %s template: %w", templateName, err)
	}
	if err := s.mailer.Send(to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send %s email: %w", templateName, err)
	}
	return nil
}

func (s *emailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationEmailData) error {
	if data == nil {
		return fmt.Errorf("registration confirmation data is nil")
	}
	return s.send("registration_confirmed", data.Email, data)
}

func (s *emailService) SendWaitlistJoined(ctx context.Context, data *domain.RegistrationEmailData) error {
	if data == nil {
		return fmt.Errorf("waitlist joined data is nil")
	}
	return s.send("waitlist_joined", data.Email, data)
}

func (s *emailService) SendWaitlistPromoted(ctx context.Context, data *domain.RegistrationEmailData) error {
	if data == nil {
		return fmt.Errorf("waitlist promoted data is nil")
	}
	return s.send("waitlist_promoted", data.Email, data)
}

func (s *emailService) SendRegistrationCancelled(ctx context.Context, data *domain.RegistrationEmailData) error {
	if data == nil {
		return fmt.Errorf("registration cancelled data is nil")
	}
	return s.send("registration_cancelled", data.Email, data)
}

func (s *emailService) SendEventCancelled(ctx context.Context, data *domain.EventCancelledEmailData) error {
	if data == nil {
		return fmt.Errorf("event cancelled data is nil")
	}
	return s.send("event_cancelled", data.Email, data)
}

// SendScheduleChange attaches the refreshed calendar file when one was
// generated; without it the email still goes out.
func (s *emailService) SendScheduleChange(ctx context.Context, data *domain.ScheduleChangeEmailData, calendar []byte) error {
	if data == nil {
		return fmt.Errorf("schedule change data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("schedule_change", data)
	if err != nil {
		return fmt.Errorf("render schedule_change template: %w", err)
	}
	if len(calendar) == 0 {
		if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
			return fmt.Errorf("send schedule_change email: %w", err)
		}
		return nil
	}
	att := domain.Attachment{
		Filename:    "event.ics",
		ContentType: "text/calendar; charset=utf-8; method=PUBLISH",
		Content:     calendar,
	}
	if err := s.mailer.SendWithAttachment(data.Email, subject, htmlBody, textBody, att); err != nil {
		return fmt.Errorf("send schedule_change email: %w", err)
	}
	return nil
}
