package domain

import "context"

// Attachment is an optional file attached to an outgoing email.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
	SendWithAttachment(to, subject, html, text string, att Attachment) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RegistrationEmailData holds data shared by registration lifecycle emails.
type RegistrationEmailData struct {
	Email            string
	Name             string
	EventTitle       string
	EventStart       string
	EventLocation    string
	ConfirmationCode string
	Waitlisted       bool
}

// EventCancelledEmailData holds data for the event cancellation email.
type EventCancelledEmailData struct {
	Email      string
	Name       string
	EventTitle string
	Reason     string
}

// ScheduleChangeEmailData holds data for the schedule-change email; the
// refreshed calendar file is attached separately.
type ScheduleChangeEmailData struct {
	Email      string
	Name       string
	EventTitle string
	NewStart   string
	NewEnd     string
}

// EmailService defines the contract for sending domain-level emails. All of
// these are dispatched fire-and-forget by the services: a failure is logged
// and counted, never returned to the operation that triggered it.
type EmailService interface {
	SendRegistrationConfirmation(ctx context.Context, data *RegistrationEmailData) error
	SendWaitlistJoined(ctx context.Context, data *RegistrationEmailData) error
	SendWaitlistPromoted(ctx context.Context, data *RegistrationEmailData) error
	SendRegistrationCancelled(ctx context.Context, data *RegistrationEmailData) error
	SendEventCancelled(ctx context.Context, data *EventCancelledEmailData) error
	SendScheduleChange(ctx context.Context, data *ScheduleChangeEmailData, calendar []byte) error
}
