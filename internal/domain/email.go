package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeEmailData holds data for the signup welcome email.
type WelcomeEmailData struct {
	Email    string
	Username string
}

// EventCancelledEmailData holds data for the cancellation notice sent to
// users who had favorited a deleted event.
type EventCancelledEmailData struct {
	Email     string
	Username  string
	EventName string
	StartTime string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcome(ctx context.Context, data *WelcomeEmailData) error
	SendEventCancelled(ctx context.Context, data *EventCancelledEmailData) error
}
