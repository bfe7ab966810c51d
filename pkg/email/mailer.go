// Package email provides the outbound email transport: a Postmark-backed
// sender for production and a file-based sender for local development. The
// notification service renders membership templates and hands the result to
// an EmailSender; it never talks to Postmark directly.
package email

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrFailedToSend  = errors.New("email: failed to send")
	ErrInvalidConfig = errors.New("email: invalid config")
	ErrInvalidParams = errors.New("email: invalid send params")
)

// EmailSender is the outbound transport contract.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams represents one outbound email.
type SendEmailParams struct {
	SendTo   string `json:"send_to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	Tag      string `json:"tag,omitempty"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Validate checks the params before handing them to a transport.
func (p SendEmailParams) Validate() error {
	if p.SendTo == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidParams)
	}
	if !emailRegex.MatchString(p.SendTo) {
		return fmt.Errorf("%w: recipient %q is not a valid email address", ErrInvalidParams, p.SendTo)
	}
	if p.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidParams)
	}
	if p.BodyHTML == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidParams)
	}
	return nil
}

// Config holds email transport configuration. Postmark tokens are optional
// so development environments can run with the file-based sender.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SupportEmail         string `env:"SUPPORT_EMAIL,required"`
	DevOutputDir         string `env:"EMAIL_DEV_OUTPUT_DIR" envDefault:"./tmp/emails"`
}
