package email_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membercore/membership/pkg/email"
)

func TestSendEmailParamsValidate(t *testing.T) {
	t.Parallel()

	valid := email.SendEmailParams{
		SendTo:   "member@example.com",
		Subject:  "Subscription Activated",
		BodyHTML: "<p>hi</p>",
	}

	tests := []struct {
		name    string
		modify  func(*email.SendEmailParams)
		wantErr bool
	}{
		{name: "valid", modify: func(*email.SendEmailParams) {}},
		{name: "missing recipient", modify: func(p *email.SendEmailParams) { p.SendTo = "" }, wantErr: true},
		{name: "malformed recipient", modify: func(p *email.SendEmailParams) { p.SendTo = "not-an-email" }, wantErr: true},
		{name: "missing subject", modify: func(p *email.SendEmailParams) { p.Subject = "" }, wantErr: true},
		{name: "missing body", modify: func(p *email.SendEmailParams) { p.BodyHTML = "" }, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			params := valid
			tt.modify(&params)

			err := params.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, email.ErrInvalidParams)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewPostmarkSender(t *testing.T) {
	t.Parallel()

	t.Run("missing tokens", func(t *testing.T) {
		t.Parallel()

		_, err := email.NewPostmarkSender(email.Config{
			SenderEmail:  "noreply@example.com",
			SupportEmail: "support@example.com",
		})
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})

	t.Run("invalid sender address", func(t *testing.T) {
		t.Parallel()

		_, err := email.NewPostmarkSender(email.Config{
			PostmarkServerToken:  "server",
			PostmarkAccountToken: "account",
			SenderEmail:          "bogus",
			SupportEmail:         "support@example.com",
		})
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		sender, err := email.NewPostmarkSender(email.Config{
			PostmarkServerToken:  "server",
			PostmarkAccountToken: "account",
			SenderEmail:          "noreply@example.com",
			SupportEmail:         "support@example.com",
		})
		require.NoError(t, err)
		assert.NotNil(t, sender)
	})
}

func TestDevSender(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sender := email.NewDevSender(dir)

	err := sender.SendEmail(context.Background(), email.SendEmailParams{
		SendTo:   "member@example.com",
		Subject:  "Subscription Activated",
		BodyHTML: "<h1>Welcome</h1>",
		Tag:      "subscription-activated",
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var htmlFound, jsonFound bool
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".html":
			htmlFound = true
			body, err := os.ReadFile(filepath.Join(dir, e.Name()))
			require.NoError(t, err)
			assert.Contains(t, string(body), "Welcome")
		case ".json":
			jsonFound = true
		}
		assert.True(t, strings.Contains(e.Name(), "subscription-activated"))
	}
	assert.True(t, htmlFound)
	assert.True(t, jsonFound)
}
