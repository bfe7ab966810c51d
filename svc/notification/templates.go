package notification

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// renderedEmail is a fully rendered transactional email.
type renderedEmail struct {
	Subject string
	HTML    string
}

const (
	dateLayout     = "January 2, 2006"
	dateTimeLayout = "January 2, 2006 3:04 PM"
)

// Each template renders only the message body; renderEmail wraps it in the
// shared page chrome.
var emailTemplates = template.Must(template.New("emails").Parse(`
{{define "welcome-body"}}<h2>Welcome, {{.Name}}!</h2>
<p>Thank you for joining our membership platform.</p>
<p>Your account has been created successfully with email: <strong>{{.Email}}</strong></p>
<p>You can now log in to your dashboard and manage your subscriptions.</p>
<p>If you have any questions, please contact our support team.</p>{{end}}

{{define "activation-body"}}<h2>Subscription Activated!</h2>
<p>Hi {{.Name}},</p>
<p>Your subscription to <strong>{{.PlanName}}</strong> has been successfully activated.</p>
<div style="background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
<p><strong>Plan:</strong> {{.PlanName}}</p>
<p><strong>Price:</strong> {{.Currency}} {{.Price}}</p>
<p><strong>Start Date:</strong> {{.StartDate}}</p>
</div>
<p>Access your dashboard to view all details and manage your subscription.</p>{{end}}

{{define "renewal-reminder-body"}}<h2>Subscription Renewal Reminder</h2>
<p>Hi {{.Name}},</p>
<p>This is a friendly reminder that your <strong>{{.PlanName}}</strong> subscription will renew on:</p>
<p style="font-size: 18px; font-weight: bold; color: #007bff;">{{.RenewalDate}}</p>
<p>Please ensure your payment method is up to date to avoid any interruption in service.</p>
<p>Visit your dashboard to manage your subscription settings.</p>{{end}}

{{define "cancellation-body"}}<h2>Subscription Cancelled</h2>
<p>Hi {{.Name}},</p>
<p>Your <strong>{{.PlanName}}</strong> subscription has been cancelled as requested.</p>
<p>You will lose access to the subscription benefits at the end of your current billing period.</p>
<p>If you'd like to reactivate your subscription, you can do so anytime from your dashboard.</p>
<p>If you have any feedback or concerns, please contact our support team.</p>{{end}}

{{define "invoice-body"}}<h2>New Invoice Generated</h2>
<p>Hi {{.Name}},</p>
<p>A new invoice has been generated for your account.</p>
<div style="background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
<p><strong>Invoice ID:</strong> {{.InvoiceID}}</p>
<p><strong>Amount:</strong> {{.Currency}} {{.Amount}}</p>
<p><strong>Due Date:</strong> {{.DueDate}}</p>
</div>
<p>Please process the payment to avoid service interruption.</p>{{end}}

{{define "payment-confirmation-body"}}<h2>Payment Received</h2>
<p>Hi {{.Name}},</p>
<p>Thank you! We have successfully received your payment.</p>
<div style="background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
<p><strong>Transaction ID:</strong> {{.TransactionID}}</p>
<p><strong>Amount:</strong> {{.Currency}} {{.Amount}}</p>
<p><strong>Date:</strong> {{.Date}}</p>
</div>
<p>Your account has been updated and all benefits are active.</p>{{end}}

{{define "suspension-body"}}<h2 style="color: #d9534f;">Account Suspended</h2>
<p>Hi {{.Name}},</p>
<p>Your account has been suspended due to the following reason:</p>
<p><strong>{{.Reason}}</strong></p>
<p>Please contact our support team immediately to resolve this issue.</p>
<p>We will be happy to help you get back on track.</p>{{end}}

{{define "admin-alert-body"}}<h2 style="color: #d9534f;">{{.Subject}}</h2>
<p>{{.Message}}</p>
<p>Please log in to your admin dashboard to take action.</p>{{end}}
`))

func renderEmail(bodyTemplate, subject string, data any) (renderedEmail, error) {
	var body strings.Builder
	if err := emailTemplates.ExecuteTemplate(&body, bodyTemplate, data); err != nil {
		return renderedEmail{}, fmt.Errorf("render %s: %w", bodyTemplate, err)
	}

	var page strings.Builder
	page.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	page.WriteString(body.String())
	page.WriteString(`<hr /><p style="color: #666; font-size: 12px;">&copy; 2025 Membercore. All rights reserved.</p></div>`)

	return renderedEmail{Subject: subject, HTML: page.String()}, nil
}

func welcomeEmail(name, emailAddr string) (renderedEmail, error) {
	return renderEmail("welcome-body", "Welcome to Membercore", struct {
		Name, Email string
	}{name, emailAddr})
}

func activationEmail(name, planName string, price float64, currency string, startDate time.Time) (renderedEmail, error) {
	return renderEmail("activation-body",
		fmt.Sprintf("Your %s Subscription is Active", planName),
		struct {
			Name, PlanName, Currency, Price, StartDate string
		}{name, planName, currency, formatAmount(price), startDate.Format(dateLayout)})
}

func renewalReminderEmail(name, planName string, renewalDate time.Time) (renderedEmail, error) {
	return renderEmail("renewal-reminder-body",
		fmt.Sprintf("Reminder: Your %s subscription renews soon", planName),
		struct {
			Name, PlanName, RenewalDate string
		}{name, planName, renewalDate.Format(dateLayout)})
}

func cancellationEmail(name, planName string) (renderedEmail, error) {
	return renderEmail("cancellation-body",
		fmt.Sprintf("%s Subscription Cancelled", planName),
		struct {
			Name, PlanName string
		}{name, planName})
}

func invoiceEmail(name, invoiceID string, amount float64, currency string, dueDate time.Time) (renderedEmail, error) {
	return renderEmail("invoice-body",
		fmt.Sprintf("Invoice #%s - Payment Due", invoiceID),
		struct {
			Name, InvoiceID, Currency, Amount, DueDate string
		}{name, invoiceID, currency, formatAmount(amount), dueDate.Format(dateLayout)})
}

func paymentConfirmationEmail(name string, amount float64, currency, transactionID string, date time.Time) (renderedEmail, error) {
	return renderEmail("payment-confirmation-body",
		fmt.Sprintf("Payment Confirmation - Transaction #%s", transactionID),
		struct {
			Name, TransactionID, Currency, Amount, Date string
		}{name, transactionID, currency, formatAmount(amount), date.Format(dateTimeLayout)})
}

func suspensionEmail(name, reason string) (renderedEmail, error) {
	return renderEmail("suspension-body", "Account Suspended", struct {
		Name, Reason string
	}{name, reason})
}

func adminAlertEmail(subject, message string) (renderedEmail, error) {
	return renderEmail("admin-alert-body",
		fmt.Sprintf("[ADMIN ALERT] %s", subject),
		struct {
			Subject, Message string
		}{subject, message})
}

func formatAmount(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
