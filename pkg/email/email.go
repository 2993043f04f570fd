package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// InvoiceIssuedData carries the fields rendered into an issued-invoice email
type InvoiceIssuedData struct {
	CustomerName string
	InvoiceNo    string
	IssueDate    string
	DueDate      string
	Currency     string
	Total        string
}

// SendInvoiceIssued notifies the customer that an invoice has been issued
func (s *EmailService) SendInvoiceIssued(toEmail string, data InvoiceIssuedData) error {
	htmlContent, err := s.renderInvoiceIssued(data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Invoice %s from SkipWorks", data.InvoiceNo)
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)

	return s.sendEmail(toEmail, message)
}

// InvoiceReminderData carries the fields rendered into a payment reminder
type InvoiceReminderData struct {
	CustomerName string
	InvoiceNo    string
	DueDate      string
	Currency     string
	Balance      string
	Overdue      bool
}

// SendInvoiceReminder sends a payment reminder for an outstanding invoice
func (s *EmailService) SendInvoiceReminder(toEmail string, data InvoiceReminderData) error {
	htmlContent, err := s.renderInvoiceReminder(data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Payment Reminder - Invoice %s", data.InvoiceNo)
	if data.Overdue {
		subject = fmt.Sprintf("Overdue Invoice %s - Payment Required", data.InvoiceNo)
	}
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)

	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)

	return []byte(headers + htmlBody)
}

// renderInvoiceIssued renders the issued-invoice email template
func (s *EmailService) renderInvoiceIssued(data InvoiceIssuedData) (string, error) {
	tmpl, err := template.New("invoice_issued").Parse(invoiceIssuedTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// renderInvoiceReminder renders the invoice reminder email template
func (s *EmailService) renderInvoiceReminder(data InvoiceReminderData) (string, error) {
	tmpl, err := template.New("invoice_reminder").Parse(invoiceReminderTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

const invoiceIssuedTemplate = `
<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; color: #333; margin: 0; padding: 0;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2c3e50;">Invoice {{.InvoiceNo}}</h2>
    <p>Dear {{.CustomerName}},</p>
    <p>Invoice <strong>{{.InvoiceNo}}</strong> was issued on <strong>{{.IssueDate}}</strong>
    and is payable by <strong>{{.DueDate}}</strong>.</p>
    <table style="border-collapse: collapse; margin: 20px 0;">
      <tr>
        <td style="padding: 8px 16px 8px 0; color: #7f8c8d;">Amount due</td>
        <td style="padding: 8px 0; font-weight: bold;">{{.Currency}} {{.Total}}</td>
      </tr>
    </table>
    <p>Please quote the invoice number with your payment.</p>
    <p style="color: #7f8c8d; font-size: 12px; margin-top: 30px;">
      This is an automated message, please do not reply directly to this email.
    </p>
  </div>
</body>
</html>
`

const invoiceReminderTemplate = `
<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; color: #333; margin: 0; padding: 0;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2c3e50;">{{if .Overdue}}Overdue Invoice{{else}}Payment Reminder{{end}}</h2>
    <p>Dear {{.CustomerName}},</p>
    {{if .Overdue}}
    <p>Our records show that invoice <strong>{{.InvoiceNo}}</strong> was due on
    <strong>{{.DueDate}}</strong> and remains unpaid.</p>
    {{else}}
    <p>This is a friendly reminder that invoice <strong>{{.InvoiceNo}}</strong> is due on
    <strong>{{.DueDate}}</strong>.</p>
    {{end}}
    <table style="border-collapse: collapse; margin: 20px 0;">
      <tr>
        <td style="padding: 8px 16px 8px 0; color: #7f8c8d;">Outstanding balance</td>
        <td style="padding: 8px 0; font-weight: bold;">{{.Currency}} {{.Balance}}</td>
      </tr>
    </table>
    <p>If you have already made this payment, please disregard this message.</p>
    <p style="color: #7f8c8d; font-size: 12px; margin-top: 30px;">
      This is an automated message, please do not reply directly to this email.
    </p>
  </div>
</body>
</html>
`
