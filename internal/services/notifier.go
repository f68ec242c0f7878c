package services

import (
	"context"
	"fmt"
	"html"
	"time"

	"IndoHomz/internal/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Notifier tells the sales team about new leads.
type Notifier interface {
	NewLead(ctx context.Context, lead *models.Lead, prop *models.Property) error
}

// NopNotifier is used when no mail provider is configured.
type NopNotifier struct{}

func (NopNotifier) NewLead(context.Context, *models.Lead, *models.Property) error { return nil }

const leadEmailHTML = `<!DOCTYPE html>
<html>
<body style="font-family: monospace; line-height: 1.5;">
  <h2>New lead from %s</h2>
  <ul style="list-style: none; padding: 0;">
    <li><strong>Name:</strong> %s</li>
    <li><strong>Phone:</strong> %s</li>
    <li><strong>Email:</strong> %s</li>
    <li><strong>Property:</strong> %s</li>
    <li><strong>Message:</strong> %s</li>
    <li><strong>Received (UTC):</strong> %s</li>
  </ul>
</body>
</html>`

type sendgridNotifier struct {
	appName string
	from    string
	to      string
	send    func(*mail.SGMailV3) (int, string, error)
}

// NewSendgridNotifier mails every new lead to the sales inbox.
func NewSendgridNotifier(apiKey, appName, from, to string) Notifier {
	client := sendgrid.NewSendClient(apiKey)
	return &sendgridNotifier{
		appName: appName,
		from:    from,
		to:      to,
		send: func(m *mail.SGMailV3) (int, string, error) {
			resp, err := client.Send(m)
			if err != nil {
				return 0, "", err
			}
			return resp.StatusCode, resp.Body, nil
		},
	}
}

func (n *sendgridNotifier) NewLead(_ context.Context, lead *models.Lead, prop *models.Property) error {
	propTitle := "-"
	if prop != nil {
		propTitle = prop.Title
	}
	email := lead.Email
	if email == "" {
		email = "-"
	}

	from := mail.NewEmail(n.appName+" Leads", n.from)
	to := mail.NewEmail(n.appName+" Sales", n.to)
	subject := fmt.Sprintf("[Lead][%s] %s", lead.Source, lead.Name)
	plain := fmt.Sprintf("New lead: %s, %s\nProperty: %s\n\n%s", lead.Name, lead.Phone, propTitle, lead.Message)
	body := fmt.Sprintf(leadEmailHTML,
		html.EscapeString(lead.Source),
		html.EscapeString(lead.Name),
		html.EscapeString(lead.Phone),
		html.EscapeString(email),
		html.EscapeString(propTitle),
		html.EscapeString(lead.Message),
		time.Now().UTC().Format(time.RFC1123Z),
	)

	status, respBody, err := n.send(mail.NewSingleEmail(from, subject, to, plain, body))
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", status, respBody)
	}
	return nil
}
