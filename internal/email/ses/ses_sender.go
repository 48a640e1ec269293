package ses

import (
	"context"
	"fmt"
	"html"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"tradebook/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendInvoiceEmail(ctx context.Context, toEmail, toName string, inv port.InvoiceEmail) error {
	subject := fmt.Sprintf("Invoice %s from %s", inv.InvoiceNumber, inv.FirmName)
	htmlBody := BuildInvoiceHTML(toName, inv)
	textBody := BuildInvoiceText(toName, inv)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

// BuildInvoiceText renders the plain-text invoice notification.
func BuildInvoiceText(name string, inv port.InvoiceEmail) string {
	return fmt.Sprintf("Dear %s,\n\nPlease find your invoice %s from %s.\n\nInvoice total: Rs. %s\nBalance carried forward: Rs. %s\n\nDownload: %s\n\n%s",
		name, inv.InvoiceNumber, inv.FirmName, inv.GrandTotal, inv.CarryForward, inv.InvoiceURL, inv.FirmName)
}

// BuildInvoiceHTML renders the HTML invoice notification.
func BuildInvoiceHTML(name string, inv port.InvoiceEmail) string {
	e := html.EscapeString
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">%s</h2>
  <p>Dear %s,</p>
  <p>Please find your invoice <strong>%s</strong> below.</p>
  <table style="border-collapse: collapse; margin: 20px 0;">
    <tr><td style="padding: 4px 12px;">Invoice total</td><td style="padding: 4px 12px; text-align: right;">Rs. %s</td></tr>
    <tr><td style="padding: 4px 12px; color: #b91c1c;">Balance carried forward</td><td style="padding: 4px 12px; text-align: right; color: #b91c1c;">Rs. %s</td></tr>
  </table>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Download Invoice</a>
  </p>
  <p style="color: #999; font-size: 12px;">The download link expires after a while. Ask us for a fresh copy if it has.</p>
</body>
</html>`, e(inv.FirmName), e(name), e(inv.InvoiceNumber), e(inv.GrandTotal), e(inv.CarryForward), e(inv.InvoiceURL))
}
