package port

import "context"

// InvoiceEmail is the content of an invoice notification.
type InvoiceEmail struct {
	FirmName      string
	InvoiceNumber string
	GrandTotal    string
	CarryForward  string
	InvoiceURL    string
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendInvoiceEmail(ctx context.Context, toEmail, toName string, inv InvoiceEmail) error
}
