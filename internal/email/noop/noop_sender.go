package noop

import (
	"context"
	"log"

	"tradebook/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs invoice links to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendInvoiceEmail(_ context.Context, toEmail, toName string, inv port.InvoiceEmail) error {
	log.Printf("[NOOP EMAIL] Invoice %s (%s) for %s (%s): total %s, carry forward %s, %s",
		inv.InvoiceNumber, inv.FirmName, toName, toEmail, inv.GrandTotal, inv.CarryForward, inv.InvoiceURL)
	return nil
}
