package ses_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tradebook/internal/email/ses"
	"tradebook/internal/port"
)

func TestBuildInvoiceHTML_EscapesFields(t *testing.T) {
	inv := port.InvoiceEmail{
		FirmName:      "DEV JYOTI TEXTILES",
		InvoiceNumber: "DJT/2025-26/0004",
		GrandTotal:    "1008.00",
		CarryForward:  "658.00",
		InvoiceURL:    "https://bucket.example/inv.pdf?a=1&b=2",
	}
	body := ses.BuildInvoiceHTML("<Ram & Sons>", inv)

	assert.Contains(t, body, "&lt;Ram &amp; Sons&gt;")
	assert.Contains(t, body, "DJT/2025-26/0004")
	assert.Contains(t, body, "Rs. 658.00")
	assert.Contains(t, body, "a=1&amp;b=2")
}

func TestBuildInvoiceText(t *testing.T) {
	inv := port.InvoiceEmail{
		FirmName:      "HIMANSHI TEXTILES",
		InvoiceNumber: "HT/2025-26/0010",
		GrandTotal:    "450.00",
		CarryForward:  "0.00",
		InvoiceURL:    "https://x/y.pdf",
	}
	text := ses.BuildInvoiceText("Sita", inv)

	assert.Contains(t, text, "Dear Sita,")
	assert.Contains(t, text, "Invoice total: Rs. 450.00")
	assert.Contains(t, text, "Download: https://x/y.pdf")
}
