package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tradebook/internal/billing"
	"tradebook/internal/csvexport"
	"tradebook/internal/domain"
	"tradebook/internal/service"
)

// OrderHandler handles sales invoice endpoints.
type OrderHandler struct {
	orderService service.OrderService
	now          func() time.Time
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, now: time.Now}
}

// Preview handles POST /api/v1/billing/preview
// @Summary Preview invoice totals
// @Description Compute line totals, invoice totals and carry forward for a draft without saving it. Blank rows are skipped.
// @Tags billing
// @Accept json
// @Produce json
// @Param request body billing.Draft true "Draft invoice"
// @Success 200 {object} Response{data=service.Preview} "Computed totals"
// @Failure 422 {object} ErrorResponseBody "Invalid quantity, price, percent or GST rate"
// @Security BearerAuth
// @Router /billing/preview [post]
func (h *OrderHandler) Preview(c *gin.Context) {
	var draft billing.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	preview, err := h.orderService.Preview(c.Request.Context(), draft)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, preview)
}

// Create handles POST /api/v1/orders
// @Summary Issue a sales invoice
// @Description Save an invoice under a firm. Assigns the next invoice number for the firm and financial year, decrements stock and updates the customer's pending balance to the carry forward.
// @Tags orders
// @Accept json
// @Produce json
// @Param request body service.CreateOrderInput true "Invoice"
// @Success 201 {object} Response{data=domain.Order} "Invoice created"
// @Failure 400 {object} ErrorResponseBody "Malformed request or unknown firm"
// @Failure 409 {object} ErrorResponseBody "Insufficient stock, or the customer balance kept changing"
// @Failure 422 {object} ErrorResponseBody "Field validation failed"
// @Security BearerAuth
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var input service.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, order)
}

func orderFilter(c *gin.Context) domain.OrderFilter {
	return domain.OrderFilter{
		Firm:   domain.Firm(strings.ToLower(strings.TrimSpace(c.Query("firm")))),
		Search: c.Query("search"),
		Phone:  c.Query("phone"),
	}
}

// List handles GET /api/v1/orders
// @Summary List invoices
// @Tags orders
// @Produce json
// @Param firm query string false "Firm code (devjyoti, himanshi, shreesai)"
// @Param search query string false "Invoice number or customer name"
// @Param phone query string false "Customer phone"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Order,meta=PagMeta} "Invoices, newest first"
// @Failure 400 {object} ErrorResponseBody "Unknown firm"
// @Security BearerAuth
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	offset, limit := pagination(c, 20, 100)

	orders, total, err := h.orderService.List(c.Request.Context(), orderFilter(c), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, orders, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "order")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, order)
}

// GetByInvoiceNumber handles GET /api/v1/orders/by-number?invoice_number=DJT/2025-26/0001
func (h *OrderHandler) GetByInvoiceNumber(c *gin.Context) {
	number := strings.TrimSpace(c.Query("invoice_number"))
	if number == "" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invoice_number query parameter is required")
		return
	}

	order, err := h.orderService.GetByInvoiceNumber(c.Request.Context(), number)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, order)
}

// Delete handles DELETE /api/v1/orders/:id
// @Summary Delete an invoice
// @Description Remove an invoice and its payments (admin only). Stock is restored and the balance change the invoice made is reversed.
// @Tags orders
// @Produce json
// @Param id path string true "Order ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Invoice deleted"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Security BearerAuth
// @Router /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "order")
	if !ok {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "order deleted"})
}

// ListPayments handles GET /api/v1/orders/:id/payments
func (h *OrderHandler) ListPayments(c *gin.Context) {
	id, ok := parseID(c, "order")
	if !ok {
		return
	}

	payments, err := h.orderService.ListPayments(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}

	RespondOK(c, payments)
}

// RecordPayment handles POST /api/v1/payments
// @Summary Record a payment
// @Description Record money received against an invoice. Reduces the invoice's carry forward and the customer's pending balance.
// @Tags orders
// @Accept json
// @Produce json
// @Param request body service.PaymentInput true "Payment"
// @Success 201 {object} Response{data=domain.Order} "Updated invoice"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Failure 422 {object} ErrorResponseBody "Amount must be positive"
// @Security BearerAuth
// @Router /payments [post]
func (h *OrderHandler) RecordPayment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var input service.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	order, err := h.orderService.RecordPayment(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, order)
}

// ExportCSV handles GET /api/v1/orders/export
// @Summary Export invoices as CSV
// @Description Download every invoice matching the filter as a spreadsheet-friendly CSV.
// @Tags orders
// @Produce text/csv
// @Param firm query string false "Firm code"
// @Param search query string false "Invoice number or customer name"
// @Param phone query string false "Customer phone"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} ErrorResponseBody "Unknown firm"
// @Security BearerAuth
// @Router /orders/export [get]
func (h *OrderHandler) ExportCSV(c *gin.Context) {
	filter := orderFilter(c)

	// Buffer so a failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := h.orderService.ExportCSV(c.Request.Context(), filter, &buf); err != nil {
		HandleError(c, err)
		return
	}

	name := "invoices"
	if filter.Firm != "" {
		name = string(filter.Firm) + "_invoices"
	}
	filename := csvexport.BuildFilename(name, "csv", h.now().In(domain.IST))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// PDF handles GET /api/v1/orders/:id/pdf
// @Summary Download invoice PDF
// @Tags orders
// @Produce application/pdf
// @Param id path string true "Order ID (UUID)"
// @Success 200 {file} file "Invoice PDF"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Security BearerAuth
// @Router /orders/{id}/pdf [get]
func (h *OrderHandler) PDF(c *gin.Context) {
	id, ok := parseID(c, "order")
	if !ok {
		return
	}

	data, order, err := h.orderService.RenderPDF(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.SanitizeFilename(order.InvoiceNumber) + ".pdf"
	disposition := "inline"
	if c.Query("download") == "true" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// Publish handles POST /api/v1/orders/:id/publish
// @Summary Publish invoice PDF
// @Description Store the invoice PDF in object storage, return a time-limited download link and email it to the customer when an address is on file.
// @Tags orders
// @Produce json
// @Param id path string true "Order ID (UUID)"
// @Success 200 {object} Response{data=service.PublishedInvoice} "Download link"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Failure 503 {object} ErrorResponseBody "Storage not configured"
// @Security BearerAuth
// @Router /orders/{id}/publish [post]
func (h *OrderHandler) Publish(c *gin.Context) {
	id, ok := parseID(c, "order")
	if !ok {
		return
	}

	published, err := h.orderService.Publish(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, published)
}
