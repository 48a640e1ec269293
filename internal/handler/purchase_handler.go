package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradebook/internal/service"
)

// PurchaseHandler handles supplier bill endpoints.
type PurchaseHandler struct {
	purchaseService service.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(purchaseService service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// Create handles POST /api/v1/purchases
// @Summary Record a supplier bill
// @Description Record goods received from a supplier. Received quantities are added to stock.
// @Tags purchases
// @Accept json
// @Produce json
// @Param request body service.CreatePurchaseInput true "Supplier bill"
// @Success 201 {object} Response{data=domain.PurchaseInvoice} "Bill recorded"
// @Failure 409 {object} ErrorResponseBody "Bill already recorded"
// @Failure 422 {object} ErrorResponseBody "Field validation failed"
// @Security BearerAuth
// @Router /purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var input service.CreatePurchaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	inv, err := h.purchaseService.Create(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, inv)
}

// List handles GET /api/v1/purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	offset, limit := pagination(c, 20, 100)

	invoices, total, err := h.purchaseService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/purchases/:id
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "purchase invoice")
	if !ok {
		return
	}

	inv, err := h.purchaseService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// Delete handles DELETE /api/v1/purchases/:id
func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "purchase invoice")
	if !ok {
		return
	}

	if err := h.purchaseService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "purchase invoice deleted"})
}
