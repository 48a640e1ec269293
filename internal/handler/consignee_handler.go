package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradebook/internal/domain"
	"tradebook/internal/service"
)

// ConsigneeHandler handles ship-to party endpoints.
type ConsigneeHandler struct {
	consigneeService service.ConsigneeService
}

// NewConsigneeHandler creates a new ConsigneeHandler.
func NewConsigneeHandler(consigneeService service.ConsigneeService) *ConsigneeHandler {
	return &ConsigneeHandler{consigneeService: consigneeService}
}

// Create handles POST /api/v1/consignees
// @Summary Create a consignee
// @Description Register a ship-to party. GSTIN and PAN are upper-cased; a GSTIN must embed the PAN when both are given.
// @Tags consignees
// @Accept json
// @Produce json
// @Param request body ConsigneeRequest true "Consignee details"
// @Success 201 {object} Response{data=domain.Consignee} "Consignee created"
// @Failure 422 {object} ErrorResponseBody "Invalid GSTIN or PAN"
// @Security BearerAuth
// @Router /consignees [post]
func (h *ConsigneeHandler) Create(c *gin.Context) {
	var input service.ConsigneeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	consignee, err := h.consigneeService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, consignee)
}

// List handles GET /api/v1/consignees
func (h *ConsigneeHandler) List(c *gin.Context) {
	consignees, err := h.consigneeService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	if consignees == nil {
		consignees = []domain.Consignee{}
	}

	RespondOK(c, consignees)
}

// GetByID handles GET /api/v1/consignees/:id
func (h *ConsigneeHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "consignee")
	if !ok {
		return
	}

	consignee, err := h.consigneeService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, consignee)
}

// Update handles PUT /api/v1/consignees/:id
func (h *ConsigneeHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "consignee")
	if !ok {
		return
	}

	var input service.ConsigneeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	consignee, err := h.consigneeService.Update(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, consignee)
}

// Delete handles DELETE /api/v1/consignees/:id
func (h *ConsigneeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "consignee")
	if !ok {
		return
	}

	if err := h.consigneeService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "consignee deleted"})
}
