package handler

import (
	"github.com/gin-gonic/gin"

	"tradebook/internal/service"
)

// CustomerHandler handles customer directory endpoints.
type CustomerHandler struct {
	customerService service.CustomerService
	orderService    service.OrderService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerService service.CustomerService, orderService service.OrderService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, orderService: orderService}
}

// List handles GET /api/v1/customers
// @Summary List customers
// @Tags customers
// @Produce json
// @Param search query string false "Name or phone search"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Customer,meta=PagMeta} "Customers"
// @Security BearerAuth
// @Router /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	offset, limit := pagination(c, 20, 100)

	customers, total, err := h.customerService.List(c.Request.Context(), c.Query("search"), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, customers, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// PendingBalance handles GET /api/v1/orders/pending?phone=
// @Summary Get a customer's pending balance
// @Description Returns what the customer owes, which is the carry forward of their latest invoice less later payments. A phone that was never billed returns zero with known=false.
// @Tags customers
// @Produce json
// @Param phone query string true "10-digit mobile number"
// @Success 200 {object} Response{data=service.PendingBalance} "Pending balance"
// @Failure 422 {object} ErrorResponseBody "Invalid phone"
// @Security BearerAuth
// @Router /orders/pending [get]
func (h *CustomerHandler) PendingBalance(c *gin.Context) {
	balance, err := h.customerService.PendingBalance(c.Request.Context(), c.Query("phone"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, balance)
}

// Ledger handles GET /api/v1/orders/by-customer?phone=
func (h *CustomerHandler) Ledger(c *gin.Context) {
	ledger, err := h.orderService.Ledger(c.Request.Context(), c.Query("phone"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, ledger)
}
