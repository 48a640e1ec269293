package handler

import (
	"github.com/gin-gonic/gin"

	"tradebook/internal/domain"
)

// ListFirms handles GET /api/v1/firms
// @Summary List billing firms
// @Description The firms invoices can be issued under, with their letterheads.
// @Tags firms
// @Produce json
// @Success 200 {object} Response{data=[]domain.FirmProfile} "Firms"
// @Security BearerAuth
// @Router /firms [get]
func ListFirms(c *gin.Context) {
	RespondOK(c, domain.Firms())
}
