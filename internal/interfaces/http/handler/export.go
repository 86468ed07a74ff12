package handler

import (
	appledger "github.com/debtbook/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
)

// ExportHandler archives debt exports to object storage
type ExportHandler struct {
	BaseHandler
	exportService *appledger.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *appledger.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Archive godoc
// @ID           archiveDebts
// @Summary      Archive a debt export
// @Description  Store the CSV export in object storage and return a time-limited download link
// @Tags         debts
// @Produce      json
// @Param        filter    query string false "all or overdue" Enums(all, overdue)
// @Param        client_id query string false "Only debts of this client" format(uuid)
// @Success      201 {object} dto.Response{data=appledger.ArchiveResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /debts/export/archive [post]
func (h *ExportHandler) Archive(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	input, ok := h.bindListInput(c)
	if !ok {
		return
	}

	result, err := h.exportService.Archive(c.Request.Context(), p, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}
