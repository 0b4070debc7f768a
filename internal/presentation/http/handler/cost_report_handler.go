package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/landedcost-api/internal/application/service"
	"github.com/sangkips/landedcost-api/internal/presentation/http/dto/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CostReportHandler serves landed-cost reports
type CostReportHandler struct {
	reportService *service.CostReportService
}

// NewCostReportHandler creates a new cost report handler
func NewCostReportHandler(reportService *service.CostReportService) *CostReportHandler {
	return &CostReportHandler{reportService: reportService}
}

// Get handles computing the cost report of an order
func (h *CostReportHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	report, err := h.reportService.GetReport(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cost report computed successfully", report)
}

// Export handles downloading the cost report as a spreadsheet
func (h *CostReportHandler) Export(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	filename, data, err := h.reportService.Export(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, xlsxContentType, data)
}
