package handlers

import (
	"errors"

	"carbonledger/internal/core/domain"
	"carbonledger/internal/core/emissions"
	"carbonledger/internal/core/services"
	"carbonledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EmissionHandler derives CO2e figures from stored category data. Values are
// computed on every read and never written back to the report.
type EmissionHandler struct {
	reportService *services.ReportService
}

// NewEmissionHandler creates a new emission handler
func NewEmissionHandler(reportService *services.ReportService) *EmissionHandler {
	return &EmissionHandler{reportService: reportService}
}

// Compute returns the CO2e derivation handler for one category key.
func (h *EmissionHandler) Compute(categoryKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reportID := c.Params("reportId")

		if !emissions.SupportedCategory(categoryKey) {
			return response.BadRequest(c, "No emission factors available for this category")
		}

		data, err := h.reportService.GetCategory(c.Context(), categoryKey, reportID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrReportNotFound):
				return response.NotFound(c, "Report not found")
			case errors.Is(err, domain.ErrInvalidRequest):
				return response.BadRequest(c, "Report ID is required")
			default:
				return response.InternalServerError(c, "Failed to fetch category data")
			}
		}

		entries, err := emissions.DecodeEntries(data)
		if err != nil {
			return response.BadRequest(c, "Stored category data is not a list of activity entries")
		}

		results, err := emissions.Compute(categoryKey, entries)
		if err != nil {
			switch {
			case errors.Is(err, emissions.ErrUnknownActivityType):
				return response.BadRequest(c, err.Error())
			case errors.Is(err, emissions.ErrUnsupportedCategory):
				return response.BadRequest(c, "No emission factors available for this category")
			default:
				return response.InternalServerError(c, "Failed to compute CO2e")
			}
		}

		return response.Success(c, "CO2e computed successfully", fiber.Map{
			"category": categoryKey,
			"results":  results,
			"total":    emissions.Total(results),
		})
	}
}
