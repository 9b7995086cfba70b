package handlers

import (
	"errors"

	"carbonledger/internal/adapters/persistence/models"
	"carbonledger/internal/core/domain"
	"carbonledger/internal/core/services"
	"carbonledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles report lifecycle endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetReportRequest represents the composite-key filter for report lookups
type GetReportRequest struct {
	CompanyName  string `json:"companyName"`
	FacilityName string `json:"facilityName"`
}

// ChangeTabRequest represents a current-tab update
type ChangeTabRequest struct {
	CurrentTab string `json:"currentTab"`
}

// CreateNewReport handles report creation
// @Summary Create a new report
// @Description Create a report with a fresh sequential ID and empty category sub-objects
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateReportInput true "Report data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /reports/createNewReport [post]
func (h *ReportHandler) CreateNewReport(c *fiber.Ctx) error {
	username, ok := c.Locals("username").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.CreateReportInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.reportService.CreateReport(c.Context(), username, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			return response.BadRequest(c, "companyName and username are required")
		case errors.Is(err, domain.ErrPermissionDenied):
			return response.Unauthorized(c, "Reports can only be created for your own account")
		case errors.Is(err, domain.ErrDuplicateReportID):
			return response.Conflict(c, "Report ID collision, please retry")
		default:
			return response.InternalServerError(c, "Failed to create report")
		}
	}

	return response.Created(c, "Report created successfully", result)
}

// GetReport handles report lookup by composite key
// @Summary Get report summaries
// @Description Look up report summaries by report ID, optionally narrowed by company and facility
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reportId path string true "Report ID"
// @Param body body GetReportRequest false "Optional company/facility filter"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reports/{reportId} [get]
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	reportID := c.Params("reportId")

	var req GetReportRequest
	// Filter may arrive in the body or as query params; both are optional.
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}
	if req.CompanyName == "" {
		req.CompanyName = c.Query("companyName")
	}
	if req.FacilityName == "" {
		req.FacilityName = c.Query("facilityName")
	}

	summaries, err := h.reportService.GetReport(c.Context(), reportID, req.CompanyName, req.FacilityName)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			return response.BadRequest(c, "Report ID is required")
		}
		return response.InternalServerError(c, "Failed to fetch report")
	}

	if len(summaries) == 0 {
		return response.EmptyList(c, "No reports found")
	}

	return response.Success(c, "Reports retrieved successfully", summaries)
}

// GetUserReports handles the requester's report feed
// @Summary Get reports visible to the requester
// @Description Returns reports owned by the requester or belonging to their company or facility
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /reports/get [post]
func (h *ReportHandler) GetUserReports(c *fiber.Ctx) error {
	username, ok := c.Locals("username").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	companyName, _ := c.Locals("companyName").(string)
	facilityName, _ := c.Locals("facilityName").(string)

	requester := &models.User{
		Username:     username,
		CompanyName:  companyName,
		FacilityName: facilityName,
	}

	reports, err := h.reportService.GetUserReports(c.Context(), requester)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch reports")
	}

	if len(reports) == 0 {
		return response.EmptyList(c, "No reports found")
	}

	return response.Success(c, "Reports retrieved successfully", reports)
}

// DeleteReport handles report deletion
// @Summary Delete a report
// @Description Delete a report the requester owns and unlink it from their account
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reportId path string true "Report ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reports/{reportId}/delete [delete]
func (h *ReportHandler) DeleteReport(c *fiber.Ctx) error {
	username, ok := c.Locals("username").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	reportID := c.Params("reportId")

	if err := h.reportService.DeleteReport(c.Context(), username, reportID); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			return response.BadRequest(c, "Report ID is required")
		case errors.Is(err, domain.ErrReportNotFound):
			return response.NotFound(c, "Report not found")
		case errors.Is(err, domain.ErrPermissionDenied):
			return response.Unauthorized(c, "You can only delete your own reports")
		default:
			return response.InternalServerError(c, "Failed to delete report")
		}
	}

	return response.Success(c, "Report deleted successfully", fiber.Map{
		"reportId": reportID,
	})
}

// ChangeCurrentTab saves the data-entry tab the user last worked on
// @Summary Change current tab
// @Description Persist the data-entry tab the user last worked on
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reportId path string true "Report ID"
// @Param body body ChangeTabRequest true "Tab name"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reports/{reportId}/tab/change [patch]
func (h *ReportHandler) ChangeCurrentTab(c *fiber.Ctx) error {
	reportID := c.Params("reportId")

	var req ChangeTabRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.reportService.ChangeCurrentTab(c.Context(), reportID, req.CurrentTab); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			return response.BadRequest(c, "Report ID and currentTab are required")
		case errors.Is(err, domain.ErrReportNotFound):
			return response.NotFound(c, "Report not found")
		default:
			return response.InternalServerError(c, "Failed to change current tab")
		}
	}

	return response.Success(c, "Current tab updated", fiber.Map{
		"currentTab": req.CurrentTab,
	})
}

// GetCurrentTab returns the data-entry tab the user last worked on
// @Summary Get current tab
// @Description Returns the data-entry tab the user last worked on
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reportId path string true "Report ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reports/{reportId}/tab/get [get]
func (h *ReportHandler) GetCurrentTab(c *fiber.Ctx) error {
	reportID := c.Params("reportId")

	currentTab, err := h.reportService.GetCurrentTab(c.Context(), reportID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			return response.BadRequest(c, "Report ID is required")
		case errors.Is(err, domain.ErrReportNotFound):
			return response.NotFound(c, "Report not found")
		default:
			return response.InternalServerError(c, "Failed to fetch current tab")
		}
	}

	return response.Success(c, "Current tab retrieved", fiber.Map{
		"currentTab": currentTab,
	})
}
