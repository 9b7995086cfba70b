package handlers

import (
	"encoding/json"
	"errors"

	"carbonledger/internal/core/domain"
	"carbonledger/internal/core/services"
	"carbonledger/internal/pkg/pagination"
	"carbonledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BillHandler handles utility bill endpoints
type BillHandler struct {
	billService *services.BillService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billService *services.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// CreateBillsRequest represents a batch bill ingest request
type CreateBillsRequest struct {
	Bills []services.BillInput `json:"bills"`
}

// CompanyBillsRequest represents a company-wide bill lookup
type CompanyBillsRequest struct {
	CompanyName  string `json:"companyName"`
	FacilityName string `json:"facilityName"`
}

// UpdateBillRequest represents a bill data update
type UpdateBillRequest struct {
	Data json.RawMessage `json:"data"`
}

// CreateBills handles batch bill ingest
// @Summary Ingest bills
// @Description Ingest a batch of utility bills for the requester
// @Tags Bills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateBillsRequest true "Bills to ingest"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /bills [post]
func (h *BillHandler) CreateBills(c *fiber.Ctx) error {
	username, ok := c.Locals("username").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreateBillsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	bills, err := h.billService.CreateBills(c.Context(), username, req.Bills)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			return response.BadRequest(c, "At least one bill with a companyName is required")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.Unauthorized(c, "Unauthorized")
		default:
			return response.InternalServerError(c, "Failed to ingest bills")
		}
	}

	return response.Created(c, "Bills ingested successfully", bills)
}

// GetUserBills handles the requester's bill list
// @Summary Get own bills
// @Description Returns the requester's bills, newest first, paginated
// @Tags Bills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /bills [get]
func (h *BillHandler) GetUserBills(c *fiber.Ctx) error {
	username, ok := c.Locals("username").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	bills, total, err := h.billService.GetUserBills(c.Context(), username, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch bills")
	}

	if total == 0 {
		return response.EmptyList(c, "No bills found")
	}

	return response.Success(c, "Bills retrieved successfully", pagination.NewResponse(bills, params, total))
}

// GetCompanyBills handles company-wide bill lookup
// @Summary Get company bills
// @Description Returns bills for a company, optionally narrowed to one facility
// @Tags Bills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CompanyBillsRequest true "Company filter"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /bills/company [post]
func (h *BillHandler) GetCompanyBills(c *fiber.Ctx) error {
	var req CompanyBillsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	bills, err := h.billService.GetCompanyBills(c.Context(), req.CompanyName, req.FacilityName)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			return response.BadRequest(c, "companyName is required")
		}
		return response.InternalServerError(c, "Failed to fetch bills")
	}

	if len(bills) == 0 {
		return response.EmptyList(c, "No bills found")
	}

	return response.Success(c, "Bills retrieved successfully", bills)
}

// UpdateBill handles bill data replacement
// @Summary Update a bill
// @Description Replace the extracted data of a bill the requester owns
// @Tags Bills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param billId path string true "Bill ID"
// @Param body body UpdateBillRequest true "New bill data"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /bills/{billId}/put [patch]
func (h *BillHandler) UpdateBill(c *fiber.Ctx) error {
	username, ok := c.Locals("username").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	billID := c.Params("billId")

	var req UpdateBillRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	bill, err := h.billService.UpdateBill(c.Context(), username, billID, req.Data)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			return response.BadRequest(c, "billId and data are required")
		case errors.Is(err, domain.ErrBillNotFound):
			return response.NotFound(c, "Bill not found")
		case errors.Is(err, domain.ErrPermissionDenied):
			return response.Unauthorized(c, "You can only update your own bills")
		default:
			return response.InternalServerError(c, "Failed to update bill")
		}
	}

	return response.Success(c, "Bill updated successfully", bill)
}
