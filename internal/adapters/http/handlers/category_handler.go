package handlers

import (
	"encoding/json"
	"errors"

	"carbonledger/internal/adapters/persistence/models"
	"carbonledger/internal/core/domain"
	"carbonledger/internal/core/services"
	"carbonledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles per-category sub-object updates. One parameterized
// handler serves every category route; the category key is bound at route
// registration from the dispatch table.
type CategoryHandler struct {
	reportService *services.ReportService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(reportService *services.ReportService) *CategoryHandler {
	return &CategoryHandler{reportService: reportService}
}

// Update returns the PATCH handler for one category key. The body carries the
// new sub-object under the category's own key, e.g. {"fuel": {...}}; the
// composite-key fields companyName and facilityName come from the query string
// or the body.
//
// The fa category is assembled from two top-level fields instead:
// hotelAccommodation and flightAccommodation.
func (h *CategoryHandler) Update(categoryKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, ok := c.Locals("username").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		reportID := c.Params("reportId")

		var body map[string]json.RawMessage
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}

		// Composite-key fields may arrive in the body or as query params.
		companyName := stringField(body, "companyName")
		if companyName == "" {
			companyName = c.Query("companyName")
		}
		facilityName := stringField(body, "facilityName")
		if facilityName == "" {
			facilityName = c.Query("facilityName")
		}

		payload, err := categoryPayload(categoryKey, body)
		if err != nil {
			return response.BadRequest(c, err.Error())
		}

		stored, err := h.reportService.UpdateCategory(
			c.Context(), username, categoryKey, reportID, companyName, facilityName, payload,
		)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUnknownCategory):
				return response.BadRequest(c, "Unknown category")
			case errors.Is(err, domain.ErrInvalidRequest):
				return response.BadRequest(c, "reportId, companyName, facilityName and the category payload are required")
			case errors.Is(err, domain.ErrReportNotFound):
				return response.NotFound(c, "Report not found")
			case errors.Is(err, domain.ErrPermissionDenied):
				return response.Unauthorized(c, "You can only update your own reports")
			default:
				return response.InternalServerError(c, "Failed to update report")
			}
		}

		return response.Success(c, "Report updated successfully", fiber.Map{
			categoryKey: stored,
		})
	}
}

// Get returns the GET handler for one category key.
func (h *CategoryHandler) Get(categoryKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reportID := c.Params("reportId")

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

		return response.Success(c, "Category data retrieved", fiber.Map{
			categoryKey: data,
		})
	}
}

// categoryPayload extracts the replacement sub-object from the request body.
func categoryPayload(categoryKey string, body map[string]json.RawMessage) ([]byte, error) {
	if raw, ok := body[categoryKey]; ok && len(raw) > 0 {
		return raw, nil
	}

	if categoryKey == models.CategoryFA {
		// Business travel accommodation arrives as two separate fields.
		hotel, hasHotel := body["hotelAccommodation"]
		flight, hasFlight := body["flightAccommodation"]
		if !hasHotel && !hasFlight {
			return nil, errors.New("fa payload requires hotelAccommodation or flightAccommodation")
		}
		fa := map[string]json.RawMessage{}
		if hasHotel {
			fa["hotelAccommodation"] = hotel
		}
		if hasFlight {
			fa["flightAccommodation"] = flight
		}
		return json.Marshal(fa)
	}

	return nil, errors.New("missing category payload: " + categoryKey)
}

func stringField(body map[string]json.RawMessage, key string) string {
	raw, ok := body[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
