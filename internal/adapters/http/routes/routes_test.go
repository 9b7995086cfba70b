package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"testing"

	"carbonledger/internal/adapters/persistence/models"
	"carbonledger/internal/config"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// dataMap decodes the data field as an object; nil when it is absent or a list.
func (r *apiResponse) dataMap() map[string]interface{} {
	var m map[string]interface{}
	if len(r.Data) > 0 {
		_ = json.Unmarshal(r.Data, &m)
	}
	return m
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		Cookie: config.CookieConfig{SameSite: "lax"},
	}
	config.AppConfig = cfg

	app := fiber.New()
	Setup(app, db, cfg)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, *apiResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, path, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var parsed apiResponse
	_ = json.NewDecoder(resp.Body).Decode(&parsed)
	return resp, &parsed
}

func registerUser(t *testing.T, app *fiber.App, username, role, company, facility string) string {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username":     username,
		"password":     "password123",
		"role":         role,
		"companyName":  company,
		"facilityName": facility,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s failed with status %d: %s", username, resp.StatusCode, body.Error)
	}
	token, _ := body.dataMap()["access_token"].(string)
	if token == "" {
		t.Fatalf("no access token in register response")
	}
	return token
}

func TestReportLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app, "facadmin", "FacAdmin", "Acme", "Plant 1")

	// Create a report.
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/reports/createNewReport", token, map[string]interface{}{
		"reportName":   "Q1 Report",
		"companyName":  "Acme",
		"facilityName": "Plant 1",
		"timePeriod":   "2026-Q1",
		"username":     "facadmin",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create report failed with status %d: %s", resp.StatusCode, body.Error)
	}
	reportID, _ := body.dataMap()["reportId"].(string)
	if reportID != "000001" {
		t.Errorf("expected first report ID 000001, got %q", reportID)
	}

	// Record fuel consumption.
	resp, body = doJSON(t, app, http.MethodPatch, "/api/v1/reports/"+reportID+"/fuel/put", token, map[string]interface{}{
		"companyName":  "Acme",
		"facilityName": "Plant 1",
		"fuel": map[string]interface{}{
			"entries": []map[string]interface{}{
				{"activityType": "Natural gas", "amount": 10},
			},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("fuel update failed with status %d: %s", resp.StatusCode, body.Error)
	}

	// Derive CO2e without authentication.
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/reports/"+reportID+"/CO2eFuel", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("CO2e derivation failed with status %d: %s", resp.StatusCode, body.Error)
	}
	total, _ := body.dataMap()["total"].(float64)
	if math.Abs(total-20.2) > 1e-9 {
		t.Errorf("expected total 20.2, got %v", total)
	}

	// Delete the report.
	resp, body = doJSON(t, app, http.MethodDelete, "/api/v1/reports/"+reportID+"/delete", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete failed with status %d: %s", resp.StatusCode, body.Error)
	}

	// A second delete is a 404.
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/reports/"+reportID+"/delete", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", resp.StatusCode)
	}
}

func TestCategoryUpdateAcceptsQueryCompositeKeys(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app, "facadmin", "FacAdmin", "Acme", "Plant 1")

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/reports/createNewReport", token, map[string]interface{}{
		"companyName":  "Acme",
		"facilityName": "Plant 1",
		"username":     "facadmin",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create report failed with status %d: %s", resp.StatusCode, body.Error)
	}
	reportID, _ := body.dataMap()["reportId"].(string)

	// Composite keys in the query string, body carrying only the sub-object.
	resp, body = doJSON(t, app, http.MethodPatch,
		"/api/v1/reports/"+reportID+"/fuel/put?companyName=Acme&facilityName=Plant+1", token,
		map[string]interface{}{
			"fuel": map[string]interface{}{
				"entries": []map[string]interface{}{
					{"activityType": "Natural gas", "amount": 10},
				},
			},
		})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("fuel update with query keys failed with status %d: %s", resp.StatusCode, body.Error)
	}

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/reports/"+reportID+"/CO2eFuel", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("CO2e derivation failed with status %d: %s", resp.StatusCode, body.Error)
	}
	total, _ := body.dataMap()["total"].(float64)
	if math.Abs(total-20.2) > 1e-9 {
		t.Errorf("expected total 20.2, got %v", total)
	}
}

func TestMeResolvesCapabilities(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username":     "grantee",
		"password":     "password123",
		"role":         "Employee",
		"companyName":  "Acme",
		"facilityName": "Plant 1",
		"facilities": []map[string]interface{}{
			{
				"facility": "Plant 1",
				"roles": []map[string]interface{}{
					{"role": "Employee", "permissions": []string{"write"}},
				},
			},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register failed with status %d: %s", resp.StatusCode, body.Error)
	}
	token, _ := body.dataMap()["access_token"].(string)

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/auth/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me failed with status %d: %s", resp.StatusCode, body.Error)
	}
	caps, _ := body.dataMap()["capabilities"].(map[string]interface{})
	reportActions, _ := caps["report"].([]interface{})
	if len(reportActions) != 1 || reportActions[0] != "write" {
		t.Errorf("expected report capabilities [write], got %v", reportActions)
	}

	// A user with no facility grants resolves to empty capability lists.
	plain := registerUser(t, app, "plain", "Employee", "Acme", "Plant 1")
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/auth/me", plain, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me failed with status %d: %s", resp.StatusCode, body.Error)
	}
	caps, _ = body.dataMap()["capabilities"].(map[string]interface{})
	reportActions, _ = caps["report"].([]interface{})
	if len(reportActions) != 0 {
		t.Errorf("expected no report capabilities, got %v", reportActions)
	}
}

func TestReportRoutesRequireAuthAndRole(t *testing.T) {
	app := newTestApp(t)

	// No token.
	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/reports/createNewReport", "", map[string]interface{}{
		"companyName": "Acme",
		"username":    "nobody",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}

	// Employee role cannot create reports.
	employeeToken := registerUser(t, app, "worker", "Employee", "Acme", "Plant 1")
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/reports/createNewReport", employeeToken, map[string]interface{}{
		"companyName": "Acme",
		"username":    "worker",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for Employee, got %d", resp.StatusCode)
	}
}

func TestEmptyReportFeedIsSoftNotFound(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app, "worker", "Employee", "Acme", "Plant 1")

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/reports/get", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 status for empty feed, got %d", resp.StatusCode)
	}
	if !body.Success {
		t.Error("empty feed should still be a success body")
	}
	var list []interface{}
	if err := json.Unmarshal(body.Data, &list); err != nil {
		t.Fatalf("empty feed data should be a list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty list, got %v", list)
	}
}

func TestBillIngestAndFetchOverHTTP(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app, "facadmin", "FacAdmin", "Acme", "Plant 1")

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/bills/", token, map[string]interface{}{
		"bills": []map[string]interface{}{
			{
				"billName":     "March electricity",
				"companyName":  "Acme",
				"facilityName": "Plant 1",
				"billMonth":    "March",
				"billYear":     "2026",
				"data":         map[string]interface{}{"kwh": 1200},
			},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("bill ingest failed with status %d: %s", resp.StatusCode, body.Error)
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/bills/", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bill fetch failed with status %d", resp.StatusCode)
	}
}
