package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/camping-heater-rental/backend/internal/api"
	"github.com/camping-heater-rental/backend/internal/notify"
	"github.com/camping-heater-rental/backend/internal/reservation"
	"github.com/camping-heater-rental/backend/internal/storage"
)

// buildTestRouter wires the full API over an isolated in-memory store.
func buildTestRouter() *mux.Router {
	store := storage.NewMemoryStore()
	service := reservation.NewService(store)
	return api.NewRouter(store, service, notify.Nop{}, nil, "")
}

const validBody = `{
	"name": "홍길동",
	"phone": "010-1234-5678",
	"startDate": "2030-12-24",
	"endDate": "2030-12-26",
	"rentalPeriod": "2nights3days"
}`

func postApplication(router *mux.Router, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/rental-applications", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCreateApplicationReturns201WithRecord(t *testing.T) {
	router := buildTestRouter()

	resp := postApplication(router, validBody)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body)
	}

	var created struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if created.ID == "" {
		t.Error("expected a generated id")
	}
	if created.Name != "홍길동" || created.StartDate != "2030-12-24" || created.EndDate != "2030-12-26" {
		t.Errorf("record not echoed back: %+v", created)
	}
}

func TestCreateApplicationValidationFailure(t *testing.T) {
	router := buildTestRouter()

	resp := postApplication(router, `{"name": "", "phone": "", "startDate": "2030-12-24", "endDate": "2030-12-26", "rentalPeriod": "1night2days"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body)
	}

	var errResp struct {
		Error   string `json:"error"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if errResp.Error != "validation_error" {
		t.Errorf("expected validation_error code, got %q", errResp.Error)
	}
	fields := make(map[string]bool)
	for _, d := range errResp.Details {
		fields[d.Field] = true
	}
	if !fields["name"] || !fields["phone"] {
		t.Errorf("expected issues on name and phone, got %v", errResp.Details)
	}
}

func TestCreateApplicationMalformedBody(t *testing.T) {
	router := buildTestRouter()

	resp := postApplication(router, `{not json`)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", resp.Code)
	}
}

func TestCreateApplicationConflictReturns409(t *testing.T) {
	router := buildTestRouter()

	if resp := postApplication(router, validBody); resp.Code != http.StatusCreated {
		t.Fatalf("seed submission failed: %d", resp.Code)
	}

	resp := postApplication(router, validBody)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", resp.Code, resp.Body)
	}

	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if errResp.Error != "conflict" || errResp.Message == "" {
		t.Errorf("expected a conflict message, got %+v", errResp)
	}
}

func TestSimultaneousDuplicateSubmissions(t *testing.T) {
	router := buildTestRouter()

	codes := make([]int, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = postApplication(router, validBody).Code
		}(i)
	}
	wg.Wait()

	var created, conflicted int
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicted++
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	if created != 1 || conflicted != 1 {
		t.Errorf("expected exactly one 201 and one 409, got %v", codes)
	}
}

func TestListApplications(t *testing.T) {
	router := buildTestRouter()

	if resp := postApplication(router, validBody); resp.Code != http.StatusCreated {
		t.Fatalf("seed submission failed: %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/rental-applications", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var apps []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &apps); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(apps) != 1 {
		t.Errorf("expected 1 application, got %d", len(apps))
	}
}

func TestGetApplicationByID(t *testing.T) {
	router := buildTestRouter()

	created := postApplication(router, validBody)
	var record struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(created.Body.Bytes(), &record); err != nil {
		t.Fatalf("decoding created record: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/rental-applications/"+record.ID, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Errorf("expected 200 for existing id, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/rental-applications/no-such-id", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", resp.Code)
	}
}

func TestListReservedDates(t *testing.T) {
	router := buildTestRouter()

	if resp := postApplication(router, validBody); resp.Code != http.StatusCreated {
		t.Fatalf("seed submission failed: %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/reserved-dates?from=2030-12-01&to=2030-12-31", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		ReservedDates []string `json:"reservedDates"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding reserved dates: %v", err)
	}
	want := []string{"2030-12-24", "2030-12-25", "2030-12-26"}
	if len(body.ReservedDates) != len(want) {
		t.Fatalf("expected %v, got %v", want, body.ReservedDates)
	}
	for i, d := range want {
		if body.ReservedDates[i] != d {
			t.Errorf("date %d: got %s, want %s", i, body.ReservedDates[i], d)
		}
	}

	// Malformed bounds are rejected.
	req = httptest.NewRequest(http.MethodGet, "/api/reserved-dates?from=christmas", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad from date, got %d", resp.Code)
	}
}

func TestListRentalPeriods(t *testing.T) {
	router := buildTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/rental-periods", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var periods []struct {
		Value string `json:"value"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &periods); err != nil {
		t.Fatalf("decoding periods: %v", err)
	}
	if len(periods) != 4 || periods[0].Value != "1night2days" {
		t.Errorf("unexpected period catalog: %v", periods)
	}
}

func TestHealthCheck(t *testing.T) {
	router := buildTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if body.Status != "healthy" {
		t.Errorf("expected healthy, got %q", body.Status)
	}
}
