package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"payopt/pkg/constants"
	"payopt/pkg/money"
)

const scenarioOrders = `[
	{"id": "ORDER1", "value": "100.00", "promotions": ["mZysk"]},
	{"id": "ORDER2", "value": "200.00", "promotions": ["BosBankrut"]},
	{"id": "ORDER3", "value": "150.00", "promotions": ["mZysk", "BosBankrut"]},
	{"id": "ORDER4", "value": "50.00"}
]`

const scenarioMethods = `[
	{"id": "PUNKTY", "discount": "15", "limit": "100.00"},
	{"id": "mZysk", "discount": "10", "limit": "180.00"},
	{"id": "BosBankrut", "discount": "5", "limit": "200.00"}
]`

func performOptimize(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/optimize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestHandleOptimizeSuccess(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxBodySizeBytes, "test")

	body := `{"orders": ` + scenarioOrders + `, "paymentMethods": ` + scenarioMethods + `}`
	rr := performOptimize(t, handler, body)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp optimizeResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	want := map[string]money.Amount{
		"mZysk":      money.MustParse("165.00"),
		"BosBankrut": money.MustParse("190.00"),
		"PUNKTY":     money.MustParse("100.00"),
	}
	for id, amount := range want {
		if resp.Summary[id] != amount {
			t.Errorf("summary[%s] = %s, want %s", id, resp.Summary[id], amount)
		}
	}
	if resp.Report == "" {
		t.Error("expected report text in response")
	}
	if len(resp.Plans) != 4 {
		t.Errorf("expected a plan per order, got %d", len(resp.Plans))
	}
	if resp.Plans["ORDER1"]["PUNKTY"] != money.MustParse("85.00") {
		t.Errorf("ORDER1 plan = %v, expected full points payment of 85.00", resp.Plans["ORDER1"])
	}
	if len(resp.Underfunded) != 0 {
		t.Errorf("expected no underfunded orders, got %v", resp.Underfunded)
	}
	if resp.Duration == "" {
		t.Error("expected duration in response")
	}
}

func TestHandleOptimizeCustomPointsMethod(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxBodySizeBytes, "test")

	body := `{
		"orders": [{"id": "ORDER1", "value": "80.00"}],
		"paymentMethods": [{"id": "LOYALTY", "discount": "15", "limit": "100.00"}],
		"pointsMethodId": "LOYALTY"
	}`
	rr := performOptimize(t, handler, body)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp optimizeResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Summary["LOYALTY"] != money.MustParse("68.00") {
		t.Errorf("expected LOYALTY charge 68.00, got %s", resp.Summary["LOYALTY"])
	}
}

func TestHandleOptimizeReportsUnderfundedAndWarnings(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxBodySizeBytes, "test")

	body := `{
		"orders": [{"id": "ORDER1", "value": "100.00", "promotions": ["GoneBank"]}],
		"paymentMethods": [{"id": "PUNKTY", "discount": "15", "limit": "10.00"}]
	}`
	rr := performOptimize(t, handler, body)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp optimizeResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Underfunded) != 1 || resp.Underfunded[0] != "ORDER1" {
		t.Errorf("expected underfunded [ORDER1], got %v", resp.Underfunded)
	}
	found := false
	for _, warning := range resp.Warnings {
		if strings.Contains(warning, "GoneBank") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected unknown promotion warning, got %v", resp.Warnings)
	}
}

func TestHandleOptimizeRejectsInvalidInput(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxBodySizeBytes, "test")

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "Malformed JSON",
			body:       `{"orders": [`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Missing orders",
			body:       `{"paymentMethods": ` + scenarioMethods + `}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Missing payment methods",
			body:       `{"orders": ` + scenarioOrders + `}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Bad amount",
			body:       `{"orders": [{"id": "O1", "value": "abc"}], "paymentMethods": ` + scenarioMethods + `}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "Duplicate method ids",
			body: `{"orders": ` + scenarioOrders + `, "paymentMethods": [
				{"id": "mZysk", "discount": "10", "limit": "180.00"},
				{"id": "mZysk", "discount": "5", "limit": "20.00"}
			]}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := performOptimize(t, handler, tt.body)
			if rr.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			var resp map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if resp["error"] == "" {
				t.Error("expected error message in response")
			}
		})
	}
}

func TestHandleOptimizeRejectsOversizedBody(t *testing.T) {
	handler := NewHandler(zap.NewNop(), 64, "test")

	var large bytes.Buffer
	large.WriteString(`{"orders": [`)
	for i := 0; i < 100; i++ {
		if i > 0 {
			large.WriteString(",")
		}
		large.WriteString(`{"id": "ORDER", "value": "10.00"}`)
	}
	large.WriteString(`], "paymentMethods": ` + scenarioMethods + `}`)

	rr := performOptimize(t, handler, large.String())
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected status 413, got %d", rr.Code)
	}
}

func TestHandleOptimizeMethodNotAllowed(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxBodySizeBytes, "test")

	req := httptest.NewRequest(http.MethodGet, "/api/optimize", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rr.Code)
	}
}

func TestHandleVersion(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxBodySizeBytes, "1.2.3")

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", resp["version"])
	}
}

func TestHandleVersionDefaultsToDev(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxBodySizeBytes, "  ")

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "dev" {
		t.Errorf("expected version dev, got %s", resp["version"])
	}
}
