package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"roi-simulator/internal/config"
	"roi-simulator/internal/scenario"
)

type testResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
}

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.ServerConfig{Addr: ":0", AllowedOrigins: []string{"http://localhost:5173"}}
	return NewServer(cfg, scenario.NewProjector(scenario.DefaultPolicy(), zerolog.Nop()), zerolog.Nop())
}

func doRequest(t *testing.T, srv *Server, method, path string, body any) (*httptest.ResponseRecorder, testResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			if err := json.NewEncoder(&buf).Encode(body); err != nil {
				t.Fatalf("encode body: %v", err)
			}
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var resp testResponse
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, resp
}

func TestHealth(t *testing.T) {
	rec, _ := doRequest(t, testServer(t), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("expected a generated request ID header")
	}
}

func TestProjectionsEndpoint(t *testing.T) {
	body := map[string]any{
		"market": map[string]any{
			"current_price": 340, "target_price": 360, "risk_free_rate": 0.045, "days_to_expiry": 100,
		},
		"contracts": []map[string]any{
			{"id": "otm", "label": "OTM Call", "strike": 420, "premium_paid": 71.3, "implied_volatility": 0.66},
			{"id": "itm", "label": "Deep ITM Call", "strike": 270, "premium_paid": 129.55, "implied_volatility": 0.7,
				"target_implied_volatility": 0.5},
		},
	}

	rec, resp := doRequest(t, testServer(t), http.MethodPost, "/api/v1/projections", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var data struct {
		Chart []map[string]any `json:"chart"`
		Table []struct {
			Offset  string `json:"offset"`
			Details []struct {
				Strike float64 `json:"strike"`
				ROI    string  `json:"roi"`
			} `json:"details"`
		} `json:"table"`
		VolatilityCrush bool `json:"volatility_crush"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}

	if len(data.Chart) != 3 || len(data.Table) != 3 {
		t.Fatalf("got %d chart points, %d groups; want 3, 3", len(data.Chart), len(data.Table))
	}
	if data.Chart[0]["offset"] != "30d" {
		t.Errorf("first offset = %v, want 30d", data.Chart[0]["offset"])
	}
	if _, ok := data.Chart[0]["Deep ITM Call (270)"]; !ok {
		t.Errorf("chart point missing series: %v", data.Chart[0])
	}
	if data.Table[0].Details[0].Strike != 270 || data.Table[0].Details[1].Strike != 420 {
		t.Errorf("details not sorted by strike: %+v", data.Table[0].Details)
	}
	if !data.VolatilityCrush {
		t.Error("expected volatility crush (0.70 -> 0.50)")
	}
}

func TestProjectionsShortExpiry(t *testing.T) {
	body := map[string]any{
		"market":    map[string]any{"current_price": 340, "target_price": 360, "days_to_expiry": 20},
		"contracts": []map[string]any{{"id": "a", "label": "Call", "strike": 340, "premium_paid": 10, "implied_volatility": 0.5}},
	}

	rec, resp := doRequest(t, testServer(t), http.MethodPost, "/api/v1/projections", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if string(data["chart"]) != "[]" || string(data["table"]) != "[]" {
		t.Errorf("expected empty arrays, got chart=%s table=%s", data["chart"], data["table"])
	}
}

func TestProjectionsValidation(t *testing.T) {
	tests := []struct {
		name      string
		body      any
		wantField string
	}{
		{
			name: "negative strike",
			body: map[string]any{
				"market":    map[string]any{"current_price": 340, "target_price": 360, "days_to_expiry": 90},
				"contracts": []map[string]any{{"id": "a", "strike": -5, "premium_paid": 1, "implied_volatility": 0.5}},
			},
			wantField: "contracts[0].strike",
		},
		{
			name: "zero target price",
			body: map[string]any{
				"market":    map[string]any{"current_price": 340, "target_price": 0, "days_to_expiry": 90},
				"contracts": []map[string]any{},
			},
			wantField: "market.target_price",
		},
		{
			name: "zero target volatility",
			body: map[string]any{
				"market": map[string]any{"current_price": 340, "target_price": 360, "days_to_expiry": 90},
				"contracts": []map[string]any{{"id": "a", "strike": 340, "premium_paid": 1, "implied_volatility": 0.5,
					"target_implied_volatility": 0}},
			},
			wantField: "contracts[0].target_implied_volatility",
		},
		{
			name: "duplicate ids",
			body: map[string]any{
				"market": map[string]any{"current_price": 340, "target_price": 360, "days_to_expiry": 90},
				"contracts": []map[string]any{
					{"id": "a", "strike": 340, "premium_paid": 1, "implied_volatility": 0.5},
					{"id": "a", "strike": 360, "premium_paid": 1, "implied_volatility": 0.5},
				},
			},
			wantField: "contracts[1].id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doRequest(t, testServer(t), http.MethodPost, "/api/v1/projections", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if resp.Meta["field"] != tt.wantField {
				t.Errorf("field = %v, want %s", resp.Meta["field"], tt.wantField)
			}
		})
	}
}

func TestProjectionsNonFiniteROI(t *testing.T) {
	// A tiny but valid premium overflows ROI to +Inf.
	body := map[string]any{
		"market": map[string]any{"current_price": 340, "target_price": 360, "risk_free_rate": 0.045, "days_to_expiry": 100},
		"contracts": []map[string]any{
			{"id": "itm", "label": "Deep ITM Call", "strike": 270, "premium_paid": 1e-307, "implied_volatility": 0.7},
		},
	}

	rec, resp := doRequest(t, testServer(t), http.MethodPost, "/api/v1/projections", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec.Body.Len() == 0 {
		t.Fatal("expected a response body")
	}

	var data struct {
		Chart []map[string]any `json:"chart"`
		Table []struct {
			Details []struct {
				ROI string `json:"roi"`
			} `json:"details"`
		} `json:"table"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Chart) != 3 {
		t.Fatalf("chart points = %d, want 3", len(data.Chart))
	}
	v, present := data.Chart[0]["Deep ITM Call (270)"]
	if !present || v != nil {
		t.Errorf("series value = %v (present %v), want null", v, present)
	}
	if got := data.Table[0].Details[0].ROI; got != "+Inf" {
		t.Errorf("table ROI = %s, want +Inf", got)
	}
}

func TestProjectionsDuplicateSeries(t *testing.T) {
	body := map[string]any{
		"market": map[string]any{"current_price": 340, "target_price": 360, "days_to_expiry": 90},
		"contracts": []map[string]any{
			{"id": "a", "label": "Call", "strike": 340, "premium_paid": 1, "implied_volatility": 0.5},
			{"id": "b", "label": "Call", "strike": 340, "premium_paid": 2, "implied_volatility": 0.6},
		},
	}

	rec, resp := doRequest(t, testServer(t), http.MethodPost, "/api/v1/projections", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp.Meta["field"] != "contracts[1].label" {
		t.Errorf("field = %v, want contracts[1].label", resp.Meta["field"])
	}
}

func TestProjectionsMalformedBody(t *testing.T) {
	rec, resp := doRequest(t, testServer(t), http.MethodPost, "/api/v1/projections", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp.Message != "invalid request body" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestPriceEndpoint(t *testing.T) {
	body := map[string]any{"spot": 100, "strike": 100, "years_to_expiry": 1, "risk_free_rate": 0.05, "volatility": 0.2}

	rec, resp := doRequest(t, testServer(t), http.MethodPost, "/api/v1/price", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var data priceResponse
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if math.Abs(data.Price-10.4506) > 1e-3 {
		t.Errorf("price = %v, want ~10.4506", data.Price)
	}
	if data.Intrinsic != 0 {
		t.Errorf("intrinsic = %v, want 0", data.Intrinsic)
	}
}

func TestPriceEndpointValidation(t *testing.T) {
	body := map[string]any{"spot": 100, "strike": 100, "years_to_expiry": 1, "volatility": 0}

	rec, resp := doRequest(t, testServer(t), http.MethodPost, "/api/v1/price", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp.Meta["field"] != "volatility" {
		t.Errorf("field = %v, want volatility", resp.Meta["field"])
	}
}

func TestPriceEndpointNonFinite(t *testing.T) {
	body := map[string]any{"spot": 100, "strike": 100, "years_to_expiry": 1, "risk_free_rate": -1e308, "volatility": 0.2}

	rec, resp := doRequest(t, testServer(t), http.MethodPost, "/api/v1/price", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if resp.Message != "price is not finite for these inputs" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestPolicyEndpoint(t *testing.T) {
	rec, resp := doRequest(t, testServer(t), http.MethodGet, "/api/v1/policy", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var policy scenario.Policy
	if err := json.Unmarshal(resp.Data, &policy); err != nil {
		t.Fatalf("decode policy: %v", err)
	}
	if len(policy.Offsets) != 12 || policy.MinYearsRemaining != 0.0001 {
		t.Errorf("policy = %+v, want default", policy)
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/projections", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()

	testServer(t).Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
