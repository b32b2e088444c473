package billing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-kasir/internal/auth"
	"github.com/noah-isme/backend-kasir/internal/common"
)

func TestCalculateHandlerUnauthenticated(t *testing.T) {
	handler := &Handler{Svc: newTestService(&fakeRates{}), Log: zerolog.Nop()}

	body := `{"items":[],"originalCurrency":"USD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bills/calculate", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Calculate(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	var payload struct {
		Error common.ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.Equal(t, common.CodeUnauthenticated, payload.Error.Code)
}

func TestCalculateHandlerBadBody(t *testing.T) {
	handler := &Handler{Svc: newTestService(&fakeRates{}), Log: zerolog.Nop()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bills/calculate", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	handler.Calculate(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCalculateHandlerSuccess(t *testing.T) {
	handler := &Handler{Svc: newTestService(&fakeRates{}), Log: zerolog.Nop()}

	body := `{"items":[{"name":"tv","category":"ELECTRONICS","price":"300","quantity":1}],"originalCurrency":"USD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bills/calculate", strings.NewReader(body))
	identity := auth.Identity{Username: "employee", Role: auth.RoleEmployee}
	req = req.WithContext(auth.WithIdentity(req.Context(), identity))

	rr := httptest.NewRecorder()
	handler.Calculate(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp BillResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.True(t, decimal.NewFromInt(300).Equal(resp.OriginalAmount))
	require.True(t, decimal.NewFromInt(195).Equal(resp.FinalAmount))
	require.Equal(t, "USD", resp.OriginalCurrency)
	require.NotEmpty(t, resp.BillID)
}
