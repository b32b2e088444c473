package exchange

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-kasir/internal/resilience"
)

func TestOpenExchangeRatesRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/convert/65/USD/EUR", r.URL.Path)
		require.Equal(t, "test-app-id", r.URL.Query().Get("app_id"))
		require.Equal(t, "false", r.URL.Query().Get("prettyprint"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"response":55.25}`)
	}))
	defer srv.Close()

	provider := OpenExchangeRates{
		BaseURL: srv.URL,
		AppID:   "test-app-id",
		Client:  resilience.HTTPClient{Client: srv.Client(), MaxAttempts: 1},
	}
	got, err := provider.Rate(context.Background(), decimal.NewFromInt(65), "USD", "EUR")
	require.NoError(t, err)
	want, _ := decimal.NewFromString("55.25")
	require.True(t, want.Equal(got), "got %s", got)
}

func TestOpenExchangeRatesMissingAppID(t *testing.T) {
	provider := OpenExchangeRates{BaseURL: "http://localhost", Client: resilience.HTTPClient{Client: http.DefaultClient, MaxAttempts: 1}}
	_, err := provider.Rate(context.Background(), decimal.NewFromInt(1), "USD", "EUR")
	require.Error(t, err)
}

func TestOpenExchangeRatesBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	provider := OpenExchangeRates{
		BaseURL: srv.URL,
		AppID:   "test-app-id",
		Client:  resilience.HTTPClient{Client: srv.Client(), MaxAttempts: 1},
	}
	_, err := provider.Rate(context.Background(), decimal.NewFromInt(1), "USD", "EUR")
	require.Error(t, err)
}
