package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-kasir/internal/resilience"
)

// ExchangeRateAPI fetches amount-scaled conversion results from the
// ExchangeRate-API pair endpoint.
type ExchangeRateAPI struct {
	BaseURL string
	APIKey  string
	Client  resilience.HTTPClient
}

type exchangeRateAPIResponse struct {
	Result           string          `json:"result"`
	ErrorType        string          `json:"error-type"`
	ConversionResult decimal.Decimal `json:"conversion_result"`
}

// Name identifies this provider in the registry.
func (p ExchangeRateAPI) Name() string { return "exchangerateapi" }

// Rate calls GET {base}/{key}/pair/{from}/{to}/{amount} and returns the
// conversion result.
func (p ExchangeRateAPI) Rate(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if strings.TrimSpace(p.APIKey) == "" {
		return decimal.Decimal{}, errors.New("exchangerate-api: api key not configured")
	}
	url := fmt.Sprintf("%s/%s/pair/%s/%s/%s",
		strings.TrimRight(p.BaseURL, "/"), p.APIKey, from, to, amount.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("exchangerate-api: build request: %w", err)
	}
	resp, err := p.Client.Do(ctx, req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("exchangerate-api: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("exchangerate-api: unexpected status %d", resp.StatusCode)
	}
	var payload exchangeRateAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Decimal{}, fmt.Errorf("exchangerate-api: decode response: %w", err)
	}
	if payload.Result != "" && payload.Result != "success" {
		return decimal.Decimal{}, fmt.Errorf("exchangerate-api: request failed: %s", payload.ErrorType)
	}
	return payload.ConversionResult, nil
}
