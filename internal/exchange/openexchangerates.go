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

// OpenExchangeRates fetches conversion results from the Open Exchange Rates
// convert endpoint.
type OpenExchangeRates struct {
	BaseURL string
	AppID   string
	Client  resilience.HTTPClient
}

type openExchangeRatesResponse struct {
	Response decimal.Decimal `json:"response"`
}

// Name identifies this provider in the registry.
func (p OpenExchangeRates) Name() string { return "openexchangerates" }

// Rate calls GET {base}/convert/{amount}/{from}/{to}?app_id=... and returns
// the conversion response.
func (p OpenExchangeRates) Rate(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if strings.TrimSpace(p.AppID) == "" {
		return decimal.Decimal{}, errors.New("openexchangerates: app id not configured")
	}
	url := fmt.Sprintf("%s/convert/%s/%s/%s?app_id=%s&prettyprint=false",
		strings.TrimRight(p.BaseURL, "/"), amount.String(), from, to, p.AppID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("openexchangerates: build request: %w", err)
	}
	resp, err := p.Client.Do(ctx, req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("openexchangerates: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("openexchangerates: unexpected status %d", resp.StatusCode)
	}
	var payload openExchangeRatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Decimal{}, fmt.Errorf("openexchangerates: decode response: %w", err)
	}
	return payload.Response, nil
}
