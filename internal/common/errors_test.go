package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	appErr := NewAppError(CodeInvalidRequest, "bad input", http.StatusBadRequest, nil)
	require.Equal(t, CodeInvalidRequest, ErrorCode(appErr))
	require.Equal(t, CodeInvalidRequest, ErrorCode(fmt.Errorf("wrap: %w", appErr)))
	require.Equal(t, CodeInternal, ErrorCode(errors.New("plain")))
}

func TestWriteErrorAppError(t *testing.T) {
	rr := httptest.NewRecorder()
	err := NewAppError(CodeProviderUnavailable, "provider down", http.StatusBadGateway, nil)
	err.Details = map[string]string{"provider": "exchangerateapi"}
	WriteError(rr, err)

	require.Equal(t, http.StatusBadGateway, rr.Code)
	var payload struct {
		Error ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.Equal(t, CodeProviderUnavailable, payload.Error.Code)
	require.Equal(t, "provider down", payload.Error.Message)
}

func TestWriteErrorPlainError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var payload struct {
		Error ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.Equal(t, CodeInternal, payload.Error.Code)
}

func TestSanitizeForLog(t *testing.T) {
	require.Equal(t, "user name", SanitizeForLog("user\nname"))
	require.Equal(t, "a b c", SanitizeForLog("a\rb\tc"))
	require.Equal(t, "plain", SanitizeForLog("plain"))
}
