package exchange

import (
	"fmt"
	"net/http"

	"github.com/noah-isme/backend-kasir/internal/common"
)

// UnknownProviderError signals that the configured provider name has no
// registered implementation.
func UnknownProviderError(name string) *common.AppError {
	err := common.NewAppError(common.CodeUnknownProvider,
		fmt.Sprintf("invalid exchange provider configured: %s", name),
		http.StatusBadRequest, nil)
	err.Details = map[string]string{"provider": name}
	return err
}

// ProviderUnavailableError signals that the upstream rate lookup failed or
// returned unusable data. The provider name travels with the error so
// transport layers can surface it.
func ProviderUnavailableError(name string, cause error) *common.AppError {
	err := common.NewAppError(common.CodeProviderUnavailable,
		fmt.Sprintf("exchange provider %s unavailable", name),
		http.StatusBadGateway, cause)
	err.Details = map[string]string{"provider": name}
	return err
}
