package billing

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-kasir/internal/auth"
	"github.com/noah-isme/backend-kasir/internal/common"
)

// Handler exposes the bill calculation endpoint.
type Handler struct {
	Svc *Service
	Log zerolog.Logger
}

// Calculate handles POST /api/v1/bills/calculate.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req BillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, invalidRequest("invalid request body", err))
		return
	}

	var caller *auth.Identity
	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		caller = &identity
	}

	resp, err := h.Svc.CalculateNetPayable(r.Context(), req, caller)
	if err != nil {
		if common.ErrorCode(err) == common.CodeInternal {
			h.Log.Error().Err(err).Msg("bill calculation failed")
		}
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, resp)
}
