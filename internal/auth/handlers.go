package auth

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-kasir/internal/common"
)

// Handler exposes the login endpoint.
type Handler struct {
	Service *Service
	Log     zerolog.Logger
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates credentials and returns a signed access token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "auth service not configured", nil)
		return
	}
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidRequest, "invalid payload", nil)
		return
	}
	result, err := h.Service.Login(payload.Username, payload.Password)
	if err != nil {
		h.Log.Warn().Err(err).Str("username", common.SanitizeForLog(payload.Username)).Msg("login rejected")
		common.WriteError(w, err)
		return
	}
	h.Log.Info().Str("username", result.Identity.Username).Str("role", string(result.Identity.Role)).Msg("login succeeded")
	common.JSON(w, http.StatusOK, result)
}
