package handler

import (
	"net/http"
	"time"

	"login-api/internal/metrics"
	"login-api/internal/services"
	"login-api/internal/transport/httpdto"
	login_errors "login-api/pkg/errors"

	"github.com/gin-gonic/gin"
)

const msgProfile = "Perfil acessado com sucesso"

type UserHandler struct {
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewUserHandler(m *metrics.Metrics) *UserHandler {
	return &UserHandler{metrics: m, now: time.Now}
}

// Profile godoc
// @Summary      Profile of the token holder
// @Description  The login is read back from the token itself.
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  httpdto.ProfileResponse  "Perfil acessado com sucesso"
// @Failure      401  {object}  httpdto.ErrorResponse  "Token de acesso necessário / Token inválido"
// @Router       /profile [get]
//
// The auth middleware has already checked the bearer token and stored the
// login it carries.
func (h *UserHandler) Profile(c *gin.Context) {
	login, ok := services.LoginFromContext(c.Request.Context())
	if !ok {
		h.metrics.ObserveAuth("profile", metrics.OutcomeInvalid)
		writeError(c, login_errors.ErrMissingToken)
		return
	}

	h.metrics.ObserveAuth("profile", metrics.OutcomeSuccess)
	c.JSON(http.StatusOK, httpdto.ProfileResponse{
		Message:   msgProfile,
		User:      httpdto.UserDTO{Login: login},
		Timestamp: h.now().UTC().Format(httpdto.TimestampLayout),
	})
}
