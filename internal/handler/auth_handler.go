// Package handler provides HTTP handlers for API endpoints.
package handler

import (
	"errors"
	"io"
	"net/http"

	"login-api/internal/metrics"
	"login-api/internal/services"
	"login-api/internal/transport/httpdto"
	login_errors "login-api/pkg/errors"
	"login-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgRegistered = "Usuário registrado com sucesso"
	msgLoggedIn   = "Login realizado com sucesso"
	msgInternal   = "erro interno"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	users   *services.UserService
	tokens  *services.TokenService
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewAuthHandler creates an auth handler. m may be nil.
func NewAuthHandler(users *services.UserService, tokens *services.TokenService, m *metrics.Metrics, l *logger.Logger) *AuthHandler {
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return &AuthHandler{users: users, tokens: tokens, metrics: m, logger: l}
}

// Register godoc
// @Summary      Register a user
// @Description  Registers a new login. Logins are unique and case-sensitive.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      httpdto.CredentialsRequest  true  "Credentials"
// @Success      201   {object}  httpdto.AuthResponse  "Usuário registrado com sucesso"
// @Failure      400   {object}  httpdto.ErrorResponse  "Usuário já existe"
// @Failure      500   {object}  httpdto.ErrorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	u, err := h.users.Register(c.Request.Context(), req.Login, req.Senha)
	if err != nil {
		if errors.Is(err, login_errors.ErrDuplicateUser) {
			h.metrics.ObserveAuth("register", metrics.OutcomeDuplicate)
		} else {
			h.metrics.ObserveAuth("register", metrics.OutcomeError)
		}
		writeError(c, err)
		return
	}

	token, err := h.tokens.Issue(u.Login)
	if err != nil {
		h.metrics.ObserveAuth("register", metrics.OutcomeError)
		writeError(c, err)
		return
	}

	h.metrics.ObserveAuth("register", metrics.OutcomeSuccess)
	h.metrics.TokenIssued()
	h.refreshUserCount(c)
	h.logger.WithContext(c.Request.Context()).Info("user registered", zap.String("login", u.Login))

	c.JSON(http.StatusCreated, httpdto.AuthResponse{
		Message: msgRegistered,
		User:    httpdto.UserDTO{Login: u.Login},
		Token:   token,
	})
}

// Login godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      httpdto.CredentialsRequest  true  "Credentials"
// @Success      200   {object}  httpdto.AuthResponse  "Login realizado com sucesso"
// @Failure      400   {object}  httpdto.ErrorResponse  "Requisição inválida"
// @Failure      401   {object}  httpdto.ErrorResponse  "Login ou senha inválidos"
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	u, err := h.users.Login(c.Request.Context(), req.Login, req.Senha)
	if err != nil {
		if errors.Is(err, login_errors.ErrInvalidCredentials) {
			h.metrics.ObserveAuth("login", metrics.OutcomeInvalid)
		} else {
			h.metrics.ObserveAuth("login", metrics.OutcomeError)
		}
		writeError(c, err)
		return
	}

	token, err := h.tokens.Issue(u.Login)
	if err != nil {
		h.metrics.ObserveAuth("login", metrics.OutcomeError)
		writeError(c, err)
		return
	}

	h.metrics.ObserveAuth("login", metrics.OutcomeSuccess)
	h.metrics.TokenIssued()

	c.JSON(http.StatusOK, httpdto.AuthResponse{
		Message: msgLoggedIn,
		User:    httpdto.UserDTO{Login: u.Login},
		Token:   token,
	})
}

func (h *AuthHandler) refreshUserCount(c *gin.Context) {
	if h.metrics == nil {
		return
	}
	if n, err := h.users.Count(c.Request.Context()); err == nil {
		h.metrics.SetUsers(n)
	}
}

// bindCredentials decodes the JSON body. An empty body is treated as an
// empty object. Invalid JSON and non-string login or senha values are
// rejected with 400.
func bindCredentials(c *gin.Context) (httpdto.CredentialsRequest, bool) {
	var req httpdto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(login_errors.ErrInvalidInput.Error()))
		return req, false
	}
	return req, true
}

// writeError echoes domain errors verbatim. Anything else is attached to the
// gin context for the error middleware to log and answered generically.
func writeError(c *gin.Context, err error) {
	status := services.HTTPStatus(err)
	if services.IsDomainError(err) {
		c.JSON(status, httpdto.NewErrorResponse(err.Error()))
		return
	}
	_ = c.Error(err)
	c.JSON(status, httpdto.NewErrorResponse(msgInternal))
}
