package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/aqi-advisor/internal/domain/advisor"
	"github.com/yanqian/aqi-advisor/internal/domain/auth"
	apperrors "github.com/yanqian/aqi-advisor/pkg/errors"
)

const appVersion = "0.1.0"

// Handler wires the HTTP transport to domain services.
type Handler struct {
	advisorSvc advisor.Service
	authSvc    auth.Service
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(advisorSvc advisor.Service, authSvc auth.Service, logger *slog.Logger) *Handler {
	return &Handler{
		advisorSvc: advisorSvc,
		authSvc:    authSvc,
		logger:     logger.With("component", "http.handler"),
	}
}

// Health reports liveness along with the active rule version.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"version":     appVersion,
		"ruleVersion": advisor.RuleVersion,
	})
}

// Recommend produces an advisory for a profile supplied in the request body.
// No account is required; anonymous callers can check conditions for any
// location.
func (h *Handler) Recommend(c *gin.Context) {
	var profile advisor.UserHealthProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	rec, err := h.advisorSvc.Recommend(c.Request.Context(), profile)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "recommendation_failed", errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, rec)
}

// RecommendForUser produces an advisory from the caller's stored profile.
func (h *Handler) RecommendForUser(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing credentials", nil))
		return
	}

	profile, err := h.authSvc.HealthProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		status := http.StatusInternalServerError
		code := "recommendation_failed"
		if apperrors.IsCode(err, "user_not_found") {
			status = http.StatusNotFound
			code = "user_not_found"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	rec, err := h.advisorSvc.Recommend(c.Request.Context(), profile)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "recommendation_failed", errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, rec)
}

// Register creates an account with the supplied credentials and health fields.
func (h *Handler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	view, err := h.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "register_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "phone_exists"):
			status = http.StatusConflict
			code = "phone_exists"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusCreated, view)
}

// Login exchanges phone and password for a token pair.
func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "login_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "invalid_credentials"):
			status = http.StatusUnauthorized
			code = "invalid_credentials"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Refresh mints a fresh token pair from a refresh token.
func (h *Handler) Refresh(c *gin.Context) {
	var req auth.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		status := http.StatusInternalServerError
		code := "refresh_failed"
		switch {
		case apperrors.IsCode(err, "invalid_token"):
			status = http.StatusUnauthorized
			code = "invalid_token"
		case apperrors.IsCode(err, "user_not_found"):
			status = http.StatusNotFound
			code = "user_not_found"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Profile returns the caller's account and health fields.
func (h *Handler) Profile(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing credentials", nil))
		return
	}

	view, err := h.authSvc.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		status := http.StatusInternalServerError
		code := "profile_failed"
		if apperrors.IsCode(err, "user_not_found") {
			status = http.StatusNotFound
			code = "user_not_found"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, view)
}

// UpdateProfile replaces the caller's health fields.
func (h *Handler) UpdateProfile(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing credentials", nil))
		return
	}

	var fields auth.HealthFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	view, err := h.authSvc.UpdateProfile(c.Request.Context(), claims.UserID, fields)
	if err != nil {
		status := http.StatusInternalServerError
		code := "profile_failed"
		if apperrors.IsCode(err, "user_not_found") {
			status = http.StatusNotFound
			code = "user_not_found"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, view)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
