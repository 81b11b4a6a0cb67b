package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wayfare/internal/service"
)

// AccountHandler mantiene dependencias para los endpoints de /auth.
type AccountHandler struct {
	logger   *zap.Logger
	accounts *service.AccountService
	jwtServ  *service.JWTService
}

// NewAccountHandler crea una instancia de AccountHandler con sus dependencias.
func NewAccountHandler(logger *zap.Logger, accounts *service.AccountService, jwtServ *service.JWTService) *AccountHandler {
	return &AccountHandler{
		logger:   logger,
		accounts: accounts,
		jwtServ:  jwtServ,
	}
}

// CheckAvailability maneja POST /auth/check-availability.
func (h *AccountHandler) CheckAvailability(c *gin.Context) {
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid availability request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	available, err := h.accounts.CheckAvailability(c.Request.Context(), service.AvailabilityField(req.Field), req.Value)
	if err != nil {
		h.respondError(c, err, "could not check availability")
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}

// Signup maneja POST /auth/signup.
func (h *AccountHandler) Signup(c *gin.Context) {
	var req struct {
		Fullname           string `json:"fullname"`
		Nickname           string `json:"nickname"`
		Email              string `json:"email"`
		Password           string `json:"password"`
		PhoneNumber        string `json:"phoneNumber"`
		DateOfBirth        string `json:"dateOfBirth"`
		Gender             string `json:"gender"`
		VerificationMethod string `json:"verificationMethod"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid signup request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var dob *time.Time
	if req.DateOfBirth != "" {
		parsed, err := parseDate(req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date of birth format", "field": "dateOfBirth"})
			return
		}
		dob = &parsed
	}

	user, err := h.accounts.Signup(c.Request.Context(), service.SignupInput{
		Fullname:           req.Fullname,
		Nickname:           req.Nickname,
		Email:              req.Email,
		Password:           req.Password,
		PhoneNumber:        req.PhoneNumber,
		DateOfBirth:        dob,
		Gender:             req.Gender,
		VerificationMethod: req.VerificationMethod,
	})
	if err != nil {
		h.respondError(c, err, "could not create account")
		return
	}

	tokens, err := h.jwtServ.GeneratePair(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "tokens": tokens})
}

// VerifyCode maneja POST /auth/verify-code.
func (h *AccountHandler) VerifyCode(c *gin.Context) {
	var req struct {
		Identifier string `json:"identifier"`
		Code       string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid verify request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.accounts.VerifyCode(c.Request.Context(), req.Identifier, req.Code)
	if err != nil {
		h.respondError(c, err, "could not verify account")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account verified successfully", "user": user})
}

// VerifyEmail maneja GET /auth/verify-email/:token.
func (h *AccountHandler) VerifyEmail(c *gin.Context) {
	user, err := h.accounts.VerifyEmailToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.respondError(c, err, "could not verify email")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully", "user": user})
}

// VerifyPhone maneja POST /auth/verify-phone.
func (h *AccountHandler) VerifyPhone(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
		Code        string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid phone verify request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.accounts.VerifyPhone(c.Request.Context(), req.PhoneNumber, req.Code)
	if err != nil {
		h.respondError(c, err, "could not verify phone")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Phone number verified successfully", "user": user})
}

// ResendCode maneja POST /auth/resend-code.
func (h *AccountHandler) ResendCode(c *gin.Context) {
	var req struct {
		Identifier string `json:"identifier"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid resend request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.accounts.ResendVerification(c.Request.Context(), req.Identifier); err != nil {
		h.respondError(c, err, "could not resend verification")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

// ResendVerificationEmail maneja POST /auth/resend-verification-email.
func (h *AccountHandler) ResendVerificationEmail(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid resend email request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.accounts.ResendVerificationEmail(c.Request.Context(), req.Email); err != nil {
		h.respondError(c, err, "could not resend verification email")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent"})
}

// ResendVerificationPhone maneja POST /auth/resend-verification-phone.
func (h *AccountHandler) ResendVerificationPhone(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid resend phone request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.accounts.ResendVerificationPhone(c.Request.Context(), req.PhoneNumber); err != nil {
		h.respondError(c, err, "could not resend verification sms")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

// Signin maneja POST /auth/signin.
func (h *AccountHandler) Signin(c *gin.Context) {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid signin request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.accounts.Signin(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		h.respondError(c, err, "could not sign in")
		return
	}

	tokens, err := h.jwtServ.GeneratePair(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "tokens": tokens})
}

// ForgotPassword maneja POST /auth/forgot-password. La respuesta de exito
// es identica exista o no la cuenta.
func (h *AccountHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid forgot password request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.accounts.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.respondError(c, err, "could not process password reset")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": service.GenericResetMessage})
}

// VerifyResetCode maneja POST /auth/verify-reset-code.
func (h *AccountHandler) VerifyResetCode(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid reset code request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.accounts.VerifyResetCode(c.Request.Context(), req.Email, req.Code); err != nil {
		h.respondError(c, err, "could not verify reset code")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reset code is valid"})
}

// ResetPassword maneja POST /auth/reset-password.
func (h *AccountHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid reset password request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.accounts.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		h.respondError(c, err, "could not reset password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// Me maneja GET /auth/me.
func (h *AccountHandler) Me(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// RefreshToken maneja POST /auth/refresh-token.
func (h *AccountHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid refresh request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	tokens, err := h.jwtServ.RefreshPair(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Signout maneja POST /auth/signout.
func (h *AccountHandler) Signout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid signout request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	_ = h.jwtServ.RevokeRefresh(req.RefreshToken)
	c.Status(http.StatusNoContent)
}

// respondError mapea errores del servicio de cuentas a respuestas HTTP.
func (h *AccountHandler) respondError(c *gin.Context, err error, fallback string) {
	var validationErr *service.ValidationError
	var conflictErr *service.ConflictError
	var lockedErr *service.LockedError
	var pendingErr *service.NeedsVerificationError

	switch {
	case errors.As(err, &validationErr):
		resp := gin.H{"error": validationErr.Message}
		if validationErr.Field != "" {
			resp["field"] = validationErr.Field
		}
		c.JSON(http.StatusBadRequest, resp)
	case errors.As(err, &conflictErr):
		resp := gin.H{"error": conflictErr.Message}
		if conflictErr.Field != "" {
			resp["field"] = conflictErr.Field
		}
		c.JSON(http.StatusConflict, resp)
	case errors.As(err, &lockedErr):
		c.JSON(http.StatusLocked, gin.H{"error": lockedErr.Error(), "lockUntil": lockedErr.Until})
	case errors.As(err, &pendingErr):
		c.JSON(http.StatusForbidden, gin.H{"error": pendingErr.Error(), "verificationMethod": pendingErr.Method})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrAccountSuspended),
		errors.Is(err, service.ErrAccountBanned),
		errors.Is(err, service.ErrAccountDeactivated):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCodeInvalid), errors.Is(err, service.ErrResetCodeInvalid),
		errors.Is(err, service.ErrAlreadyVerified):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	case errors.Is(err, service.ErrDispatchFailed):
		h.logger.Error("notification dispatch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.ErrDispatchFailed.Error()})
	default:
		h.logger.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// parseDate acepta fechas en formato RFC3339 o YYYY-MM-DD.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", raw)
}
