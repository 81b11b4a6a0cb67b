package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"wayfare/internal/domain"
	"wayfare/internal/repository"
	"wayfare/internal/service"
)

const currentUserKey = "current_user"

// RequireAuth valida el bearer token, resuelve la cuenta y la deja en el
// contexto. Rechaza con motivo distinto segun el fallo: token ausente,
// vencido, malformado, cuenta inexistente o cuenta no activa.
func RequireAuth(jwtSvc *service.JWTService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, status, reason := resolveBearer(c, jwtSvc, users)
		if reason != "" {
			c.JSON(status, gin.H{"error": reason})
			c.Abort()
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// OptionalAuth intenta la misma resolucion pero nunca bloquea: ante
// cualquier fallo la peticion sigue sin usuario en el contexto.
func OptionalAuth(jwtSvc *service.JWTService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _, reason := resolveBearer(c, jwtSvc, users)
		if reason == "" {
			c.Set(currentUserKey, user)
		}
		c.Next()
	}
}

// RequireRoles exige que el usuario ya resuelto tenga alguno de los roles.
// Debe colgarse despues de RequireAuth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		if !user.HasRole(roles...) {
			c.JSON(http.StatusForbidden, gin.H{"error": "you do not have permission to perform this action"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser obtiene la cuenta autenticada desde el contexto.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	val, ok := c.Get(currentUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}

// resolveBearer devuelve la cuenta o el par (status, motivo) del rechazo.
func resolveBearer(c *gin.Context, jwtSvc *service.JWTService, users repository.UserRepository) (domain.User, int, string) {
	if jwtSvc == nil || users == nil {
		return domain.User{}, http.StatusInternalServerError, "auth not configured"
	}

	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return domain.User{}, http.StatusUnauthorized, "authentication required"
	}

	token := strings.TrimSpace(header[len("Bearer "):])
	claims, err := jwtSvc.ParseAccessToken(token)
	if err != nil {
		if errors.Is(err, service.ErrJWTExpired) {
			return domain.User{}, http.StatusUnauthorized, "token has expired"
		}
		return domain.User{}, http.StatusUnauthorized, "invalid token"
	}

	user, err := users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, http.StatusUnauthorized, "account no longer exists"
		}
		return domain.User{}, http.StatusInternalServerError, "could not resolve account"
	}
	if user.DeletedAt != nil {
		return domain.User{}, http.StatusUnauthorized, "account no longer exists"
	}

	switch user.AccountStatus {
	case domain.StatusActive:
	case domain.StatusPending:
		return domain.User{}, http.StatusForbidden, "please verify your account before continuing"
	case domain.StatusSuspended:
		return domain.User{}, http.StatusForbidden, "your account has been suspended"
	case domain.StatusBanned:
		return domain.User{}, http.StatusForbidden, "your account has been banned"
	case domain.StatusDeactivated:
		return domain.User{}, http.StatusForbidden, "your account has been deactivated"
	default:
		return domain.User{}, http.StatusForbidden, "account is not active"
	}

	return user, 0, ""
}
