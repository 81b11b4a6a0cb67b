package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wayfare/internal/domain"
	"wayfare/internal/service"
)

// ProfileHandler mantiene dependencias para los endpoints de /users.
type ProfileHandler struct {
	logger   *zap.Logger
	profiles *service.ProfileService
}

func NewProfileHandler(logger *zap.Logger, profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		logger:   logger,
		profiles: profiles,
	}
}

// GetProfile maneja GET /users/:userId/profile. El segmento "me" resuelve
// al dueño autenticado y exige credencial.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	subjectID, viewer, ok := h.resolveSubject(c)
	if !ok {
		return
	}

	if viewer != nil && viewer.ID == subjectID && c.Param("userId") == "me" {
		h.ownProfile(c, *viewer)
		return
	}

	projection, err := h.profiles.PublicProfile(c.Request.Context(), subjectID, viewer)
	if err != nil {
		h.respondError(c, err, "could not load profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": projection})
}

// GetCompleteProfile maneja GET /users/:userId/profile/complete.
func (h *ProfileHandler) GetCompleteProfile(c *gin.Context) {
	subjectID, viewer, ok := h.resolveSubject(c)
	if !ok {
		return
	}

	projection, err := h.profiles.CompleteProfile(c.Request.Context(), subjectID, viewer)
	if err != nil {
		h.respondError(c, err, "could not load profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": projection})
}

func (h *ProfileHandler) ownProfile(c *gin.Context, owner domain.User) {
	projection, err := h.profiles.OwnProfile(c.Request.Context(), owner)
	if err != nil {
		h.respondError(c, err, "could not load profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": projection})
}

// resolveSubject traduce el parametro de ruta al id del sujeto. "me"
// requiere un usuario autenticado.
func (h *ProfileHandler) resolveSubject(c *gin.Context) (string, *domain.User, bool) {
	var viewer *domain.User
	if user, ok := CurrentUser(c); ok {
		viewer = &user
	}

	subjectID := c.Param("userId")
	if subjectID == "me" {
		if viewer == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return "", nil, false
		}
		return viewer.ID, viewer, true
	}
	return subjectID, viewer, true
}

func (h *ProfileHandler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, service.ErrProfilePrivate):
		c.JSON(http.StatusForbidden, gin.H{"error": service.PrivateProfileNotice})
	default:
		h.logger.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
