package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"user-profile-backend/internal/features/profile/models"
	"user-profile-backend/internal/features/profile/service"
)

type ProfileHandler struct {
	service service.ProfileService
}

func NewProfileHandler(service service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		service: service,
	}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Method-agnostic on purpose; the endpoint only reads headers.
	router.Any("/me", h.me)
}

func (h *ProfileHandler) me(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.service.EnsureSchema(ctx); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "Server error",
			"details": err.Error(),
		})
		return
	}

	user, err := h.service.Resolve(ctx, c.GetHeader("x-user-id"), c.GetHeader("Authorization"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing credentials: supply an x-user-id header or an Authorization: Bearer <token> header",
			})
		case errors.Is(err, service.ErrInvalidCredentials):
			// Deliberately generic; must not reveal whether the credential
			// was malformed or simply unmatched.
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authentication credentials",
			})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":   "Server error",
				"details": err.Error(),
			})
		}
		return
	}

	profile, err := h.service.GetProfile(ctx, user.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "Server error",
			"details": err.Error(),
		})
		return
	}

	var profileType *string
	if profile != nil {
		profileType = profile.ProfileType
	}

	c.JSON(http.StatusOK, models.MeResponse{
		User:        user,
		Profile:     profile,
		ProfileType: profileType,
	})
}
