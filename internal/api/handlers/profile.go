package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api/middleware"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/repository"
	"github.com/jafarshop/storefront/pkg/errors"
)

// ProfileRequest replaces the saved shipping profile
type ProfileRequest struct {
	FirstName string         `json:"first_name" binding:"required"`
	LastName  string         `json:"last_name" binding:"required"`
	Email     string         `json:"email" binding:"omitempty,email"`
	Phone     string         `json:"phone"`
	Address   domain.Address `json:"address"`
}

// ProfileResponse represents the saved shipping profile
type ProfileResponse struct {
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone,omitempty"`
	Address   domain.Address `json:"address"`
	UpdatedAt string         `json:"updated_at,omitempty"`
}

func newProfileResponse(p *domain.Profile) ProfileResponse {
	resp := ProfileResponse{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		Address:   p.Address,
	}
	if !p.UpdatedAt.IsZero() {
		resp.UpdatedAt = p.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

// HandleGetProfile handles GET /v1/profile
func HandleGetProfile(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		profile, err := repos.Profile.GetByUserID(c.Request.Context(), user.ID)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				// Nothing saved yet: the account email is all we know
				c.JSON(http.StatusOK, ProfileResponse{Email: user.Email})
				return
			}
			logger.Error("Failed to get profile", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, newProfileResponse(profile))
	}
}

// HandlePutProfile handles PUT /v1/profile
func HandlePutProfile(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req ProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequestBody(c, err)
			return
		}

		profile := &domain.Profile{
			UserID:    user.ID,
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
			Email:     strings.TrimSpace(req.Email),
			Phone:     strings.TrimSpace(req.Phone),
			Address:   req.Address,
		}
		if profile.Email == "" {
			profile.Email = user.Email
		}

		if err := repos.Profile.Upsert(c.Request.Context(), profile); err != nil {
			logger.Error("Failed to save profile", zap.String("user_id", user.ID.String()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save profile"})
			return
		}

		c.JSON(http.StatusOK, newProfileResponse(profile))
	}
}
