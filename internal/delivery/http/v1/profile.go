package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskdeck/internal/models"
	"taskdeck/internal/services"
)

type getProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newGetProfileResponse(user *models.User) getProfileResponse {
	return getProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Image:     user.Image,
		CreatedAt: user.CreatedAt,
	}
}

func (h *handlerImpl) HandleGetProfile(c *gin.Context) {
	userID, exists := authorizedUserID(c)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUserByID(c, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			abort(c, newNotFoundError(services.ErrUserNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to get profile")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, newGetProfileResponse(user))
}

type updateProfileRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,min=2,max=255"`
	Image *string `json:"image,omitempty" binding:"omitempty,url"`
}

func (h *handlerImpl) HandleUpdateProfile(c *gin.Context) {
	userID, exists := authorizedUserID(c)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req updateProfileRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	user, err := h.users.UpdateProfile(c, services.UpdateProfileParams{
		UserID: userID,
		Name:   req.Name,
		Image:  req.Image,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			abort(c, newNotFoundError(services.ErrUserNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to update profile")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.logger.Info().Msg("updated profile")
	c.JSON(http.StatusOK, newGetProfileResponse(user))
}
