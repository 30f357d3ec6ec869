package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskdeck/internal/models"
	"taskdeck/internal/services"
)

type getCategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	TaskCount int64     `json:"task_count"`
	CreatedAt time.Time `json:"created_at"`
}

func newGetCategoryResponse(category *models.Category) getCategoryResponse {
	return getCategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Color:     category.Color,
		TaskCount: category.TaskCount,
		CreatedAt: category.CreatedAt,
	}
}

func (h *handlerImpl) HandleGetCategories(c *gin.Context) {
	userID, exists := authorizedUserID(c)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	categories, err := h.categories.ListCategories(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list categories")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getCategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = newGetCategoryResponse(category)
	}

	h.logger.Info().
		Int("count", len(response)).
		Msg("fetched categories")
	c.JSON(http.StatusOK, response)
}

type createCategoryRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Color string `json:"color"`
}

func (h *handlerImpl) HandleCreateCategory(c *gin.Context) {
	userID, exists := authorizedUserID(c)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req createCategoryRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	category, err := h.categories.CreateCategory(c, services.CreateCategoryParams{
		UserID: userID,
		Name:   req.Name,
		Color:  req.Color,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create category")
		if errors.Is(err, services.ErrEmptyCategoryName) {
			abort(c, newBadRequestError(services.ErrEmptyCategoryName.Error()))
			return
		}
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.logger.Info().Msg("created category")
	c.JSON(http.StatusCreated, newGetCategoryResponse(category))
}

func (h *handlerImpl) HandleDeleteCategory(c *gin.Context) {
	userID, exists := authorizedUserID(c)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	categoryID := c.Param("id")
	if categoryID == "" {
		h.logger.Error().Msg("no category id provided")
		abort(c, newBadRequestError("no category id provided"))
		return
	}

	err := h.categories.DeleteCategory(c, services.DeleteCategoryParams{
		ID:     categoryID,
		UserID: userID,
	})
	if err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			abort(c, newNotFoundError(services.ErrCategoryNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to delete category")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.logger.Info().Msg("deleted category")
	c.Status(http.StatusNoContent)
}
