package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlerImpl) HandleGetAnalytics(c *gin.Context) {
	userID, exists := authorizedUserID(c)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	snapshot, err := h.analytics.GetSnapshot(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to compute analytics snapshot")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.logger.Info().Msg("computed analytics snapshot")
	c.JSON(http.StatusOK, snapshot)
}
