package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetRooms handles the GET /api/rooms request. The catalog is ordered by
// room name and small enough to return whole.
func (h *Handler) GetRooms(c *gin.Context) {
	rooms, err := h.store.ListRooms(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rooms"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}
