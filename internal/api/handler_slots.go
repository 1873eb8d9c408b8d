package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"room-booking-backend/internal/booking"
	"room-booking-backend/internal/model"
	"room-booking-backend/internal/store"
)

type postSlotRequest struct {
	Title          string `json:"title"`
	Room           string `json:"room" binding:"required"`
	Start          string `json:"start" binding:"required"`
	End            string `json:"end" binding:"required"`
	RequesterEmail string `json:"requesterEmail"`
}

// GetSlots handles the GET /api/slots request. The visibility gate decides
// what the asserted caller may see: everything for the admin, nothing for
// anyone else.
func (h *Handler) GetSlots(c *gin.Context) {
	email := callerEmail(c.GetHeader("X-User-Email"), c.Query("email"))

	bookings, err := h.gate.ListVisible(c.Request.Context(), email)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bookings"})
		return
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}

// PostSlot handles the POST /api/slots request: field validation at the
// boundary, room lookup, then the booking policy.
func (h *Handler) PostSlot(c *gin.Context) {
	var req postSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Informe room, start e end"})
		return
	}

	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de data/hora inválido"})
		return
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de data/hora inválido"})
		return
	}

	room, err := h.store.GetRoom(c.Request.Context(), req.Room)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sala não encontrada"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno"})
		return
	}

	outcome, err := h.policy.Book(c.Request.Context(), room, booking.Request{
		Title:          req.Title,
		RoomID:         room.ID,
		Start:          start,
		End:            end,
		RequesterEmail: req.RequesterEmail,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno"})
		return
	}

	switch outcome.Kind {
	case booking.Approved:
		c.JSON(http.StatusCreated, gin.H{"ok": true, "slot": outcome.Booking})
	case booking.Deferred:
		c.JSON(http.StatusAccepted, gin.H{"ok": false, "notice": outcome.Notice})
	case booking.Rejected:
		status := http.StatusBadRequest
		if outcome.Reason == booking.ReasonRoomBooked {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": outcome.Message})
	}
}

// DeleteSlot handles DELETE /api/slots/:id. Deletion is scoped to the
// original requester; a foreign booking looks like a missing one.
func (h *Handler) DeleteSlot(c *gin.Context) {
	email := callerEmail(c.GetHeader("X-User-Email"), c.Query("email"))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Informe o e-mail do solicitante"})
		return
	}

	err := h.store.DeleteBooking(c.Request.Context(), c.Param("id"), email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reserva não encontrada"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno"})
		return
	}
	c.Status(http.StatusNoContent)
}
