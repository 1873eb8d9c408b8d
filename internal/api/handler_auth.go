package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"room-booking-backend/internal/model"
)

type loginRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Whatsapp string `json:"whatsapp"`
}

type identityResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Whatsapp string `json:"whatsapp,omitempty"`
	Admin    bool   `json:"admin"`
}

// Login upserts the asserted identity by email and echoes it back. No
// credential is checked; the admin flag is derived from configuration, not
// stored.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Preencha nome e e-mail."})
		return
	}

	user, err := h.store.UpsertUser(c.Request.Context(), model.User{
		Name:     req.Name,
		Email:    req.Email,
		Whatsapp: req.Whatsapp,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"identity": identityResponse{
			ID:       user.ID,
			Name:     user.Name,
			Email:    user.Email,
			Whatsapp: user.Whatsapp,
			Admin:    h.gate.IsAdmin(user.Email),
		},
	})
}

// Health is a trivial liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
