package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type claimRequest struct {
	Slot int `json:"slot" binding:"required"`
}

func (h *Handler) Streak(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	summary, err := h.Engine.Streaks.Slots(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) ClaimSlot(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "slot is required")
		return
	}

	res, err := h.Engine.Streaks.ClaimSlot(c.Request.Context(), userID, req.Slot)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
