package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type advanceRequest struct {
	ConfirmedSteps int `json:"confirmed_steps"`
}

func (h *Handler) Level(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	progress, err := h.Engine.Progression.Progress(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// RecordGem credits one gem towards the current level.
func (h *Handler) RecordGem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	res, err := h.Engine.Progression.RecordGem(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AdvanceLevel completes the level offer and pays its reward.
func (h *Handler) AdvanceLevel(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req advanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	res, err := h.Engine.Progression.AdvanceLevel(c.Request.Context(), userID, req.ConfirmedSteps)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) OfferHistory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	offers, err := h.Engine.Progression.OfferHistory(c.Request.Context(), userID, queryLimit(c, 50))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers})
}
