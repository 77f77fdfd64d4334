package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetLeaderboard returns today's top users by coins earned
func (h *Handler) GetLeaderboard(c *gin.Context) {
	entries, err := h.Engine.Leaderboard.Leaderboard(c.Request.Context(), queryLimit(c, 100))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entries,
		"period":      "daily",
	})
}

// GetMyRank returns the current user's position on today's leaderboard
func (h *Handler) GetMyRank(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	rank, err := h.Engine.Leaderboard.Rank(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rank)
}
