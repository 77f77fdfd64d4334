package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type applyReferralRequest struct {
	Code string `json:"code" binding:"required"`
}

// GetReferralStats returns the user's referral code and who used it
func (h *Handler) GetReferralStats(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	stats, err := h.Engine.Referrals.ReferralStats(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ApplyReferralCode links the user to a referrer and pays the referrer's bonus
func (h *Handler) ApplyReferralCode(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req applyReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "referral code is required")
		return
	}

	res, err := h.Engine.Referrals.ApplyReferralCode(c.Request.Context(), userID, req.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
