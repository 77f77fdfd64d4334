package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Me(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.Engine.Accounts.Profile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              user.ID,
		"name":            user.Name,
		"coins":           user.Coins,
		"gems":            user.Gems,
		"current_level":   user.CurrentLevel,
		"gems_this_level": user.GemsThisLevel,
		"offer_gate_open": user.OfferGateOpen,
		"daily_coins":     user.DailyCoins,
		"referral_code":   user.ReferralCode,
		"referred":        user.ReferredBy != nil,
		"created_at":      user.CreatedAt,
	})
}

// MyTransactions returns the latest ledger entries of the current user.
func (h *Handler) MyTransactions(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	txs, err := h.Engine.Ledger.Transactions(c.Request.Context(), userID, queryLimit(c, 50))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}
