package handlers

import (
	"net/http"
	"strconv"

	"cashdunia/internal/domain"
	"cashdunia/internal/economy"

	"github.com/gin-gonic/gin"
)

type statusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

func (h *Handler) WithdrawalTiers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tiers":           h.Engine.Withdrawals.Tiers(),
		"methods":         h.Engine.Withdrawals.Methods(),
		"coins_per_rupee": economy.CoinsPerRupee,
	})
}

// RequestWithdrawal debits a tier and records a pending payout.
func (h *Handler) RequestWithdrawal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req domain.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "tier_coins, method and address are required")
		return
	}

	res, err := h.Engine.Withdrawals.RequestWithdrawal(c.Request.Context(), userID, req.TierCoins, req.Method, req.Address)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) MyWithdrawals(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	list, err := h.Engine.Withdrawals.Withdrawals(c.Request.Context(), userID, queryLimit(c, 50))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list})
}

// UpdateWithdrawalStatus moves a payout along its lifecycle (operators only).
func (h *Handler) UpdateWithdrawalStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid withdrawal id")
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}

	w, err := h.Engine.Withdrawals.UpdateWithdrawalStatus(c.Request.Context(), id, domain.WithdrawalStatus(req.Status), req.Note)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}
