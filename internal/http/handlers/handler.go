package handlers

import (
	"net/http"
	"strconv"

	"cashdunia/internal/economy"
	"cashdunia/internal/logger"
	"cashdunia/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Engine *service.Engine
}

func NewHandler(engine *service.Engine) *Handler {
	return &Handler{Engine: engine}
}

// getUserID извлекает user_id из контекста Gin
func getUserID(c interface{ Get(any) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// requireUser returns the authenticated user id or writes 401.
func requireUser(c *gin.Context) (int64, bool) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": "unauthorized"})
		return 0, false
	}
	return userID, true
}

var statusByCode = map[string]int{
	"precondition_failed":        http.StatusConflict,
	"insufficient_funds":         http.StatusPaymentRequired,
	"invalid_tier":               http.StatusUnprocessableEntity,
	"invalid_address":            http.StatusUnprocessableEntity,
	"invalid_referral":           http.StatusUnprocessableEntity,
	"invalid_amount":             http.StatusBadRequest,
	"already_referred":           http.StatusConflict,
	"concurrent_update_conflict": http.StatusConflict,
	"user_not_found":             http.StatusNotFound,
	"withdrawal_not_found":       http.StatusNotFound,
	"task_not_found":             http.StatusNotFound,
}

// writeError maps an engine error to its HTTP status and the
// {"error", "code"} body.
func writeError(c *gin.Context, err error) {
	code := economy.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": economy.Reason(err), "code": code})
}

func badRequest(c *gin.Context, reason string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": reason, "code": "bad_request"})
}

// queryLimit reads ?limit=, falling back to def when absent or invalid.
func queryLimit(c *gin.Context, def int) int {
	raw := c.Query("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
