package handlers

import (
	"net/http"
	"strconv"

	"cashdunia/internal/domain"

	"github.com/gin-gonic/gin"
)

type taskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CoinReward  int64  `json:"coin_reward" binding:"required"`
	IconColor   string `json:"icon_color"`
}

type taskActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid task id")
		return 0, false
	}
	return id, true
}

// ListTasks returns the active task catalog for the caller.
func (h *Handler) ListTasks(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	tasks, err := h.Engine.Tasks.Tasks(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// CompleteTask pays the reward of one task.
func (h *Handler) CompleteTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	res, err := h.Engine.Tasks.CompleteTask(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CreateTask adds a task to the catalog (operators only).
func (h *Handler) CreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "title and coin_reward are required")
		return
	}

	task := &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		CoinReward:  req.CoinReward,
		IconColor:   req.IconColor,
		IsActive:    true,
	}
	if err := h.Engine.Tasks.CreateTask(c.Request.Context(), task); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// SetTaskActive retires or restores a task (operators only).
func (h *Handler) SetTaskActive(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req taskActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "is_active is required")
		return
	}

	if err := h.Engine.Tasks.SetActive(c.Request.Context(), id, *req.IsActive); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "is_active": *req.IsActive})
}
