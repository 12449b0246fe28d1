package delivery

import (
	"net/http"
	"strconv"
	"time"

	"jobradar-backend/internal/assignment/repository"

	"github.com/gin-gonic/gin"
)

// AssignmentHandler handles assignment HTTP requests
type AssignmentHandler struct {
	assignmentRepo repository.AssignmentRepository
}

// NewAssignmentHandler creates a new AssignmentHandler
func NewAssignmentHandler(assignmentRepo repository.AssignmentRepository) *AssignmentHandler {
	return &AssignmentHandler{assignmentRepo: assignmentRepo}
}

// GetAssignments returns the groups actively held by an identity
// GET /api/assignments/:identity
func (h *AssignmentHandler) GetAssignments(c *gin.Context) {
	identity := c.Param("identity")

	assignments, err := h.assignmentRepo.CurrentAssignments(c.Request.Context(), identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"identity":    identity,
		"assignments": assignments,
		"total":       len(assignments),
	})
}

// GetSnapshot returns identity -> group IDs assigned on a date
// GET /api/assignments/snapshot/:date
func (h *AssignmentHandler) GetSnapshot(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	snapshot, err := h.assignmentRepo.DailySnapshot(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":     date,
		"snapshot": snapshot,
	})
}

// GetHistory returns the most recent assignment history entries
// GET /api/assignments/history?identity=account1&limit=50
func (h *AssignmentHandler) GetHistory(c *gin.Context) {
	identity := c.Query("identity")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	entries, err := h.assignmentRepo.History(c.Request.Context(), identity, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": entries,
		"total":   len(entries),
	})
}
