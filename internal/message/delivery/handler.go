package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"jobradar-backend/internal/message/repository"
	"jobradar-backend/internal/message/usecase"

	"github.com/gin-gonic/gin"
)

// MessageHandler handles message search and listing HTTP requests
type MessageHandler struct {
	searchUsecase usecase.SearchUsecase
	messageRepo   repository.MessageRepository
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(searchUsecase usecase.SearchUsecase, messageRepo repository.MessageRepository) *MessageHandler {
	return &MessageHandler{
		searchUsecase: searchUsecase,
		messageRepo:   messageRepo,
	}
}

// SemanticSearchRequest represents the semantic search payload
type SemanticSearchRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit"`
}

// FuzzySearch finds job messages matching the query with typo tolerance
// GET /api/search?q=golang&limit=20&offset=0
func (h *MessageHandler) FuzzySearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, total, err := h.searchUsecase.FuzzySearch(c.Request.Context(), query, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"total":    total,
	})
}

// SemanticSearch finds job messages by embedding similarity
// POST /api/search/semantic
func (h *MessageHandler) SemanticSearch(c *gin.Context) {
	var req SemanticSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	messages, err := h.searchUsecase.SemanticSearch(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		if errors.Is(err, usecase.ErrSemanticSearchUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"total":    len(messages),
	})
}

// ListByGroup returns the most recent messages of a group
// GET /api/groups/:id/messages?limit=50
func (h *MessageHandler) ListByGroup(c *gin.Context) {
	groupID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	messages, err := h.messageRepo.ListByGroup(c.Request.Context(), groupID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"group_id": groupID,
		"messages": messages,
		"total":    len(messages),
	})
}

// GroupStats returns the rolling statistics for one group
// GET /api/groups/:id/stats
func (h *MessageHandler) GroupStats(c *gin.Context) {
	groupID := c.Param("id")

	stats, err := h.messageRepo.GroupStats(c.Request.Context(), groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if stats == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no messages recorded for this group"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
