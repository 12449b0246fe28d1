package delivery

import (
	"net/http"

	"jobradar-backend/internal/catalog/domain"
	"jobradar-backend/internal/catalog/usecase"

	"github.com/gin-gonic/gin"
)

// CatalogHandler handles group catalog HTTP requests
type CatalogHandler struct {
	catalog usecase.Catalog
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog usecase.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// AddGroupRequest represents one group submitted to the catalog
type AddGroupRequest struct {
	Name     string `json:"name" binding:"required"`
	Link     string `json:"link" binding:"required"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// ListGroups returns the catalog in allocation order
// GET /api/groups
func (h *CatalogHandler) ListGroups(c *gin.Context) {
	groups, err := h.catalog.ListAvailable(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"groups": groups,
		"total":  len(groups),
	})
}

// AddGroups merges submitted groups into the catalog
// POST /api/groups
func (h *CatalogHandler) AddGroups(c *gin.Context) {
	var reqs []AddGroupRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(reqs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no groups provided"})
		return
	}

	groups := make([]*domain.Group, 0, len(reqs))
	for _, req := range reqs {
		groups = append(groups, &domain.Group{
			Name:     req.Name,
			Link:     req.Link,
			Category: req.Category,
			Priority: domain.Priority(req.Priority),
		})
	}

	added, err := h.catalog.AddDiscovered(c.Request.Context(), groups)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"added":     added,
		"submitted": len(reqs),
	})
}
