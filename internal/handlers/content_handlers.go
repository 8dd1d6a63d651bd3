package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/01moynul/mtd-portal/internal/content"
	"github.com/gin-gonic/gin"
)

// Health is the handler for GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

// ListContent is the handler for GET /api/content/:kind
// Static pages are only served one at a time.
func (h *Handlers) ListContent(c *gin.Context) {
	kind := content.Kind(c.Param("kind"))
	if !kind.Valid() || kind == content.KindPages {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown content type"})
		return
	}
	items, err := h.Content.List(kind)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetContent is the handler for GET /api/content/:kind/:slug
func (h *Handlers) GetContent(c *gin.Context) {
	kind := content.Kind(c.Param("kind"))
	if !kind.Valid() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown content type"})
		return
	}
	item, err := h.Content.Get(kind, c.Param("slug"))
	if errors.Is(err, content.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}
