package api

import (
	"math"     // Paging bounds
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"eduvault/internal/middleware" // Resolved identity accessors
	"eduvault/internal/service"    // Materials
	"eduvault/internal/store"      // Paging

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// MaterialRequest is the body for recording an uploaded material
type MaterialRequest struct {
	Title        string  `json:"title" binding:"required"`   // Title must be provided
	Description  *string `json:"description"`                // Optional description
	Visibility   string  `json:"visibility"`                 // public (default) or private
	FileURL      string  `json:"fileUrl" binding:"required"` // URL returned by /upload
	ThumbnailURL *string `json:"thumbnailUrl"`               // Optional thumbnail URL
}

// DashboardHandler returns the identity resolved from the session
func DashboardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Set by ResolveIdentity
		if !ok {
			c.Redirect(http.StatusFound, "/")
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// ListMaterialsHandler returns the signed-in user's materials, newest first
func ListMaterialsHandler(materials *service.MaterialService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.Redirect(http.StatusFound, "/")
			return
		}
		page := 1      // Default page number
		pageSize := 20 // Default page size
		if p := c.Query("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// Check and set page size within limits
		if ps := c.Query("page_size"); ps != "" {
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size
			}
		}
		// Reject pages whose offset would not fit in an int
		if page-1 > math.MaxInt/pageSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Page out of range"})
			return
		}
		items, total, err := materials.List(c.Request.Context(), user, store.Page{
			Offset: (page - 1) * pageSize, // Calculate offset for pagination
			Limit:  pageSize,
		})
		if err != nil {
			respondError(c, "list materials", err)
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize // Calculate total pages
		c.JSON(http.StatusOK, gin.H{
			"materials":   items,      // Materials on this page
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total number of materials
			"total_pages": totalPages, // Total pages
		})
	}
}

// CreateMaterialHandler records an uploaded material for the signed-in user
func CreateMaterialHandler(materials *service.MaterialService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.Redirect(http.StatusFound, "/")
			return
		}
		var req MaterialRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title and fileUrl are required"})
			return
		}
		m, err := materials.Create(c.Request.Context(), user, service.MaterialInput{
			Title:        req.Title,
			Description:  req.Description,
			Visibility:   req.Visibility,
			FileURL:      req.FileURL,
			ThumbnailURL: req.ThumbnailURL,
		})
		if err != nil {
			respondError(c, "create material", err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":     user.ID, // Owner
			"material_id": m.ID,    // New material
		}).Info("Material created")
		c.JSON(http.StatusCreated, gin.H{"material": m})
	}
}
