package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/M4H1-4B1R/order-splitter-shopify/internal/domain"
	"github.com/M4H1-4B1R/order-splitter-shopify/internal/repository"
	"github.com/M4H1-4B1R/order-splitter-shopify/pkg/errors"
)

// UpdateSettingsRequest represents the settings update request
type UpdateSettingsRequest struct {
	SplittingEnabled *bool `json:"splitting_enabled" binding:"required"`
}

// CreateMappingRequest represents the location mapping create request
type CreateMappingRequest struct {
	LocationCode string `json:"location_code" binding:"required"`
	LocationGID  string `json:"location_gid" binding:"required"`
}

// shopFromQuery requires the ?shop= parameter on every admin route; all
// stored state is scoped per shop.
func shopFromQuery(c *gin.Context) (string, bool) {
	shop := strings.TrimSpace(c.Query("shop"))
	if shop == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shop query parameter required"})
		return "", false
	}
	return shop, true
}

// HandleGetSettings handles GET /v1/admin/settings
func HandleGetSettings(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, ok := shopFromQuery(c)
		if !ok {
			return
		}

		settings, err := repos.AppSettings.GetByShop(c.Request.Context(), shop)
		if err != nil {
			logger.Error("Failed to get settings", zap.String("shop", shop), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		// no row means splitting defaults to enabled
		enabled := true
		if settings != nil {
			enabled = settings.SplittingEnabled
		}

		c.JSON(http.StatusOK, gin.H{
			"shop":              shop,
			"splitting_enabled": enabled,
		})
	}
}

// HandleUpdateSettings handles PUT /v1/admin/settings
func HandleUpdateSettings(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, ok := shopFromQuery(c)
		if !ok {
			return
		}

		var req UpdateSettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		settings := &domain.AppSettings{
			Shop:             shop,
			SplittingEnabled: *req.SplittingEnabled,
		}
		if err := repos.AppSettings.Upsert(c.Request.Context(), settings); err != nil {
			logger.Error("Failed to update settings", zap.String("shop", shop), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update settings"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"shop":              shop,
			"splitting_enabled": settings.SplittingEnabled,
		})
	}
}

// HandleListMappings handles GET /v1/admin/mappings
func HandleListMappings(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, ok := shopFromQuery(c)
		if !ok {
			return
		}

		mappings, err := repos.LocationMapping.ListByShop(c.Request.Context(), shop)
		if err != nil {
			logger.Error("Failed to list mappings", zap.String("shop", shop), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		mappingResponses := make([]gin.H, len(mappings))
		for i, m := range mappings {
			mappingResponses[i] = gin.H{
				"id":            m.ID.String(),
				"location_code": m.LocationCode,
				"location_gid":  m.LocationGID,
				"created_at":    m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"shop":     shop,
			"mappings": mappingResponses,
		})
	}
}

// HandleCreateMapping handles POST /v1/admin/mappings
func HandleCreateMapping(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, ok := shopFromQuery(c)
		if !ok {
			return
		}

		var req CreateMappingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		mapping := &domain.LocationMapping{
			ID:           uuid.New(),
			Shop:         shop,
			LocationCode: strings.TrimSpace(req.LocationCode),
			LocationGID:  strings.TrimSpace(req.LocationGID),
		}
		if mapping.LocationCode == "" || mapping.LocationGID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "location_code and location_gid must be non-empty"})
			return
		}

		if err := repos.LocationMapping.Create(c.Request.Context(), mapping); err != nil {
			logger.Error("Failed to create mapping", zap.String("shop", shop), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create mapping"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":            mapping.ID.String(),
			"shop":          mapping.Shop,
			"location_code": mapping.LocationCode,
			"location_gid":  mapping.LocationGID,
		})
	}
}

// HandleDeleteMapping handles DELETE /v1/admin/mappings/:id
func HandleDeleteMapping(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mapping id"})
			return
		}

		if err := repos.LocationMapping.Delete(c.Request.Context(), id); err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "mapping not found"})
				return
			}
			logger.Error("Failed to delete mapping", zap.String("id", id.String()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete mapping"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"deleted": id.String()})
	}
}

// HandleListSplitLogs handles GET /v1/admin/logs
func HandleListSplitLogs(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, ok := shopFromQuery(c)
		if !ok {
			return
		}

		limitStr := c.DefaultQuery("limit", "50")
		offsetStr := c.DefaultQuery("offset", "0")

		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > 100 {
			limit = 50
		}

		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			offset = 0
		}

		logs, err := repos.SplitLog.ListByShop(c.Request.Context(), shop, limit, offset)
		if err != nil {
			logger.Error("Failed to list split logs", zap.String("shop", shop), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		logResponses := make([]gin.H, len(logs))
		for i, row := range logs {
			logResponses[i] = gin.H{
				"id":                row.ID.String(),
				"original_order_id": row.OriginalOrderID,
				"split_order_ids":   row.SplitOrderIDs,
				"retained":          row.Retained,
				"message":           row.Message,
				"created_at":        row.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"shop":   shop,
			"logs":   logResponses,
			"limit":  limit,
			"offset": offset,
		})
	}
}
