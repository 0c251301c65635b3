package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/wellbeing-api/internal/middleware"
	"github.com/noah-isme/wellbeing-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// readMeta marks the cache outcome and timing on an analytics read.
func readMeta(c *gin.Context, cacheHit bool, start time.Time) map[string]interface{} {
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
		meta["cache_hit"] = cacheHit
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	return meta
}
