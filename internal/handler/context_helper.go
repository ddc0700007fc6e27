package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campushub/college-api/internal/middleware"
	"github.com/campushub/college-api/internal/models"
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

// recorderID identifies who recorded a write. Faculty carry their linked
// profile id; admin accounts have no profile, so their account id is the
// recorded-by reference instead.
func recorderID(claims *models.JWTClaims) string {
	if claims.ProfileID != "" {
		return claims.ProfileID
	}
	return claims.UserID
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func pageParams(c *gin.Context) (page, pageSize int) {
	return queryInt(c, "page", 1), queryInt(c, "page_size", 20)
}
