package webhook

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIKeyAuthMiddleware validates the X-Webhook-API-Key header. The key's
// prefix selects the stored record; the secret half is compared against the
// bcrypt hash.
func APIKeyAuthMiddleware(repo *Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-Webhook-API-Key")
		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			return
		}

		prefix, secret, ok := splitKey(apiKey)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}

		key, err := repo.GetByPrefix(c.Request.Context(), prefix)
		if err != nil || !VerifyKey(key.KeyHash, secret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}

		c.Set("webhookKeyID", key.ID)
		c.Set("webhookKeyName", key.Name)
		c.Next()
	}
}

func splitKey(apiKey string) (prefix, secret string, ok bool) {
	parts := strings.Split(apiKey, "_")
	if len(parts) != 3 || parts[0] != "whk" || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}
