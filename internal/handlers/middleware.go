package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/CioFlingar/Library-Management-API/internal/services"
)

const identityKey = "identity"

// requireAuth validates the Bearer access token and stores the caller's
// identity on the request context.
func (h *APIHandler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		identity, err := h.authSvc.ParseAccess(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(identityKey, *identity)
		c.Next()
	}
}

// requireStaff must run after requireAuth; it rejects non-staff callers.
func (h *APIHandler) requireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentIdentity(c).IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": services.ErrPermissionDenied.Error()})
			return
		}
		c.Next()
	}
}

func currentIdentity(c *gin.Context) services.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return services.Identity{}
	}
	identity, _ := v.(services.Identity)
	return identity
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}
