package api

import (
	"log/slog"
	"net"
	"strings"
	"time"

	"netmesh-api/pkg/apperr"
	"netmesh-api/pkg/identity"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// tokenAuth resolves the Authorization bearer token to an identity and
// stores it in the request context. With required=false a missing header
// resolves to the anonymous identity; a present-but-invalid token is still
// rejected on either mode.
func (s *Server) tokenAuth(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" && required {
			respondError(c, apperr.NotFound("device not registered to credential"))
			c.Abort()
			return
		}

		id, err := s.identity.Resolve(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// adminOnly requires a staff identity. Runs after tokenAuth.
func (s *Server) adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := currentIdentity(c)
		if id.Anonymous || id.Agent == nil || !id.Agent.IsStaff {
			respondError(c, apperr.NotFound("no staff account for credential"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// staffRegion returns the region of the calling staff agent's office.
// Responds with an error and returns ok=false when no office is attached.
func staffRegion(c *gin.Context) (string, bool) {
	id := currentIdentity(c)
	if id.Agent == nil || id.Agent.Office == nil {
		respondError(c, apperr.NotFound("no office for region"))
		return "", false
	}
	return id.Agent.Office.Region, true
}

func currentIdentity(c *gin.Context) identity.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(identity.Identity); ok {
			return id
		}
	}
	return identity.Identity{Anonymous: true}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return strings.TrimSpace(header)
}

// clientIP prefers the first hop of X-Forwarded-For, falling back to the
// direct peer address.
func clientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}

// requestLog is a small slog access logger in place of gin's default.
func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
