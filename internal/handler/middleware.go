package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/portfolio/internal/auth"
)

const (
	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	requestIDContextKey = "__request_id"
	accessContextKey    = "__access"
)

// RequestID assigns every request an id, reusing a well-formed incoming one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDContextKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func requestIDFrom(c *gin.Context) string {
	if id := c.GetString(requestIDContextKey); id != "" {
		return id
	}
	return "-"
}

// RequireAdmin rejects requests without a valid admin token: no token is 401,
// an invalid or expired one is 403.
func (a *API) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		access := a.gate.Resolve(c.GetHeader("Authorization"))
		switch access.Visibility {
		case auth.FullyAuthenticated:
			c.Set(accessContextKey, access)
			c.Next()
		case auth.Public:
			respondError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
		default:
			respondError(c, http.StatusForbidden, "Invalid or expired token")
			c.Abort()
		}
	}
}

// accessFrom returns the Access attached by RequireAdmin.
func accessFrom(c *gin.Context) (auth.Access, bool) {
	value, exists := c.Get(accessContextKey)
	if !exists {
		return auth.Access{}, false
	}
	access, ok := value.(auth.Access)
	return access, ok
}

// withAccess resolves the caller's access level and hands it to next. The request
// is never rejected; next decides what the caller may see.
func (a *API) withAccess(next func(*gin.Context, auth.Access)) gin.HandlerFunc {
	return func(c *gin.Context) {
		next(c, a.gate.Resolve(c.GetHeader("Authorization")))
	}
}

// LimitUploadBody caps the request body so oversized uploads fail while reading.
// Room is left for multipart framing and the other form fields.
func (a *API) LimitUploadBody() gin.HandlerFunc {
	limit := a.files.MaxBytes() + 1<<20
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
