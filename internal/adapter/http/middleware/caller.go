package middleware

import (
	"marketplace_escrow/pkg"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	HeaderCallerID   = "X-Caller-ID"
	HeaderCallerRole = "X-Caller-Role"

	callerKey = "caller"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleWorker     Role = "worker"
	RoleSupervisor Role = "supervisor"
)

// Caller is the identity asserted by the authentication collaborator in
// front of this service.
type Caller struct {
	ID   string
	Role Role
}

var (
	errMissingCredentials = pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Missing bearer token or caller identity", http.StatusUnauthorized)
	errInvalidRole        = pkg.NewDomainErrorSimple("INVALID_CALLER_ROLE", "Caller role must be client, worker or supervisor", http.StatusUnauthorized)
	errForbiddenRole      = pkg.NewDomainErrorSimple("FORBIDDEN", "Caller role is not allowed for this operation", http.StatusForbidden)
)

// Identify requires a bearer token and the caller headers. The token is
// checked upstream and is not validated here.
func Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := strings.TrimSpace(c.GetHeader("Authorization"))
		id := strings.TrimSpace(c.GetHeader(HeaderCallerID))
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")) == "" || id == "" {
			c.AbortWithStatusJSON(errMissingCredentials.HTTPStatus, errMissingCredentials.ToHTTPError())
			return
		}
		role := Role(strings.ToLower(strings.TrimSpace(c.GetHeader(HeaderCallerRole))))
		switch role {
		case RoleClient, RoleWorker, RoleSupervisor:
		default:
			c.AbortWithStatusJSON(errInvalidRole.HTTPStatus, errInvalidRole.ToHTTPError())
			return
		}
		c.Set(callerKey, Caller{ID: id, Role: role})
		c.Next()
	}
}

// RequireRole must run after Identify.
func RequireRole(roles ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		for _, r := range roles {
			if caller.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(errForbiddenRole.HTTPStatus, errForbiddenRole.ToHTTPError())
	}
}

func CallerFrom(c *gin.Context) Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(Caller); ok {
			return caller
		}
	}
	return Caller{}
}

// WithCaller is used by tests and internal routes that bypass Identify.
func WithCaller(caller Caller) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(callerKey, caller)
		c.Next()
	}
}
