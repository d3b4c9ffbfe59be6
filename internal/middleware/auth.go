package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/proplist/realty-api/internal/domain"
	"github.com/proplist/realty-api/internal/service"
	"github.com/proplist/realty-api/pkg/response"
)

// Context keys set by Authenticate and consumed by the guards and handlers
const (
	ContextUserID   = "user_id"
	ContextUserName = "user_name"
	ContextUserRole = "user_role"
)

// Authenticate validates the bearer token and loads the caller's account.
// The token carries only {name, user_id}; the role is resolved from storage
// so a stale token can never claim a role the account no longer has.
func Authenticate(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.Error("MISSING_TOKEN", "Authorization header is required"))
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.Error("INVALID_TOKEN", "Invalid authorization header format"))
			return
		}
		token := authHeader[len(bearerPrefix):]

		claims, err := authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.Error("INVALID_TOKEN", "Invalid or expired token"))
			return
		}

		user, err := authService.GetUser(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				response.InternalError(err.Error()))
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.Error("INVALID_TOKEN", "Account no longer exists"))
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserName, user.Name)
		c.Set(ContextUserRole, user.Role)
		c.Next()
	}
}

// RequireRoles authorizes the request only when the caller's role is in the
// allowed set. Plain set membership, no hierarchy.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, exists := c.Get(ContextUserRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.Unauthorized("Caller role not resolved"))
			return
		}
		if _, ok := allowed[role.(domain.Role)]; !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.Unauthorized("Role not permitted for this operation"))
			return
		}
		c.Next()
	}
}

// RequireHomeOwner authorizes mutation of the home in the :id route param
// only for the realtor who owns it. Runs after Authenticate and any role
// gate; 404 when the home is absent, 401 on an ownership mismatch.
func RequireHomeOwner(homeService service.HomeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		homeID := c.Param("id")

		realtorID, err := homeService.GetRealtorID(c.Request.Context(), homeID)
		if err != nil {
			if errors.Is(err, service.ErrHomeNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound,
					response.NotFound("Home not found"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				response.InternalError(err.Error()))
			return
		}

		if callerID := c.GetString(ContextUserID); callerID != realtorID {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.Unauthorized("Only the listing's realtor may perform this operation"))
			return
		}
		c.Next()
	}
}
