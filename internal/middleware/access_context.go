package middleware

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	portssvc "github.com/avstream/media_access_app/internal/core/ports/services"
)

const (
	accessContextKey = contextKey("accessContext")

	// AccessTokenQueryParam is the query parameter carrying a media access
	// token on delivery requests.
	AccessTokenQueryParam = "access_token"

	// AccessTokenHeader carries a media access token when a query parameter
	// is impractical (e.g. signed player URLs).
	AccessTokenHeader = "X-Access-Token"

	// ExternalGroupsHeader carries SSO-asserted group names, set by the
	// fronting proxy. The comma-separated values become virtual groups for
	// the request.
	ExternalGroupsHeader = "X-External-Groups"
)

// AccessContextMiddleware assembles the authorization context for the
// request: the authenticated user (when the auth middleware ran first), the
// presented media access token, the client address and any externally
// asserted groups. Handlers and the ability service read the result via
// GetAccessContext.
func AccessContextMiddleware(userSvc portssvc.UserReaderSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		actx := portssvc.AccessContext{
			PresentedToken: presentedToken(c),
			ClientIP:       c.ClientIP(),
			ExternalGroups: externalGroups(c),
		}

		if userID, ok := GetUserIDFromContext(c); ok {
			user, err := userSvc.GetUserByID(c.Request.Context(), userID)
			if err != nil {
				// The session outlived the account. Treat as anonymous
				// rather than failing the whole request.
				GetLoggerFromCtx(c.Request.Context()).Warn("authenticated user not resolvable",
					slog.String("user_id", userID),
					slog.String("error", err.Error()))
			} else {
				actx.User = user
				if method, exists := c.Get(authMethodKey); exists && method == AuthMethodJWT {
					actx.FullLogin = true
				}
			}
		}

		c.Set(string(accessContextKey), actx)
		c.Next()
	}
}

// GetAccessContext retrieves the authorization context assembled by
// AccessContextMiddleware. A zero-valued anonymous context is returned when
// the middleware did not run.
func GetAccessContext(c *gin.Context) portssvc.AccessContext {
	if v, exists := c.Get(string(accessContextKey)); exists {
		if actx, ok := v.(portssvc.AccessContext); ok {
			return actx
		}
	}
	return portssvc.AccessContext{ClientIP: c.ClientIP()}
}

// presentedToken extracts the media access token from the request. The query
// parameter wins over the header when both are present.
func presentedToken(c *gin.Context) string {
	if token := c.Query(AccessTokenQueryParam); token != "" {
		return token
	}
	return c.GetHeader(AccessTokenHeader)
}

// externalGroups parses the comma-separated SSO group header.
func externalGroups(c *gin.Context) []string {
	raw := c.GetHeader(ExternalGroupsHeader)
	if raw == "" {
		return nil
	}
	var groups []string
	for _, g := range strings.Split(raw, ",") {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	return groups
}
