package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	authMethodKey = "authMethod"

	// AuthMethodJWT marks a full interactive session authenticated with a
	// bearer JWT.
	AuthMethodJWT = "jwt"
)

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())
		// if auth is already done, skip this middleware
		if authMethod, exists := c.Get(authMethodKey); exists {
			logger.Info("Auth already done", "authMethod", authMethod)
			c.Next()
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		userID, errMsg := validateBearerToken(authHeader, jwtSecret, logger)
		if errMsg != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMsg})
			return
		}

		storeAuthenticatedUser(c, userID, logger)
		c.Next()
	}
}

// OptionalAuthMiddleware validates a bearer JWT when one is presented but
// lets anonymous requests through untouched. Delivery endpoints use this:
// an access token in the query string must work without any login.
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		logger := GetLoggerFromCtx(c.Request.Context())
		userID, errMsg := validateBearerToken(authHeader, jwtSecret, logger)
		if errMsg != "" {
			// A presented but broken credential is still rejected; only the
			// absence of credentials is tolerated.
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMsg})
			return
		}
		storeAuthenticatedUser(c, userID, logger)
		c.Next()
	}
}

// validateBearerToken parses an Authorization header and returns the subject
// user id, or a client-facing error message.
func validateBearerToken(authHeader, jwtSecret string, logger *slog.Logger) (string, string) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		logger.Warn("Authorization header format invalid")
		return "", "Authorization header format must be Bearer {token}"
	}

	token, err := jwt.ParseWithClaims(parts[1], &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		logger.Warn("Invalid token", "error", err)
		msg := "Invalid token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "Token has expired"
		} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
			msg = "Token not valid yet"
		}
		return "", msg
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		logger.Warn("Invalid token claims or token is not valid")
		return "", "Invalid token"
	}
	if claims.Subject == "" {
		logger.Error("User ID (subject) missing from valid token")
		return "", "Invalid token claims"
	}
	return claims.Subject, ""
}

// storeAuthenticatedUser records the authenticated user in both the Gin and
// standard contexts and enriches the request logger.
func storeAuthenticatedUser(c *gin.Context, userID string, logger *slog.Logger) {
	c.Set(authMethodKey, AuthMethodJWT)
	c.Set(string(userIDKey), userID)

	ctxWithUser := context.WithValue(c.Request.Context(), userIDKey, userID)
	enrichedLogger := logger.With(slog.String("user_id", userID))
	c.Request = c.Request.WithContext(context.WithValue(ctxWithUser, loggerCtxKey, enrichedLogger))
}
