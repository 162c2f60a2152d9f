package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"synthdata-wizard-api/internal/response"
)

// Context keys set by Auth
const (
	ContextUserID   = "user_id"
	ContextJWTToken = "jwtToken"
)

// Auth returns a middleware that validates HS256 bearer tokens locally.
// With an empty secret authentication is disabled and every request passes.
func Auth(jwtSecret string) gin.HandlerFunc {
	if jwtSecret == "" {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		// Get Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid authorization header format")
			return
		}
		tokenString := parts[1]

		// Parse and validate token
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			// Validate signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid token claims")
			return
		}

		// Extract user ID from claims (support multiple claim formats)
		userID := ""
		for _, key := range []string{"user_id", "sub", "uid"} {
			if v, ok := claims[key].(string); ok && v != "" {
				userID = v
				break
			}
		}
		if userID == "" {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "User ID not found in token")
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextJWTToken, tokenString)
		c.Next()
	}
}
