package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ujblackjack-cmd/it-da/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// ServiceAuthMiddleware validates the shared-secret JWT the meeting backend
// attaches to server-to-server calls.
func ServiceAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(config.AppConfig.ServiceJWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if svc, ok := claims["svc"].(string); ok {
				c.Set("callerService", svc)
			}
		}
		c.Next()
	}
}
