package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/rioporto/p2p/pkg/config"
	"github.com/rioporto/p2p/pkg/response"
)

// AuthMiddleware resolves the session from the Authorization bearer token.
// The token subject is the user ID; it is stored in gin.Context (key: "user_id")
// and mirrored into the request's context.Context for downstream services.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT[string](response.APIResponseCodeUnauthorized, "missing bearer token"))
			return
		}

		claims := jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(cfg.Auth.JWTSecret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT[string](response.APIResponseCodeUnauthorized, "invalid session token"))
			return
		}

		c.Set("user_id", claims.Subject)
		ctx := context.WithValue(c.Request.Context(), "user_id", claims.Subject)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
