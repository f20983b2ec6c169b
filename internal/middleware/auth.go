package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwtsvc "geoimport/internal/pkg/jwt"
	"geoimport/internal/pkg/response"
)

// TokenCookie is the cookie the web client stores the session token in.
const TokenCookie = "token"

// JWTAuth resolves the caller from a Bearer header or the session cookie and
// stores user_id and email on the context. Requests without a valid token are
// rejected with 401.
func JWTAuth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, msg := bearerOrCookie(c)
		if msg != "" {
			response.Abort(c, http.StatusUnauthorized, msg)
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Authentication failed: Invalid token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)

		c.Next()
	}
}

func bearerOrCookie(c *gin.Context) (string, string) {
	if h := c.GetHeader("Authorization"); h != "" {
		if !strings.HasPrefix(h, "Bearer ") {
			return "", "Authentication failed: Invalid Authorization header"
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			return "", "Authentication failed: Empty token"
		}
		return tokenStr, ""
	}

	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie, ""
	}
	return "", "Authentication failed: No token provided"
}
