package middleware

import (
	"canteen-pos/models"
	"canteen-pos/utils"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SessionChecker reports whether a session id is the terminal's active session.
type SessionChecker interface {
	IsCurrent(sessionID string) bool
}

func AuthMiddleware(tokens *utils.TokenIssuer, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Authorization header required",
			})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := tokens.Validate(tokenParts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Invalid or expired token",
				Error:   err.Error(),
			})
			c.Abort()
			return
		}

		if !sessions.IsCurrent(claims.ID) {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Session has ended, please log in",
			})
			c.Abort()
			return
		}

		c.Set("session_id", claims.ID)
		c.Set("staff_id", claims.StaffID)
		c.Set("branch_id", claims.BranchID)
		c.Next()
	}
}
