package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	"flappy-game/internal/auth"
	"flappy-game/internal/security"
)

func (s *GameServer) securityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.globalLimiter.Allow(c.ClientIP()) {
			c.JSON(429, gin.H{"error": "Too many requests, please try again later."})
			c.Abort()
			return
		}

		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Content-Security-Policy", "default-src 'self'")

		c.Next()
	}
}

func (s *GameServer) rateLimit(limiter *security.IPRateLimiter, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.JSON(429, gin.H{"error": message})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthMiddleware resolves the bearer token to a user id and stores it on the
// request context as "userId".
func (s *GameServer) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(401, gin.H{"error": "Access denied", "message": "No authentication token provided"})
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claims, err := auth.ValidateToken(tokenString, []byte(s.cfg.Auth.JWTSecret))
		if err != nil {
			c.JSON(401, gin.H{"error": "Invalid token", "message": "Your session has expired or is invalid"})
			c.Abort()
			return
		}

		c.Set("userId", claims.UserID)
		c.Next()
	}
}

// AdminMiddleware runs after AuthMiddleware and requires the admin flag.
func (s *GameServer) AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.db.GetUserByID(c.Request.Context(), c.GetString("userId"))
		if err != nil || !user.IsAdmin {
			c.JSON(403, gin.H{"error": "Access denied. Admin privileges required."})
			c.Abort()
			return
		}
		c.Next()
	}
}
