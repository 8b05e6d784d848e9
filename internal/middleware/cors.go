package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS answers preflights and echoes the Origin when it is in the allow list.
// "*" in the list allows any origin (development only).
func CORS(origins string) gin.HandlerFunc {
	permitidos := make(map[string]bool)
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			permitidos[o] = true
		}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case permitidos["*"]:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && permitidos[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
