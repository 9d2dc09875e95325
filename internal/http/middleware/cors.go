package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func CORS() gin.HandlerFunc {
	// The unfurl surface is consumed by arbitrary chat clients and
	// crawlers, so every origin is allowed.
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "X-Requested-With"},
	})
}
