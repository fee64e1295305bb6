package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS is permissive outside production; in production only the configured
// storefront origins may call the API.
func CORS(production bool, origins string) fiber.Handler {
	if !production {
		return cors.New()
	}
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Authorization,Content-Type",
	})
}
