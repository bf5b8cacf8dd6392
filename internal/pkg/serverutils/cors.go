package serverutils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CORSConfig struct {
	AllowOrigins string
	AllowMethods string
	AllowHeaders string
}

// CORS stamps the same headers on every response, errors included, and answers
// preflight requests with 200 and an empty body.
func CORS(cfg CORSConfig) fiber.Handler {
	if cfg.AllowOrigins == "" {
		cfg.AllowOrigins = "*"
	}
	if cfg.AllowMethods == "" {
		cfg.AllowMethods = "GET, POST, OPTIONS"
	}
	if cfg.AllowHeaders == "" {
		cfg.AllowHeaders = "Content-Type"
	}
	origins := strings.Split(cfg.AllowOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return func(ctx *fiber.Ctx) error {
		ctx.Set(fiber.HeaderAccessControlAllowOrigin, allowedOrigin(origins, ctx.Get(fiber.HeaderOrigin)))
		ctx.Set(fiber.HeaderAccessControlAllowMethods, cfg.AllowMethods)
		ctx.Set(fiber.HeaderAccessControlAllowHeaders, cfg.AllowHeaders)
		if len(origins) > 1 {
			ctx.Vary(fiber.HeaderOrigin)
		}

		if ctx.Method() == fiber.MethodOptions {
			ctx.Status(fiber.StatusOK)
			return nil
		}
		return ctx.Next()
	}
}

// A single configured origin (or "*") is echoed as is. With a list, the request
// origin is echoed when listed, otherwise the first entry is used.
func allowedOrigin(origins []string, requestOrigin string) string {
	if len(origins) == 1 {
		return origins[0]
	}
	for _, o := range origins {
		if o == "*" || o == requestOrigin {
			return o
		}
	}
	return origins[0]
}
