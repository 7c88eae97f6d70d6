package v1

import (
	"smartats/internal/delivery/http/handler"
	"smartats/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	Jobs   *handler.JobHandler
	AuthMw *middleware.AuthMiddleware
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}

	if h.Jobs != nil && h.AuthMw != nil {
		h.Jobs.RegisterRoutes(r.Group("/jobs", h.AuthMw.Middleware()))
	}
}
