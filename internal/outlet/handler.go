package outlet

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler { return &Handler{service: s} }

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/outlets", h.getOutlets)
	app.Get("/api/v1/outlets/lite", h.getOutletsLite)
}

func (h *Handler) getOutlets(c *fiber.Ctx) error {
	items := h.service.List(queryLimit(c))
	return c.JSON(items)
}

func (h *Handler) getOutletsLite(c *fiber.Ctx) error {
	items := h.service.ListLite(queryLimit(c))
	return c.JSON(items)
}

func queryLimit(c *fiber.Ctx) int {
	limit := 100
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	return limit
}
