package product

import (
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/products", h.getProducts)
	app.Get("/api/v1/product/:id<[0-9]+>", h.getProduct)
	app.Get("/api/v1/product/category/:id", h.getProductsByCategory)

	// dev-only endpoint to reset products — enabled when ALLOW_RESET_PRODUCTS=1
	app.Post("/dev/reset-products", h.resetProducts)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/products", h.createProduct)
	app.Put("/api/v1/product/:id<[0-9]+>", h.updateProduct)
	app.Delete("/api/v1/product/:id<[0-9]+>", h.deleteProduct)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	products := h.service.List()
	return c.JSON(products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}

	p, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Product not found")
	}
	return c.JSON(p)
}

func (h *Handler) getProductsByCategory(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid category id")
	}
	return c.JSON(h.service.ListByCategoryID(id))
}

// resetProducts clears the product table and inserts the provided list (or a default sample list).
// This endpoint is protected by ALLOW_RESET_PRODUCTS environment variable; set it to "1" to allow.
func (h *Handler) resetProducts(c *fiber.Ctx) error {
	if os.Getenv("ALLOW_RESET_PRODUCTS") != "1" {
		return c.Status(fiber.StatusForbidden).SendString("reset not allowed")
	}

	var products []Product
	err := c.BodyParser(&products)
	now := time.Now().UTC().Format(time.RFC3339)
	// If body parsing fails, fallback to default sample products.
	// If parsing succeeds and client sends an empty array, treat it as "delete all" (no re-seeding).
	if err != nil {
		sample := []Product{
			{
				Name:        "Sourdough Loaf",
				Description: "Slow-fermented country sourdough",
				Price:       180,
				Score:       5,
				Category:    ptrString("Breads"),
				Pic:         ptrString("/shopping/sourdough-loaf.svg"),
				CreatedAt:   &now,
				UpdatedAt:   &now,
			},
			{
				Name:        "Almond Croissant",
				Description: "Twice-baked croissant with frangipane",
				Price:       95,
				Score:       5,
				Category:    ptrString("Viennoiserie"),
				Pic:         ptrString("/shopping/almond-croissant.svg"),
				CreatedAt:   &now,
				UpdatedAt:   &now,
			},
			{
				Name:        "Dark Chocolate Cake",
				Description: "Layered chocolate ganache cake, half kilo",
				Price:       550,
				Score:       5,
				Category:    ptrString("Cakes"),
				Pic:         ptrString("/shopping/chocolate-cake.svg"),
				CreatedAt:   &now,
				UpdatedAt:   &now,
			},
			{
				Name:        "Masala Bun",
				Description: "Soft bun stuffed with spiced potato",
				Price:       45,
				Score:       4,
				Category:    ptrString("Savouries"),
				Pic:         ptrString("/shopping/masala-bun.svg"),
				CreatedAt:   &now,
				UpdatedAt:   &now,
			},
		}
		products = sample
	}

	// call ResetProducts — an empty `products` slice will now clear the table without inserting rows.
	if err := h.service.ResetProducts(products); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
	}
	return c.JSON(products)
}

func validateProductPayload(p *Product) map[string]string {
	errs := map[string]string{}
	if p.Name == "" {
		errs["productName"] = "productName is required"
	}
	if p.Price < 0 {
		errs["productPrice"] = "productPrice must be >= 0"
	}
	if p.Score < 0 || p.Score > 5 {
		errs["score"] = "score must be between 0 and 5"
	}
	if p.Category != nil {
		valid := false
		for _, c := range AllowedCategories {
			if *p.Category == c {
				valid = true
				break
			}
		}
		if !valid {
			errs["category"] = "invalid category"
		}
	}
	return errs
}

func ptrString(s string) *string { return &s }

func (h *Handler) createProduct(c *fiber.Ctx) error {
	p := new(Product)
	if err := c.BodyParser(p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	// validate payload and return all validation errors together
	if ves := validateProductPayload(p); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ves})
	}

	if p.CreatedAt == nil {
		now := time.Now().UTC().Format(time.RFC3339)
		p.CreatedAt = &now
	}
	if p.UpdatedAt == nil {
		now := time.Now().UTC().Format(time.RFC3339)
		p.UpdatedAt = &now
	}

	created, err := h.service.Create(*p)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	p := new(Product)
	if err := c.BodyParser(p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	// validate payload before attempting update
	if ves := validateProductPayload(p); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ves})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	p.UpdatedAt = &now

	updated, err := h.service.Update(id, *p)
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Product not found")
	}
	return c.JSON(updated)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}
	if err := h.service.Delete(id); err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Product not found")
	}
	return c.SendString("Product deleted")
}
