package checkout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/ovenfresh/bakery-shop-backend/internal/cart"
	"github.com/ovenfresh/bakery-shop-backend/internal/order"
	"github.com/ovenfresh/bakery-shop-backend/internal/payment"
	"github.com/ovenfresh/bakery-shop-backend/internal/user"
)

// Handler exposes the checkout wizard over REST. One session per
// authenticated user; every route requires a valid token.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/checkout", h.open)
	app.Get("/api/v1/checkout", h.get)
	app.Put("/api/v1/checkout/contact", h.setContact)
	app.Put("/api/v1/checkout/delivery", h.setDelivery)
	app.Put("/api/v1/checkout/payment", h.setPayment)
	app.Post("/api/v1/checkout/back", h.back)
	app.Delete("/api/v1/checkout", h.close)
	app.Post("/api/v1/checkout/submit", h.submit)
}

func (h *Handler) open(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	sess, err := h.service.Open(userID)
	if err != nil {
		return respondCheckoutError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sess)
}

func (h *Handler) get(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	sess, err := h.service.Get(userID)
	if err != nil {
		return respondCheckoutError(c, err)
	}
	return c.JSON(sess)
}

func (h *Handler) setContact(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(Contact)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	sess, err := h.service.SetContact(userID, *payload)
	if err != nil {
		return respondCheckoutError(c, err)
	}
	return c.JSON(sess)
}

type deliveryRequest struct {
	Address
	Notes string `json:"notes"`
}

func (h *Handler) setDelivery(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(deliveryRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	sess, err := h.service.SetDelivery(userID, payload.Address, payload.Notes)
	if err != nil {
		return respondCheckoutError(c, err)
	}
	return c.JSON(sess)
}

type paymentMethodRequest struct {
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

func (h *Handler) setPayment(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(paymentMethodRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	sess, err := h.service.SetPaymentMethod(userID, payload.PaymentMethod)
	if err != nil {
		return respondCheckoutError(c, err)
	}
	return c.JSON(sess)
}

func (h *Handler) back(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	sess, err := h.service.Back(userID)
	if err != nil {
		return respondCheckoutError(c, err)
	}
	return c.JSON(sess)
}

func (h *Handler) close(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	if err := h.service.Close(userID); err != nil {
		return respondCheckoutError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) submit(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	res, err := h.service.Submit(userID)
	if err != nil {
		return respondCheckoutError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "result": res})
}

func respondCheckoutError(c *fiber.Ctx, err error) error {
	var fieldErr *FieldError
	switch {
	case errors.As(err, &fieldErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fieldErr.Error(),
			"field":   fieldErr.Field,
		})
	case errors.Is(err, ErrNoSession):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "no checkout in progress"})
	case errors.Is(err, ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cart is empty"})
	case errors.Is(err, ErrSubmissionInFlight):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "a submission is already in progress"})
	case errors.Is(err, ErrNotAtPayment):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "checkout is not at the payment step"})
	case errors.Is(err, order.ErrRejected):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, order.ErrEmptyOrder):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cart is empty"})
	case errors.Is(err, payment.ErrGatewayUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "payment gateway unavailable; please try again"})
	case errors.Is(err, cart.ErrNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cart is empty"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
