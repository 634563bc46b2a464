package payment

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/ovenfresh/bakery-shop-backend/internal/order"
	"github.com/ovenfresh/bakery-shop-backend/internal/user"
)

// Handler exposes the payment session and reconciliation endpoints.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/payment/session", h.createSession)
	app.Post("/api/v1/payment/verify", h.verify)
	app.Post("/api/v1/payment/callback", h.callback)
}

type sessionRequest struct {
	OrderID int `json:"orderId"`
}

// createSession opens a fresh gateway session for an order left in pending
// payment state (the retry path after a decline or dismissal).
func (h *Handler) createSession(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(sessionRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.OrderID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid orderId"})
	}

	sess, err := h.service.RetryPayment(userID, payload.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, ErrGatewayUnavailable):
			return c.JSON(fiber.Map{"success": false, "configured": false})
		case errors.Is(err, ErrOrderNotPayable):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
		case errors.Is(err, order.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"success": true, "session": sess, "keyId": sess.KeyID})
}

type verifyRequest struct {
	OrderID          int    `json:"orderId"`
	GatewayOrderID   string `json:"gatewayOrderId"`
	GatewayPaymentID string `json:"gatewayPaymentId"`
	GatewaySignature string `json:"gatewaySignature"`
}

func (h *Handler) verify(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(verifyRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	proof := Proof{
		GatewayOrderID:   payload.GatewayOrderID,
		GatewayPaymentID: payload.GatewayPaymentID,
		GatewaySignature: payload.GatewaySignature,
	}
	ord, err := h.service.Verify(userID, proof, payload.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, ErrVerificationFailed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"message": "payment could not be verified; please contact support with your order id",
				"orderId": payload.OrderID,
			})
		case errors.Is(err, order.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"success": true, "order": ord})
}

// callback is the tagged-outcome entry point from the gateway widget.
func (h *Handler) callback(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	oc := new(Outcome)
	if err := c.BodyParser(oc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if oc.OrderID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid orderId"})
	}

	ord, err := h.service.HandleOutcome(userID, *oc)
	if err != nil {
		switch {
		case errors.Is(err, ErrDeclined):
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"success":   false,
				"message":   "payment was declined; you can retry the payment",
				"retryable": true,
				"order":     ord,
			})
		case errors.Is(err, ErrVerificationFailed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"message": "payment could not be verified; please contact support with your order id",
				"orderId": oc.OrderID,
			})
		case errors.Is(err, ErrUnknownOutcome):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unknown outcome"})
		case errors.Is(err, order.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	if oc.Kind == OutcomeDismissed {
		// informational only; no failure implied
		return c.JSON(fiber.Map{"success": true, "pending": true, "message": "payment not completed; your order is saved", "order": ord})
	}
	return c.JSON(fiber.Map{"success": true, "order": ord})
}
