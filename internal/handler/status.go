package handler

import (
	"site-lock-system/internal/observability/metrics"
	"site-lock-system/internal/service"
	apperrors "site-lock-system/pkg/errors"

	"github.com/gofiber/fiber/v2"
)

// StatusHandler serves the public lock check. The caller is an arbitrary
// third-party site's browser context, so every response, success or
// error, carries permissive cross-origin headers and exposes nothing but
// the lock boolean.
type StatusHandler struct {
	keys *service.KeyService
}

func NewStatusHandler(keys *service.KeyService) *StatusHandler {
	return &StatusHandler{keys: keys}
}

func setCORSHeaders(c *fiber.Ctx) {
	c.Set("Access-Control-Allow-Origin", "*")
	c.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	c.Set("Access-Control-Allow-Headers", "Content-Type")
}

// HandlePreflight answers CORS preflight requests.
func (h *StatusHandler) HandlePreflight(c *fiber.Ctx) error {
	setCORSHeaders(c)
	return c.JSON(fiber.Map{})
}

// HandleCheckStatus maps a key value to its lock flag.
func (h *StatusHandler) HandleCheckStatus(c *fiber.Ctx) error {
	setCORSHeaders(c)

	locked, err := h.keys.CheckStatus(c.Query("key"))
	if err != nil {
		metrics.StatusChecksTotal.WithLabelValues(outcomeFor(err)).Inc()
		return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{
			"error":  apperrors.Message(err),
			"locked": false,
		})
	}

	if locked {
		metrics.StatusChecksTotal.WithLabelValues("locked").Inc()
	} else {
		metrics.StatusChecksTotal.WithLabelValues("unlocked").Inc()
	}
	return c.JSON(fiber.Map{"locked": locked})
}

func outcomeFor(err error) string {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeValidation:
		return "missing_key"
	case apperrors.CodeNotFound:
		return "not_found"
	default:
		return "error"
	}
}
