package handler

import (
	"site-lock-system/internal/service"
	apperrors "site-lock-system/pkg/errors"

	"github.com/gofiber/fiber/v2"
)

type CreateKeyInput struct {
	ProjectName string `json:"project_name"`
}

type LockInput struct {
	Locked bool `json:"locked"`
}

type RenameInput struct {
	ProjectName string `json:"project_name"`
}

// KeyHandler exposes the authenticated dashboard surface for license
// keys. All operations are scoped to the caller's own rows.
type KeyHandler struct {
	keys *service.KeyService
}

func NewKeyHandler(keys *service.KeyService) *KeyHandler {
	return &KeyHandler{keys: keys}
}

func callerID(c *fiber.Ctx) uint {
	return c.Locals("userID").(uint)
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{
		"error": apperrors.Message(err),
	})
}

func (h *KeyHandler) HandleCreateKey(c *fiber.Ctx) error {
	input := new(CreateKeyInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input data",
		})
	}

	key, err := h.keys.Create(callerID(c), input.ProjectName)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(key)
}

func (h *KeyHandler) HandleListKeys(c *fiber.Ctx) error {
	keys, err := h.keys.List(callerID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"keys": keys})
}

func (h *KeyHandler) HandleGetKey(c *fiber.Ctx) error {
	key, err := h.keys.Get(callerID(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(key)
}

func (h *KeyHandler) HandleSetLock(c *fiber.Ctx) error {
	input := new(LockInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input data",
		})
	}

	key, err := h.keys.SetLock(callerID(c), c.Params("id"), input.Locked)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(key)
}

func (h *KeyHandler) HandleRenameKey(c *fiber.Ctx) error {
	input := new(RenameInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input data",
		})
	}

	key, err := h.keys.Rename(callerID(c), c.Params("id"), input.ProjectName)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(key)
}

func (h *KeyHandler) HandleRotateKey(c *fiber.Ctx) error {
	key, err := h.keys.Rotate(callerID(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(key)
}

func (h *KeyHandler) HandleDeleteKey(c *fiber.Ctx) error {
	if err := h.keys.Delete(callerID(c), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "key deleted"})
}
