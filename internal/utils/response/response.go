package response

import (
	"errors"

	lerrors "walletledger/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}

// ValidationError rejects a request whose fields failed validation.
func ValidationError(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "Validation failed",
		"code":   "VALIDATION_FAILED",
		"fields": fields,
	})
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// StatusForKind maps an error kind to the HTTP status returned for it.
func StatusForKind(kind lerrors.Kind) int {
	switch kind {
	case lerrors.KindInvalidArgument:
		return fiber.StatusBadRequest
	case lerrors.KindNotFound:
		return fiber.StatusNotFound
	case lerrors.KindInsufficientFunds:
		return fiber.StatusUnprocessableEntity
	case lerrors.KindStoreFault:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// DomainError writes err with the status of its kind. extra is merged into
// the body. Store faults and defects never expose their cause.
func DomainError(c *fiber.Ctx, err error, extra fiber.Map) error {
	kind := lerrors.KindOf(err)
	body := fiber.Map{
		"error": publicMessage(err, kind),
		"code":  lerrors.CodeOf(err),
	}
	if kind == lerrors.KindStoreFault {
		body["retryable"] = true
	}
	for k, v := range extra {
		body[k] = v
	}
	return c.Status(StatusForKind(kind)).JSON(body)
}

func publicMessage(err error, kind lerrors.Kind) string {
	switch kind {
	case lerrors.KindStoreFault:
		return lerrors.ErrStoreFault.Message
	case lerrors.KindDomainValidation:
		return "internal error"
	}
	var de *lerrors.DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
