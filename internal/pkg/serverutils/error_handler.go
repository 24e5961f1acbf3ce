package serverutils

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"ai-studymate-be/pkg/apperror"
)

// ErrorHandlerMiddleware converts errors bubbling out of controllers into a
// consistent JSON envelope. Upstream provider details stay in the server log;
// clients get a generic degraded-service message.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		switch {
		case apperror.IsValidation(err):
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(fiber.StatusBadRequest, err.Error()))

		case apperror.IsNotInitialized(err):
			return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(fiber.StatusConflict, "Study material is not ready yet, please retry"))

		case apperror.IsRateLimit(err), apperror.IsTimeout(err), apperror.IsProvider(err):
			log.Printf("[ERROR] %s %s: %v", ctx.Method(), ctx.Path(), err)
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse(fiber.StatusServiceUnavailable, "AI service is temporarily unavailable, please try again"))
		}

		if fiberErr, ok := err.(*fiber.Error); ok {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		log.Printf("[ERROR] %s %s: %v", ctx.Method(), ctx.Path(), err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
	}
}
