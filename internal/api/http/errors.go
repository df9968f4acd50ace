package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/dailyweather/internal/controller"
	"github.com/i474232898/dailyweather/internal/weather"
)

// ErrorHandler renders every error as {"error": true, "message": ...} and maps
// domain errors to status codes.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, weather.ErrIndexOutOfRange), errors.Is(err, controller.ErrInvalidAction):
		code = fiber.StatusBadRequest
	case errors.Is(err, weather.ErrUnknownCandidate):
		code = fiber.StatusNotFound
	case errors.Is(err, weather.ErrNoPreview), errors.Is(err, weather.ErrStaleResult):
		code = fiber.StatusConflict
	case errors.Is(err, weather.ErrAcquisitionFailed), errors.Is(err, weather.ErrGeocodingFailed):
		code = fiber.StatusBadGateway
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
