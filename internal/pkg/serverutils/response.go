package serverutils

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type ResponseEnvelope struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) ResponseEnvelope {
	return ResponseEnvelope{Message: message, Data: data}
}

// ValidateRequest runs struct-tag validation and wraps failures in a fiber
// 400 so the error handler middleware can pass them through.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "validation failed on field '"+verrs[0].Field()+"'")
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// ErrorHandlerMiddleware converts returned errors into JSON envelopes.
// fiber.Error keeps its status code; everything else is a 500 with a generic
// message so internals never leak.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ResponseEnvelope{Message: fiberErr.Message})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ResponseEnvelope{
			Message: "Internal server error",
		})
	}
}
