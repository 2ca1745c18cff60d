package middleware

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	apperrors "noblelift-backend/lib/utils/app-errors"
	apimodels "noblelift-backend/models/api"
)

func WithBodyLimit(limit int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		contentLength := c.Get(fiber.HeaderContentLength)
		if contentLength != "" && contentLength != "0" {
			size, err := strconv.ParseInt(contentLength, 10, 64)
			if err == nil && size > limit {
				return c.Status(fiber.StatusRequestEntityTooLarge).JSON(apimodels.NewError(apperrors.CodeBadRequest,
					fmt.Sprintf("Request body too large. Maximum allowed: %d bytes", limit), nil))
			}
		}

		return c.Next()
	}
}
