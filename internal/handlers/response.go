package handlers

import (
	"errors"

	"care4pets/internal/apperrors"
	"care4pets/internal/logger"
	"care4pets/internal/middleware"
	"care4pets/internal/repositories"
	"care4pets/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Page is the list envelope shared by every paginated endpoint.
type Page struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int64       `json:"totalPages"`
}

func data(c *fiber.Ctx, status int, payload interface{}) error {
	return c.Status(status).JSON(fiber.Map{"data": payload})
}

// page writes a paginated list. A nil slice is written as [].
func page[T any](c *fiber.Ctx, items []T, total int64, p repositories.Pagination) error {
	if items == nil {
		items = []T{}
	}
	return c.JSON(Page{
		Data:       items,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages(total),
	})
}

func pagination(c *fiber.Ctx) repositories.Pagination {
	return repositories.NewPagination(c.QueryInt("page", 1), c.QueryInt("limit", repositories.DefaultLimit))
}

func actor(c *fiber.Ctx) services.Actor {
	return services.Actor{UserID: middleware.UserID(c), Role: middleware.Role(c)}
}

// parse decodes the body into dst and validates it.
func parse(c *fiber.Ctx, v *validator.Validate, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.New(fiber.StatusBadRequest, "Invalid request body", err)
	}
	return validate(v, dst)
}

// ErrorHandler renders every error as {"message", "errors"}. Anything that is
// not an application error is logged and hidden behind a generic 500.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := apperrors.As(err); ok {
			if appErr.Code >= fiber.StatusInternalServerError {
				log.Error("Request failed",
					zap.String("request_id", logger.RequestID(c)),
					zap.String("path", c.Path()),
					zap.Error(err))
				return c.Status(appErr.Code).JSON(fiber.Map{"message": appErr.Message})
			}
			body := fiber.Map{"message": appErr.Message}
			if len(appErr.Fields) > 0 {
				body["errors"] = appErr.Fields
			}
			return c.Status(appErr.Code).JSON(body)
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
		}

		log.Error("Unhandled error",
			zap.String("request_id", logger.RequestID(c)),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}
}
