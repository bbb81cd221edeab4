package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func validationFail(c *fiber.Ctx, errs FieldErrors) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation error",
		"errors":  errs,
	})
}

// checkStruct runs validator tags over a request payload and renders the
// violations in the FieldErrors shape.
func checkStruct(v interface{}) FieldErrors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errs := FieldErrors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add("body", "invalid payload")
		return errs
	}

	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			errs.Add(field, "is required")
		case "max":
			errs.Add(field, "must be at most "+fe.Param()+" characters")
		case "gt":
			errs.Add(field, "must be greater than "+fe.Param())
		case "uuid":
			errs.Add(field, "must be a valid id")
		default:
			errs.Add(field, "is invalid")
		}
	}
	return errs
}

func currentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	raw := c.Locals("userId")
	if raw == nil {
		return uuid.Nil, false
	}
	s, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
