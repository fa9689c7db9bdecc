package v1

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/imagehub/imagehub/internal/controller/restapi/v1/response"
	"github.com/imagehub/imagehub/pkg/types/errs"
)

func errorResponse(ctx *fiber.Ctx, status int, code, description string) error {
	return ctx.Status(status).JSON(response.Error{Code: code, Description: description})
}

// useCaseError maps the error kind to a transport status: Validation is
// the caller's fault, NotFound is an absent record or rendition,
// everything else is a collaborator failure.
func useCaseError(ctx *fiber.Ctx, err error) error {
	var status int

	switch errs.KindOf(err) {
	case errs.KindValidation:
		status = http.StatusBadRequest
	case errs.KindNotFound:
		status = http.StatusNotFound
	default:
		status = http.StatusInternalServerError
	}

	body := response.Error{
		Code:        "Internal.Failure",
		Description: "internal error",
	}

	var ve *errs.ValidationError
	var e *errs.Error

	switch {
	case errors.As(err, &ve):
		body.Code = ve.Code
		body.Description = ve.Description
		for _, child := range ve.Errors {
			body.Errors = append(body.Errors, response.Error{
				Code:        child.Code,
				Description: child.Description,
			})
		}
	case errors.As(err, &e):
		body.Code = e.Code
		body.Description = e.Description
	}

	return ctx.Status(status).JSON(body)
}
