package v1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/imagehub/imagehub/internal/controller/restapi/v1/response"
	"github.com/imagehub/imagehub/internal/controller/restapi/v1/validate"
	"github.com/imagehub/imagehub/internal/dto"
	"github.com/imagehub/imagehub/pkg/types/errs"
)

// @Summary  	Upload image
// @Description Stores the original, persists metadata and schedules the thumbnail rendition
// @Tags 		images
// @Accept 		mpfd
// @Produce 	json
// @Param 		file formData file true "Image file (jpeg, png, webp)"
// @Success 	201 {object} response.UploadImage
// @Failure 	400 {object} response.Error "Empty file"
// @Failure 	413 {object} response.Error "File too large"
// @Failure 	415 {object} response.Error "Unsupported format"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/api/images [post]
func (r *V1) uploadImage(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Request.InvalidFile", "file is required")
	}

	if file.Size == 0 {
		return errorResponse(ctx, http.StatusBadRequest, "Request.InvalidFile", "file is empty")
	}

	if file.Size > validate.MaxFileSize {
		return errorResponse(ctx, http.StatusRequestEntityTooLarge, "Request.InvalidFile",
			fmt.Sprintf("file size cant be more than %d bytes", validate.MaxFileSize))
	}

	contentType := file.Header.Get("Content-Type")
	if !validate.AllowedContentTypes[contentType] {
		return errorResponse(ctx, http.StatusUnsupportedMediaType, "Request.InvalidFile",
			"unsupported file type. Allowed: jpeg, png, webp")
	}

	fileReader, err := file.Open()
	if err != nil {
		r.logger.Error(err, "restapi - v1 - uploadImage")

		return errorResponse(ctx, http.StatusInternalServerError, "Internal.Failure", "problems with opening the file")
	}

	// the use case owns fileReader from here and closes it
	id, err := r.img.Upload(ctx.UserContext(), dto.UploadImage{
		Content:     fileReader,
		FileName:    file.Filename,
		ContentType: contentType,
		Size:        file.Size,
	})
	if err != nil {
		r.logger.Error(err, "restapi - v1 - uploadImage")

		return useCaseError(ctx, err)
	}

	return ctx.Status(http.StatusCreated).JSON(response.UploadImage{ImageID: id.String()})
}

// @Summary 	Get image URL
// @Description Returns a time-limited access URL for the rendition at the requested height
// @Tags 		images
// @Produce 	json
// @Param 		id 	   path  string true  "Image ID (uuid)"
// @Param 		height query int 	false "Rendition height, omit for the original"
// @Success 	200 {object} response.GetImage
// @Failure 	400 {object} response.Error "Invalid ID or height"
// @Failure 	404 {object} response.Error "Image or rendition not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/api/images/{id} [get]
func (r *V1) getImage(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Request.InvalidID", "invalid id")
	}

	height := 0
	if heightStr := ctx.Query("height"); heightStr != "" {
		height, err = strconv.Atoi(heightStr)
		if err != nil {
			return errorResponse(ctx, http.StatusBadRequest, "Request.InvalidHeight", "height must be a number")
		}
		if height < validate.MinResizeHeight || height > validate.MaxResizeHeight {
			return errorResponse(ctx, http.StatusBadRequest, "Request.InvalidHeight",
				fmt.Sprintf("height must be between %d and %d", validate.MinResizeHeight, validate.MaxResizeHeight))
		}
	}

	url, err := r.img.Get(ctx.UserContext(), dto.GetImage{ID: id, Height: height})
	if err != nil {
		if errs.KindOf(err) == errs.KindFailure {
			r.logger.Error(err, "restapi - v1 - getImage")
		}

		return useCaseError(ctx, err)
	}

	return ctx.Status(http.StatusOK).JSON(response.GetImage{URL: url})
}

type resizeRequest struct {
	Height int `json:"height"`
}

// @Summary 	Request resize
// @Description Schedules production of a rendition at the requested height
// @Tags 		images
// @Accept 		json
// @Produce 	json
// @Param 		id 		path string 		true "Image ID (uuid)"
// @Param 		request body resizeRequest 	true "Target height"
// @Success 	202 "Accepted"
// @Failure 	400 {object} response.Error "Invalid ID or height"
// @Failure 	404 {object} response.Error "Image not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/api/images/{id}/resize [post]
func (r *V1) resizeImage(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Request.InvalidID", "invalid id")
	}

	var request resizeRequest
	if err := ctx.BodyParser(&request); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Request.InvalidBody", "invalid request body")
	}

	if request.Height < validate.MinResizeHeight || request.Height > validate.MaxResizeHeight {
		return errorResponse(ctx, http.StatusBadRequest, "Request.InvalidHeight",
			fmt.Sprintf("height must be between %d and %d", validate.MinResizeHeight, validate.MaxResizeHeight))
	}

	err = r.img.RequestResize(ctx.UserContext(), dto.ResizeImage{ID: id, Height: request.Height})
	if err != nil {
		if errs.KindOf(err) == errs.KindFailure {
			r.logger.Error(err, "restapi - v1 - resizeImage")
		}

		return useCaseError(ctx, err)
	}

	return ctx.SendStatus(http.StatusAccepted)
}

// @Summary 	Delete image
// @Description Deletes every rendition blob and the metadata record
// @Tags 		images
// @Param		id path string true "Image ID (uuid)"
// @Success		204 "Deleted"
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	404 {object} response.Error "Image not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/api/images/{id} [delete]
func (r *V1) deleteImage(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Request.InvalidID", "invalid id")
	}

	if err := r.img.Delete(ctx.UserContext(), id); err != nil {
		if errs.KindOf(err) != errs.KindNotFound {
			r.logger.Error(err, "restapi - v1 - deleteImage")
		}

		return useCaseError(ctx, err)
	}

	return ctx.SendStatus(http.StatusNoContent)
}
