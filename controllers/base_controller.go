package controllers

import (
	"bytes"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	apperrors "noblelift-backend/lib/utils/app-errors"
	"noblelift-backend/middleware"
	"noblelift-backend/models"
	apimodels "noblelift-backend/models/api"
)

type BaseAPIController struct{}

type validatable interface {
	Validate() error
}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return apperrors.BadRequest("Invalid request body")
	}
	return nil
}

// ParseBody разбор и валидация тела запроса
func (c *BaseAPIController) ParseBody(ctx *fiber.Ctx, out validatable) error {
	if err := c.BodyParser(ctx, out); err != nil {
		return err
	}
	return out.Validate()
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetParam(ctx, "id")
}

func (c *BaseAPIController) GetParam(ctx *fiber.Ctx, name string) (string, error) {
	value := ctx.Params(name)
	if value == "" {
		return "", apperrors.BadRequest("Missing path parameter " + name)
	}
	return value, nil
}

func (c *BaseAPIController) GetActor(ctx *fiber.Ctx) models.Actor {
	return middleware.GetActor(ctx)
}

// GetPagination limit/offset из query, приведенные к допустимым границам
func (c *BaseAPIController) GetPagination(ctx *fiber.Ctx, defLimit, maxLimit int) apimodels.Pagination {
	page := apimodels.Pagination{
		Limit:  ctx.QueryInt("limit", defLimit),
		Offset: ctx.QueryInt("offset", 0),
	}
	return page.Normalize(defLimit, maxLimit)
}

func (c *BaseAPIController) QueryBool(ctx *fiber.Ctx, name string) *bool {
	raw := ctx.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("user_id", middleware.GetActor(ctx).UserID).
		WithField("request_id", ctx.Locals("requestid")).
		WithField("path", ctx.Path())
}

// SendError прикладные ошибки отдаются как есть, остальные логируются и скрываются
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, err error) error {
	appErr, ok := apperrors.Classify(err)
	if !ok || appErr.Code == apperrors.CodeInternal {
		c.GetLogger(ctx).WithError(err).Error("ошибка обработки запроса")
	}
	return ctx.Status(appErr.Code.HTTPStatus()).JSON(apimodels.NewError(appErr.Code, appErr.Message, appErr.Details))
}

func (c *BaseAPIController) SendList(ctx *fiber.Ctx, items any, total int64, page apimodels.Pagination) error {
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewListResponse(items, total, page))
}

func (c *BaseAPIController) SendNoContent(ctx *fiber.Ctx) error {
	return ctx.SendStatus(fiber.StatusNoContent)
}

// FormFile файл из multipart поля name
func (c *BaseAPIController) FormFile(ctx *fiber.Ctx, name string) (apimodels.UploadFile, io.Closer, error) {
	header, err := ctx.FormFile(name)
	if err != nil {
		return apimodels.UploadFile{}, nil, apperrors.BadRequest("File is required")
	}
	file, err := header.Open()
	if err != nil {
		return apimodels.UploadFile{}, nil, errors.Wrap(err, "ошибка чтения загруженного файла")
	}
	return apimodels.UploadFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	}, file, nil
}

// SendStream отдача файла с Content-Disposition
func (c *BaseAPIController) SendStream(ctx *fiber.Ctx, body io.ReadCloser, size int64, fileName, contentType string) error {
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	ctx.Attachment(fileName)
	ctx.Set(fiber.HeaderContentType, contentType)
	return ctx.SendStream(body, int(size))
}

// SendBuffer отдача сформированного в памяти файла
func (c *BaseAPIController) SendBuffer(ctx *fiber.Ctx, body *bytes.Buffer, fileName, contentType string) error {
	ctx.Attachment(fileName)
	ctx.Set(fiber.HeaderContentType, contentType)
	return ctx.Status(fiber.StatusOK).Send(body.Bytes())
}
