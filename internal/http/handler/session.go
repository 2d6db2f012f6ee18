package handler

import (
	"encoding/json"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"screenshop/internal/model"
	"screenshop/internal/service"
)

// UploadField is the multipart field carrying screenshot files.
const UploadField = "files"

// hintRequest is the body of PATCH /api/sessions/:id/screenshots/:index.
type hintRequest struct {
	PageHint string `json:"pageHint"`
}

// CreateSession opens an empty upload session.
//
//	@Summary	Create an upload session
//	@Tags		sessions
//	@Produce	json
//	@Success	201	{object}	workspace.View
//	@Router		/api/sessions [post]
func CreateSession(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusCreated).JSON(svc.Create(c.UserContext()))
	}
}

// GetSession returns the current state of a session.
//
//	@Summary	Get an upload session
//	@Tags		sessions
//	@Produce	json
//	@Param		id	path		string	true	"session id"
//	@Success	200	{object}	workspace.View
//	@Failure	404	{object}	errorPayload
//	@Router		/api/sessions/{id} [get]
func GetSession(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(v)
	}
}

// DeleteSession drops a session and frees its previews.
//
//	@Summary	Delete an upload session
//	@Tags		sessions
//	@Param		id	path	string	true	"session id"
//	@Success	204
//	@Failure	404	{object}	errorPayload
//	@Router		/api/sessions/{id} [delete]
func DeleteSession(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// UploadScreenshots adds multipart files to a session. An optional
// pageHints value per file sets its hint.
//
//	@Summary	Upload screenshots
//	@Tags		sessions
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		id			path		string	true	"session id"
//	@Param		files		formData	file	true	"screenshot images"
//	@Param		pageHints	formData	string	false	"page hint per file"
//	@Success	200			{object}	service.UploadResult
//	@Failure	400			{object}	errorPayload
//	@Failure	409			{object}	errorPayload
//	@Router		/api/sessions/{id}/screenshots [post]
func UploadScreenshots(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "files are required")
		}
		headers := form.File[UploadField]
		if len(headers) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "files are required")
		}
		hints := form.Value["pageHints"]

		files := make([]service.UploadFile, 0, len(headers))
		var opened []multipart.File
		defer func() {
			for _, f := range opened {
				_ = f.Close()
			}
		}()
		for i, fh := range headers {
			hint := model.PageHintHomepage
			if i < len(hints) {
				h, err := model.ParsePageHint(hints[i])
				if err != nil {
					return writeError(c, fiber.StatusBadRequest, string(service.CodeInvalidInput), err.Error())
				}
				hint = h
			}
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			opened = append(opened, f)
			files = append(files, service.UploadFile{Name: fh.Filename, Size: fh.Size, Body: f, Hint: hint})
		}

		res, err := svc.Upload(c.UserContext(), c.Params("id"), files)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// SetScreenshotHint changes the page hint of one screenshot.
//
//	@Summary	Set a screenshot page hint
//	@Tags		sessions
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string		true	"session id"
//	@Param		index	path		int			true	"screenshot index"
//	@Param		body	body		hintRequest	true	"page hint"
//	@Success	200		{object}	workspace.View
//	@Failure	400		{object}	errorPayload
//	@Failure	404		{object}	errorPayload
//	@Router		/api/sessions/{id}/screenshots/{index} [patch]
func SetScreenshotHint(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		index, err := c.ParamsInt("index")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_INDEX", "invalid index")
		}
		var req hintRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, string(service.CodeInvalidInput), "invalid request body")
		}
		v, err := svc.SetHint(c.UserContext(), c.Params("id"), index, req.PageHint)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(v)
	}
}

// RemoveScreenshot deletes one screenshot from a session.
//
//	@Summary	Remove a screenshot
//	@Tags		sessions
//	@Produce	json
//	@Param		id		path		string	true	"session id"
//	@Param		index	path		int		true	"screenshot index"
//	@Success	200		{object}	workspace.View
//	@Failure	404		{object}	errorPayload
//	@Router		/api/sessions/{id}/screenshots/{index} [delete]
func RemoveScreenshot(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		index, err := c.ParamsInt("index")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_INDEX", "invalid index")
		}
		v, err := svc.Remove(c.UserContext(), c.Params("id"), index)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(v)
	}
}

// ScreenshotPreview serves the normalized image bytes of one screenshot.
//
//	@Summary	Preview a screenshot
//	@Tags		sessions
//	@Produce	image/png
//	@Produce	image/jpeg
//	@Param		id		path	string	true	"session id"
//	@Param		index	path	int		true	"screenshot index"
//	@Success	200
//	@Failure	404	{object}	errorPayload
//	@Router		/api/sessions/{id}/screenshots/{index}/preview [get]
func ScreenshotPreview(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		index, err := c.ParamsInt("index")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_INDEX", "invalid index")
		}
		b, mediaType, err := svc.Preview(c.UserContext(), c.Params("id"), index)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, mediaType)
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Send(b)
	}
}

// GenerateSession runs generation over the screenshots of a session.
//
//	@Summary	Generate a storefront from a session
//	@Tags		sessions
//	@Produce	json
//	@Param		id	path		string	true	"session id"
//	@Success	200	{object}	service.GenerateResult
//	@Failure	400	{object}	generateErrorPayload
//	@Failure	409	{object}	generateErrorPayload
//	@Failure	502	{object}	generateErrorPayload
//	@Router		/api/sessions/{id}/generate [post]
func GenerateSession(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Generate(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeGenerateError(c, err)
		}
		return c.JSON(res)
	}
}

// SessionArchive downloads the last generated project of a session.
//
//	@Summary	Download a session's generated project
//	@Tags		sessions
//	@Produce	application/zip
//	@Param		id	path	string	true	"session id"
//	@Success	200
//	@Failure	404	{object}	errorPayload
//	@Router		/api/sessions/{id}/archive [get]
func SessionArchive(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		b, err := svc.Archive(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return sendArchive(c, b)
	}
}

// ResetSession clears a session back to its empty state.
//
//	@Summary	Reset an upload session
//	@Tags		sessions
//	@Produce	json
//	@Param		id	path		string	true	"session id"
//	@Success	200	{object}	workspace.View
//	@Failure	409	{object}	errorPayload
//	@Router		/api/sessions/{id}/reset [post]
func ResetSession(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := svc.Reset(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(v)
	}
}
