package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"screenshop/internal/archive"
	"screenshop/internal/http/middleware"
	"screenshop/internal/model"
	"screenshop/internal/service"
)

// IdempotencyHeader lets clients coalesce retried generate calls.
const IdempotencyHeader = "Idempotency-Key"

// generateRequest is the body of POST /api/generate. Hints stay plain
// strings here; the service parses them after the credential check.
type generateRequest struct {
	Screenshots []screenshotRequest `json:"screenshots"`
	PageHints   []string            `json:"pageHints"`
}

type screenshotRequest struct {
	Base64     string `json:"base64"`
	MimeType   string `json:"mimeType"`
	PageHint   string `json:"pageHint" enums:"Homepage,Product Page,Collection Page,Cart,Other"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

func (r generateRequest) input() service.GenerateInput {
	in := service.GenerateInput{Screenshots: make([]model.Screenshot, len(r.Screenshots))}
	for i, s := range r.Screenshots {
		in.Screenshots[i] = model.Screenshot{
			Base64:     s.Base64,
			MimeType:   s.MimeType,
			PageHint:   model.PageHint(s.PageHint),
			PreviewURL: s.PreviewURL,
		}
	}
	if r.PageHints != nil {
		in.PageHints = make([]model.PageHint, len(r.PageHints))
		for i, h := range r.PageHints {
			in.PageHints[i] = model.PageHint(h)
		}
	}
	return in
}

// archiveRequest is the body of POST /api/archive.
type archiveRequest struct {
	Files model.FileSet `json:"files"`
}

// Generate turns screenshots into a storefront project.
//
//	@Summary	Generate a storefront from screenshots
//	@Tags		generate
//	@Accept		json
//	@Produce	json
//	@Param		body	body		generateRequest	true	"screenshots and page hints"
//	@Success	200		{object}	service.GenerateResult
//	@Failure	400		{object}	generateErrorPayload
//	@Failure	413		{object}	generateErrorPayload
//	@Failure	502		{object}	generateErrorPayload
//	@Router		/api/generate [post]
func Generate(svc service.GenerationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req generateRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return writeGenerateError(c, &service.Error{Code: service.CodeInvalidInput, Message: "invalid request body", Err: err})
		}
		in := req.input()
		in.IdempotencyKey = c.Get(IdempotencyHeader)
		in.RequestID = middleware.RequestIDFromContext(c.UserContext())
		res, err := svc.Generate(c.UserContext(), in)
		if err != nil {
			return writeGenerateError(c, err)
		}
		return c.JSON(res)
	}
}

// BuildArchive zips the posted files.
//
//	@Summary	Download files as a zip archive
//	@Tags		generate
//	@Accept		json
//	@Produce	application/zip
//	@Param		body	body	archiveRequest	true	"files to archive"
//	@Success	200
//	@Failure	400	{object}	errorPayload
//	@Router		/api/archive [post]
func BuildArchive() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req archiveRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, string(service.CodeInvalidInput), "invalid request body")
		}
		b, err := archive.Bytes(req.Files)
		if err != nil {
			if errors.Is(err, archive.ErrUnsafePath) || errors.Is(err, archive.ErrDuplicatePath) {
				return writeError(c, fiber.StatusBadRequest, string(service.CodeInvalidInput), err.Error())
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return sendArchive(c, b)
	}
}

// GetGeneration returns the audit record of a generation.
//
//	@Summary	Get a generation record
//	@Tags		generations
//	@Produce	json
//	@Param		id	path		string	true	"generation id"
//	@Success	200	{object}	model.Generation
//	@Failure	404	{object}	errorPayload
//	@Router		/api/generations/{id} [get]
func GetGeneration(svc service.GenerationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rec, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rec)
	}
}

// ListGenerations returns recent generation records, newest first.
//
//	@Summary	List recent generations
//	@Tags		generations
//	@Produce	json
//	@Param		limit	query		int	false	"maximum records (default 20, at most 100)"
//	@Success	200		{array}		model.Generation
//	@Failure	400		{object}	errorPayload
//	@Router		/api/generations [get]
func ListGenerations(svc service.GenerationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				return writeError(c, fiber.StatusBadRequest, string(service.CodeInvalidInput), "limit must be a positive integer")
			}
			limit = n
		}
		recs, err := svc.List(c.UserContext(), limit)
		if err != nil {
			return writeServiceError(c, err)
		}
		if recs == nil {
			recs = []model.Generation{}
		}
		return c.JSON(recs)
	}
}

// GenerationArchive redirects to the stored archive of a generation. When
// the URL cannot be presigned the archive is streamed through the API.
//
//	@Summary	Download the stored archive of a generation
//	@Tags		generations
//	@Produce	application/zip
//	@Param		id	path	string	true	"generation id"
//	@Success	200
//	@Success	302
//	@Failure	404	{object}	errorPayload
//	@Router		/api/generations/{id}/archive [get]
func GenerationArchive(svc service.GenerationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		url, err := svc.ArchiveURL(c.UserContext(), id)
		if err == nil {
			return c.Redirect(url, fiber.StatusFound)
		}
		if service.CodeOf(err) != service.CodeInternal {
			return writeServiceError(c, err)
		}

		rc, info, openErr := svc.OpenArchive(c.UserContext(), id)
		if openErr != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, archive.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", archive.FileName))
		size := -1
		if info.Size > 0 {
			size = int(info.Size)
		}
		return c.Status(fiber.StatusOK).SendStream(rc, size)
	}
}

func sendArchive(c *fiber.Ctx, b []byte) error {
	c.Set(fiber.HeaderContentType, archive.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", archive.FileName))
	return c.Status(fiber.StatusOK).Send(b)
}
