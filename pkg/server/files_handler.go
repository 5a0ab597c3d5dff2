package server

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/rs/zerolog"

	"github.com/lumenworks/canvaschat/pkg/blob"
	"github.com/lumenworks/canvaschat/pkg/classify"
	"github.com/lumenworks/canvaschat/pkg/docgen"
)

// FilesHandler serves generated documents and uploaded files back out of
// their blob stores.
type FilesHandler struct {
	generated *blob.Store
	uploads   *blob.Store
	logger    zerolog.Logger
}

// NewFilesHandler builds the handler reading from both stores.
func NewFilesHandler(generated, uploads *blob.Store, logger zerolog.Logger) *FilesHandler {
	return &FilesHandler{generated: generated, uploads: uploads, logger: logger}
}

// Generated handles GET /generated/{storedFilename}: the document is served
// as an attachment under its original name.
func (h *FilesHandler) Generated(_ context.Context, c *app.RequestContext) {
	name := c.Param("filename")
	data, ok := h.fetch(c, h.generated, name)
	if !ok {
		return
	}

	contentType := "application/octet-stream"
	if format, known := docgen.FormatFromExtension(filepath.Ext(name)); known {
		contentType = format.ContentType()
	}
	c.Response.Header.Set("Content-Type", contentType)
	c.Response.Header.Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", blob.StripIDPrefix(name)))
	c.SetStatusCode(consts.StatusOK)
	c.Response.SetBody(data)
}

// Uploaded handles GET /uploads/{storedFilename}: the file is served inline
// so image attachments render in the chat transcript.
func (h *FilesHandler) Uploaded(_ context.Context, c *app.RequestContext) {
	name := c.Param("filename")
	data, ok := h.fetch(c, h.uploads, name)
	if !ok {
		return
	}

	contentType := classify.NormalizeMIME(blob.StripIDPrefix(name), "")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Response.Header.Set("Content-Type", contentType)
	c.Response.Header.Set("Content-Disposition",
		fmt.Sprintf("inline; filename=%q", blob.StripIDPrefix(name)))
	c.SetStatusCode(consts.StatusOK)
	c.Response.SetBody(data)
}

// fetch resolves and reads one blob, writing the error response itself when
// the name is invalid or the blob is missing.
func (h *FilesHandler) fetch(c *app.RequestContext, store *blob.Store, name string) ([]byte, bool) {
	if _, err := store.Resolve(name); err != nil {
		if errors.Is(err, blob.ErrInvalidName) {
			badRequest(c, "invalid file name")
			return nil, false
		}
		internalError(c)
		return nil, false
	}
	if !store.Exists(name) {
		notFound(c, "file not found")
		return nil, false
	}
	data, err := store.Get(name)
	if err != nil {
		h.logger.Error().Err(err).Str("filename", name).Msg("blob read failed")
		internalError(c)
		return nil, false
	}
	return data, true
}
