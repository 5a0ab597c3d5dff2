package server

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lumenworks/canvaschat/pkg/blob"
	"github.com/lumenworks/canvaschat/pkg/chat"
	"github.com/lumenworks/canvaschat/pkg/classify"
)

// UploadPathPrefix is the route prefix uploaded files are served under.
const UploadPathPrefix = "/uploads/"

// UploadHandler accepts multipart file uploads into the upload blob store.
type UploadHandler struct {
	store  *blob.Store
	logger zerolog.Logger
}

// NewUploadHandler builds the handler writing into store.
func NewUploadHandler(store *blob.Store, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{store: store, logger: logger}
}

// Upload handles POST /upload: every part named "files" is classified, stored
// under a fresh key, and described in the response.
func (h *UploadHandler) Upload(_ context.Context, c *app.RequestContext) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "malformed multipart form")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		badRequest(c, "no files provided; use multipart field \"files\"")
		return
	}

	files := make([]chat.UploadedFile, 0, len(headers))
	for _, header := range headers {
		file, err := h.storeOne(header)
		if err != nil {
			h.logger.Error().Err(err).Str("filename", header.Filename).Msg("upload failed")
			internalError(c)
			return
		}
		files = append(files, file)
	}

	h.logger.Info().Int("count", len(files)).Msg("files uploaded")
	c.JSON(consts.StatusCreated, UploadResponse{Files: files})
}

func (h *UploadHandler) storeOne(header *multipart.FileHeader) (chat.UploadedFile, error) {
	src, err := header.Open()
	if err != nil {
		return chat.UploadedFile{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return chat.UploadedFile{}, err
	}

	mimeType := classify.NormalizeMIME(header.Filename, header.Header.Get("Content-Type"))
	category := classify.Classify(mimeType, header.Filename)
	storedName := blob.NewKey(header.Filename)

	if err := h.store.Put(storedName, data); err != nil {
		return chat.UploadedFile{}, err
	}

	file := chat.UploadedFile{
		ID:             uuid.New().String(),
		OriginalName:   header.Filename,
		StoredFilename: storedName,
		MimeType:       mimeType,
		Size:           int64(len(data)),
		PublicURL:      UploadPathPrefix + storedName,
		Category:       category,
	}
	if category == classify.CategoryText {
		file.TextPreview = classify.TextPreview(string(data))
	}
	return file, nil
}
