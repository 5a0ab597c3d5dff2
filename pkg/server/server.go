// Package server wires the HTTP surface: upload, chat, file download, and
// health endpoints on a Hertz engine.
package server

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	hertzserver "github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/rs/zerolog"

	"github.com/lumenworks/canvaschat/pkg/blob"
	"github.com/lumenworks/canvaschat/pkg/chat"
)

// Options collect everything the server needs.
type Options struct {
	Addr         string
	Orchestrator *chat.Orchestrator
	Uploads      *blob.Store
	Generated    *blob.Store
	SystemPrompt string
	Logger       zerolog.Logger
}

// New builds the Hertz engine with all routes and middleware registered.
func New(opts Options) *hertzserver.Hertz {
	h := hertzserver.Default(hertzserver.WithHostPorts(opts.Addr))

	h.Use(recovery(opts.Logger))
	h.Use(requestLogger(opts.Logger))
	h.Use(cors())

	uploadHandler := NewUploadHandler(opts.Uploads, opts.Logger)
	chatHandler := NewChatHandler(opts.Orchestrator, opts.SystemPrompt, opts.Logger)
	filesHandler := NewFilesHandler(opts.Generated, opts.Uploads, opts.Logger)

	h.GET("/healthz", func(_ context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
	h.POST("/upload", uploadHandler.Upload)
	h.POST("/chat", chatHandler.Chat)
	h.GET("/generated/:filename", filesHandler.Generated)
	h.GET("/uploads/:filename", filesHandler.Uploaded)

	return h
}
