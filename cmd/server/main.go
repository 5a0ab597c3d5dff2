// Command server runs the chat API: a thin HTTP front over a hosted language
// model with server-side tools for HTML artifacts and generated documents.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/lumenworks/canvaschat/pkg/backend"
	"github.com/lumenworks/canvaschat/pkg/blob"
	"github.com/lumenworks/canvaschat/pkg/chat"
	"github.com/lumenworks/canvaschat/pkg/config"
	"github.com/lumenworks/canvaschat/pkg/server"
	"github.com/lumenworks/canvaschat/pkg/tools"
)

func main() {
	_ = godotenv.Load()

	var cfgFile string
	flag.StringVar(&cfgFile, "config", "", "path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := newLogger(cfg.Log)
	logger.Info().Str("provider", cfg.Backend.Provider).Str("model", cfg.Backend.Model).Msg("starting")

	modelBackend, err := backend.New(cfg.Backend, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("backend init failed")
	}

	uploads := blob.NewStore(cfg.Storage.UploadsDir)
	generated := blob.NewStore(cfg.Storage.GeneratedDir)

	registry := chat.NewRegistry()
	if err := registry.Register(tools.NewArtifactTool()); err != nil {
		logger.Fatal().Err(err).Msg("register create_artifact failed")
	}
	if err := registry.Register(tools.NewDocumentTool(generated)); err != nil {
		logger.Fatal().Err(err).Msg("register create_document failed")
	}

	orchestrator, err := chat.NewOrchestrator(chat.OrchestratorOptions{
		Backend:       modelBackend,
		Registry:      registry,
		Uploads:       uploads,
		MaxIterations: cfg.Chat.MaxToolIterations,
		MaxReaders:    cfg.Chat.MaxAttachmentRead,
		Logger:        logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("orchestrator init failed")
	}

	h := server.New(server.Options{
		Addr:         cfg.Server.Addr(),
		Orchestrator: orchestrator,
		Uploads:      uploads,
		Generated:    generated,
		SystemPrompt: cfg.Chat.SystemPrompt,
		Logger:       logger,
	})

	go func() {
		if err := h.Run(); err != nil {
			logger.Fatal().Err(err).Msg("server run failed")
		}
	}()
	logger.Info().Str("addr", cfg.Server.Addr()).Msg("listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := h.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
	}
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if cfg.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
