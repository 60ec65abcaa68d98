package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/local-llm-toolkit/internal/conf"
	"github.com/lk2023060901/local-llm-toolkit/internal/pipe"
	pipeservice "github.com/lk2023060901/local-llm-toolkit/internal/pipe/service"
	"github.com/lk2023060901/local-llm-toolkit/internal/pipe/types"
	"github.com/lk2023060901/local-llm-toolkit/internal/pkg/logger"
	"github.com/lk2023060901/local-llm-toolkit/internal/server"
	"github.com/lk2023060901/local-llm-toolkit/internal/toolcall"
	toolcallservice "github.com/lk2023060901/local-llm-toolkit/internal/toolcall/service"
	"github.com/lk2023060901/local-llm-toolkit/internal/tools/exporter"
	"github.com/lk2023060901/local-llm-toolkit/internal/tools/extractor"
	"github.com/lk2023060901/local-llm-toolkit/internal/tools/retriever"
	toolsservice "github.com/lk2023060901/local-llm-toolkit/internal/tools/service"
)

var (
	configFile = flag.String("config", "config.yaml", "config file path")
)

func main() {
	flag.Parse()

	// Load configuration
	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger with config
	logConfig := &logger.Config{
		Level:            config.Log.Level,
		Format:           config.Log.Format,
		Output:           config.Log.Output,
		EnableCaller:     config.Log.EnableCaller,
		EnableStacktrace: config.Log.EnableStacktrace,
		File: logger.FileConfig{
			Filename:   config.Log.File.Filename,
			MaxSize:    config.Log.File.MaxSize,
			MaxAge:     config.Log.File.MaxAge,
			MaxBackups: config.Log.File.MaxBackups,
			Compress:   config.Log.File.Compress,
		},
	}

	log, err := logger.New(logConfig)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Initialize global logger
	if err := logger.InitGlobal(logConfig); err != nil {
		log.Fatal("failed to initialize global logger", zap.Error(err))
	}

	log.Info("config loaded successfully")

	// Initialize completion pipe
	p := pipe.New(&types.Config{
		APIKey:         config.Anthropic.APIKey,
		BaseURL:        config.Anthropic.BaseURL,
		ConnectTimeout: config.Anthropic.ConnectTimeout,
		ReadTimeout:    config.Anthropic.ReadTimeout,
		StreamDelay:    config.Anthropic.StreamDelay,
	}, log.Logger)

	// Initialize collaborator tools
	registry := extractor.NewRegistry()
	ret := retriever.New(registry, log.Logger)
	exp := exporter.New(log.Logger)

	// Initialize tool-calling shim with the collaborator tools
	shim, err := toolcall.New(&toolcall.Config{
		BaseURL: config.Ollama.BaseURL,
		Model:   config.Ollama.Model,
	}, log)
	if err != nil {
		log.Fatal("failed to create tool call shim", zap.Error(err))
	}
	if err := toolcall.RegisterBuiltinTools(shim, ret, exp, config.Knowledge.Dir); err != nil {
		log.Fatal("failed to register tools", zap.Error(err))
	}

	// Initialize services
	chatService := pipeservice.NewChatService(p, log.Logger)
	toolsService := toolsservice.NewToolsService(ret, exp, config.Knowledge.Dir, log.Logger)
	toolcallService := toolcallservice.NewToolcallService(shim, log.Logger)

	// Initialize server
	httpServer := server.NewHTTPServer(config, log.Logger, chatService, toolsService, toolcallService)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
