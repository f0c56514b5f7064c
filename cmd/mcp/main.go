package main

import (
	"log"

	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/legitima/aiact-agent/internal/adapters/mcp"
	"github.com/legitima/aiact-agent/internal/bootstrap"
	"github.com/legitima/aiact-agent/internal/config"
	"github.com/legitima/aiact-agent/internal/observability/logging"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("mcp", cfg.LogLevel)

	app, err := bootstrap.New(cfg, bootstrap.Options{
		Service: "mcp",
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	srv := mcpadapter.NewServer(app.Organizations, app.Systems, app.Assessor, logger).Build(version)
	if err := server.ServeStdio(srv); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}
