// Command salesforce-mcp serves Salesforce Contact and appointment tools
// over MCP stdio.
package main

import (
	"net/http"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/nh916/salesforce-healthcare-mcp/common"
	"github.com/nh916/salesforce-healthcare-mcp/config"
	"github.com/nh916/salesforce-healthcare-mcp/modules/salesforce"
	"github.com/nh916/salesforce-healthcare-mcp/modules/tools"
)

const userAgent = "salesforce-healthcare-mcp"

var version = "dev"

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuration error", zap.Error(err))
	}
	logger.Info("starting", zap.String("version", version), zap.Any("config", cfg.Redacted()))

	httpClient := common.NewHttpClient(userAgent, cfg.HTTPTimeout, &http.Client{})
	defer httpClient.CloseIdleConnections()

	tokenProvider := salesforce.NewTokenProvider(cfg, &http.Client{Timeout: cfg.HTTPTimeout}, logger)
	client := salesforce.NewClient(cfg.APIVersion, tokenProvider, httpClient, logger)
	service := salesforce.NewService(client)

	s := server.NewMCPServer("salesforce-healthcare-mcp", version)
	tools.NewTools(service, logger).Register(s)

	if err := server.ServeStdio(s); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
