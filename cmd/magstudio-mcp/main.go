package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"

	"github.com/ternarybob/magstudio/internal/app"
	"github.com/ternarybob/magstudio/internal/common"
)

func main() {
	defer common.RecoverWithCrashFile()

	configPath := os.Getenv("MAGSTUDIO_CONFIG")
	if configPath == "" {
		configPath = "magstudio.toml"
	}

	var paths []string
	if _, err := os.Stat(configPath); err == nil {
		paths = append(paths, configPath)
	}

	config, err := common.LoadFromFiles(paths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal logging to avoid cluttering MCP stdio
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn")

	// The MCP server reuses the full application wiring without the HTTP listener
	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	mcpServer := server.NewMCPServer(
		"magstudio",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createListProfilesTool(), handleListProfiles(application.StudioService, logger))
	mcpServer.AddTool(createGeneratePageTool(), handleGeneratePage(application.StudioService, application.SlideService, logger))
	mcpServer.AddTool(createRenderListicleTool(), handleRenderListicle(application.StudioService, logger))
	mcpServer.AddTool(createListSlidesTool(), handleListSlides(application.SlideService, logger))
	mcpServer.AddTool(createCurateLinksTool(), handleCurateLinks(application.Curator, application.SlideService, logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
