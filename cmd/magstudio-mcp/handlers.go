package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/common"
	"github.com/ternarybob/magstudio/internal/models"
	"github.com/ternarybob/magstudio/internal/services/slides"
	"github.com/ternarybob/magstudio/internal/services/studio"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// handleListProfiles implements the list_profiles tool
func handleListProfiles(studioService *studio.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return textResult(formatProfiles(studioService.Registry().Descriptors())), nil
	}
}

// handleGeneratePage implements the generate_page tool
func handleGeneratePage(studioService *studio.Service, slideService *slides.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		profile, err := request.RequireString("profile")
		if err != nil || profile == "" {
			return textResult("Error: profile parameter is required"), nil
		}
		topic, err := request.RequireString("topic")
		if err != nil || topic == "" {
			return textResult("Error: topic parameter is required"), nil
		}

		req := &models.GenerationRequest{
			Profile: models.Profile(profile),
			Topic:   topic,
			Brief:   request.GetString("brief", ""),
			Sources: models.SourceBundle{
				WebSources: request.GetStringSlice("web_sources", nil),
			},
		}

		// Each tool call is its own session so calls never supersede each other
		outcome, err := studioService.Generate(ctx, common.NewSessionID(), req)
		if err != nil {
			logger.Error().Err(err).Str("profile", profile).Msg("Generation failed")
			return textResult(fmt.Sprintf("Generation error (%s): %v", studio.ErrorKind(err), err)), nil
		}

		var saved *models.EditorialSlide
		if request.GetBool("save", false) {
			saved, err = slideService.SaveGenerated(ctx, req, outcome.Result)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to save generated slide")
				return textResult(fmt.Sprintf("Generated, but saving failed: %v", err)), nil
			}
		}

		return textResult(formatOutcome(outcome, saved)), nil
	}
}

// handleRenderListicle implements the render_listicle tool
func handleRenderListicle(studioService *studio.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := request.RequireString("title")
		if err != nil {
			return textResult("Error: title parameter is required"), nil
		}
		raw, err := request.RequireString("listicle_json")
		if err != nil || raw == "" {
			return textResult("Error: listicle_json parameter is required"), nil
		}

		var data models.ListicleData
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return textResult(fmt.Sprintf("Error: listicle_json is not valid JSON: %v", err)), nil
		}

		result, err := studioService.RenderListicle(title, &data)
		if err != nil {
			logger.Warn().Err(err).Msg("Listicle render rejected")
			return textResult(fmt.Sprintf("Render error: %v", err)), nil
		}

		return textResult(result.Content), nil
	}
}

// handleListSlides implements the list_slides tool
func handleListSlides(slideService *slides.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		all, err := slideService.List(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to list slides")
			return textResult(fmt.Sprintf("Error listing slides: %v", err)), nil
		}
		return textResult(formatSlides(all)), nil
	}
}

// handleCurateLinks implements the curate_links tool
func handleCurateLinks(curator *studio.Curator, slideService *slides.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		topic, err := request.RequireString("topic")
		if err != nil || topic == "" {
			return textResult("Error: topic parameter is required"), nil
		}

		curated, err := curator.Curate(ctx, topic, request.GetInt("count", 0))
		if err != nil {
			logger.Error().Err(err).Str("topic", topic).Msg("Curation failed")
			return textResult(fmt.Sprintf("Curation error (%s): %v", studio.ErrorKind(err), err)), nil
		}

		if request.GetBool("save", false) {
			if err := slideService.CreateMany(ctx, curated); err != nil {
				logger.Error().Err(err).Msg("Failed to save curated slides")
				return textResult(fmt.Sprintf("Curated, but saving failed: %v", err)), nil
			}
		}

		return textResult(formatSlides(curated)), nil
	}
}
