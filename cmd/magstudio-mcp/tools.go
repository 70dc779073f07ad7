package main

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ternarybob/magstudio/internal/models"
)

func profileNames() string {
	names := make([]string, 0, len(models.AllProfiles()))
	for _, p := range models.AllProfiles() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

// createListProfilesTool returns the list_profiles tool definition
func createListProfilesTool() mcp.Tool {
	return mcp.NewTool("list_profiles",
		mcp.WithDescription("List the generation profiles with their models and item ranges"),
	)
}

// createGeneratePageTool returns the generate_page tool definition
func createGeneratePageTool() mcp.Tool {
	return mcp.NewTool("generate_page",
		mcp.WithDescription("Generate a magazine page for a topic using one profile"),
		mcp.WithString("profile",
			mcp.Required(),
			mcp.Description("Profile tag: "+profileNames()),
		),
		mcp.WithString("topic",
			mcp.Required(),
			mcp.Description("Page topic"),
		),
		mcp.WithString("brief",
			mcp.Description("Optional editorial brief"),
		),
		mcp.WithArray("web_sources",
			mcp.WithStringItems(),
			mcp.Description("Reference URLs used as primary research"),
		),
		mcp.WithBoolean("save",
			mcp.Description("Store the result as a slide at the end of the issue (default: false)"),
		),
	)
}

// createRenderListicleTool returns the render_listicle tool definition
func createRenderListicleTool() mcp.Tool {
	return mcp.NewTool("render_listicle",
		mcp.WithDescription("Render listicle items into page markup without calling a model"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Listicle title"),
		),
		mcp.WithString("listicle_json",
			mcp.Required(),
			mcp.Description(`Listicle data as JSON: {"heroImage": "...", "items": [{"id", "title", "description", ...}]}`),
		),
	)
}

// createListSlidesTool returns the list_slides tool definition
func createListSlidesTool() mcp.Tool {
	return mcp.NewTool("list_slides",
		mcp.WithDescription("List the slides of the current issue in order"),
	)
}

// createCurateLinksTool returns the curate_links tool definition
func createCurateLinksTool() mcp.Tool {
	return mcp.NewTool("curate_links",
		mcp.WithDescription("Find articles about a topic with grounded search and propose them as linked slides"),
		mcp.WithString("topic",
			mcp.Required(),
			mcp.Description("Topic to curate"),
		),
		mcp.WithNumber("count",
			mcp.Description("Number of links (default: 6, max: 20)"),
		),
		mcp.WithBoolean("save",
			mcp.Description("Append the curated links to the issue (default: false)"),
		),
	)
}
