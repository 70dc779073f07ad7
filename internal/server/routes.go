package server

import (
	"net/http"
	"strings"

	"github.com/ternarybob/magstudio/internal/handlers"
)

const slidesPrefix = "/api/slides/"

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Generation
	mux.HandleFunc("/api/profiles", s.app.StudioHandler.ListProfilesHandler) // GET - registered profiles
	mux.HandleFunc("/api/generate", s.app.StudioHandler.GenerateHandler)     // POST - run the pipeline
	mux.HandleFunc("/api/curate", s.app.StudioHandler.CurateHandler)         // POST - grounded link curation
	mux.HandleFunc("/api/render", s.app.StudioHandler.RenderHandler)         // POST - render listicle data

	// API routes - Slides
	mux.HandleFunc("/api/slides", s.handleSlidesRoute) // GET (list), POST (create)
	mux.HandleFunc(slidesPrefix, s.handleSlideRoutes)  // /{id} and subpaths
	mux.HandleFunc("/api/bridge/host.js", s.app.SlideHandler.HostScriptHandler)

	// API routes - Issue and audits
	mux.HandleFunc("/api/issue", s.handleIssueRoute)
	mux.HandleFunc("/api/audit", s.app.AuditHandler.ListAuditsHandler)

	// API routes - Key/value settings (API keys)
	mux.HandleFunc("/api/kv", s.app.KVHandler.ListKVHandler)
	mux.HandleFunc("/api/kv/", s.handleKVRoutes)

	// API routes - System
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleSlidesRoute routes /api/slides requests (list and create)
func (s *Server) handleSlidesRoute(w http.ResponseWriter, r *http.Request) {
	RouteResourceCollection(w, r, s.app.SlideHandler.ListSlidesHandler, s.app.SlideHandler.CreateSlideHandler)
}

// handleSlideRoutes routes /api/slides/{id} and its subresources
func (s *Server) handleSlideRoutes(w http.ResponseWriter, r *http.Request) {
	id, sub := splitResourcePath(r.URL.Path, slidesPrefix)

	// PUT /api/slides/order
	if id == "order" && sub == "" {
		RouteByMethod(w, r, MethodRouter{"PUT": s.app.SlideHandler.ReorderSlidesHandler})
		return
	}

	if id == "" {
		s.app.APIHandler.NotFoundHandler(w, r)
		return
	}

	switch sub {
	case "":
		RouteResourceItem(w, r,
			s.app.SlideHandler.GetSlideHandler,
			s.app.SlideHandler.UpdateSlideHandler,
			s.app.SlideHandler.DeleteSlideHandler)
	case "items":
		RouteByMethod(w, r, MethodRouter{"POST": s.app.SlideHandler.EditItemsHandler})
	case "interactions":
		RouteByMethod(w, r, MethodRouter{"POST": s.app.SlideHandler.InteractionHandler})
	case "bridge.js":
		RouteByMethod(w, r, MethodRouter{"GET": s.app.SlideHandler.BridgeScriptHandler})
	default:
		s.app.APIHandler.NotFoundHandler(w, r)
	}
}

// handleIssueRoute routes /api/issue requests
func (s *Server) handleIssueRoute(w http.ResponseWriter, r *http.Request) {
	RouteCRUD(w, r, s.app.IssueHandler.GetIssueHandler, nil, s.app.IssueHandler.SaveIssueHandler, nil)
}

// handleKVRoutes routes /api/kv/{key} requests
func (s *Server) handleKVRoutes(w http.ResponseWriter, r *http.Request) {
	if strings.TrimPrefix(r.URL.Path, "/api/kv/") == "" {
		handlers.WriteError(w, http.StatusBadRequest, "Missing key parameter")
		return
	}
	RouteResourceItem(w, r, nil, s.app.KVHandler.UpdateKVHandler, s.app.KVHandler.DeleteKVHandler)
}
