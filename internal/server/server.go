package server

import (
	"log/slog"
	"net/http"

	"orders-dashboard/internal/handlers"
	"orders-dashboard/internal/services"
)

type Server struct {
	analytics     *services.Analytics
	mux           *http.ServeMux
	logger        *slog.Logger
	apiHandlers   *handlers.APIHandlers
	chartHandlers *handlers.ChartHandlers
	sseHandlers   *handlers.SSEHandlers
}

// TemplateHandlers carries the page handlers wired up in main, where the
// template components live.
type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		analytics:     analytics,
		mux:           http.NewServeMux(),
		logger:        logger,
		apiHandlers:   handlers.NewAPIHandlers(analytics, logger),
		chartHandlers: handlers.NewChartHandlers(analytics, logger),
		sseHandlers:   handlers.NewSSEHandlers(analytics, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard page and ops endpoints
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/state-sales", s.apiHandlers.HandleStateSales)
	s.mux.HandleFunc("GET /api/seller-states", s.apiHandlers.HandleSellerStates)
	s.mux.HandleFunc("GET /api/top-products", s.apiHandlers.HandleTopProducts)
	s.mux.HandleFunc("GET /api/monthly-trend", s.apiHandlers.HandleMonthlyTrend)
	s.mux.HandleFunc("GET /api/low-revenue", s.apiHandlers.HandleLowRevenue)

	// Server-rendered chart figures
	s.mux.HandleFunc("GET /charts/state-revenue.png", s.chartHandlers.HandleStateRevenue)
	s.mux.HandleFunc("GET /charts/state-orders.png", s.chartHandlers.HandleStateOrders)
	s.mux.HandleFunc("GET /charts/top-products.png", s.chartHandlers.HandleTopProducts)
	s.mux.HandleFunc("GET /charts/monthly-sales.png", s.chartHandlers.HandleMonthlySales)
	s.mux.HandleFunc("GET /charts/monthly-orders.png", s.chartHandlers.HandleMonthlyOrders)
	s.mux.HandleFunc("GET /charts/low-revenue.png", s.chartHandlers.HandleLowRevenue)

	// Datastar SSE endpoints for the interactive filters
	s.mux.HandleFunc("GET /sse/top-products", s.sseHandlers.HandleTopProducts)
	s.mux.HandleFunc("GET /sse/low-revenue", s.sseHandlers.HandleLowRevenue)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
