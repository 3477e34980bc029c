package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"orders-dashboard/internal/charts"
	"orders-dashboard/internal/errors"
	"orders-dashboard/internal/models"
	"orders-dashboard/internal/observability"
	"orders-dashboard/internal/services"
)

// ChartHandlers serves the dashboard's figures as server-rendered PNGs, one
// endpoint per figure of the source dashboard.
type ChartHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewChartHandlers(analytics *services.Analytics, logger *slog.Logger) *ChartHandlers {
	return &ChartHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *ChartHandlers) HandleStateRevenue(w http.ResponseWriter, r *http.Request) {
	data := h.analytics.StateSales() // already revenue-descending

	values := make([]charts.Value, 0, len(data))
	for _, row := range data {
		values = append(values, charts.Value{Label: row.State, Value: row.Revenue})
	}

	h.render(w, r, charts.Spec{
		Title:      "Total Revenue per State",
		ValueLabel: "Total Revenue",
		Horizontal: true,
		Color:      charts.ColorAmber,
		Values:     values,
	})
}

func (h *ChartHandlers) HandleStateOrders(w http.ResponseWriter, r *http.Request) {
	data := h.analytics.StateSales()
	slices.SortFunc(data, func(x, y models.StateSales) int {
		if x.OrderCount != y.OrderCount {
			return y.OrderCount - x.OrderCount
		}
		return strings.Compare(x.State, y.State)
	})

	values := make([]charts.Value, 0, len(data))
	for _, row := range data {
		values = append(values, charts.Value{Label: row.State, Value: float64(row.OrderCount)})
	}

	h.render(w, r, charts.Spec{
		Title:      "Total Number of Orders per State",
		ValueLabel: "Total Orders",
		Horizontal: true,
		Color:      charts.ColorAmber,
		Values:     values,
	})
}

func (h *ChartHandlers) HandleTopProducts(w http.ResponseWriter, r *http.Request) {
	state := selectedState(r, h.analytics)
	data := h.analytics.TopProducts(state, services.TopN)

	values := make([]charts.Value, 0, len(data))
	for _, row := range data {
		values = append(values, charts.Value{Label: row.Category, Value: float64(row.SalesCount)})
	}

	h.render(w, r, charts.Spec{
		Title:      fmt.Sprintf("Top 10 Best Selling Products in %s", state),
		ValueLabel: "Number of Sales",
		Horizontal: true,
		Color:      charts.ColorGreen,
		Values:     values,
	})
}

func (h *ChartHandlers) HandleMonthlySales(w http.ResponseWriter, r *http.Request) {
	data := h.analytics.MonthlyTrend()

	values := make([]charts.Value, 0, len(data))
	for _, row := range data {
		values = append(values, charts.Value{Label: row.Label, Value: row.TotalSales})
	}

	h.render(w, r, charts.Spec{
		Title:      "Total Sales per Month",
		ValueLabel: "Total Sales",
		Color:      charts.ColorBlue,
		Values:     values,
	})
}

func (h *ChartHandlers) HandleMonthlyOrders(w http.ResponseWriter, r *http.Request) {
	data := h.analytics.MonthlyTrend()

	values := make([]charts.Value, 0, len(data))
	for _, row := range data {
		values = append(values, charts.Value{Label: row.Label, Value: float64(row.OrderCount)})
	}

	h.render(w, r, charts.Spec{
		Title:      "Order Count per Month",
		ValueLabel: "Order Count",
		Color:      charts.ColorBlue,
		Values:     values,
	})
}

func (h *ChartHandlers) HandleLowRevenue(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	data := h.analytics.LowRevenueStates(start, end, services.TopN)

	values := make([]charts.Value, 0, len(data))
	for _, row := range data {
		values = append(values, charts.Value{Label: row.State, Value: row.Revenue})
	}

	h.render(w, r, charts.Spec{
		Title:      "Top 10 States with Lowest Sales Revenue",
		ValueLabel: "Sales Revenue",
		Horizontal: true,
		Color:      charts.ColorRed,
		Values:     values,
	})
}

func (h *ChartHandlers) render(w http.ResponseWriter, r *http.Request, spec charts.Spec) {
	var buf bytes.Buffer
	if err := charts.Render(spec, &buf); err != nil {
		h.logger.Error("chart render failed", "title", spec.Title, "error", err)
		errors.WriteError(w, h.logger, errors.Internal("chart rendering failed"), observability.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", cacheMaxAge)
	w.Write(buf.Bytes())
}
