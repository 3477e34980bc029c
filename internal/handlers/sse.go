package handlers

import (
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"orders-dashboard/internal/errors"
	"orders-dashboard/internal/models"
	"orders-dashboard/internal/observability"
	"orders-dashboard/internal/services"
)

var productsSectionTemplate = template.Must(template.New("productsSection").Parse(`
<div id="products-content">
<img class="chart" src="{{.ChartURL}}" alt="Top 10 best selling product categories in {{.State}}">
<table class="modern-table">
<thead><tr><th>Category</th><th>Sales</th></tr></thead>
<tbody>
{{range .Rows}}<tr>
<td><span class="category-badge">{{.Category}}</span></td>
<td>{{.SalesCount}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

var lowRevenueSectionTemplate = template.Must(template.New("lowRevenueSection").Parse(`
<div id="lowrevenue-content">
<img class="chart" src="{{.ChartURL}}" alt="States with the lowest sales revenue in the selected range">
<table class="modern-table">
<thead><tr><th>State</th><th>Orders</th><th>Revenue</th></tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.State}}</td>
<td>{{.OrderCount}}</td>
<td><strong>${{printf "%.2f" .Revenue}}</strong></td>
</tr>{{end}}
</tbody>
</table>
</div>`))

// SSEHandlers re-renders the interactive dashboard sections when a filter
// changes, patching the affected elements over Datastar SSE.
type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

type productsSectionData struct {
	State    string
	ChartURL string
	Rows     []models.ProductPopularity
}

type lowRevenueSectionData struct {
	ChartURL string
	Rows     []models.StateSales
}

func (h *SSEHandlers) renderProductsSection(state string) (string, error) {
	q := url.Values{}
	q.Set("state", state)

	data := productsSectionData{
		State:    state,
		ChartURL: "/charts/top-products.png?" + q.Encode(),
		Rows:     h.analytics.TopProducts(state, services.TopN),
	}

	var buf strings.Builder
	err := productsSectionTemplate.Execute(&buf, data)
	return buf.String(), err
}

func (h *SSEHandlers) renderLowRevenueSection(start, end time.Time) (string, error) {
	q := url.Values{}
	q.Set("start", start.Format("2006-01-02"))
	q.Set("end", end.Format("2006-01-02"))

	data := lowRevenueSectionData{
		ChartURL: "/charts/low-revenue.png?" + q.Encode(),
		Rows:     h.analytics.LowRevenueStates(start, end, services.TopN),
	}

	var buf strings.Builder
	err := lowRevenueSectionTemplate.Execute(&buf, data)
	return buf.String(), err
}

// HandleTopProducts re-renders the product-popularity section for the
// selected seller state.
func (h *SSEHandlers) HandleTopProducts(w http.ResponseWriter, r *http.Request) {
	state := selectedState(r, h.analytics)

	html, err := h.renderProductsSection(state)
	if err != nil {
		h.logger.Error("render products section", "error", err)
		return
	}

	sse := datastar.NewSSE(w, r)
	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleLowRevenue re-renders the low-revenue report section for the
// selected date range.
func (h *SSEHandlers) HandleLowRevenue(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	html, err := h.renderLowRevenueSection(start, end)
	if err != nil {
		h.logger.Error("render low-revenue section", "error", err)
		return
	}

	sse := datastar.NewSSE(w, r)
	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleRefreshAll re-renders both interactive sections with their current
// filter values in one SSE response.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	state := selectedState(r, h.analytics)
	start, end, err := dateRange(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	products, err := h.renderProductsSection(state)
	if err != nil {
		h.logger.Error("render products section", "error", err)
		return
	}
	lowRevenue, err := h.renderLowRevenueSection(start, end)
	if err != nil {
		h.logger.Error("render low-revenue section", "error", err)
		return
	}

	sse := datastar.NewSSE(w, r)
	sse.PatchElements(products)
	sse.PatchElements(lowRevenue)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
