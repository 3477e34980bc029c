package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"orders-dashboard/internal/errors"
	"orders-dashboard/internal/observability"
	"orders-dashboard/internal/services"
)

const cacheMaxAge = "public, max-age=300"

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *APIHandlers) HandleStateSales(w http.ResponseWriter, r *http.Request) {
	data := h.analytics.StateSales()

	errors.WriteSuccessWithHeaders(w, data, map[string]string{
		"Cache-Control": cacheMaxAge,
	})
}

func (h *APIHandlers) HandleSellerStates(w http.ResponseWriter, r *http.Request) {
	data := h.analytics.SellerStates()

	errors.WriteSuccessWithHeaders(w, data, map[string]string{
		"Cache-Control": cacheMaxAge,
	})
}

func (h *APIHandlers) HandleTopProducts(w http.ResponseWriter, r *http.Request) {
	state := selectedState(r, h.analytics)

	data := h.analytics.TopProducts(state, services.TopN)

	errors.WriteSuccessWithHeaders(w, data, map[string]string{
		"Cache-Control": cacheMaxAge,
	})
}

func (h *APIHandlers) HandleMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	data := h.analytics.MonthlyTrend()

	errors.WriteSuccessWithHeaders(w, data, map[string]string{
		"Cache-Control": cacheMaxAge,
	})
}

func (h *APIHandlers) HandleLowRevenue(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	data := h.analytics.LowRevenueStates(start, end, services.TopN)

	errors.WriteSuccess(w, data)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}

// selectedState resolves the state query parameter, defaulting to the first
// observed seller state the way the original selector did. Unknown values
// pass through and simply match nothing.
func selectedState(r *http.Request, analytics *services.Analytics) string {
	if state := r.URL.Query().Get("state"); state != "" {
		return state
	}
	if states := analytics.SellerStates(); len(states) > 0 {
		return states[0]
	}
	return ""
}

// dateRange parses the start/end query parameters as calendar dates,
// falling back to the dataset's nominal span. Malformed values are a
// validation error; an inverted range is not.
func dateRange(r *http.Request) (time.Time, time.Time, error) {
	start, end := services.DefaultStart, services.DefaultEnd

	q := r.URL.Query()
	if v := q.Get("start"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, errors.ValidationWrap(err, fmt.Sprintf("invalid start date %q, expected YYYY-MM-DD", v))
		}
		start = parsed
	}
	if v := q.Get("end"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, errors.ValidationWrap(err, fmt.Sprintf("invalid end date %q, expected YYYY-MM-DD", v))
		}
		end = parsed
	}

	return start, end, nil
}
