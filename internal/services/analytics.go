package services

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"orders-dashboard/internal/models"
	"orders-dashboard/internal/store"
)

// TopN bounds the product-popularity and low-revenue reports, matching the
// head(10) of the source dashboards.
const TopN = 10

// Default reporting span offered by the date pickers before the user picks
// anything.
var (
	DefaultStart = time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC)
	DefaultEnd   = time.Date(2018, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// Analytics answers the dashboard's queries against one immutable Dataset.
// The aggregates that depend only on the dataset (state sales, product
// popularity groups, monthly trend) are computed once at construction; the
// date-filtered report is evaluated per call.
type Analytics struct {
	ds           *store.Dataset
	stateSales   []models.StateSales
	productSales []models.ProductPopularity
	sellerStates []string
	monthly      []models.MonthlyTrend
	logger       *slog.Logger
}

func NewAnalytics(ds *store.Dataset) *Analytics {
	a := &Analytics{
		ds:     ds,
		logger: slog.Default(),
	}
	a.precompute()
	return a
}

func (a *Analytics) precompute() {
	start := time.Now()
	records := a.ds.Records()

	a.stateSales = groupStateSales(records, func(models.OrderItem) bool { return true })
	a.productSales, a.sellerStates = groupProductSales(records)
	a.monthly = groupMonthly(records)

	a.logger.Debug("aggregates precomputed",
		"rows", len(records),
		"states", len(a.stateSales),
		"seller_states", len(a.sellerStates),
		"months", len(a.monthly),
		"duration", time.Since(start),
	)
}

// StateSales reports distinct order count and revenue per customer state,
// sorted by revenue descending. One row per state present in the data.
func (a *Analytics) StateSales() []models.StateSales {
	out := slices.Clone(a.stateSales)
	slices.SortFunc(out, func(x, y models.StateSales) int {
		if x.Revenue != y.Revenue {
			if x.Revenue > y.Revenue {
				return -1
			}
			return 1
		}
		return strings.Compare(x.State, y.State)
	})
	return out
}

// SellerStates lists the distinct seller states in ascending order; the
// first entry is the selector's default.
func (a *Analytics) SellerStates() []string {
	return a.sellerStates
}

// TopProducts returns the best-selling product categories for one seller
// state, sorted by line-item count descending (category ascending on ties)
// and truncated to limit. A state absent from the data yields an empty
// result.
func (a *Analytics) TopProducts(sellerState string, limit int) []models.ProductPopularity {
	out := make([]models.ProductPopularity, 0, limit)
	for _, p := range a.productSales {
		if p.SellerState != sellerState {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out
}

// MonthlyTrend reports distinct order count and total sales per calendar
// month, in chronological order. Months with no orders are absent.
func (a *Analytics) MonthlyTrend() []models.MonthlyTrend {
	return a.monthly
}

// LowRevenueStates reruns the state-sales aggregation over orders purchased
// within the inclusive [start, end] calendar-day range and returns the
// limit lowest-revenue states, ascending. Both bounds are dates; start
// expands to 00:00:00 and end to the last instant of its day. An inverted
// range simply matches nothing.
func (a *Analytics) LowRevenueStates(start, end time.Time, limit int) []models.StateSales {
	lo := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	hi := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), end.Location())

	out := groupStateSales(a.ds.Records(), func(item models.OrderItem) bool {
		return !item.PurchasedAt.Before(lo) && !item.PurchasedAt.After(hi)
	})

	slices.SortFunc(out, func(x, y models.StateSales) int {
		if x.Revenue != y.Revenue {
			if x.Revenue < y.Revenue {
				return -1
			}
			return 1
		}
		return strings.Compare(x.State, y.State)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Stats summarizes the loaded dataset for the admin endpoint.
func (a *Analytics) Stats() map[string]any {
	return map[string]any{
		"rows":          a.ds.Len(),
		"dataset_path":  a.ds.Path(),
		"loaded_at":     a.ds.LoadedAt(),
		"states":        len(a.stateSales),
		"seller_states": len(a.sellerStates),
		"months":        len(a.monthly),
	}
}

type stateAccum struct {
	orders  map[string]struct{}
	revenue float64
}

func groupStateSales(records []models.OrderItem, keep func(models.OrderItem) bool) []models.StateSales {
	groups := make(map[string]*stateAccum)
	for _, item := range records {
		if !keep(item) {
			continue
		}
		acc := groups[item.CustomerState]
		if acc == nil {
			acc = &stateAccum{orders: make(map[string]struct{})}
			groups[item.CustomerState] = acc
		}
		acc.orders[item.OrderID] = struct{}{}
		acc.revenue += item.Price
	}

	out := make([]models.StateSales, 0, len(groups))
	for state, acc := range groups {
		out = append(out, models.StateSales{
			State:      state,
			OrderCount: len(acc.orders),
			Revenue:    acc.revenue,
		})
	}
	return out
}

func groupProductSales(records []models.OrderItem) ([]models.ProductPopularity, []string) {
	type key struct {
		state    string
		category string
	}
	groups := make(map[key]int)
	states := make(map[string]struct{})

	for _, item := range records {
		groups[key{item.SellerState, item.Category}]++
		states[item.SellerState] = struct{}{}
	}

	out := make([]models.ProductPopularity, 0, len(groups))
	for k, count := range groups {
		out = append(out, models.ProductPopularity{
			SellerState: k.state,
			Category:    k.category,
			SalesCount:  count,
		})
	}
	// State ascending, then count descending, category ascending on equal
	// counts so the per-state slices come out ready to serve.
	slices.SortFunc(out, func(x, y models.ProductPopularity) int {
		if c := strings.Compare(x.SellerState, y.SellerState); c != 0 {
			return c
		}
		if x.SalesCount != y.SalesCount {
			if x.SalesCount > y.SalesCount {
				return -1
			}
			return 1
		}
		return strings.Compare(x.Category, y.Category)
	})

	stateList := make([]string, 0, len(states))
	for s := range states {
		stateList = append(stateList, s)
	}
	slices.Sort(stateList)

	return out, stateList
}

func groupMonthly(records []models.OrderItem) []models.MonthlyTrend {
	type monthAccum struct {
		orders map[string]struct{}
		total  float64
	}
	groups := make(map[time.Time]*monthAccum)

	for _, item := range records {
		month := truncateToMonth(item.PurchasedAt)
		acc := groups[month]
		if acc == nil {
			acc = &monthAccum{orders: make(map[string]struct{})}
			groups[month] = acc
		}
		acc.orders[item.OrderID] = struct{}{}
		acc.total += item.Price
	}

	out := make([]models.MonthlyTrend, 0, len(groups))
	for month, acc := range groups {
		out = append(out, models.MonthlyTrend{
			Month:      month,
			Label:      month.Format("January 2006"),
			OrderCount: len(acc.orders),
			TotalSales: acc.total,
		})
	}
	// Sort on the month value, never the label, so years order correctly.
	slices.SortFunc(out, func(x, y models.MonthlyTrend) int {
		return x.Month.Compare(y.Month)
	})
	return out
}

// truncateToMonth keeps year and month and discards everything below.
func truncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
