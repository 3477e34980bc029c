package services

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"orders-dashboard/internal/models"
	"orders-dashboard/internal/store"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Three orders: A (SP, 100, 2017-05-10), B (SP, 50, 2017-06-01),
// C (RJ, 200, 2017-05-15).
func exampleRecords() []models.OrderItem {
	return []models.OrderItem{
		{OrderID: "A", OrderItemID: "1", CustomerState: "SP", SellerState: "SP", Category: "toys", Price: 100, PurchasedAt: date(2017, time.May, 10)},
		{OrderID: "B", OrderItemID: "1", CustomerState: "SP", SellerState: "SP", Category: "housewares", Price: 50, PurchasedAt: date(2017, time.June, 1)},
		{OrderID: "C", OrderItemID: "1", CustomerState: "RJ", SellerState: "RJ", Category: "toys", Price: 200, PurchasedAt: date(2017, time.May, 15)},
	}
}

func newTestAnalytics(records []models.OrderItem) *Analytics {
	return NewAnalytics(store.FromRecords(records))
}

func TestStateSales_Example(t *testing.T) {
	a := newTestAnalytics(exampleRecords())

	result := a.StateSales()
	if len(result) != 2 {
		t.Fatalf("expected 2 states, got %d", len(result))
	}

	// Sorted by revenue descending: RJ (200) before SP (150).
	if result[0].State != "RJ" || result[0].OrderCount != 1 || result[0].Revenue != 200 {
		t.Errorf("unexpected first row: %+v", result[0])
	}
	if result[1].State != "SP" || result[1].OrderCount != 2 || result[1].Revenue != 150 {
		t.Errorf("unexpected second row: %+v", result[1])
	}
}

func TestStateSales_DistinctOrderCount(t *testing.T) {
	// One order with three line items must count once.
	records := []models.OrderItem{
		{OrderID: "A", OrderItemID: "1", CustomerState: "SP", Price: 10, PurchasedAt: date(2017, time.May, 1)},
		{OrderID: "A", OrderItemID: "2", CustomerState: "SP", Price: 20, PurchasedAt: date(2017, time.May, 1)},
		{OrderID: "A", OrderItemID: "3", CustomerState: "SP", Price: 30, PurchasedAt: date(2017, time.May, 1)},
	}
	a := newTestAnalytics(records)

	result := a.StateSales()
	if len(result) != 1 {
		t.Fatalf("expected 1 state, got %d", len(result))
	}
	if result[0].OrderCount != 1 {
		t.Errorf("OrderCount = %d, want 1 (distinct orders, not line items)", result[0].OrderCount)
	}
	if result[0].Revenue != 60 {
		t.Errorf("Revenue = %v, want 60", result[0].Revenue)
	}
}

func TestStateSales_TotalNeverExceedsDistinctOrders(t *testing.T) {
	records := exampleRecords()
	a := newTestAnalytics(records)

	distinct := make(map[string]struct{})
	for _, r := range records {
		distinct[r.OrderID] = struct{}{}
	}

	total := 0
	for _, row := range a.StateSales() {
		total += row.OrderCount
	}
	if total > len(distinct) {
		t.Errorf("summed order_count %d exceeds %d distinct orders", total, len(distinct))
	}
}

func TestStateSales_EmptyDataset(t *testing.T) {
	a := newTestAnalytics(nil)
	if got := a.StateSales(); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestTopProducts_TruncatesToTen(t *testing.T) {
	var records []models.OrderItem
	for i := 0; i < 14; i++ {
		category := fmt.Sprintf("category_%02d", i)
		// category_00 gets 15 line items, category_01 gets 14, etc.
		for j := 0; j < 15-i; j++ {
			records = append(records, models.OrderItem{
				OrderID:       fmt.Sprintf("O%d_%d", i, j),
				CustomerState: "SP",
				SellerState:   "SP",
				Category:      category,
				PurchasedAt:   date(2017, time.May, 1),
			})
		}
	}
	a := newTestAnalytics(records)

	result := a.TopProducts("SP", TopN)
	if len(result) != TopN {
		t.Fatalf("expected exactly %d rows, got %d", TopN, len(result))
	}
	for i := 1; i < len(result); i++ {
		if result[i].SalesCount > result[i-1].SalesCount {
			t.Errorf("sales count increased at row %d: %d > %d", i, result[i].SalesCount, result[i-1].SalesCount)
		}
	}
	if result[0].Category != "category_00" || result[0].SalesCount != 15 {
		t.Errorf("unexpected top category: %+v", result[0])
	}
}

func TestTopProducts_TieBreaksOnCategory(t *testing.T) {
	records := []models.OrderItem{
		{OrderID: "A", SellerState: "SP", Category: "toys", PurchasedAt: date(2017, time.May, 1)},
		{OrderID: "B", SellerState: "SP", Category: "baby", PurchasedAt: date(2017, time.May, 1)},
		{OrderID: "C", SellerState: "SP", Category: "auto", PurchasedAt: date(2017, time.May, 1)},
	}
	a := newTestAnalytics(records)

	result := a.TopProducts("SP", TopN)
	want := []string{"auto", "baby", "toys"}
	if len(result) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(result))
	}
	for i, category := range want {
		if result[i].Category != category {
			t.Errorf("row %d: got %q, want %q", i, result[i].Category, category)
		}
	}
}

func TestTopProducts_UnknownState(t *testing.T) {
	a := newTestAnalytics(exampleRecords())
	if got := a.TopProducts("XX", TopN); len(got) != 0 {
		t.Errorf("unknown state should yield empty result, got %v", got)
	}
}

func TestTopProducts_FewerThanLimit(t *testing.T) {
	a := newTestAnalytics(exampleRecords())
	result := a.TopProducts("SP", TopN)
	if len(result) != 2 {
		t.Fatalf("expected both SP categories, got %d rows", len(result))
	}
}

func TestSellerStates(t *testing.T) {
	a := newTestAnalytics(exampleRecords())
	got := a.SellerStates()
	want := []string{"RJ", "SP"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SellerStates() = %v, want %v", got, want)
	}
}

func TestMonthlyTrend_Example(t *testing.T) {
	a := newTestAnalytics(exampleRecords())

	result := a.MonthlyTrend()
	if len(result) != 2 {
		t.Fatalf("expected 2 months, got %d", len(result))
	}

	if result[0].Label != "May 2017" || result[0].OrderCount != 2 || result[0].TotalSales != 300 {
		t.Errorf("unexpected May row: %+v", result[0])
	}
	if result[1].Label != "June 2017" || result[1].OrderCount != 1 || result[1].TotalSales != 50 {
		t.Errorf("unexpected June row: %+v", result[1])
	}
}

func TestMonthlyTrend_ChronologicalAcrossYears(t *testing.T) {
	// "December 2016" sorts after "January 2017" lexicographically; the
	// trend must order on the month value instead.
	records := []models.OrderItem{
		{OrderID: "A", CustomerState: "SP", Price: 10, PurchasedAt: date(2017, time.January, 5)},
		{OrderID: "B", CustomerState: "SP", Price: 20, PurchasedAt: date(2016, time.December, 20)},
		{OrderID: "C", CustomerState: "SP", Price: 30, PurchasedAt: date(2017, time.March, 1)},
	}
	a := newTestAnalytics(records)

	result := a.MonthlyTrend()
	want := []string{"December 2016", "January 2017", "March 2017"}
	if len(result) != len(want) {
		t.Fatalf("expected %d months, got %d", len(want), len(result))
	}
	for i, label := range want {
		if result[i].Label != label {
			t.Errorf("month %d: got %q, want %q", i, result[i].Label, label)
		}
	}
	for i := 1; i < len(result); i++ {
		if !result[i-1].Month.Before(result[i].Month) {
			t.Errorf("months not strictly increasing at row %d", i)
		}
	}
}

func TestMonthlyTrend_TruncatesDayAndTime(t *testing.T) {
	records := []models.OrderItem{
		{OrderID: "A", CustomerState: "SP", Price: 10, PurchasedAt: time.Date(2017, time.May, 1, 0, 0, 0, 0, time.UTC)},
		{OrderID: "B", CustomerState: "SP", Price: 20, PurchasedAt: time.Date(2017, time.May, 31, 23, 59, 59, 0, time.UTC)},
	}
	a := newTestAnalytics(records)

	result := a.MonthlyTrend()
	if len(result) != 1 {
		t.Fatalf("both orders fall in May 2017, got %d months", len(result))
	}
	if result[0].OrderCount != 2 || result[0].TotalSales != 30 {
		t.Errorf("unexpected row: %+v", result[0])
	}
}

func TestLowRevenueStates_Example(t *testing.T) {
	a := newTestAnalytics(exampleRecords())

	result := a.LowRevenueStates(date(2017, time.May, 1), date(2017, time.May, 31), TopN)
	if len(result) != 2 {
		t.Fatalf("expected 2 states, got %d", len(result))
	}

	// Ascending by revenue: SP (100, only order A is in range) then RJ (200).
	if result[0].State != "SP" || result[0].Revenue != 100 {
		t.Errorf("unexpected first row: %+v", result[0])
	}
	if result[1].State != "RJ" || result[1].Revenue != 200 {
		t.Errorf("unexpected second row: %+v", result[1])
	}
}

func TestLowRevenueStates_SingleDayBoundary(t *testing.T) {
	records := []models.OrderItem{
		{OrderID: "A", CustomerState: "SP", Price: 10, PurchasedAt: time.Date(2017, time.May, 10, 23, 59, 59, 0, time.UTC)},
		{OrderID: "B", CustomerState: "SP", Price: 20, PurchasedAt: time.Date(2017, time.May, 11, 0, 0, 0, 0, time.UTC)},
	}
	a := newTestAnalytics(records)

	result := a.LowRevenueStates(date(2017, time.May, 10), date(2017, time.May, 10), TopN)
	if len(result) != 1 {
		t.Fatalf("expected 1 state, got %d", len(result))
	}
	if result[0].Revenue != 10 {
		t.Errorf("order at 23:59:59 should be included and next-day midnight excluded, got revenue %v", result[0].Revenue)
	}
}

func TestLowRevenueStates_InvertedRange(t *testing.T) {
	a := newTestAnalytics(exampleRecords())

	result := a.LowRevenueStates(date(2017, time.June, 1), date(2017, time.May, 1), TopN)
	if len(result) != 0 {
		t.Errorf("inverted range should yield empty result, got %v", result)
	}
}

func TestLowRevenueStates_Idempotent(t *testing.T) {
	a := newTestAnalytics(exampleRecords())

	start, end := date(2017, time.May, 1), date(2017, time.June, 30)
	first := a.LowRevenueStates(start, end, TopN)
	second := a.LowRevenueStates(start, end, TopN)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different results:\n%v\n%v", first, second)
	}
}

func TestLowRevenueStates_TruncatesToLimit(t *testing.T) {
	var records []models.OrderItem
	for i := 0; i < 15; i++ {
		records = append(records, models.OrderItem{
			OrderID:       fmt.Sprintf("O%d", i),
			CustomerState: fmt.Sprintf("S%02d", i),
			Price:         float64(i + 1),
			PurchasedAt:   date(2017, time.May, 10),
		})
	}
	a := newTestAnalytics(records)

	result := a.LowRevenueStates(date(2017, time.May, 1), date(2017, time.May, 31), TopN)
	if len(result) != TopN {
		t.Fatalf("expected %d rows, got %d", TopN, len(result))
	}
	for i := 1; i < len(result); i++ {
		if result[i].Revenue < result[i-1].Revenue {
			t.Errorf("revenue not ascending at row %d", i)
		}
	}
	// The five highest-revenue states are cut.
	if result[len(result)-1].State != "S09" {
		t.Errorf("unexpected last row: %+v", result[len(result)-1])
	}
}

func TestStats(t *testing.T) {
	a := newTestAnalytics(exampleRecords())

	stats := a.Stats()
	if stats["rows"] != 3 {
		t.Errorf("rows = %v, want 3", stats["rows"])
	}
	if stats["states"] != 2 {
		t.Errorf("states = %v, want 2", stats["states"])
	}
	if stats["months"] != 2 {
		t.Errorf("months = %v, want 2", stats["months"])
	}
}
