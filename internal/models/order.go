package models

import "time"

// OrderItem is one line item of the pre-joined orders dataset. An order with
// several products appears as several rows sharing the same OrderID.
type OrderItem struct {
	OrderID       string
	OrderItemID   string
	CustomerState string
	SellerState   string
	Category      string
	Price         float64
	PurchasedAt   time.Time
}

// StateSales summarizes orders for one customer state. OrderCount counts
// distinct orders, not line items.
type StateSales struct {
	State      string  `json:"customer_state"`
	OrderCount int     `json:"order_count"`
	Revenue    float64 `json:"revenue"`
}

// ProductPopularity counts line items per product category within one
// seller state.
type ProductPopularity struct {
	SellerState string `json:"seller_state"`
	Category    string `json:"product_category_name_english"`
	SalesCount  int    `json:"product_sales_count"`
}

// MonthlyTrend is one calendar month of sales. Month is the first instant
// of the month and drives ordering; Label is the display form ("May 2017").
type MonthlyTrend struct {
	Month      time.Time `json:"-"`
	Label      string    `json:"month"`
	OrderCount int       `json:"order_count"`
	TotalSales float64   `json:"total_sales"`
}
