package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"orders-dashboard/internal/models"
)

const (
	batchSize  = 10000
	maxWorkers = 8
)

// Timestamp layouts accepted for order_purchase_timestamp. The merged
// export carries full timestamps; some re-exports truncate to the date.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var requiredColumns = []string{
	"order_id",
	"order_item_id",
	"customer_state",
	"seller_state",
	"product_category_name_english",
	"price",
	"order_purchase_timestamp",
}

// Dataset is the in-memory copy of the pre-joined orders CSV. It is built
// once by Load and never mutated afterwards; aggregations read it through
// Records.
type Dataset struct {
	records  []models.OrderItem
	path     string
	loadedAt time.Time
}

// Records returns the full line-item set. Callers must treat the slice as
// read-only.
func (d *Dataset) Records() []models.OrderItem {
	return d.records
}

func (d *Dataset) Len() int {
	return len(d.records)
}

func (d *Dataset) Path() string {
	return d.path
}

func (d *Dataset) LoadedAt() time.Time {
	return d.loadedAt
}

// FromRecords builds a Dataset directly from parsed line items. Used by
// tests and anything that already holds the rows in memory.
func FromRecords(records []models.OrderItem) *Dataset {
	return &Dataset{
		records:  records,
		loadedAt: time.Now(),
	}
}

type columnIndex struct {
	orderID     int
	orderItemID int
	customer    int
	seller      int
	category    int
	price       int
	purchased   int
	width       int
}

// Load reads the orders CSV at filename into an immutable Dataset. Any row
// whose timestamp or price fails to parse aborts the load with a
// row-numbered error; skipping rows would silently skew every aggregate
// computed from the result.
func Load(ctx context.Context, filename string) (*Dataset, error) {
	logger := slog.Default()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset %s is empty", filename)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	records := make([]models.OrderItem, 0, batchSize)

	batch := make([][]string, 0, batchSize)
	rowNum := 1 // header was row 1

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		parsed, err := parseBatch(ctx, batch, cols, rowNum-len(batch)+1)
		if err != nil {
			return err
		}
		records = append(records, parsed...)
		batch = batch[:0]
		return nil
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rowNum++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		batch = append(batch, row)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %s has no data rows", filename)
	}

	logger.Info("dataset loaded",
		"path", filename,
		"rows", len(records),
		"duration", time.Since(start),
	)

	return &Dataset{
		records:  records,
		path:     filename,
		loadedAt: time.Now(),
	}, nil
}

// parseBatch converts one batch of raw rows in parallel, preserving row
// order by writing each result at its own index.
func parseBatch(ctx context.Context, batch [][]string, cols columnIndex, firstRow int) ([]models.OrderItem, error) {
	out := make([]models.OrderItem, len(batch))

	var wg errgroup.Group
	wg.SetLimit(maxWorkers)

	for i, row := range batch {
		wg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			item, err := parseRow(row, cols)
			if err != nil {
				return fmt.Errorf("row %d: %w", firstRow+i, err)
			}
			out[i] = item
			return nil
		})
	}

	if err := wg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseRow(row []string, cols columnIndex) (models.OrderItem, error) {
	if len(row) < cols.width {
		return models.OrderItem{}, fmt.Errorf("expected at least %d columns, got %d", cols.width, len(row))
	}

	purchased, err := parseTimestamp(strings.TrimSpace(row[cols.purchased]))
	if err != nil {
		return models.OrderItem{}, err
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(row[cols.price]), 64)
	if err != nil {
		return models.OrderItem{}, fmt.Errorf("invalid price %q", row[cols.price])
	}

	return models.OrderItem{
		OrderID:       strings.TrimSpace(row[cols.orderID]),
		OrderItemID:   strings.TrimSpace(row[cols.orderItemID]),
		CustomerState: strings.TrimSpace(row[cols.customer]),
		SellerState:   strings.TrimSpace(row[cols.seller]),
		Category:      strings.TrimSpace(row[cols.category]),
		Price:         price,
		PurchasedAt:   purchased,
	}, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid order_purchase_timestamp %q", value)
}

func resolveColumns(header []string) (columnIndex, error) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[strings.TrimSpace(strings.ToLower(name))] = i
	}

	for _, name := range requiredColumns {
		if _, ok := byName[name]; !ok {
			return columnIndex{}, fmt.Errorf("dataset missing column %q", name)
		}
	}

	cols := columnIndex{
		orderID:     byName["order_id"],
		orderItemID: byName["order_item_id"],
		customer:    byName["customer_state"],
		seller:      byName["seller_state"],
		category:    byName["product_category_name_english"],
		price:       byName["price"],
		purchased:   byName["order_purchase_timestamp"],
	}
	for _, idx := range []int{cols.orderID, cols.orderItemID, cols.customer, cols.seller, cols.category, cols.price, cols.purchased} {
		if idx+1 > cols.width {
			cols.width = idx + 1
		}
	}
	return cols, nil
}
