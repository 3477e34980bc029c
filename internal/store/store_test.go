package store

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"orders-dashboard/internal/models"
)

const testHeader = "order_id,order_item_id,customer_state,seller_state,product_category_name_english,price,order_purchase_timestamp"

func createTempCSV(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "orders*.csv")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	return f.Name()
}

func TestLoad_ValidData(t *testing.T) {
	csv := testHeader + "\n" +
		"A,1,SP,SP,toys,100.00,2017-05-10 14:23:08\n" +
		"C,1,RJ,RJ,toys,200.00,2017-05-15 09:01:55\n"

	f := createTempCSV(t, csv)

	ds, err := Load(context.Background(), f)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if ds.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", ds.Len())
	}

	first := ds.Records()[0]
	want := models.OrderItem{
		OrderID:       "A",
		OrderItemID:   "1",
		CustomerState: "SP",
		SellerState:   "SP",
		Category:      "toys",
		Price:         100,
		PurchasedAt:   time.Date(2017, time.May, 10, 14, 23, 8, 0, time.UTC),
	}
	if first != want {
		t.Errorf("first record = %+v, want %+v", first, want)
	}

	if ds.Path() != f {
		t.Errorf("Path() = %q, want %q", ds.Path(), f)
	}
}

func TestLoad_HeaderDrivenColumns(t *testing.T) {
	// Columns in a different order with extras interleaved, as the merged
	// export actually ships them.
	csv := "customer_id,order_purchase_timestamp,order_id,price,customer_state,product_category_name_english,seller_state,order_item_id,freight_value\n" +
		"cust1,2017-05-10 14:23:08,A,100.00,SP,toys,MG,1,9.90\n"

	f := createTempCSV(t, csv)

	ds, err := Load(context.Background(), f)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	rec := ds.Records()[0]
	if rec.OrderID != "A" || rec.CustomerState != "SP" || rec.SellerState != "MG" || rec.Price != 100 {
		t.Errorf("columns resolved incorrectly: %+v", rec)
	}
}

func TestLoad_DateOnlyTimestamps(t *testing.T) {
	csv := testHeader + "\n" + "A,1,SP,SP,toys,100.00,2017-05-10\n"
	f := createTempCSV(t, csv)

	ds, err := Load(context.Background(), f)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got := ds.Records()[0].PurchasedAt; got != time.Date(2017, time.May, 10, 0, 0, 0, 0, time.UTC) {
		t.Errorf("PurchasedAt = %v", got)
	}
}

func TestLoad_InvalidData(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr string
	}{
		{
			name:    "empty file",
			csv:     "",
			wantErr: "empty",
		},
		{
			name:    "header only",
			csv:     testHeader + "\n",
			wantErr: "no data rows",
		},
		{
			name:    "missing column",
			csv:     "order_id,customer_state,price\nA,SP,100\n",
			wantErr: `missing column "order_item_id"`,
		},
		{
			name:    "invalid timestamp",
			csv:     testHeader + "\nA,1,SP,SP,toys,100.00,not-a-date\n",
			wantErr: "order_purchase_timestamp",
		},
		{
			name:    "invalid price",
			csv:     testHeader + "\nA,1,SP,SP,toys,abc,2017-05-10\n",
			wantErr: "invalid price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createTempCSV(t, tt.csv)

			_, err := Load(context.Background(), f)
			if err == nil {
				t.Fatal("Load() should have failed")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_ParseErrorReportsRowNumber(t *testing.T) {
	// Row 3 of the file (second data row) is broken; the error must not
	// silently drop it.
	csv := testHeader + "\n" +
		"A,1,SP,SP,toys,100.00,2017-05-10\n" +
		"B,1,SP,SP,toys,50.00,garbage\n"

	f := createTempCSV(t, csv)

	_, err := Load(context.Background(), f)
	if err == nil {
		t.Fatal("Load() should have failed on the bad timestamp")
	}
	if !strings.Contains(err.Error(), "row 3") {
		t.Errorf("error %q should name row 3", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), "does/not/exist.csv")
	if err == nil {
		t.Fatal("Load() should fail for a missing file")
	}
}

func TestLoad_CancelledContext(t *testing.T) {
	csv := testHeader + "\n" + "A,1,SP,SP,toys,100.00,2017-05-10\n"
	f := createTempCSV(t, csv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Load(ctx, f); err == nil {
		t.Fatal("Load() should fail when the context is already cancelled")
	}
}

func TestFromRecords(t *testing.T) {
	records := []models.OrderItem{{OrderID: "A"}}
	ds := FromRecords(records)
	if ds.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ds.Len())
	}
}
