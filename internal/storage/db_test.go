package storage

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"pantrypost/internal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestEmailUpsertAndStatus(t *testing.T) {
	db := openTestDB(t)

	row, err := db.UpsertEmail("gmail", "<m1@example.com>", "Receipt", "orders@instacart.com", "2026-08-01T00:00:00Z", "hash1", "/tmp/m1.eml", "fetched")
	if err != nil {
		t.Fatal(err)
	}
	if row.ID == 0 || row.Status != "fetched" {
		t.Fatalf("row=%+v", row)
	}

	// Same provider/messageId updates in place.
	again, err := db.UpsertEmail("gmail", "<m1@example.com>", "Receipt v2", "orders@instacart.com", "2026-08-01T00:00:00Z", "hash2", "/tmp/m1.eml", "fetched")
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != row.ID {
		t.Fatalf("id changed: %d -> %d", row.ID, again.ID)
	}
	if again.Subject != "Receipt v2" || again.Hash != "hash2" {
		t.Fatalf("row=%+v", again)
	}

	if err := db.UpdateEmailStatus(row.ID, "processed"); err != nil {
		t.Fatal(err)
	}
	pending, err := db.ListEmailsByStatus("fetched", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending=%d", len(pending))
	}
}

func TestJobLifecycleReceipt(t *testing.T) {
	db := openTestDB(t)

	jobID, err := db.CreateJob(internal.JobKindEmail, "gmail/<m1@example.com>")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.UpdateJobStatus(jobID, internal.JobProcessing); err != nil {
		t.Fatal(err)
	}

	price := decimal.NewFromFloat(3.99)
	total := decimal.NewFromFloat(8.48)
	items := []internal.ParsedItem{
		{Name: "Bananas", Quantity: decimal.NewFromInt(2), Unit: "item", Price: &price, Category: "Produce", RawText: "2 x Bananas $3.99", LineNumber: 1, Confidence: 1.0},
		{Name: "Whole Milk", Quantity: decimal.NewFromInt(1), Unit: "item", Category: "Dairy", RawText: "1 x Whole Milk", LineNumber: 2, Confidence: 0.7},
	}
	if err := db.InsertReceiptItems(jobID, items); err != nil {
		t.Fatal(err)
	}
	if err := db.FinishReceiptJob(jobID, internal.ParsedReceipt{
		StoreName:  "Instacart",
		Total:      &total,
		Items:      items,
		Confidence: 0.95,
	}); err != nil {
		t.Fatal(err)
	}

	job, err := db.GetJob(jobID)
	if err != nil {
		t.Fatal(err)
	}
	if job == nil || job.Status != internal.JobCompleted {
		t.Fatalf("job=%+v", job)
	}
	if job.StoreName == nil || *job.StoreName != "Instacart" {
		t.Fatalf("store=%v", job.StoreName)
	}

	rows, err := db.GetExportRows(jobID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d", len(rows))
	}
	if rows[0].Name != "Bananas" || rows[0].Price == nil || *rows[0].Price != "3.99" {
		t.Fatalf("row0=%+v", rows[0])
	}
	if rows[1].Price != nil {
		t.Fatalf("row1 price=%v", rows[1].Price)
	}
}

func TestJobLifecycleImport(t *testing.T) {
	db := openTestDB(t)

	jobID, err := db.CreateJob(internal.JobKindFile, "pantry.csv")
	if err != nil {
		t.Fatal(err)
	}

	items := []internal.ItemRow{
		{Row: 2, Name: "Bananas", Quantity: decimal.NewFromInt(2), Unit: "item"},
	}
	if err := db.InsertImportItems(jobID, items); err != nil {
		t.Fatal(err)
	}
	rowErrors := []internal.RowError{{Row: 3, Field: "quantity", Value: "abc", Message: "not a positive quantity, defaulted to 1"}}
	if err := db.FinishImportJob(jobID, 2, 1, 1, 0, rowErrors); err != nil {
		t.Fatal(err)
	}

	job, err := db.GetJob(jobID)
	if err != nil {
		t.Fatal(err)
	}
	if job.TotalRows != 2 || job.ValidRows != 1 || job.InvalidRows != 1 {
		t.Fatalf("job=%+v", job)
	}
}

func TestFailJob(t *testing.T) {
	db := openTestDB(t)

	jobID, err := db.CreateJob(internal.JobKindFile, "broken.csv")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.FailJob(jobID, "unreadable file"); err != nil {
		t.Fatal(err)
	}
	job, err := db.GetJob(jobID)
	if err != nil {
		t.Fatal(err)
	}
	if job.Status != internal.JobFailed {
		t.Fatalf("status=%s", job.Status)
	}
}
