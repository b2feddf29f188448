package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"pantrypost/internal"
)

// DB is the job-persistence collaborator: parsed receipts and import runs
// land here as jobs with a pending → processing → completed/failed/cancelled
// lifecycle, and their line items wait for human review.
type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS emails (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  provider TEXT NOT NULL,
  messageId TEXT NOT NULL,
  subject TEXT,
  sender TEXT,
  receivedAt TEXT,
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'fetched',
  rawRef TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(provider, messageId)
);

CREATE TABLE IF NOT EXISTS jobs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  kind TEXT NOT NULL,
  sourceRef TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  storeName TEXT,
  purchaseDate TEXT,
  subtotal TEXT,
  tax TEXT,
  total TEXT,
  confidence REAL,
  totalRows INTEGER NOT NULL DEFAULT 0,
  validRows INTEGER NOT NULL DEFAULT 0,
  invalidRows INTEGER NOT NULL DEFAULT 0,
  skippedRows INTEGER NOT NULL DEFAULT 0,
  errorsJson TEXT NOT NULL DEFAULT '[]',
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS job_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  jobId INTEGER NOT NULL,
  lineNo INTEGER NOT NULL,
  rawText TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL,
  brand TEXT,
  quantity TEXT NOT NULL,
  unit TEXT NOT NULL,
  price TEXT,
  category TEXT,
  confidence REAL NOT NULL DEFAULT 0,
  approved INTEGER NOT NULL DEFAULT 0,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(jobId) REFERENCES jobs(id)
);
CREATE INDEX IF NOT EXISTS idx_job_items_jobId ON job_items(jobId);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) UpsertEmail(provider, messageID, subject, sender, receivedAt, hash, rawRef, status string) (internal.EmailRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO emails (provider, messageId, subject, sender, receivedAt, hash, status, rawRef)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(provider, messageId) DO UPDATE SET
  subject=excluded.subject,
  sender=excluded.sender,
  receivedAt=excluded.receivedAt,
  hash=excluded.hash,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, provider, messageID, subject, sender, receivedAt, hash, status, rawRef)
	if err != nil {
		return internal.EmailRow{}, err
	}

	row, err := d.GetEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.EmailRow{}, err
	}
	if row == nil {
		return internal.EmailRow{}, errors.New("failed to upsert email")
	}
	return *row, nil
}

func (d *DB) GetEmailByProviderMessageID(provider, messageID string) (*internal.EmailRow, error) {
	var row internal.EmailRow
	err := d.conn.QueryRow(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM emails WHERE provider = ? AND messageId = ?
`, provider, messageID).Scan(
		&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) MustEmailByProviderMessageID(provider, messageID string) (internal.EmailRow, error) {
	row, err := d.GetEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.EmailRow{}, err
	}
	if row == nil {
		return internal.EmailRow{}, fmt.Errorf("email not found: provider=%s messageId=%s", provider, messageID)
	}
	return *row, nil
}

func (d *DB) ListEmailsByStatus(status string, limit int) ([]internal.EmailRow, error) {
	rows, err := d.conn.Query(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM emails WHERE status = ? ORDER BY receivedAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.EmailRow
	for rows.Next() {
		var row internal.EmailRow
		if err := rows.Scan(&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateEmailStatus(emailID int, status string) error {
	_, err := d.conn.Exec(`UPDATE emails SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, emailID)
	return err
}

func (d *DB) CreateJob(kind internal.JobKind, sourceRef string) (int64, error) {
	result, err := d.conn.Exec(`INSERT INTO jobs (kind, sourceRef, status) VALUES (?, ?, ?)`,
		string(kind), sourceRef, string(internal.JobPending))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) UpdateJobStatus(jobID int64, status internal.JobStatus) error {
	_, err := d.conn.Exec(`UPDATE jobs SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`,
		string(status), jobID)
	return err
}

// FinishReceiptJob records the receipt summary and marks the job completed.
func (d *DB) FinishReceiptJob(jobID int64, rcpt internal.ParsedReceipt) error {
	errorsJSON, _ := json.Marshal(rcpt.ParsingErrors)

	var purchaseDate *string
	if rcpt.PurchaseDate != nil {
		v := rcpt.PurchaseDate.Format("2006-01-02")
		purchaseDate = &v
	}
	_, err := d.conn.Exec(`
UPDATE jobs SET
  status = ?,
  storeName = ?,
  purchaseDate = ?,
  subtotal = ?,
  tax = ?,
  total = ?,
  confidence = ?,
  totalRows = ?,
  validRows = ?,
  errorsJson = ?,
  updatedAt = CURRENT_TIMESTAMP
WHERE id = ?
`, string(internal.JobCompleted), rcpt.StoreName, purchaseDate,
		decimalString(rcpt.Subtotal), decimalString(rcpt.Tax), decimalString(rcpt.Total),
		rcpt.Confidence, len(rcpt.Items), len(rcpt.Items), string(errorsJSON), jobID)
	return err
}

// FinishImportJob records an import run's counts and errors.
func (d *DB) FinishImportJob(jobID int64, total, valid, invalid, skipped int, rowErrors []internal.RowError) error {
	errorsJSON, _ := json.Marshal(rowErrors)
	_, err := d.conn.Exec(`
UPDATE jobs SET
  status = ?,
  totalRows = ?,
  validRows = ?,
  invalidRows = ?,
  skippedRows = ?,
  errorsJson = ?,
  updatedAt = CURRENT_TIMESTAMP
WHERE id = ?
`, string(internal.JobCompleted), total, valid, invalid, skipped, string(errorsJSON), jobID)
	return err
}

func (d *DB) FailJob(jobID int64, reason string) error {
	errorsJSON, _ := json.Marshal([]string{reason})
	_, err := d.conn.Exec(`
UPDATE jobs SET status = ?, errorsJson = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?
`, string(internal.JobFailed), string(errorsJSON), jobID)
	return err
}

func (d *DB) GetJob(jobID int64) (*internal.JobRow, error) {
	var row internal.JobRow
	var kind, status string
	err := d.conn.QueryRow(`
SELECT id, kind, sourceRef, status, storeName, confidence, totalRows, validRows, invalidRows, skippedRows, createdAt
FROM jobs WHERE id = ?
`, jobID).Scan(
		&row.ID, &kind, &row.SourceRef, &status, &row.StoreName, &row.Confidence,
		&row.TotalRows, &row.ValidRows, &row.InvalidRows, &row.SkippedRows, &row.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	row.Kind = internal.JobKind(kind)
	row.Status = internal.JobStatus(status)
	return &row, nil
}

func (d *DB) InsertReceiptItems(jobID int64, items []internal.ParsedItem) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO job_items (jobId, lineNo, rawText, name, brand, quantity, unit, price, category, confidence)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.Exec(
			jobID, item.LineNumber, item.RawText, item.Name, nullable(item.Brand),
			item.Quantity.String(), item.Unit, decimalString(item.Price),
			nullable(item.Category), item.Confidence,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (d *DB) InsertImportItems(jobID int64, rows []internal.ItemRow) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO job_items (jobId, lineNo, rawText, name, brand, quantity, unit, price, category, confidence)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1.0)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(
			jobID, row.Row, "", row.Name, nullable(row.Brand),
			row.Quantity.String(), row.Unit, decimalString(row.Price),
			nullable(row.Category),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (d *DB) ApproveItem(itemID int64) error {
	_, err := d.conn.Exec(`UPDATE job_items SET approved = 1 WHERE id = ?`, itemID)
	return err
}

func (d *DB) GetExportRows(jobID int64) ([]internal.ReviewExportRow, error) {
	rows, err := d.conn.Query(`
SELECT lineNo, rawText, name, brand, quantity, unit, price, category, confidence, approved
FROM job_items WHERE jobId = ? ORDER BY lineNo ASC
`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ReviewExportRow
	for rows.Next() {
		var row internal.ReviewExportRow
		var approved int
		if err := rows.Scan(
			&row.LineNo, &row.RawText, &row.Name, &row.Brand, &row.Quantity,
			&row.Unit, &row.Price, &row.Category, &row.Confidence, &approved,
		); err != nil {
			return nil, err
		}
		row.Approved = approved != 0
		out = append(out, row)
	}
	return out, rows.Err()
}

func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func decimalString(v *decimal.Decimal) *string {
	if v == nil {
		return nil
	}
	s := v.StringFixed(2)
	return &s
}
