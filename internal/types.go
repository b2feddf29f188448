package internal

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmailMessage is the inbound email boundary: the caller has already
// decoded transport and MIME concerns down to three strings.
type EmailMessage struct {
	Sender  string
	Subject string
	Body    string
}

type ParsedItem struct {
	Name       string
	Brand      string
	Quantity   decimal.Decimal
	Unit       string
	Price      *decimal.Decimal
	Category   string
	RawText    string
	LineNumber int
	Confidence float64
}

type ParsedReceipt struct {
	StoreName     string
	StoreAddress  string
	TransactionID string
	PurchaseDate  *time.Time
	Subtotal      *decimal.Decimal
	Tax           *decimal.Decimal
	Total         *decimal.Decimal
	Items         []ParsedItem
	Confidence    float64
	ParsingErrors []string
}

// Field names an item attribute a spreadsheet column can map to.
type Field string

const (
	FieldName       Field = "name"
	FieldBrand      Field = "brand"
	FieldQuantity   Field = "quantity"
	FieldUnit       Field = "unit"
	FieldPrice      Field = "price"
	FieldCategory   Field = "category"
	FieldLocation   Field = "location"
	FieldExpiration Field = "expiration_date"
	FieldNotes      Field = "notes"
	FieldBarcode    Field = "barcode"
)

// ImportMapping associates each semantic field with at most one column header.
type ImportMapping map[Field]string

// RowError is descriptive, collected into lists, never raised.
type RowError struct {
	Row     int
	Field   string
	Value   string
	Message string
}

// ItemRow is one validated spreadsheet row, normalized and ready for the
// inventory-creation collaborator.
type ItemRow struct {
	Row            int
	Name           string
	Brand          string
	Quantity       decimal.Decimal
	Unit           string
	Price          *decimal.Decimal
	Category       string
	Location       string
	ExpirationDate *time.Time
	Notes          string
	Barcode        string
}

type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
	JobCancelled  JobStatus = "cancelled"
)

type JobKind string

const (
	JobKindEmail JobKind = "email"
	JobKindFile  JobKind = "file"
)

type EmailRow struct {
	ID         int
	Provider   string
	MessageID  string
	Subject    string
	Sender     string
	ReceivedAt string
	Hash       string
	Status     string
	RawRef     string
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}

type JobRow struct {
	ID          int
	Kind        JobKind
	SourceRef   string
	Status      JobStatus
	StoreName   *string
	Confidence  *float64
	TotalRows   int
	ValidRows   int
	InvalidRows int
	SkippedRows int
	CreatedAt   string
}

// ReviewExportRow is one line of the human-review workbook.
type ReviewExportRow struct {
	LineNo     int
	RawText    string
	Name       string
	Brand      *string
	Quantity   *string
	Unit       *string
	Price      *string
	Category   *string
	Confidence float64
	Approved   bool
}
