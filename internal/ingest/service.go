package ingest

import (
	"fmt"
	"os"
	"time"

	"pantrypost/internal"
	"pantrypost/internal/config"
	"pantrypost/internal/mailparse"
	"pantrypost/internal/receipt"
	"pantrypost/internal/storage"
)

// Service turns fetched emails into receipt jobs: decode the stored raw
// message, run the receipt parser and persist the outcome for review.
type Service struct {
	db  *storage.DB
	cfg config.Config
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, cfg: cfg}
}

type ProcessResult struct {
	EmailID   int
	JobID     int64
	StoreName string
	Items     int
}

func (s *Service) ProcessByProviderMessageID(provider, messageID string) (ProcessResult, error) {
	email, err := s.db.MustEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return ProcessResult{}, err
	}
	return s.ProcessEmail(email)
}

func (s *Service) ProcessPending(limit int, provider string) ([]ProcessResult, error) {
	pending, err := s.db.ListEmailsByStatus("fetched", limit)
	if err != nil {
		return nil, err
	}

	var results []ProcessResult
	for _, email := range pending {
		if provider != "" && email.Provider != provider {
			continue
		}
		res, err := s.ProcessEmail(email)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *Service) ProcessEmail(email internal.EmailRow) (ProcessResult, error) {
	start := time.Now()

	jobID, err := s.db.CreateJob(internal.JobKindEmail, fmt.Sprintf("%s/%s", email.Provider, email.MessageID))
	if err != nil {
		return ProcessResult{}, err
	}
	if err := s.db.UpdateJobStatus(jobID, internal.JobProcessing); err != nil {
		return ProcessResult{}, err
	}

	raw, err := os.ReadFile(email.RawRef)
	if err != nil {
		_ = s.db.FailJob(jobID, fmt.Sprintf("read raw message: %v", err))
		_ = s.db.UpdateEmailStatus(email.ID, "failed")
		return ProcessResult{}, err
	}

	msg, err := mailparse.ExtractMessage(raw)
	if err != nil {
		_ = s.db.FailJob(jobID, fmt.Sprintf("decode message: %v", err))
		_ = s.db.UpdateEmailStatus(email.ID, "failed")
		return ProcessResult{}, err
	}
	if msg.Sender == "" {
		msg.Sender = email.Sender
	}
	if msg.Subject == "" {
		msg.Subject = email.Subject
	}

	rcpt := receipt.ParseEmailReceipt(msg)

	if err := s.db.InsertReceiptItems(jobID, rcpt.Items); err != nil {
		return ProcessResult{}, err
	}
	if err := s.db.FinishReceiptJob(jobID, rcpt); err != nil {
		return ProcessResult{}, err
	}
	if err := s.db.UpdateEmailStatus(email.ID, "processed"); err != nil {
		return ProcessResult{}, err
	}

	fmt.Printf("processed email id=%d job=%d store=%q items=%d confidence=%.2f ms=%d\n",
		email.ID, jobID, rcpt.StoreName, len(rcpt.Items), rcpt.Confidence, time.Since(start).Milliseconds())

	return ProcessResult{
		EmailID:   email.ID,
		JobID:     jobID,
		StoreName: rcpt.StoreName,
		Items:     len(rcpt.Items),
	}, nil
}
