package listener

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"pantrypost/internal/config"
	"pantrypost/internal/connectors"
	gmailconnector "pantrypost/internal/connectors/gmail"
	imapconnector "pantrypost/internal/connectors/imap"
	"pantrypost/internal/export"
	"pantrypost/internal/ingest"
	"pantrypost/internal/storage"
)

type Service struct {
	db  *storage.DB
	cfg config.Config
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, cfg: cfg}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(ctx); err != nil {
			fmt.Printf("listener cycle error: %v\n", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.MailListenerIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	provider := strings.ToLower(strings.TrimSpace(s.cfg.MailListenerProvider))
	mailConnector, err := s.makeConnector(provider)
	if err != nil {
		return err
	}

	fetchService := connectors.NewFetchService(s.db, s.cfg.RawMailDir, mailConnector)
	fetchResult, err := fetchService.FetchAndStore(s.cfg.MailListenerLabel, s.cfg.MailListenerFetchMax)
	if err != nil {
		return err
	}

	processor := ingest.NewService(s.db, s.cfg)
	results, err := processor.ProcessPending(s.cfg.MailListenerBatch, provider)
	if err != nil {
		return err
	}

	exported := 0
	if s.cfg.MailListenerAutoExport {
		for _, res := range results {
			if res.Items == 0 {
				continue
			}
			if err := s.exportJob(res.JobID); err != nil {
				return err
			}
			exported++
		}
	}

	fmt.Printf("listener cycle done provider=%s fetched=%d stored=%d processed=%d exported=%d\n",
		provider, fetchResult.Fetched, fetchResult.Stored, len(results), exported)
	_ = ctx
	return nil
}

func (s *Service) exportJob(jobID int64) error {
	rows, err := s.db.GetExportRows(jobID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	outputPath := filepath.Join(s.cfg.OutputDir, "listener", fmt.Sprintf("job_%d.xlsx", jobID))
	return export.WriteReviewXLSX(rows, outputPath)
}

func (s *Service) makeConnector(provider string) (connectors.MailConnector, error) {
	switch provider {
	case "gmail":
		return gmailconnector.NewConnector(s.cfg)
	case "imap":
		return imapconnector.NewConnector(s.cfg)
	default:
		return nil, fmt.Errorf("unsupported listener provider: %s", provider)
	}
}
