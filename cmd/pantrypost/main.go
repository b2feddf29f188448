package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pantrypost/internal"
	"pantrypost/internal/config"
	"pantrypost/internal/connectors"
	gmailconnector "pantrypost/internal/connectors/gmail"
	imapconnector "pantrypost/internal/connectors/imap"
	"pantrypost/internal/export"
	"pantrypost/internal/ingest"
	"pantrypost/internal/listener"
	"pantrypost/internal/mailparse"
	"pantrypost/internal/receipt"
	"pantrypost/internal/storage"
	"pantrypost/internal/tabular"
	"pantrypost/internal/util"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "gmail", "gmail|imap")
		label := fs.String("label", "INBOX", "mailbox/label")
		max := fs.Int("max", 50, "max messages")
		_ = fs.Parse(os.Args[2:])
		conn, err := makeConnector(cfg, *provider)
		must(err)
		fetch := connectors.NewFetchService(db, cfg.RawMailDir, conn)
		result, err := fetch.FetchAndStore(*label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d skipped=%d\n", *provider, result.Fetched, result.Stored, result.Skipped)
	case "mail:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "gmail", "gmail|imap")
		messageID := fs.String("messageId", "", "specific message-id")
		batch := fs.Int("batch", 20, "batch size")
		_ = fs.Parse(os.Args[2:])
		processor := ingest.NewService(db, cfg)
		if strings.TrimSpace(*messageID) != "" {
			res, err := processor.ProcessByProviderMessageID(*provider, *messageID)
			must(err)
			fmt.Printf("processed email id=%d job=%d store=%q items=%d\n", res.EmailID, res.JobID, res.StoreName, res.Items)
			return
		}
		results, err := processor.ProcessPending(*batch, *provider)
		must(err)
		items := 0
		for _, res := range results {
			items += res.Items
		}
		fmt.Printf("processed pending emails=%d items=%d\n", len(results), items)
	case "mail:listen":
		s := listener.NewService(db, cfg)
		must(s.Run(context.Background()))
	case "parse":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "path to .eml or plain-text receipt")
		sender := fs.String("sender", "", "sender override for plain text input")
		subject := fs.String("subject", "", "subject override for plain text input")
		out := fs.String("out", "", "optional output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}

		raw, err := os.ReadFile(*input)
		must(err)

		var msg internal.EmailMessage
		if strings.EqualFold(filepath.Ext(*input), ".eml") {
			msg, err = mailparse.ExtractMessage(raw)
			must(err)
		} else {
			msg = internal.EmailMessage{Sender: *sender, Subject: *subject, Body: string(raw)}
		}

		rcpt := receipt.ParseEmailReceipt(msg)
		printReceipt(rcpt)

		if strings.TrimSpace(*out) != "" {
			rows := reviewRows(rcpt.Items)
			must(export.WriteReviewXLSX(rows, *out))
			fmt.Printf("exported %d rows to %s\n", len(rows), *out)
		}
	case "import:preview":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "csv/xlsx file path")
		mappingFlag := fs.String("mapping", "", "explicit mapping, e.g. name=Product,quantity=Qty")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}

		content, err := os.ReadFile(*file)
		must(err)

		svc := tabular.NewService(cfg.ImportMaxFileSize, cfg.ImportMaxRows)
		if ok, reason := svc.ValidateFile(*file, content); !ok {
			must(fmt.Errorf("invalid file: %s", reason))
		}

		preview, err := svc.Preview(*file, content, parseMappingFlag(*mappingFlag))
		must(err)

		fmt.Printf("preview rows=%d sample=%d errors=%d\n", preview.TotalRows, len(preview.Sample), len(preview.Errors))
		for field, column := range preview.Mapping {
			fmt.Printf("  mapped %s -> %q\n", field, column)
		}
		for _, warning := range preview.Warnings {
			fmt.Printf("  warning: %s\n", warning)
		}
		for _, row := range preview.Sample {
			fmt.Printf("  row %d: %s qty=%s unit=%s\n", row.Row, row.Name, row.Quantity.String(), row.Unit)
		}
		for _, rowErr := range preview.Errors {
			fmt.Printf("  error row %d field=%s: %s\n", rowErr.Row, rowErr.Field, rowErr.Message)
		}
	case "import:run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "csv/xlsx file path")
		mappingFlag := fs.String("mapping", "", "explicit mapping, e.g. name=Product,quantity=Qty")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}

		content, err := os.ReadFile(*file)
		must(err)

		svc := tabular.NewService(cfg.ImportMaxFileSize, cfg.ImportMaxRows)
		if ok, reason := svc.ValidateFile(*file, content); !ok {
			must(fmt.Errorf("invalid file: %s", reason))
		}

		jobID, err := db.CreateJob(internal.JobKindFile, filepath.Base(*file))
		must(err)
		must(db.UpdateJobStatus(jobID, internal.JobProcessing))

		result, err := svc.Process(*file, content, parseMappingFlag(*mappingFlag))
		if err != nil {
			_ = db.FailJob(jobID, err.Error())
			must(err)
		}

		must(db.InsertImportItems(jobID, result.Items))
		must(db.FinishImportJob(jobID, result.TotalRows, result.ValidRows, result.InvalidRows, result.SkippedRows, result.Errors))

		fmt.Printf("import done job=%d total=%d valid=%d invalid=%d skipped=%d\n",
			jobID, result.TotalRows, result.ValidRows, result.InvalidRows, result.SkippedRows)
		for _, rowErr := range result.Errors {
			fmt.Printf("  error row %d field=%s value=%q: %s\n", rowErr.Row, rowErr.Field, rowErr.Value, rowErr.Message)
		}
	case "job:cancel":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		jobID := fs.Int64("jobId", 0, "job id")
		_ = fs.Parse(os.Args[2:])
		if *jobID == 0 {
			must(fmt.Errorf("--jobId is required"))
		}
		job, err := db.GetJob(*jobID)
		must(err)
		if job == nil {
			must(fmt.Errorf("job not found: %d", *jobID))
		}
		if job.Status != internal.JobPending && job.Status != internal.JobProcessing {
			must(fmt.Errorf("job %d is %s, only pending or processing jobs can be cancelled", *jobID, job.Status))
		}
		must(db.UpdateJobStatus(*jobID, internal.JobCancelled))
		fmt.Printf("cancelled job=%d\n", *jobID)
	case "item:approve":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		itemID := fs.Int64("itemId", 0, "job item id")
		_ = fs.Parse(os.Args[2:])
		if *itemID == 0 {
			must(fmt.Errorf("--itemId is required"))
		}
		must(db.ApproveItem(*itemID))
		fmt.Printf("approved item=%d\n", *itemID)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		jobID := fs.Int64("jobId", 0, "job id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *jobID == 0 || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--jobId and --out are required"))
		}
		rows, err := db.GetExportRows(*jobID)
		must(err)
		if len(rows) == 0 {
			must(fmt.Errorf("no export rows for jobId=%d", *jobID))
		}
		must(export.WriteReviewXLSX(rows, *out))
		fmt.Printf("exported %d rows to %s\n", len(rows), *out)
	default:
		usage()
		os.Exit(1)
	}
}

func printReceipt(rcpt internal.ParsedReceipt) {
	fmt.Printf("store=%q confidence=%.2f items=%d\n", rcpt.StoreName, rcpt.Confidence, len(rcpt.Items))
	if rcpt.PurchaseDate != nil {
		fmt.Printf("date=%s\n", rcpt.PurchaseDate.Format("2006-01-02"))
	}
	if rcpt.Total != nil {
		fmt.Printf("total=%s\n", rcpt.Total.StringFixed(2))
	}
	for _, item := range rcpt.Items {
		price := "-"
		if item.Price != nil {
			price = item.Price.StringFixed(2)
		}
		fmt.Printf("  %s qty=%s unit=%s price=%s category=%s confidence=%.2f\n",
			item.Name, item.Quantity.String(), item.Unit, price, item.Category, item.Confidence)
	}
	for _, parseErr := range rcpt.ParsingErrors {
		fmt.Printf("  parse error: %s\n", parseErr)
	}
}

func reviewRows(items []internal.ParsedItem) []internal.ReviewExportRow {
	rows := make([]internal.ReviewExportRow, 0, len(items))
	for _, item := range items {
		row := internal.ReviewExportRow{
			LineNo:     item.LineNumber,
			RawText:    item.RawText,
			Name:       item.Name,
			Confidence: item.Confidence,
		}
		row.Quantity = util.StringPtr(item.Quantity.String())
		if item.Unit != "" {
			row.Unit = util.StringPtr(item.Unit)
		}
		if item.Brand != "" {
			row.Brand = util.StringPtr(item.Brand)
		}
		if item.Price != nil {
			row.Price = util.StringPtr(item.Price.StringFixed(2))
		}
		if item.Category != "" {
			row.Category = util.StringPtr(item.Category)
		}
		rows = append(rows, row)
	}
	return rows
}

func parseMappingFlag(value string) internal.ImportMapping {
	mapping := internal.ImportMapping{}
	for _, pair := range strings.Split(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		mapping[internal.Field(strings.TrimSpace(parts[0]))] = strings.TrimSpace(parts[1])
	}
	return mapping
}

func makeConnector(cfg config.Config, provider string) (connectors.MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return gmailconnector.NewConnector(cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func usage() {
	fmt.Println("usage: pantrypost <command>")
	fmt.Println("commands:")
	fmt.Println("  mail:fetch --provider=gmail|imap --label=INBOX --max=50")
	fmt.Println("  mail:process --provider=gmail|imap [--messageId=...] [--batch=20]")
	fmt.Println("  mail:listen")
	fmt.Println("  parse --input=receipt.eml [--sender=...] [--subject=...] [--out=./out/review.xlsx]")
	fmt.Println("  import:preview --file=pantry.csv [--mapping=name=Product,quantity=Qty]")
	fmt.Println("  import:run --file=pantry.csv [--mapping=name=Product,quantity=Qty]")
	fmt.Println("  job:cancel --jobId=1")
	fmt.Println("  item:approve --itemId=1")
	fmt.Println("  export:xlsx --jobId=1 --out=./out/review.xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
