package mailparse

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jaytaylor/html2text"
	"github.com/jhillyerd/enmime"
	pdf "github.com/ledongthuc/pdf"

	"pantrypost/internal"
)

// ExtractMessage decodes a raw RFC 5322 message into the plain
// sender/subject/body triple the receipt parser consumes. HTML-only bodies
// are flattened to text; rows of HTML tables and text from PDF attachments
// are appended as extra body lines so the line parser sees them.
func ExtractMessage(raw []byte) (internal.EmailMessage, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return internal.EmailMessage{}, err
	}

	var sections []string
	if env.Text != "" {
		sections = append(sections, env.Text)
	}
	if env.HTML != "" {
		if env.Text == "" {
			if flat, err := html2text.FromString(env.HTML, html2text.Options{TextOnly: true}); err == nil {
				sections = append(sections, flat)
			}
		}
		if tableText := tableLines(env.HTML); tableText != "" {
			sections = append(sections, tableText)
		}
	}
	for _, att := range env.Attachments {
		name := strings.ToLower(strings.TrimSpace(att.FileName))
		if strings.HasSuffix(name, ".pdf") {
			if text := pdfText(att.Content); text != "" {
				sections = append(sections, text)
			}
		}
	}

	return internal.EmailMessage{
		Sender:  env.GetHeader("From"),
		Subject: env.GetHeader("Subject"),
		Body:    strings.Join(sections, "\n"),
	}, nil
}

// tableLines renders each HTML table row as one line of cells, which is the
// shape the line patterns expect.
func tableLines(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var lines []string
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			if text := strings.TrimSpace(cell.Text()); text != "" {
				cells = append(cells, text)
			}
		})
		if len(cells) > 0 {
			lines = append(lines, strings.Join(cells, " "))
		}
	})
	return strings.Join(lines, "\n")
}

func pdfText(content []byte) string {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return ""
	}

	var parts []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}
