package pipeline

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PDFLoader extracts text from PDF uploads, page by page.
type PDFLoader struct{}

func (PDFLoader) Load(data []byte) (string, error) {
	// Structural pre-check with pdfcpu: corrupt or encrypted files fail
	// here with a clear message instead of deep inside text extraction.
	pageCount, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return "", fmt.Errorf("invalid PDF: %w", err)
	}
	if pageCount == 0 {
		return "", nil
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var buf bytes.Buffer
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", pageIndex, err)
		}
		buf.WriteString(text)
		// Newline between pages to separate them semantically.
		buf.WriteString("\n")
	}
	return buf.String(), nil
}
