package document

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFFormat implements Format for PDF files using the embedded text layer.
type PDFFormat struct{}

func init() {
	Register(&PDFFormat{})
}

func (f *PDFFormat) Name() string         { return "PDF" }
func (f *PDFFormat) Extensions() []string { return []string{".pdf"} }

func (f *PDFFormat) Chapters(filename string) (chapters []Chapter, err error) {
	// ledongthuc/pdf panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			chapters = nil
			err = parseError("Failed to parse the PDF file", fmt.Errorf("%v", r))
		}
	}()

	text, err := extractPDFText(filename)
	if err != nil {
		return nil, parseError("Failed to parse the PDF file", err)
	}
	return SplitChapters(text, "PDF Chapter"), nil
}

func extractPDFText(filename string) (string, error) {
	f, r, err := pdf.Open(filename)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	fonts := make(map[string]*pdf.Font)
	var parts []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}
		text, err := p.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("read page %d: %w", i, err)
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, "\n"), nil
}
