// Package extract turns invoice documents into plain text for the
// parser. Unlike parsing, extraction failures are hard errors: a
// document that cannot be read must never be mistaken for an empty
// invoice.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// FromFile extracts text from a document on disk, dispatching on the
// file extension. Plain-text files pass through unchanged.
func FromFile(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		return FromPDF(f)
	case ".txt", ".text":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported document type: %s", filepath.Ext(path))
	}
}

// FromPDF extracts text from a PDF, page by page, preserving row
// breaks so the line-oriented parser can work on the result.
func FromPDF(r io.Reader) (string, error) {
	buf := new(bytes.Buffer)
	size, err := buf.ReadFrom(r)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), size)
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	var text strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", pageNum, err)
		}
		for _, row := range rows {
			for i, word := range row.Content {
				if i > 0 {
					text.WriteString(" ")
				}
				text.WriteString(word.S)
			}
			text.WriteString("\n")
		}
	}

	return text.String(), nil
}
