package pipeline

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Loader defines the contract for extracting plain text from an uploaded
// file's bytes.
type Loader interface {
	Load(data []byte) (string, error)
}

// TextLoader is the generic loader for plain text uploads (txt, md, csv).
type TextLoader struct{}

func (TextLoader) Load(data []byte) (string, error) {
	return string(data), nil
}

// selectLoader picks a loader from the filename extension, falling back to
// content sniffing for files uploaded without one.
func selectLoader(filename string, data []byte) Loader {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".pdf" || bytes.HasPrefix(data, []byte("%PDF-")) {
		return PDFLoader{}
	}
	return TextLoader{}
}
