package render

import (
	"fmt"
	"strings"
	"time"
)

// Encoding selects the export document format.
type Encoding int

const (
	EncodingPDF Encoding = iota
	EncodingDOCX
)

func (e Encoding) String() string {
	switch e {
	case EncodingPDF:
		return "pdf"
	case EncodingDOCX:
		return "docx"
	}
	return fmt.Sprintf("encoding(%d)", int(e))
}

// EncodingFromString maps a configured format name to an Encoding.
func EncodingFromString(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return EncodingPDF, nil
	case "docx":
		return EncodingDOCX, nil
	}
	return 0, fmt.Errorf("unsupported export format %q", s)
}

// Document is a renderable export: title, generation time and the parsed
// markup blocks in their original order.
type Document struct {
	Title       string
	GeneratedAt time.Time
	Blocks      []Block
}

// NewDocument parses markup into a renderable document.
func NewDocument(title, markup string, generatedAt time.Time) Document {
	return Document{Title: title, GeneratedAt: generatedAt, Blocks: Parse(markup)}
}

// Render encodes the document. Both encodings carry the same structure:
// title, generation timestamp, then every block in order. One-way only;
// nothing reconstructs markup from the output.
func Render(doc Document, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingPDF:
		return renderPDF(doc)
	case EncodingDOCX:
		return renderDOCX(doc)
	}
	return nil, fmt.Errorf("unsupported encoding %v", enc)
}

const generatedAtFormat = "02/01/2006 às 15:04"

func generatedLine(t time.Time) string {
	return "Gerado em: " + t.Format(generatedAtFormat)
}
