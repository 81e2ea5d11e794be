package render

import (
	"fmt"
	"os"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"

	bodySize       uint64 = 13
	titleSize      uint64 = 16
	headingSize    uint64 = 15
	subheadingSize uint64 = 14
)

// renderDOCX builds the word-processor export. godocx only saves to a
// path, so the document goes through a scratch file that is always
// removed.
func renderDOCX(d Document) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("create docx: %w", err)
	}

	addRun(doc.AddParagraph(""), d.Title, true, titleSize)
	addRun(doc.AddParagraph(""), generatedLine(d.GeneratedAt), false, bodySize)
	doc.AddParagraph("")

	for _, b := range d.Blocks {
		switch b.Kind {
		case BlockSpacer:
			doc.AddParagraph("")
		case BlockHeading:
			addRun(doc.AddParagraph(""), b.Text, true, headingSize)
		case BlockSubheading:
			addRun(doc.AddParagraph(""), b.Text, true, subheadingSize)
		case BlockEmphasis:
			addRun(doc.AddParagraph(""), b.Text, true, bodySize)
		default:
			addRun(doc.AddParagraph(""), b.Text, false, bodySize)
		}
	}

	out, err := os.CreateTemp("", "medscribe-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create scratch docx: %w", err)
	}
	path := out.Name()
	out.Close()
	defer os.Remove(path)

	if err := doc.SaveTo(path); err != nil {
		return nil, fmt.Errorf("save docx: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	return data, nil
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
