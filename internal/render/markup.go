package render

import "strings"

// BlockKind classifies one line of summary markup.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockSubheading
	BlockEmphasis
	BlockSpacer
)

// Block is one parsed line of markup.
type Block struct {
	Kind BlockKind
	Text string
}

// Parse scans structured markup in a single line-oriented pass. "## "
// opens a section heading, "### " a subheading, a line wrapped in ** is
// an emphasized paragraph and a blank line is a spacer. Everything else,
// unknown markers included, falls through to a plain paragraph.
func Parse(markup string) []Block {
	lines := strings.Split(markup, "\n")
	blocks := make([]Block, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			blocks = append(blocks, Block{Kind: BlockSpacer})
		case strings.HasPrefix(line, "### "):
			blocks = append(blocks, Block{Kind: BlockSubheading, Text: strings.TrimSpace(line[4:])})
		case strings.HasPrefix(line, "## "):
			blocks = append(blocks, Block{Kind: BlockHeading, Text: strings.TrimSpace(line[3:])})
		case len(line) >= 4 && strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**"):
			blocks = append(blocks, Block{Kind: BlockEmphasis, Text: strings.TrimSpace(line[2 : len(line)-2])})
		default:
			blocks = append(blocks, Block{Kind: BlockParagraph, Text: line})
		}
	}

	return blocks
}
