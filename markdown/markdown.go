// Package markdown turns blog post bodies written in a small markdown subset into
// typed render blocks, and renders those blocks as HTML through a templ component.
package markdown

import "strings"

// DefaultOrigin is the site origin whose links are treated as internal.
const DefaultOrigin = "https://autocaravecchauffeur.be"

// Kind identifies the type of a line-level block.
type Kind uint8

const (
	Heading Kind = iota
	BoldParagraph
	ListItem
	Spacer
	Paragraph
)

func (k Kind) String() string {
	switch k {
	case Heading:
		return "heading"
	case BoldParagraph:
		return "bold-paragraph"
	case ListItem:
		return "list-item"
	case Spacer:
		return "spacer"
	case Paragraph:
		return "paragraph"
	}
	return "unknown"
}

// Block is the rendering of exactly one input line.
//
// Headings and bold paragraphs carry their text verbatim in Text. List items and
// paragraphs carry the result of inline lexing in Spans. Spacers carry nothing.
type Block struct {
	Kind  Kind
	Level int // 1-3, headings only
	Text  string
	Spans []Span
}

// Renderer converts post content into blocks. Origin is the URL prefix of links
// that stay on the site.
type Renderer struct {
	Origin string
}

// New returns a Renderer treating links under origin as internal.
func New(origin string) *Renderer {
	return &Renderer{Origin: strings.TrimSuffix(origin, "/")}
}

var defaultRenderer = New(DefaultOrigin)

// Render converts content using DefaultOrigin.
func Render(content string) []Block {
	return defaultRenderer.Render(content)
}

// Render converts content into one block per line. It never fails: a line that
// matches no rule becomes a paragraph.
func (r *Renderer) Render(content string) []Block {
	lines := strings.Split(content, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, raw := range lines {
		blocks = append(blocks, r.renderLine(strings.TrimSuffix(raw, "\r")))
	}
	return blocks
}

// renderLine classifies a single line. Rules are checked in order and the first
// match wins.
func (r *Renderer) renderLine(line string) Block {
	switch {
	case strings.HasPrefix(line, "# "):
		return Block{Kind: Heading, Level: 1, Text: line[2:]}
	case strings.HasPrefix(line, "## "):
		return Block{Kind: Heading, Level: 2, Text: line[3:]}
	case strings.HasPrefix(line, "### "):
		return Block{Kind: Heading, Level: 3, Text: line[4:]}
	case len(line) >= 4 && strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**"):
		// Whole-line bold is taken literally; links inside it are not lexed.
		return Block{Kind: BoldParagraph, Text: line[2 : len(line)-2]}
	case strings.HasPrefix(line, "- "):
		return Block{Kind: ListItem, Spans: Lex(line[2:], r.Origin)}
	case strings.TrimSpace(line) == "":
		return Block{Kind: Spacer}
	default:
		return Block{Kind: Paragraph, Spans: Lex(line, r.Origin)}
	}
}
