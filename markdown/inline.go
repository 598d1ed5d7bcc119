package markdown

import "strings"

// SpanKind identifies an inline node.
type SpanKind uint8

const (
	Text SpanKind = iota
	Bold
	Link
)

// Span is one inline node of a list item or paragraph.
type Span struct {
	Kind     SpanKind
	Text     string // plain text, bold text or link label
	URL      string // links only
	External bool   // links only: opens in a new tab
}

// Lex splits s into text, bold and link spans in a single left-to-right pass.
// The earliest match in the string wins; at the same position a link is preferred
// over bold. Matches never overlap.
func Lex(s, origin string) []Span {
	var spans []Span
	last := 0
	for i := 0; i < len(s); {
		span, end, ok := matchAt(s, i, origin)
		if !ok {
			i++
			continue
		}
		if i > last {
			spans = append(spans, Span{Kind: Text, Text: s[last:i]})
		}
		spans = append(spans, span)
		last = end
		i = end
	}
	if last < len(s) {
		spans = append(spans, Span{Kind: Text, Text: s[last:]})
	}
	return spans
}

func matchAt(s string, i int, origin string) (Span, int, bool) {
	switch s[i] {
	case '[':
		return matchLink(s, i, origin)
	case '*':
		return matchBold(s, i)
	}
	return Span{}, 0, false
}

// matchLink matches [label](url) at i. The label runs to the first ']' and the
// URL to the first ')'; both must be non-empty.
func matchLink(s string, i int, origin string) (Span, int, bool) {
	closeLabel := strings.IndexByte(s[i+1:], ']')
	if closeLabel < 1 {
		return Span{}, 0, false
	}
	labelEnd := i + 1 + closeLabel
	if labelEnd+1 >= len(s) || s[labelEnd+1] != '(' {
		return Span{}, 0, false
	}
	urlStart := labelEnd + 2
	closeURL := strings.IndexByte(s[urlStart:], ')')
	if closeURL < 1 {
		return Span{}, 0, false
	}
	url := s[urlStart : urlStart+closeURL]
	return Span{
		Kind:     Link,
		Text:     s[i+1 : labelEnd],
		URL:      url,
		External: !IsInternal(url, origin),
	}, urlStart + closeURL + 1, true
}

// matchBold matches **text** at i with the shortest non-empty text.
func matchBold(s string, i int) (Span, int, bool) {
	if !strings.HasPrefix(s[i:], "**") || i+3 > len(s) {
		return Span{}, 0, false
	}
	end := strings.Index(s[i+3:], "**")
	if end < 0 {
		return Span{}, 0, false
	}
	textEnd := i + 3 + end
	return Span{Kind: Bold, Text: s[i+2 : textEnd]}, textEnd + 2, true
}

// IsInternal reports whether url points at the site: either it starts with
// origin or it is a root-relative path.
func IsInternal(url, origin string) bool {
	if strings.HasPrefix(url, "/") {
		return true
	}
	return origin != "" && strings.HasPrefix(url, origin)
}
