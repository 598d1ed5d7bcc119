package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// HTML returns a templ.Component that writes blocks as HTML.
func HTML(blocks []Block) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		WriteHTML(&buf, blocks)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// WriteHTML writes the HTML representation of blocks to buf. Consecutive list
// items share one <ul>.
func WriteHTML(buf *bytes.Buffer, blocks []Block) {
	inList := false
	flushList := func() {
		if inList {
			buf.WriteString("</ul>")
			inList = false
		}
	}

	for _, b := range blocks {
		if b.Kind != ListItem {
			flushList()
		}
		switch b.Kind {
		case Heading:
			tag := "h" + strconv.Itoa(b.Level)
			buf.WriteString("<" + tag + ` class="post-h` + strconv.Itoa(b.Level) + `">`)
			buf.WriteString(html.EscapeString(b.Text))
			buf.WriteString("</" + tag + ">")
		case BoldParagraph:
			buf.WriteString(`<p class="post-p post-strong">`)
			buf.WriteString(html.EscapeString(b.Text))
			buf.WriteString("</p>")
		case ListItem:
			if !inList {
				buf.WriteString(`<ul class="post-list">`)
				inList = true
			}
			buf.WriteString("<li>")
			writeSpans(buf, b.Spans)
			buf.WriteString("</li>")
		case Spacer:
			buf.WriteString(`<div class="post-spacer"></div>`)
		default:
			buf.WriteString(`<p class="post-p">`)
			writeSpans(buf, b.Spans)
			buf.WriteString("</p>")
		}
	}
	flushList()
}

func writeSpans(buf *bytes.Buffer, spans []Span) {
	for _, s := range spans {
		switch s.Kind {
		case Bold:
			buf.WriteString("<strong>")
			buf.WriteString(html.EscapeString(s.Text))
			buf.WriteString("</strong>")
		case Link:
			href := SafeURL(s.URL)
			if href == "" {
				buf.WriteString(html.EscapeString(s.Text))
				continue
			}
			buf.WriteString(`<a href="` + href + `" class="post-link"`)
			if s.External {
				buf.WriteString(` target="_blank" rel="noopener noreferrer"`)
			}
			buf.WriteString(">")
			buf.WriteString(html.EscapeString(s.Text))
			buf.WriteString("</a>")
		default:
			buf.WriteString(html.EscapeString(s.Text))
		}
	}
}

// SafeURL validates a link target for use in an href attribute and returns it
// escaped, or "" when the scheme is not allowed.
func SafeURL(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
