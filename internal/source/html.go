package source

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// TweetTextID is the data-testid the timeline puts on each post body
const TweetTextID = "tweetText"

// ExtractHTML returns the text of every post body in a saved timeline page,
// de-duplicated in document order. Pages without tagged bodies fall back to
// the text of each <article>.
func ExtractHTML(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	items := collect(doc, func(n *html.Node) bool {
		return attr(n, "data-testid") == TweetTextID
	})
	if len(items) == 0 {
		items = collect(doc, func(n *html.Node) bool {
			return n.Data == "article"
		})
	}
	return items, nil
}

// collect gathers the text under every element matching keep. Matches
// nested inside a match are not visited separately.
func collect(doc *html.Node, keep func(*html.Node) bool) []string {
	var out []string
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && keep(n) {
			text := strings.TrimSpace(textOf(n))
			if text != "" && !seen[text] {
				seen[text] = true
				out = append(out, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func textOf(n *html.Node) string {
	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			buf.WriteString(n.Data)
		case n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style"):
			return
		case n.Type == html.ElementNode && n.Data == "br":
			buf.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(n)
	return buf.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
