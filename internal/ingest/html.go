package ingest

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// extractHTML returns the visible prose of an HTML document. Block elements become
// paragraph breaks; scripts, styles and page chrome are skipped.
func extractHTML(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	extractText(doc, &sb, 0)
	return tidyBlocks(sb.String()), nil
}

// tidyBlocks collapses the spacing left by the tree walk: spaces within a line become
// one, runs of blank lines become a single paragraph break, and the ends are trimmed.
func tidyBlocks(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if len(out) > 0 && !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

func extractText(n *html.Node, sb *strings.Builder, depth int) {
	if depth > 200 {
		return
	}

	switch n.Type {
	case html.TextNode:
		sb.WriteString(collapseSpace(n.Data))
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "iframe", "svg", "nav", "footer", "header", "head", "template", "form":
			return
		case "br":
			sb.WriteString("\n")
			return
		case "p", "div", "section", "article", "blockquote", "li", "h1", "h2", "h3", "h4", "h5", "h6", "tr", "pre":
			sb.WriteString("\n\n")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, sb, depth+1)
	}

	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "section", "article", "blockquote", "li", "h1", "h2", "h3", "h4", "h5", "h6", "tr", "pre":
			sb.WriteString("\n\n")
		}
	}
}

// collapseSpace turns every whitespace run into one space, keeping a single leading
// or trailing space when the run touched the edge.
func collapseSpace(s string) string {
	if s == "" {
		return s
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return " "
	}
	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
