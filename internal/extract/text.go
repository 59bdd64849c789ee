package extract

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// HTMLText parses an HTML page and returns its visible text. Block elements
// become paragraphs separated by a blank line so that SplitDocuments yields
// one document per paragraph.
func HTMLText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}
	return normalizeParagraphs(visibleText(doc)), nil
}

// visibleText walks the node tree, skipping scripts and styles
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head":
				return
			case "br":
				buf.WriteString("\n")
				return
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && isBlock(n.Data) {
			buf.WriteString("\n\n")
		}
	}

	walk(n)
	return buf.String()
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "blockquote", "section", "article", "tr", "dd", "dt",
		"h1", "h2", "h3", "h4", "h5", "h6", "pre":
		return true
	}
	return false
}

// normalizeParagraphs collapses whitespace inside paragraphs and joins them
// with a single blank line
func normalizeParagraphs(text string) string {
	paras := SplitDocuments(text)
	for i, p := range paras {
		paras[i] = strings.Join(strings.Fields(p), " ")
	}
	return strings.Join(paras, "\n\n")
}

// SplitDocuments splits pasted text into documents on runs of blank lines.
// Each document is trimmed and empty documents are dropped.
func SplitDocuments(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var docs []string
	var current []string
	flush := func() {
		doc := strings.TrimSpace(strings.Join(current, "\n"))
		if doc != "" {
			docs = append(docs, doc)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return docs
}

// SplitSentences splits text after a run of '.', '!' or '?' that is followed
// by whitespace. Sentences are trimmed; empty ones are dropped.
func SplitSentences(text string) []string {
	runes := []rune(text)

	var sentences []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		j := i
		for j+1 < len(runes) && isTerminator(runes[j+1]) {
			j++
		}
		if j+1 < len(runes) && unicode.IsSpace(runes[j+1]) {
			if s := strings.TrimSpace(string(runes[start : j+1])); s != "" {
				sentences = append(sentences, s)
			}
			start = j + 1
		}
		i = j
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
