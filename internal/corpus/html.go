package corpus

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	blankRun = regexp.MustCompile(`\n{3,}`)
	spaceRun = regexp.MustCompile(`[ \t\r\n\f]+`)
)

// ExtractHTML reduces an HTML page to plain text: the first <article> if
// present, otherwise <body>, without scripts, styles and page chrome.
// Block elements become paragraph breaks.
func ExtractHTML(r io.Reader) (string, error) {
	root, err := html.Parse(r)
	if err != nil {
		return "", err
	}
	doc := goquery.NewDocumentFromNode(root)
	doc.Find("script,style,noscript,template,nav,header,footer,aside,form,iframe").Remove()

	content := doc.Find("article").First()
	if content.Length() == 0 {
		content = doc.Find("body")
	}

	var b strings.Builder
	for _, n := range content.Nodes {
		writeText(&b, n)
	}
	return tidy(b.String()), nil
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(spaceRun.ReplaceAllString(n.Data, " "))
		return
	case html.ElementNode:
		if n.DataAtom == atom.Br {
			b.WriteByte('\n')
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if n.Type == html.ElementNode && isBlock(n.DataAtom) {
		b.WriteString("\n\n")
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Blockquote, atom.Pre,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Li, atom.Ul, atom.Ol, atom.Table, atom.Tr, atom.Figcaption:
		return true
	}
	return false
}

// tidy trims every line and caps blank-line runs at one.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(blankRun.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}
