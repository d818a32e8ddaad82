package wikipedia

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Extract returns the first <h1> as title, then the text of every <p>
// followed by every <dd>, each in document order. Citation markers (<sup>)
// and script/style content are dropped and whitespace is collapsed.
func Extract(r io.Reader) (title string, paragraphs []string, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", nil, err
	}
	var (
		ps, dds []*html.Node
		h1      *html.Node
	)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.H1:
				if h1 == nil {
					h1 = n
				}
			case atom.P:
				ps = append(ps, n)
			case atom.Dd:
				dds = append(dds, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if h1 != nil {
		title = text(h1)
	}
	paragraphs = make([]string, 0, len(ps)+len(dds))
	for _, n := range append(ps, dds...) {
		paragraphs = append(paragraphs, text(n))
	}
	return title, paragraphs, nil
}

func text(n *html.Node) string {
	var b strings.Builder
	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Sup, atom.Script, atom.Style:
				return
			case atom.Br:
				b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
