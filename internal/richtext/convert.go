// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package richtext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// bodyContext is the parent element legacy fragments are parsed under.
var bodyContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

// FromHTML converts a legacy HTML fragment into a document. It never fails:
// markup it does not understand is reduced to its text, and blank input
// yields the minimal single-paragraph document.
func FromHTML(src string) Document {
	if strings.TrimSpace(src) == "" {
		return Empty()
	}

	nodes, err := html.ParseFragment(strings.NewReader(src), bodyContext)
	if err != nil {
		return plainDocument(src)
	}

	blocks := convertBlocks(nodes)
	if len(blocks) == 0 {
		return plainDocument(src)
	}
	return newDocument(blocks)
}

// plainDocument wraps the tag-stripped text of src in a single paragraph.
func plainDocument(src string) Document {
	text := StripTags(src)
	if strings.TrimSpace(text) == "" {
		return Empty()
	}
	return newDocument([]Node{Paragraph(Text(text, 0))})
}

// StripTags returns the text content of an HTML fragment with all markup
// removed.
func StripTags(src string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return src
	}
	return doc.Text()
}

// convertBlocks walks a sequence of sibling nodes and produces block nodes.
// Runs of content outside recognized block tags become implicit paragraphs.
func convertBlocks(nodes []*html.Node) []Node {
	var blocks []Node
	var run []*html.Node

	flush := func() {
		if len(run) == 0 {
			return
		}
		if strings.TrimSpace(textOfNodes(run)) != "" {
			blocks = append(blocks, Paragraph(trimEdges(convertInline(run))...))
		}
		run = nil
	}

	for _, n := range nodes {
		switch n.Type {
		case html.TextNode:
			run = append(run, n)
			continue
		case html.ElementNode:
		default:
			continue
		}

		switch n.DataAtom {
		case atom.P:
			flush()
			blocks = append(blocks, Paragraph(convertInline(childNodes(n))...))
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			flush()
			blocks = append(blocks, Node{
				Type:     NodeHeading,
				Tag:      n.Data,
				Children: nonNil(convertInline(childNodes(n))),
			})
		case atom.Ul:
			flush()
			blocks = append(blocks, convertList(n))
		case atom.Hr:
			flush()
			blocks = append(blocks, Node{Type: NodeHorizontalRule})
		default:
			if containsBlock(n) {
				flush()
				blocks = append(blocks, convertBlocks(childNodes(n))...)
				continue
			}
			run = append(run, n)
		}
	}
	flush()
	return blocks
}

func convertList(ul *html.Node) Node {
	list := Node{Type: NodeList, Tag: "ul", ListType: "bullet", Children: []Node{}}
	for li := ul.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.DataAtom != atom.Li {
			continue
		}
		inline := trimEdges(convertInline(unwrapParagraphs(childNodes(li))))
		list.Children = append(list.Children, Node{
			Type:     NodeListItem,
			Value:    len(list.Children) + 1,
			Children: []Node{Paragraph(inline...)},
		})
	}
	return list
}

// unwrapParagraphs replaces <p> wrappers inside a list item by their
// children.
func unwrapParagraphs(nodes []*html.Node) []*html.Node {
	var out []*html.Node
	for _, n := range nodes {
		if n.Type == html.ElementNode && n.DataAtom == atom.P {
			out = append(out, childNodes(n)...)
			continue
		}
		out = append(out, n)
	}
	return out
}

// convertInline produces inline nodes for a sequence of siblings.
// Emphasis is flattened to a single style flag taken from the outermost tag.
func convertInline(nodes []*html.Node) []Node {
	var out []Node
	for _, n := range nodes {
		switch n.Type {
		case html.TextNode:
			out = appendText(out, n.Data, 0)
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Br:
				out = append(out, Node{Type: NodeLineBreak})
			case atom.A:
				out = append(out, Node{
					Type:     NodeLink,
					Children: []Node{Text(textOf(n), 0)},
					Link: &LinkFields{
						LinkType: "custom",
						URL:      attr(n, "href"),
						NewTab:   true,
					},
				})
			case atom.Strong, atom.B, atom.Em, atom.I, atom.U:
				if t := textOf(n); t != "" {
					out = append(out, Text(t, formatOf(n.DataAtom)))
				}
			case atom.Script, atom.Style:
			default:
				for _, c := range convertInline(childNodes(n)) {
					if c.Type == NodeText && c.Format == 0 {
						out = appendText(out, c.Text, 0)
						continue
					}
					out = append(out, c)
				}
			}
		}
	}
	return out
}

// appendText adds a text node, merging it into a preceding unstyled text
// node when both are unstyled.
func appendText(out []Node, s string, format TextFormat) []Node {
	if s == "" {
		return out
	}
	if format == 0 && len(out) > 0 {
		last := &out[len(out)-1]
		if last.Type == NodeText && last.Format == 0 {
			last.Text += s
			return out
		}
	}
	return append(out, Text(s, format))
}

// trimEdges removes leading and trailing whitespace from the first and last
// text nodes, dropping them when nothing is left.
func trimEdges(nodes []Node) []Node {
	for len(nodes) > 0 && nodes[0].Type == NodeText {
		nodes[0].Text = strings.TrimLeft(nodes[0].Text, " \t\r\n")
		if nodes[0].Text != "" {
			break
		}
		nodes = nodes[1:]
	}
	for len(nodes) > 0 && nodes[len(nodes)-1].Type == NodeText {
		last := &nodes[len(nodes)-1]
		last.Text = strings.TrimRight(last.Text, " \t\r\n")
		if last.Text != "" {
			break
		}
		nodes = nodes[:len(nodes)-1]
	}
	return nodes
}

func formatOf(a atom.Atom) TextFormat {
	switch a {
	case atom.Strong, atom.B:
		return FormatBold
	case atom.Em, atom.I:
		return FormatItalic
	case atom.U:
		return FormatUnderline
	}
	return 0
}

// containsBlock reports whether n has a recognized block element below it.
func containsBlock(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Ul, atom.Hr:
			return true
		}
		if containsBlock(c) {
			return true
		}
	}
	return false
}

func childNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func textOf(n *html.Node) string {
	return goquery.NewDocumentFromNode(n).Text()
}

func textOfNodes(nodes []*html.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			continue
		}
		b.WriteString(textOf(n))
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
