// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package richtext

import (
	"html"
	"strings"
)

// ToHTML renders the document as an HTML fragment. All text and attribute
// values are escaped.
func (d Document) ToHTML() string {
	var b strings.Builder
	for _, n := range d.Blocks() {
		renderNode(&b, n)
	}
	return b.String()
}

// PlainText returns the document text with blocks separated by blank lines.
func (d Document) PlainText() string {
	parts := make([]string, 0, len(d.Blocks()))
	for _, n := range d.Blocks() {
		var b strings.Builder
		writeText(&b, n)
		if s := strings.TrimSpace(b.String()); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func renderNode(b *strings.Builder, n Node) {
	switch n.Type {
	case NodeParagraph:
		b.WriteString("<p>")
		renderChildren(b, n)
		b.WriteString("</p>")
	case NodeHeading:
		tag := n.Tag
		if tag == "" {
			tag = "h2"
		}
		b.WriteString("<" + tag + ">")
		renderChildren(b, n)
		b.WriteString("</" + tag + ">")
	case NodeList:
		b.WriteString("<ul>")
		renderChildren(b, n)
		b.WriteString("</ul>")
	case NodeListItem:
		b.WriteString("<li>")
		// List items wrap a single paragraph; render its inline content only.
		for _, c := range n.Children {
			if c.Type == NodeParagraph {
				renderChildren(b, c)
				continue
			}
			renderNode(b, c)
		}
		b.WriteString("</li>")
	case NodeHorizontalRule:
		b.WriteString("<hr>")
	case NodeLineBreak:
		b.WriteString("<br>")
	case NodeLink:
		url := ""
		if n.Link != nil {
			url = n.Link.URL
		}
		b.WriteString(`<a href="` + html.EscapeString(url) + `"`)
		if n.Link != nil && n.Link.NewTab {
			b.WriteString(` target="_blank" rel="noopener"`)
		}
		b.WriteString(">")
		renderChildren(b, n)
		b.WriteString("</a>")
	case NodeText:
		renderText(b, n)
	default:
		renderChildren(b, n)
	}
}

func renderChildren(b *strings.Builder, n Node) {
	for _, c := range n.Children {
		renderNode(b, c)
	}
}

func renderText(b *strings.Builder, n Node) {
	var open, closing []string
	if n.Format&FormatBold != 0 {
		open = append(open, "<strong>")
		closing = append([]string{"</strong>"}, closing...)
	}
	if n.Format&FormatItalic != 0 {
		open = append(open, "<em>")
		closing = append([]string{"</em>"}, closing...)
	}
	if n.Format&FormatUnderline != 0 {
		open = append(open, "<u>")
		closing = append([]string{"</u>"}, closing...)
	}
	b.WriteString(strings.Join(open, ""))
	b.WriteString(html.EscapeString(n.Text))
	b.WriteString(strings.Join(closing, ""))
}

func writeText(b *strings.Builder, n Node) {
	switch n.Type {
	case NodeText:
		b.WriteString(n.Text)
	case NodeLineBreak:
		b.WriteString("\n")
	case NodeListItem:
		b.WriteString("- ")
		for _, c := range n.Children {
			writeText(b, c)
		}
		b.WriteString("\n")
	default:
		for _, c := range n.Children {
			writeText(b, c)
		}
	}
}
