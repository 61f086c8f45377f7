// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package richtext models rich text as a structured document tree and
// converts legacy HTML fragments into that tree. The JSON form matches the
// editor format used by the content store (root → blocks → inline nodes).
package richtext

import (
	"encoding/json"
	"fmt"
)

// NodeType identifies the kind of a document node.
type NodeType string

const (
	NodeRoot           NodeType = "root"
	NodeParagraph      NodeType = "paragraph"
	NodeHeading        NodeType = "heading"
	NodeList           NodeType = "list"
	NodeListItem       NodeType = "listitem"
	NodeHorizontalRule NodeType = "horizontalrule"
	NodeText           NodeType = "text"
	NodeLineBreak      NodeType = "linebreak"
	NodeLink           NodeType = "link"
)

// TextFormat is the bitmask of inline styles carried by a text node.
type TextFormat int

const (
	FormatBold      TextFormat = 1
	FormatItalic    TextFormat = 2
	FormatUnderline TextFormat = 8
)

// LinkFields holds the link target of a link node.
type LinkFields struct {
	LinkType string `json:"linkType"`
	URL      string `json:"url"`
	NewTab   bool   `json:"newTab"`
}

// Node is a single element of the document tree. Which fields are
// meaningful depends on Type: Tag for headings and lists, Text and Format
// for text nodes, Link for link nodes.
type Node struct {
	Type     NodeType
	Children []Node
	Tag      string
	ListType string
	Text     string
	Format   TextFormat
	Link     *LinkFields
	Value    int
}

// Document is a rich text value. A well-formed document always holds at
// least one block under its root.
type Document struct {
	Root Node
}

// Blocks returns the top-level block nodes of the document.
func (d Document) Blocks() []Node {
	return d.Root.Children
}

// Paragraph builds a paragraph node with the given inline children.
func Paragraph(children ...Node) Node {
	return Node{Type: NodeParagraph, Children: nonNil(children)}
}

// Text builds a text node.
func Text(s string, format TextFormat) Node {
	return Node{Type: NodeText, Text: s, Format: format}
}

// Empty returns the minimal document: one paragraph without children.
func Empty() Document {
	return newDocument([]Node{Paragraph()})
}

func newDocument(blocks []Node) Document {
	return Document{Root: Node{Type: NodeRoot, Children: nonNil(blocks)}}
}

func nonNil(nodes []Node) []Node {
	if nodes == nil {
		return []Node{}
	}
	return nodes
}

// wireNode is the serialized form of a node. Element nodes carry an empty
// string format while text nodes carry the numeric style bitmask, so the
// format field is kept raw.
type wireNode struct {
	Type       NodeType        `json:"type"`
	Children   *[]wireNode     `json:"children,omitempty"`
	Direction  string          `json:"direction,omitempty"`
	Format     json.RawMessage `json:"format,omitempty"`
	Indent     *int            `json:"indent,omitempty"`
	Version    int             `json:"version"`
	Tag        string          `json:"tag,omitempty"`
	ListType   string          `json:"listType,omitempty"`
	Start      int             `json:"start,omitempty"`
	Value      int             `json:"value,omitempty"`
	TextFormat *int            `json:"textFormat,omitempty"`
	TextStyle  *string         `json:"textStyle,omitempty"`
	Text       *string         `json:"text,omitempty"`
	Detail     *int            `json:"detail,omitempty"`
	Mode       string          `json:"mode,omitempty"`
	Style      *string         `json:"style,omitempty"`
	Fields     *LinkFields     `json:"fields,omitempty"`
}

var emptyFormat = json.RawMessage(`""`)

func toWire(n Node) wireNode {
	zero := 0
	empty := ""
	w := wireNode{Type: n.Type, Version: 1}

	switch n.Type {
	case NodeText:
		text := n.Text
		w.Text = &text
		w.Format = json.RawMessage(fmt.Sprintf("%d", n.Format))
		w.Detail = &zero
		w.Mode = "normal"
		w.Style = &empty
		return w
	case NodeLineBreak, NodeHorizontalRule:
		return w
	}

	// Element nodes.
	w.Direction = "ltr"
	w.Format = emptyFormat
	w.Indent = &zero
	children := make([]wireNode, 0, len(n.Children))
	for _, c := range n.Children {
		children = append(children, toWire(c))
	}
	w.Children = &children

	switch n.Type {
	case NodeParagraph:
		w.TextFormat = &zero
		w.TextStyle = &empty
	case NodeHeading:
		w.Tag = n.Tag
	case NodeList:
		w.Tag = n.Tag
		w.ListType = n.ListType
		w.Start = 1
	case NodeListItem:
		w.Value = n.Value
	case NodeLink:
		w.Version = 3
		w.Fields = n.Link
	}
	return w
}

func fromWire(w wireNode) Node {
	n := Node{
		Type:     w.Type,
		Tag:      w.Tag,
		ListType: w.ListType,
		Value:    w.Value,
		Link:     w.Fields,
	}
	if w.Text != nil {
		n.Text = *w.Text
	}
	if w.Type == NodeText && len(w.Format) > 0 {
		var f int
		if err := json.Unmarshal(w.Format, &f); err == nil {
			n.Format = TextFormat(f)
		}
	}
	if w.Children != nil {
		n.Children = make([]Node, 0, len(*w.Children))
		for _, c := range *w.Children {
			n.Children = append(n.Children, fromWire(c))
		}
	}
	return n
}

// MarshalJSON encodes the document as {"root": {...}}.
func (d Document) MarshalJSON() ([]byte, error) {
	root := d.Root
	if root.Type == "" {
		root = Empty().Root
	}
	return json.Marshal(struct {
		Root wireNode `json:"root"`
	}{Root: toWire(root)})
}

// UnmarshalJSON decodes a document previously produced by MarshalJSON.
func (d *Document) UnmarshalJSON(data []byte) error {
	var aux struct {
		Root wireNode `json:"root"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("decode rich text: %w", err)
	}
	d.Root = fromWire(aux.Root)
	if d.Root.Type == "" {
		*d = Empty()
	}
	return nil
}
