// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts Markdown source text into HTML using goldmark.
// Mail bodies are authored in Markdown; the rendered HTML becomes the HTML
// part and the source itself the plain-text part.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,   // event detail tables in confirmation mails
		extension.Linkify, // bare URLs in footers
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(), // address blocks rely on single line breaks
		html.WithUnsafe(),    // newsletter bodies embed pre-rendered HTML
	),
)

// ToHTML converts Markdown source into HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
