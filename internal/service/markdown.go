// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Descriptions are written by staff and pasted from JSON imports, so the
// rendered HTML is sanitized with bluemonday's UGCPolicy.
var (
	descriptionMarkdown  = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))
	descriptionSanitizer = bluemonday.UGCPolicy()
)

// RenderDescription converts a package description from Markdown to
// sanitized HTML. Plain text comes back as a single paragraph.
func RenderDescription(src string) string {
	var buf bytes.Buffer
	if err := descriptionMarkdown.Convert([]byte(src), &buf); err != nil {
		slog.Warn("failed to render description", "error", err)
		return descriptionSanitizer.Sanitize("<p>" + src + "</p>")
	}
	return descriptionSanitizer.Sanitize(buf.String())
}
