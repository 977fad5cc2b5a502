// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// maxLen caps slug length; long titles get truncated at a word boundary so
// URLs stay readable and leave room for a collision suffix.
const maxLen = 80

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2024" → "hello-world-2024"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > maxLen {
		cut := result[:maxLen]
		if i := strings.LastIndex(cut, "-"); i > 0 {
			cut = cut[:i]
		}
		result = strings.TrimRight(cut, "-")
	}
	return result
}
