// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package isbn turns free-form user input into ISBN candidates and
// classifies them by lexical pattern. No checksum is verified.
package isbn

import "strings"

// Parse splits raw text on commas and newlines and trims each piece.
// Empty pieces produced by consecutive separators are kept so that
// positions reported back to the user match what they typed. Empty
// input yields a single empty candidate.
func Parse(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == ',' || text[i] == '\n' {
			out = append(out, strings.TrimSpace(text[start:i]))
			start = i + 1
		}
	}
	return append(out, strings.TrimSpace(text[start:]))
}
