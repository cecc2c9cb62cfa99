// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package projects

import (
	"strings"
)

// Segment is a run of text that either matches the search term or not.
type Segment struct {
	Text  string
	Match bool
}

// Highlight splits text around case-insensitive occurrences of term. The
// term is matched literally; a blank term yields the whole text unmatched.
func Highlight(text, term string) []Segment {
	term = strings.TrimSpace(term)
	if term == "" || text == "" {
		return []Segment{{Text: text}}
	}

	src := []rune(text)
	needle := []rune(term)
	var segs []Segment
	plainStart := 0

	for i := 0; i+len(needle) <= len(src); {
		if !strings.EqualFold(string(src[i:i+len(needle)]), term) {
			i++
			continue
		}
		if plainStart < i {
			segs = append(segs, Segment{Text: string(src[plainStart:i])})
		}
		segs = append(segs, Segment{Text: string(src[i : i+len(needle)]), Match: true})
		i += len(needle)
		plainStart = i
	}
	if plainStart < len(src) {
		segs = append(segs, Segment{Text: string(src[plainStart:])})
	}
	return segs
}

// HasMatch reports whether any segment matched.
func HasMatch(segs []Segment) bool {
	for _, s := range segs {
		if s.Match {
			return true
		}
	}
	return false
}
