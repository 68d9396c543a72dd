package suggestions

import (
	"regexp"
	"strings"

	prose "github.com/jdkato/prose/v2"
)

var (
	numberedItem = regexp.MustCompile(`(?m)^\s*\d+[\.\)]\s+`)
	bulletItem   = regexp.MustCompile(`(?m)^\s*[-*\x{2022}]\s+`)
)

// Split breaks a block of suggestion text into individual suggestions.
// Numbered lists win over bullet lists; prose without list markers is
// segmented into sentences, with whole-text as the last resort.
func Split(content string) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	if items := splitOn(content, numberedItem); len(items) > 1 {
		return items
	}
	if items := splitOn(content, bulletItem); len(items) > 1 {
		return items
	}
	if sentences := splitSentences(content); len(sentences) > 1 {
		return sentences
	}
	return []string{content}
}

func splitOn(content string, marker *regexp.Regexp) []string {
	locs := marker.FindAllStringIndex(content, -1)
	if len(locs) == 0 {
		return nil
	}

	items := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(content)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		item := strings.TrimSpace(content[loc[1]:end])
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func splitSentences(content string) []string {
	doc, err := prose.NewDocument(content,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil
	}

	sentences := doc.Sentences()
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if trimmed := strings.TrimSpace(s.Text); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
