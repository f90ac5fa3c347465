package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TagSeparator joins tags in the store's single-column representation.
const TagSeparator = ","

// Tags is an ordered tag list. It decodes from either a JSON array of strings
// or an already comma-joined string.
type Tags []string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tags) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("tags: expected array or string: %w", err)
	}
	*t = SplitTags(joined)
	return nil
}

// SplitTags parses a comma-joined tag column. Parts are trimmed and empty
// parts are dropped.
func SplitTags(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, TagSeparator) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinTags serializes tags for the store without added spacing.
func JoinTags(tags []string) string {
	return strings.Join(tags, TagSeparator)
}

// NormalizeTags lowercases and trims tags, dropping empties and duplicates
// while keeping first-seen order. A tag holding the separator is split into
// its parts, since the store could not tell it apart from two tags.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, raw := range tags {
		for _, tag := range strings.Split(raw, TagSeparator) {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag == "" {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}
