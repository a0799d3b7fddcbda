package domain

import (
	"sort"
	"strings"
)

// TagID represents the persisted-store primary key of a taxonomy label.
type TagID int64

// TagKind distinguishes the two taxonomy catalogs.
type TagKind string

const (
	TagKindMacro TagKind = "macro"
	TagKindMicro TagKind = "micro"
)

// Label is one row of a taxonomy catalog (macros or micros). Labels are
// created lazily the first time they appear in a desired tag set and are
// never deleted.
type Label struct {
	ID    TagID  `json:"id"`
	Label string `json:"label"`
}

// Link is one persisted many-to-many row associating an entity with a
// taxonomy label. At most one link exists per (entity, tag) pair.
type Link struct {
	EntityID EntityID
	TagID    TagID
}

// ParseTagList normalizes a tag-list value arriving from the edit grid.
// Values show up in three shapes depending on the widget that produced
// them: a list of strings, a comma-delimited string, or a bracketed list
// string. The result is trimmed, deduplicated and free of empty entries.
// This runs once at the request boundary; the sync core only ever sees
// []string.
func ParseTagList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return cleanLabels(t)
	case []any:
		items := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
		return cleanLabels(items)
	case string:
		s := strings.TrimSpace(t)
		if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
			s = s[1 : len(s)-1]
		}
		if s == "" {
			return nil
		}
		return cleanLabels(strings.Split(s, ","))
	default:
		return nil
	}
}

func cleanLabels(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		label := strings.Trim(strings.TrimSpace(item), `"'`)
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}

// SortedLabels returns a sorted copy of labels. Snapshots and change
// detection always compare sorted lists so that grid ordering never
// registers as a change.
func SortedLabels(labels []string) []string {
	out := make([]string, len(labels))
	copy(out, labels)
	sort.Strings(out)
	return out
}
