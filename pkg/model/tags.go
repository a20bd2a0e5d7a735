package model

import "slices"

// Tag sets are small ordered slices; insertion order is preserved and
// duplicates are never stored.

func addTag(tags []string, tag string) ([]string, bool) {
	if slices.Contains(tags, tag) {
		return tags, false
	}
	return append(tags, tag), true
}

func removeTag(tags []string, tag string) ([]string, bool) {
	i := slices.Index(tags, tag)
	if i < 0 {
		return tags, false
	}
	return slices.Delete(tags, i, i+1), true
}

func containsAll(tags, want []string) bool {
	for _, tag := range want {
		if !slices.Contains(tags, tag) {
			return false
		}
	}
	return true
}

func cloneTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	return slices.Clone(tags)
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
