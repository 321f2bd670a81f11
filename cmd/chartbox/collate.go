package main

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mmcdole/chartbox/internal/domain"
)

// sortFolderNames orders folder names for display: the default folder
// first, the rest by locale-aware, case-insensitive collation.
func sortFolderNames(names []string) []string {
	out := slices.Clone(names)
	var custom []string
	hasDefault := false
	for _, n := range out {
		if n == domain.DefaultFolder {
			hasDefault = true
			continue
		}
		custom = append(custom, n)
	}
	collate.New(language.Und, collate.IgnoreCase).SortStrings(custom)
	if hasDefault {
		return append([]string{domain.DefaultFolder}, custom...)
	}
	return custom
}
