package utils

import "strings"

// SplitDisplayName splits a display name on the first space:
// "Ana Maria Lopez" gives ("Ana", "Maria Lopez"); a single word has no last name.
func SplitDisplayName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	first, last, _ = strings.Cut(name, " ")
	return first, strings.TrimSpace(last)
}
