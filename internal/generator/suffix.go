package generator

import "strings"

// Suffixes builds the ordered suffix set.
//
// When empty is true the set starts with "" and "/". Each comma separated
// token of list is then trimmed and appended as "." + token. Blank tokens
// are skipped. If nothing was added at all the set is [""], so every stem is
// still emitted once.
func Suffixes(list string, empty bool) []string {
	var suffixes []string
	if empty {
		suffixes = append(suffixes, "", "/")
	}
	for token := range strings.SplitSeq(list, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		suffixes = append(suffixes, "."+token)
	}
	if len(suffixes) == 0 {
		suffixes = []string{""}
	}
	return suffixes
}
