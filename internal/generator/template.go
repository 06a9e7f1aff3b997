package generator

import "strings"

// placeholderDelim opens and closes a placeholder token.
const placeholderDelim = '%'

// Tokenize splits a dictionary line into literal and placeholder tokens.
// The line is scanned byte by byte, so bytes that are not valid UTF-8 are
// kept as they are.
//
// Outside a placeholder, characters collect into a literal until a '%'
// starts a placeholder. Inside a placeholder, characters collect until the
// next '%', which closes it; both delimiters stay part of the token.
// Whatever remains at the end of the line becomes a trailing token.
// Whether a "%NAME%" token is a known placeholder is decided at expansion.
func Tokenize(line string) []string {
	var (
		tokens      []string
		buf         strings.Builder
		placeholder bool
	)

	for i := range len(line) {
		c := line[i]
		if c != placeholderDelim {
			buf.WriteByte(c)
			continue
		}
		if !placeholder {
			if buf.Len() > 0 {
				tokens = append(tokens, buf.String())
				buf.Reset()
			}
			buf.WriteByte(c)
			placeholder = true
			continue
		}
		buf.WriteByte(c)
		tokens = append(tokens, buf.String())
		buf.Reset()
		placeholder = false
	}
	if buf.Len() > 0 {
		tokens = append(tokens, buf.String())
	}
	return tokens
}

// ExpandFunc expands tokens left to right and emits every resulting
// candidate. A token found in pools multiplies the partial candidates by its
// pool in pool order; any other token is appended as literal text.
// Candidates are streamed, so large products are never held in memory.
// It returns false if emit asked to stop.
func ExpandFunc(tokens []string, pools Pools, emit func(string) bool) bool {
	if len(tokens) == 0 {
		return true
	}
	return expand(tokens, pools, "", emit)
}

func expand(tokens []string, pools Pools, prefix string, emit func(string) bool) bool {
	if len(tokens) == 0 {
		return emit(prefix)
	}

	token, rest := tokens[0], tokens[1:]
	pool, ok := pools[token]
	if !ok {
		return expand(rest, pools, prefix+token, emit)
	}
	for _, value := range pool {
		if !expand(rest, pools, prefix+value, emit) {
			return false
		}
	}
	return true
}

// PrepareLine applies the dictionary line rules before tokenizing: blank
// and comment lines are rejected and one leading '/' is removed.
func PrepareLine(line string) (string, bool) {
	if line == "" || strings.HasPrefix(line, "#") {
		return "", false
	}
	return strings.TrimPrefix(line, "/"), true
}
