// Package wordlist loads line-oriented word lists.
//
// Two lists are bundled into the binary: a default dictionary of path
// templates and a list of browser user-agent strings. Both are read with the
// same rules as user supplied files: every line is trimmed, and blank lines
// and lines starting with '#' are skipped.
package wordlist
