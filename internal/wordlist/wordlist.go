package wordlist

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

//go:embed data/default.txt data/user-agents.txt
var bundled embed.FS

// commentPrefix marks a line that is ignored.
const commentPrefix = "#"

// ReadLines reads r and returns every trimmed, non-blank, non-comment line
// in order.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	// Lines longer than 1 MiB fail with bufio.ErrTooLong.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// Default returns the bundled dictionary lines.
func Default() []string {
	return mustReadBundled("data/default.txt")
}

// UserAgents returns the bundled user-agent strings.
func UserAgents() []string {
	return mustReadBundled("data/user-agents.txt")
}

// Source describes where dictionary lines came from.
type Source struct {
	// Lines are the usable dictionary lines.
	Lines []string

	// Path is the file that was read. Empty when the bundled list was used.
	Path string

	// Err is why a configured file was not used. It is nil when the file was
	// read, and when no file exists at the configured path.
	Err error
}

// Bundled reports whether the bundled dictionary was used.
func (s Source) Bundled() bool {
	return s.Path == ""
}

// Load reads the dictionary at path.
//
// The bundled dictionary is returned instead when path is empty, when no
// file exists at path, or when the file cannot be read; in the last case
// Source.Err holds the cause. Load never fails.
func Load(path string) Source {
	if path == "" {
		return Source{Lines: Default()}
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Source{Lines: Default()}
		}
		return fallback(fmt.Errorf("failed to stat dictionary %s: %w", path, err))
	}
	if info.IsDir() {
		return fallback(fmt.Errorf("dictionary %s is a directory", path))
	}

	f, err := os.Open(path) //nolint:gosec // User-provided dictionary path is intentional
	if err != nil {
		return fallback(fmt.Errorf("failed to open dictionary %s: %w", path, err))
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return fallback(fmt.Errorf("failed to read dictionary %s: %w", path, err))
	}
	return Source{Lines: lines, Path: path}
}

func fallback(err error) Source {
	return Source{Lines: Default(), Err: err}
}

// mustReadBundled reads an embedded list. The files are compiled into the
// binary, so a failure here is a build defect.
func mustReadBundled(name string) []string {
	f, err := bundled.Open(name)
	if err != nil {
		panic(fmt.Sprintf("bundled word list %s missing: %v", name, err))
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		panic(fmt.Sprintf("bundled word list %s unreadable: %v", name, err))
	}
	return lines
}
