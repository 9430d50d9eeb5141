package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// AllowedExtensions are the audio formats the service accepts, without dots.
var AllowedExtensions = []string{"mp3", "wav", "m4a", "flac", "aac", "ogg"}

// ErrUnsupportedFormat is returned for files whose extension is not allowed.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Extension returns the lowercased text after the last dot in the base name,
// or "" when there is none.
func Extension(name string) string {
	base := filepath.Base(name)
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		return strings.ToLower(base[i+1:])
	}
	return ""
}

// IsAllowed reports whether name has an allowed audio extension.
func IsAllowed(name string) bool {
	ext := Extension(name)
	for _, a := range AllowedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}

// CheckExtension returns ErrUnsupportedFormat (wrapped with the name) when
// name is not an allowed audio file.
func CheckExtension(name string) error {
	if !IsAllowed(name) {
		return fmt.Errorf("%w: %s (allowed: %s)", ErrUnsupportedFormat, filepath.Base(name), strings.Join(AllowedExtensions, ", "))
	}
	return nil
}

// CheckFile validates the extension and that path is a readable regular file.
// It returns the file size.
func CheckFile(path string) (int64, error) {
	if err := CheckExtension(path); err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("accessing %s: %w", path, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", path)
	}
	return info.Size(), nil
}

// Expand resolves each pattern (plain paths or doublestar globs such as
// "recordings/**/*.mp3") into a sorted, de-duplicated list of audio files.
// A plain path with an unsupported extension is an error; glob matches with
// unsupported extensions are skipped.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		if !hasMeta(pattern) {
			if err := CheckExtension(pattern); err != nil {
				return nil, err
			}
			if !seen[pattern] {
				seen[pattern] = true
				files = append(files, pattern)
			}
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !IsAllowed(m) || seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no audio files match %s", strings.Join(patterns, " "))
	}
	sort.Strings(files)
	return files, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
