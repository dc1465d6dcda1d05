package figure

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// FindFigures walks dir and returns, in lexical order, the files whose base
// name matches pattern and whose extension names a supported format. Hidden
// files and directories are skipped. Subdirectories are only descended into
// when recursive is set.
func FindFigures(dir, pattern string, recursive bool) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, err
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		if d.IsDir() {
			if !recursive || isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsFigureFile(path) {
			if matched, _ := filepath.Match(pattern, d.Name()); matched {
				files = append(files, path)
			}
		}
		return nil
	})
	return files, err
}

// IsFigureFile reports whether path names a visible file with a supported
// figure extension.
func IsFigureFile(path string) bool {
	if isHidden(filepath.Base(path)) {
		return false
	}
	_, ok := MimeTypeFromPath(path)
	return ok
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
